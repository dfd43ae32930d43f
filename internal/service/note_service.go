package service

import (
	"context"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/validation"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
)

const noteResource = "note"

type INoteService interface {
	List(ctx context.Context, userId uuid.UUID, search string) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	now              func() time.Time
}

func NewNoteService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		now:              time.Now,
	}
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID, search string) ([]*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NoteSearchQuery{Query: search},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Internal("list notes", err)
	}

	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, toNoteResponse(n))
	}
	return res, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := findOwnedNote(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	now := c.now().UTC()
	note := entity.Note{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		UserId:    userId,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, apperror.Internal("create note", err)
	}

	res := toNoteResponse(&note)
	c.publisherService.Publish(ctx, newEvent(events.NoteCreated, userId, note.Id, now, noteEventData(res)))
	return res, nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if req.IsEmpty() {
		note, err := findOwnedNote(ctx, uow, userId, id)
		if err != nil {
			return nil, err
		}
		return toNoteResponse(note), nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal("begin transaction", err)
	}
	defer uow.Rollback()

	now := c.now().UTC()
	rows, err := uow.NoteRepository().Update(ctx,
		contract.NoteChanges{Title: req.Title, Content: req.Content, UpdatedAt: now},
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("update note", err)
	}
	if rows == 0 {
		return nil, apperror.NewNotFound(noteResource)
	}

	note, err := findOwnedNote(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal("commit", err)
	}

	res := toNoteResponse(note)
	c.publisherService.Publish(ctx, newEvent(events.NoteUpdated, userId, note.Id, now, noteEventData(res)))
	return res, nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.NoteRepository().Delete(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return apperror.Internal("delete note", err)
	}
	if rows == 0 {
		return apperror.NewNotFound(noteResource)
	}

	c.publisherService.Publish(ctx, newEvent(events.NoteDeleted, userId, id, c.now().UTC(), map[string]interface{}{
		"_id": id.String(),
	}))
	return nil
}

// findOwnedNote makes "absent" and "owned by someone else" the same NotFound.
func findOwnedNote(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("find note", err)
	}
	if note == nil {
		return nil, apperror.NewNotFound(noteResource)
	}
	return note, nil
}

func toNoteResponse(n *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func noteEventData(n *dto.NoteResponse) map[string]interface{} {
	return map[string]interface{}{
		"_id":       n.Id.String(),
		"title":     n.Title,
		"content":   n.Content,
		"createdAt": n.CreatedAt,
		"updatedAt": n.UpdatedAt,
	}
}
