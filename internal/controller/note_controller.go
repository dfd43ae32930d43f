package controller

import (
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	auth        fiber.Handler
}

func NewNoteController(noteService service.INoteService, verifier serverutils.TokenVerifier) INoteController {
	return &noteController{
		noteService: noteService,
		auth:        serverutils.JwtMiddleware(verifier),
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes", c.auth)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var query dto.ListNotesQuery
	if err := ctx.QueryParser(&query); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.noteService.List(ctx.UserContext(), userId, query.Search)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	userId, id, err := ownerAndNoteID(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Show(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId, id, err := ownerAndNoteID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.UserContext(), userId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	userId, id, err := ownerAndNoteID(ctx)
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.Message("Note deleted successfully"))
}

// ownerAndNoteID treats an unparseable id like any other note the caller does not own.
func ownerAndNoteID(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.NewNotFound("note")
	}
	return userId, id, nil
}
