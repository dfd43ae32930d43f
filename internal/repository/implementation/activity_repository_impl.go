package implementation

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/mapper"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NoteActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteActivityMapper
}

func NewNoteActivityRepository(db *gorm.DB) contract.NoteActivityRepository {
	return &NoteActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteActivityMapper(),
	}
}

func (r *NoteActivityRepositoryImpl) Create(ctx context.Context, activity *entity.NoteActivity) error {
	m := r.mapper.ToModel(activity)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	*activity = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteActivityRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteActivity, error) {
	var models []*model.NoteActivity
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.NoteActivity, 0, len(models))
	for _, m := range models {
		out = append(out, r.mapper.ToEntity(m))
	}
	return out, nil
}
