package mapper

import (
	"encoding/json"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"

	"gorm.io/datatypes"
)

type NoteActivityMapper struct{}

func NewNoteActivityMapper() *NoteActivityMapper {
	return &NoteActivityMapper{}
}

func (m *NoteActivityMapper) ToEntity(a *model.NoteActivity) *entity.NoteActivity {
	if a == nil {
		return nil
	}
	return &entity.NoteActivity{
		Id:        a.Id,
		UserId:    a.UserId,
		Type:      a.Type,
		EntityId:  a.EntityId,
		Payload:   json.RawMessage(a.Payload),
		CreatedAt: a.CreatedAt,
	}
}

func (m *NoteActivityMapper) ToModel(a *entity.NoteActivity) *model.NoteActivity {
	if a == nil {
		return nil
	}
	return &model.NoteActivity{
		Id:        a.Id,
		UserId:    a.UserId,
		Type:      a.Type,
		EntityId:  a.EntityId,
		Payload:   datatypes.JSON(a.Payload),
		CreatedAt: a.CreatedAt,
	}
}
