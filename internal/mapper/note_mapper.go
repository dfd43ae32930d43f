package mapper

import (
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}
	return &entity.Note{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		UserId:    n.UserId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}
	return &model.Note{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		UserId:    n.UserId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (m *NoteMapper) ToEntities(models []*model.Note) []*entity.Note {
	out := make([]*entity.Note, 0, len(models))
	for _, n := range models {
		out = append(out, m.ToEntity(n))
	}
	return out
}
