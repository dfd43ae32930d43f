package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

func (r *CreateNoteRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
}

// UpdateNoteRequest is a partial update: absent fields are left untouched.
type UpdateNoteRequest struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=200"`
	Content *string `json:"content" validate:"omitnil,min=1,max=10000"`
}

func (r *UpdateNoteRequest) Normalize() {
	r.Title = trimPtr(r.Title)
	r.Content = trimPtr(r.Content)
}

func (r *UpdateNoteRequest) IsEmpty() bool {
	return r.Title == nil && r.Content == nil
}

type ListNotesQuery struct {
	Search string `query:"search" validate:"max=200"`
}

type NoteResponse struct {
	Id        uuid.UUID `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
