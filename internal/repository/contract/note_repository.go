package contract

import (
	"context"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"
)

// NoteChanges carries a partial update. Nil fields are left untouched.
type NoteChanges struct {
	Title     *string
	Content   *string
	UpdatedAt time.Time
}

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	// Update and Delete apply specs in the same statement as the write and
	// report how many rows matched, so ownership checks cannot race the mutation.
	Update(ctx context.Context, changes NoteChanges, specs ...specification.Specification) (int64, error)
	Delete(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
