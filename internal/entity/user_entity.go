package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	IsGoogleUser bool
	GoogleId     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanUsePassword is false for Google-linked accounts, whose stored hash is a
// placeholder nobody knows.
func (u *User) CanUsePassword() bool {
	return !u.IsGoogleUser
}
