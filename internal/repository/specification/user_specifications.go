package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// ByEmail expects an already normalised address.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByGoogleID struct {
	GoogleID string
}

func (s ByGoogleID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("google_id = ?", s.GoogleID)
}

// UserOwnedBy scopes any user-owned table to one owner.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByActivityType struct {
	Type string
}

func (s ByActivityType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}
