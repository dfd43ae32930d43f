package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Content   string    `gorm:"type:text;not null"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_notes_user_updated,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_notes_user_updated,priority:2,sort:desc"`
	User      *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (Note) TableName() string {
	return "notes"
}
