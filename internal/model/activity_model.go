package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NoteActivity struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type      string     `gorm:"type:varchar(50);not null;index"`
	EntityId  *uuid.UUID `gorm:"type:uuid;index"`
	Payload   datatypes.JSON
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (NoteActivity) TableName() string {
	return "note_activities"
}
