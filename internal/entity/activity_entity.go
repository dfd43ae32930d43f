package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NoteActivity struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      string
	EntityId  *uuid.UUID
	Payload   json.RawMessage
	CreatedAt time.Time
}
