package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	VideoID   uuid.UUID
	OwnerID   uuid.UUID
	Content   string
}
