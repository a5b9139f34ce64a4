package models

import (
	"time"

	"github.com/google/uuid"
)

type Tweet struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	OwnerID   uuid.UUID
	Content   string
	LikeCount int64
}
