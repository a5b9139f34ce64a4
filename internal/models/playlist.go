package models

import (
	"time"

	"github.com/google/uuid"
)

type Playlist struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerID     uuid.UUID
	Name        string
	Description string
	Videos      []Video
}
