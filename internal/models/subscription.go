package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	SubscriberID uuid.UUID
	ChannelID    uuid.UUID
}
