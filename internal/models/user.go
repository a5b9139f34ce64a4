package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string
	Email          string
	FullName       string
	AvatarURL      string
	AvatarKey      string
	CoverImageURL  string
	CoverImageKey  string
	HashedPassword string
	RefreshToken   string
}

// Channel profile of a user as seen by the requesting user
type ChannelProfile struct {
	User              User
	SubscriberCount   int64
	SubscribedToCount int64
	IsSubscribed      bool
}
