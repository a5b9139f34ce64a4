package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	OwnerID      uuid.UUID
	VideoURL     string
	VideoKey     string
	ThumbnailURL string
	ThumbnailKey string
	Title        string
	Description  string
	Duration     float64 // seconds
	Views        int64
	IsPublished  bool
}

// Aggregated numbers for the owner dashboard
type ChannelStats struct {
	TotalVideos      int64
	TotalViews       int64
	TotalSubscribers int64
	TotalLikes       int64
}

type WatchEntry struct {
	Video     Video
	WatchedAt time.Time
}
