package models

import (
	"time"

	"github.com/google/uuid"
)

// Like target kinds
const (
	LikeForVideo   = "video"
	LikeForComment = "comment"
	LikeForTweet   = "tweet"
)

// Like references exactly one of VideoID, CommentID or TweetID
// depending on LikeFor
type Like struct {
	ID        uuid.UUID
	CreatedAt time.Time
	LikedBy   uuid.UUID
	LikeFor   string
	VideoID   *uuid.UUID
	CommentID *uuid.UUID
	TweetID   *uuid.UUID
}
