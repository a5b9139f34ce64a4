package like

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type LikeService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *LikeService {
	return &LikeService{storage: storage}
}

// Target existence is checked first so a like on a missing target
// is reported as not found instead of a constraint violation
func (s *LikeService) ToggleVideo(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) (bool, error) {
	if _, err := s.storage.Video().GetVideoByID(ctx, videoID); err != nil {
		return false, err
	}
	return s.storage.Like().Toggle(ctx, userID, models.LikeForVideo, videoID)
}

func (s *LikeService) ToggleComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) (bool, error) {
	if _, err := s.storage.Comment().GetCommentByID(ctx, commentID); err != nil {
		return false, err
	}
	return s.storage.Like().Toggle(ctx, userID, models.LikeForComment, commentID)
}

func (s *LikeService) ToggleTweet(ctx context.Context, userID uuid.UUID, tweetID uuid.UUID) (bool, error) {
	if _, err := s.storage.Tweet().GetTweetByID(ctx, tweetID); err != nil {
		return false, err
	}
	return s.storage.Like().Toggle(ctx, userID, models.LikeForTweet, tweetID)
}

func (s *LikeService) LikedVideos(ctx context.Context, userID uuid.UUID) ([]models.Video, error) {
	return s.storage.Like().ListLikedVideos(ctx, userID)
}
