package tweet

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type TweetService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *TweetService {
	return &TweetService{storage: storage}
}

func (s *TweetService) Create(ctx context.Context, ownerID uuid.UUID, content string) (models.Tweet, error) {
	return s.storage.Tweet().CreateTweet(ctx, ownerID, content)
}

func (s *TweetService) ListUserTweets(ctx context.Context, userID uuid.UUID, opts repository.ListOpts) ([]models.Tweet, error) {
	if _, err := s.storage.User().GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.storage.Tweet().ListUserTweets(ctx, userID, opts)
}

func (s *TweetService) Update(ctx context.Context, tweetID uuid.UUID, userID uuid.UUID, content string) (models.Tweet, error) {
	if err := s.checkOwner(ctx, tweetID, userID); err != nil {
		return models.Tweet{}, err
	}

	return s.storage.Tweet().UpdateTweet(ctx, tweetID, content)
}

func (s *TweetService) Delete(ctx context.Context, tweetID uuid.UUID, userID uuid.UUID) error {
	if err := s.checkOwner(ctx, tweetID, userID); err != nil {
		return err
	}

	return s.storage.Tweet().DeleteTweet(ctx, tweetID)
}

func (s *TweetService) checkOwner(ctx context.Context, tweetID uuid.UUID, userID uuid.UUID) error {
	tweet, err := s.storage.Tweet().GetTweetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if tweet.OwnerID != userID {
		return apperrors.ErrNotOwner
	}
	return nil
}
