package subscription

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type SubscriptionService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *SubscriptionService {
	return &SubscriptionService{storage: storage}
}

func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) (bool, error) {
	if subscriberID == channelID {
		return false, apperrors.ErrSelfSubscription
	}
	if _, err := s.storage.User().GetUserByID(ctx, channelID); err != nil {
		return false, err
	}

	return s.storage.Subscription().Toggle(ctx, subscriberID, channelID)
}

func (s *SubscriptionService) ChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.User, error) {
	return s.storage.Subscription().ListChannelSubscribers(ctx, channelID)
}

func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error) {
	return s.storage.Subscription().ListSubscribedChannels(ctx, subscriberID)
}
