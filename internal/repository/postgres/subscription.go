package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
)

type SubscriptionRepo struct {
	DB DBTX
}

const subscribe = `-- name: Subscribe
INSERT INTO subscriptions (id, subscriber_id, channel_id)
VALUES ($1, $2, $3)
ON CONFLICT (subscriber_id, channel_id) DO NOTHING
`

const unsubscribe = `-- name: Unsubscribe
DELETE FROM subscriptions
WHERE subscriber_id = $1 AND channel_id = $2
`

// Toggle subscribes when no subscription exists yet and unsubscribes
// otherwise. Returns true if the subscription was added
func (r *SubscriptionRepo) Toggle(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) (bool, error) {
	tag, err := r.DB.Exec(ctx, subscribe, uuid.New(), subscriberID, channelID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return false, apperrors.ErrSelfSubscription
		}

		return false, fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	_, err = r.DB.Exec(ctx, unsubscribe, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return false, nil
}

const listChannelSubscribers = `-- name: ListChannelSubscribers
SELECT u.id, u.created_at, u.updated_at, u.username, u.email, u.full_name,
    u.avatar_url, u.avatar_key, u.cover_image_url, u.cover_image_key, u.password_hash, u.refresh_token
FROM subscriptions s
JOIN users u ON u.id = s.subscriber_id
WHERE s.channel_id = $1
ORDER BY s.created_at DESC
`

func (r *SubscriptionRepo) ListChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.User, error) {
	rows, _ := r.DB.Query(ctx, listChannelSubscribers, channelID)
	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

const listSubscribedChannels = `-- name: ListSubscribedChannels
SELECT u.id, u.created_at, u.updated_at, u.username, u.email, u.full_name,
    u.avatar_url, u.avatar_key, u.cover_image_url, u.cover_image_key, u.password_hash, u.refresh_token
FROM subscriptions s
JOIN users u ON u.id = s.channel_id
WHERE s.subscriber_id = $1
ORDER BY s.created_at DESC
`

func (r *SubscriptionRepo) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error) {
	rows, _ := r.DB.Query(ctx, listSubscribedChannels, subscriberID)
	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}
