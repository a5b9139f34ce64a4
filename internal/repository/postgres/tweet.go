package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type TweetRepo struct {
	DB DBTX
}

const tweetColumns = `id, created_at, updated_at, owner_id, content`

const createTweet = `-- name: CreateTweet
INSERT INTO tweets (id, owner_id, content)
VALUES ($1, $2, $3)
RETURNING ` + tweetColumns

func (r *TweetRepo) CreateTweet(ctx context.Context, ownerID uuid.UUID, content string) (models.Tweet, error) {
	rows, _ := r.DB.Query(ctx, createTweet, uuid.New(), ownerID, content)
	tweet, err := pgx.CollectOneRow(rows, rowToTweet)
	if err != nil {
		return tweet, fmt.Errorf("db error: %w", err)
	}

	return tweet, nil
}

const getTweetByID = `-- name: GetTweetByID
SELECT ` + tweetColumns + `
FROM tweets
WHERE id = $1
`

func (r *TweetRepo) GetTweetByID(ctx context.Context, tweetID uuid.UUID) (models.Tweet, error) {
	rows, _ := r.DB.Query(ctx, getTweetByID, tweetID)
	return collectTweet(rows)
}

const listUserTweets = `-- name: ListUserTweets
SELECT t.id, t.created_at, t.updated_at, t.owner_id, t.content, count(l.id) AS like_count
FROM tweets t
LEFT JOIN likes l ON l.tweet_id = t.id
WHERE t.owner_id = $1
GROUP BY t.id
ORDER BY
    CASE WHEN $2 THEN t.created_at END ASC,
    CASE WHEN NOT $2 THEN t.created_at END DESC
LIMIT NULLIF($3, 0) OFFSET $4
`

func (r *TweetRepo) ListUserTweets(ctx context.Context, userID uuid.UUID, opts repository.ListOpts) ([]models.Tweet, error) {
	rows, _ := r.DB.Query(ctx, listUserTweets, userID, opts.Oldest, opts.Limit, opts.Offset)
	tweets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Tweet, error) {
		var t models.Tweet
		err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.OwnerID, &t.Content, &t.LikeCount)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tweets, nil
}

const updateTweet = `-- name: UpdateTweet
UPDATE tweets
SET content = $2, updated_at = clock_timestamp()
WHERE id = $1
RETURNING ` + tweetColumns

func (r *TweetRepo) UpdateTweet(ctx context.Context, tweetID uuid.UUID, content string) (models.Tweet, error) {
	rows, _ := r.DB.Query(ctx, updateTweet, tweetID, content)
	return collectTweet(rows)
}

const deleteTweet = `-- name: DeleteTweet
DELETE FROM tweets
WHERE id = $1
`

// Likes on the tweet go away via ON DELETE CASCADE
func (r *TweetRepo) DeleteTweet(ctx context.Context, tweetID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteTweet, tweetID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTweetNotFound
	}

	return nil
}

func collectTweet(rows pgx.Rows) (models.Tweet, error) {
	tweet, err := pgx.CollectOneRow(rows, rowToTweet)

	switch {
	case err == nil:
		return tweet, nil
	case errors.Is(err, pgx.ErrNoRows):
		return tweet, apperrors.ErrTweetNotFound
	default:
		return tweet, fmt.Errorf("db error: %w", err)
	}
}

func rowToTweet(row pgx.CollectableRow) (models.Tweet, error) {
	var t models.Tweet
	err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.OwnerID, &t.Content)
	return t, err
}
