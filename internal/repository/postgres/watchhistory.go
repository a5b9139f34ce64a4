package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type WatchHistoryRepo struct {
	DB DBTX
}

const addWatch = `-- name: AddWatch
INSERT INTO watch_history (user_id, video_id)
VALUES ($1, $2)
`

func (r *WatchHistoryRepo) AddWatches(ctx context.Context, watches []repository.WatchParams) error {
	if len(watches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, w := range watches {
		batch.Queue(addWatch, w.UserID, w.VideoID)
	}

	err := r.DB.SendBatch(ctx, batch).Close()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const listUserHistory = `-- name: ListUserHistory
SELECT v.id, v.created_at, v.updated_at, v.owner_id, v.video_url, v.video_key,
    v.thumbnail_url, v.thumbnail_key, v.title, v.description, v.duration, v.views, v.is_published,
    wh.watched_at
FROM watch_history wh
JOIN videos v ON v.id = wh.video_id
WHERE wh.user_id = $1
ORDER BY wh.watched_at DESC
LIMIT NULLIF($2, 0)
`

func (r *WatchHistoryRepo) ListUserHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.WatchEntry, error) {
	rows, _ := r.DB.Query(ctx, listUserHistory, userID, limit)
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.WatchEntry, error) {
		var e models.WatchEntry
		err := row.Scan(
			&e.Video.ID, &e.Video.CreatedAt, &e.Video.UpdatedAt, &e.Video.OwnerID,
			&e.Video.VideoURL, &e.Video.VideoKey, &e.Video.ThumbnailURL, &e.Video.ThumbnailKey,
			&e.Video.Title, &e.Video.Description, &e.Video.Duration, &e.Video.Views, &e.Video.IsPublished,
			&e.WatchedAt,
		)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}
