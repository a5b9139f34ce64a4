package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videotube/videotube/internal/models"
)

type LikeRepo struct {
	DB DBTX
}

var likeTargetColumns = map[string]string{
	models.LikeForVideo:   "video_id",
	models.LikeForComment: "comment_id",
	models.LikeForTweet:   "tweet_id",
}

// Toggle tries to add the like first; ON CONFLICT DO NOTHING plus the
// partial unique index keep the insert race free. Zero inserted rows mean
// the like already exists, so it gets removed instead
func (r *LikeRepo) Toggle(ctx context.Context, likedBy uuid.UUID, likeFor string, targetID uuid.UUID) (bool, error) {
	column, ok := likeTargetColumns[likeFor]
	if !ok {
		return false, fmt.Errorf("unknown like target: %q", likeFor)
	}

	insert := fmt.Sprintf(`
	INSERT INTO likes (id, liked_by, like_for, %s)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT DO NOTHING
	`, column)

	tag, err := r.DB.Exec(ctx, insert, uuid.New(), likedBy, likeFor, targetID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	remove := fmt.Sprintf(`DELETE FROM likes WHERE liked_by = $1 AND %s = $2`, column)
	_, err = r.DB.Exec(ctx, remove, likedBy, targetID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return false, nil
}

const listLikedVideos = `-- name: ListLikedVideos
SELECT v.id, v.created_at, v.updated_at, v.owner_id, v.video_url, v.video_key,
    v.thumbnail_url, v.thumbnail_key, v.title, v.description, v.duration, v.views, v.is_published
FROM likes l
JOIN videos v ON v.id = l.video_id
WHERE l.liked_by = $1 AND l.like_for = 'video'
ORDER BY l.created_at DESC
`

func (r *LikeRepo) ListLikedVideos(ctx context.Context, likedBy uuid.UUID) ([]models.Video, error) {
	rows, _ := r.DB.Query(ctx, listLikedVideos, likedBy)
	videos, err := pgx.CollectRows(rows, rowToVideo)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return videos, nil
}
