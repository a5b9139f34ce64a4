package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type VideoRepo struct {
	DB DBTX
}

const videoColumns = `id, created_at, updated_at, owner_id, video_url, video_key,
thumbnail_url, thumbnail_key, title, description, duration, views, is_published`

const createVideo = `-- name: CreateVideo
INSERT INTO videos (id, owner_id, video_url, video_key, thumbnail_url, thumbnail_key, title, description, duration)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + videoColumns

func (r *VideoRepo) CreateVideo(ctx context.Context, arg repository.CreateVideoParams) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, createVideo,
		uuid.New(), arg.OwnerID, arg.VideoURL, arg.VideoKey,
		arg.ThumbnailURL, arg.ThumbnailKey, arg.Title, arg.Description, arg.Duration,
	)
	video, err := pgx.CollectOneRow(rows, rowToVideo)
	if err != nil {
		return video, fmt.Errorf("db error: %w", err)
	}

	return video, nil
}

const getVideoByID = `-- name: GetVideoByID
SELECT ` + videoColumns + `
FROM videos
WHERE id = $1
`

func (r *VideoRepo) GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, getVideoByID, videoID)
	return collectVideo(rows)
}

// ListVideos builds the query dynamically: filters go to WHERE with
// positional args, sorting is validated against the known column set
func (r *VideoRepo) ListVideos(ctx context.Context, opts repository.ListVideosOpts) ([]models.Video, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + videoColumns + ` FROM videos`)

	var conds []string
	var args []any

	if opts.Query != "" {
		args = append(args, "%"+opts.Query+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if opts.OwnerID != nil {
		args = append(args, *opts.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if opts.OnlyPublished {
		conds = append(conds, "is_published")
	}
	if len(conds) > 0 {
		query.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	sortBy := opts.SortBy
	switch sortBy {
	case repository.VideoSortByViews, repository.VideoSortByDuration, repository.VideoSortByCreatedAt:
	case "":
		sortBy = repository.VideoSortByCreatedAt
	default:
		return nil, fmt.Errorf("unknown sort column: %q", opts.SortBy)
	}
	order := "DESC"
	if opts.Oldest {
		order = "ASC"
	}
	query.WriteString(fmt.Sprintf(" ORDER BY %s %s", sortBy, order))

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, _ := r.DB.Query(ctx, query.String(), args...)
	videos, err := pgx.CollectRows(rows, rowToVideo)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return videos, nil
}

const updateVideo = `-- name: UpdateVideo
UPDATE videos
SET title         = COALESCE($2, title),
    description   = COALESCE($3, description),
    thumbnail_url = COALESCE($4, thumbnail_url),
    thumbnail_key = COALESCE($5, thumbnail_key),
    updated_at    = clock_timestamp()
WHERE id = $1
RETURNING ` + videoColumns

func (r *VideoRepo) UpdateVideo(ctx context.Context, videoID uuid.UUID, arg repository.UpdateVideoParams) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, updateVideo, videoID, arg.Title, arg.Description, arg.ThumbnailURL, arg.ThumbnailKey)
	return collectVideo(rows)
}

const deleteVideo = `-- name: DeleteVideo
DELETE FROM videos
WHERE id = $1
`

// Dependent rows (comments, likes, playlist entries, history) go away
// via ON DELETE CASCADE
func (r *VideoRepo) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteVideo, videoID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVideoNotFound
	}

	return nil
}

const setPublished = `-- name: SetPublished
UPDATE videos
SET is_published = $2, updated_at = clock_timestamp()
WHERE id = $1
RETURNING ` + videoColumns

func (r *VideoRepo) SetPublished(ctx context.Context, videoID uuid.UUID, published bool) (models.Video, error) {
	rows, _ := r.DB.Query(ctx, setPublished, videoID, published)
	return collectVideo(rows)
}

const addViews = `-- name: AddViews
UPDATE videos
SET views = views + $2
WHERE id = $1
`

func (r *VideoRepo) AddViews(ctx context.Context, videoID uuid.UUID, count int64) error {
	tag, err := r.DB.Exec(ctx, addViews, videoID, count)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVideoNotFound
	}

	return nil
}

const getChannelStats = `-- name: GetChannelStats
SELECT
    count(*)                 AS total_videos,
    COALESCE(sum(views), 0)  AS total_views,
    (SELECT count(*) FROM subscriptions WHERE channel_id = $1) AS total_subscribers,
    (SELECT count(*) FROM likes WHERE video_id IN (SELECT id FROM videos WHERE owner_id = $1)) AS total_likes
FROM videos
WHERE owner_id = $1
`

func (r *VideoRepo) GetChannelStats(ctx context.Context, ownerID uuid.UUID) (models.ChannelStats, error) {
	var stats models.ChannelStats
	err := r.DB.QueryRow(ctx, getChannelStats, ownerID).Scan(
		&stats.TotalVideos, &stats.TotalViews, &stats.TotalSubscribers, &stats.TotalLikes,
	)
	if err != nil {
		return stats, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

func collectVideo(rows pgx.Rows) (models.Video, error) {
	video, err := pgx.CollectOneRow(rows, rowToVideo)

	switch {
	case err == nil:
		return video, nil
	case errors.Is(err, pgx.ErrNoRows):
		return video, apperrors.ErrVideoNotFound
	default:
		return video, fmt.Errorf("db error: %w", err)
	}
}

func rowToVideo(row pgx.CollectableRow) (models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.OwnerID, &v.VideoURL, &v.VideoKey,
		&v.ThumbnailURL, &v.ThumbnailKey, &v.Title, &v.Description, &v.Duration, &v.Views, &v.IsPublished,
	)
	return v, err
}
