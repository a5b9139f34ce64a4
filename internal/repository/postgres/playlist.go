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
	"github.com/videotube/videotube/internal/repository"
)

type PlaylistRepo struct {
	DB DBTX
}

const playlistColumns = `id, created_at, updated_at, owner_id, name, description`

const createPlaylist = `-- name: CreatePlaylist
INSERT INTO playlists (id, owner_id, name, description)
VALUES ($1, $2, $3, $4)
RETURNING ` + playlistColumns

func (r *PlaylistRepo) CreatePlaylist(ctx context.Context, ownerID uuid.UUID, name string, description string) (models.Playlist, error) {
	rows, _ := r.DB.Query(ctx, createPlaylist, uuid.New(), ownerID, name, description)
	playlist, err := pgx.CollectOneRow(rows, rowToPlaylist)
	if err != nil {
		return playlist, fmt.Errorf("db error: %w", err)
	}

	return playlist, nil
}

const getPlaylistByID = `-- name: GetPlaylistByID
SELECT ` + playlistColumns + `
FROM playlists
WHERE id = $1
`

const listPlaylistVideos = `-- name: ListPlaylistVideos
SELECT v.id, v.created_at, v.updated_at, v.owner_id, v.video_url, v.video_key,
    v.thumbnail_url, v.thumbnail_key, v.title, v.description, v.duration, v.views, v.is_published
FROM playlist_videos pv
JOIN videos v ON v.id = pv.video_id
WHERE pv.playlist_id = $1
ORDER BY pv.added_at
`

func (r *PlaylistRepo) GetPlaylistByID(ctx context.Context, playlistID uuid.UUID) (models.Playlist, error) {
	rows, _ := r.DB.Query(ctx, getPlaylistByID, playlistID)
	playlist, err := pgx.CollectOneRow(rows, rowToPlaylist)

	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		return playlist, apperrors.ErrPlaylistNotFound
	default:
		return playlist, fmt.Errorf("db error: %w", err)
	}

	rows, _ = r.DB.Query(ctx, listPlaylistVideos, playlistID)
	playlist.Videos, err = pgx.CollectRows(rows, rowToVideo)
	if err != nil {
		return playlist, fmt.Errorf("db error: %w", err)
	}

	return playlist, nil
}

const listUserPlaylists = `-- name: ListUserPlaylists
SELECT ` + playlistColumns + `
FROM playlists
WHERE owner_id = $1
ORDER BY created_at DESC
`

func (r *PlaylistRepo) ListUserPlaylists(ctx context.Context, userID uuid.UUID) ([]models.Playlist, error) {
	rows, _ := r.DB.Query(ctx, listUserPlaylists, userID)
	playlists, err := pgx.CollectRows(rows, rowToPlaylist)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return playlists, nil
}

const updatePlaylist = `-- name: UpdatePlaylist
UPDATE playlists
SET name        = COALESCE($2, name),
    description = COALESCE($3, description),
    updated_at  = clock_timestamp()
WHERE id = $1
RETURNING ` + playlistColumns

func (r *PlaylistRepo) UpdatePlaylist(ctx context.Context, playlistID uuid.UUID, arg repository.UpdatePlaylistParams) (models.Playlist, error) {
	rows, _ := r.DB.Query(ctx, updatePlaylist, playlistID, arg.Name, arg.Description)
	playlist, err := pgx.CollectOneRow(rows, rowToPlaylist)

	switch {
	case err == nil:
		return playlist, nil
	case errors.Is(err, pgx.ErrNoRows):
		return playlist, apperrors.ErrPlaylistNotFound
	default:
		return playlist, fmt.Errorf("db error: %w", err)
	}
}

const deletePlaylist = `-- name: DeletePlaylist
DELETE FROM playlists
WHERE id = $1
`

func (r *PlaylistRepo) DeletePlaylist(ctx context.Context, playlistID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePlaylist, playlistID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPlaylistNotFound
	}

	return nil
}

const addPlaylistVideo = `-- name: AddPlaylistVideo
INSERT INTO playlist_videos (playlist_id, video_id)
VALUES ($1, $2)
`

func (r *PlaylistRepo) AddVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, addPlaylistVideo, playlistID, videoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return apperrors.ErrVideoInPlaylist
			case pgerrcode.ForeignKeyViolation:
				return apperrors.ErrPlaylistNotFound
			}
		}

		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const removePlaylistVideo = `-- name: RemovePlaylistVideo
DELETE FROM playlist_videos
WHERE playlist_id = $1 AND video_id = $2
`

func (r *PlaylistRepo) RemoveVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, removePlaylistVideo, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrVideoNotFound
	}

	return nil
}

func rowToPlaylist(row pgx.CollectableRow) (models.Playlist, error) {
	var p models.Playlist
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.OwnerID, &p.Name, &p.Description)
	return p, err
}
