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

type CommentRepo struct {
	DB DBTX
}

const commentColumns = `id, created_at, updated_at, video_id, owner_id, content`

const createComment = `-- name: CreateComment
INSERT INTO comments (id, video_id, owner_id, content)
VALUES ($1, $2, $3, $4)
RETURNING ` + commentColumns

func (r *CommentRepo) CreateComment(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, content string) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, createComment, uuid.New(), videoID, ownerID, content)
	comment, err := pgx.CollectOneRow(rows, rowToComment)
	if err != nil {
		return comment, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

const getCommentByID = `-- name: GetCommentByID
SELECT ` + commentColumns + `
FROM comments
WHERE id = $1
`

func (r *CommentRepo) GetCommentByID(ctx context.Context, commentID uuid.UUID) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, getCommentByID, commentID)
	return collectComment(rows)
}

const listVideoComments = `-- name: ListVideoComments
SELECT ` + commentColumns + `
FROM comments
WHERE video_id = $1
ORDER BY
    CASE WHEN $2 THEN created_at END ASC,
    CASE WHEN NOT $2 THEN created_at END DESC
LIMIT NULLIF($3, 0) OFFSET $4
`

func (r *CommentRepo) ListVideoComments(ctx context.Context, videoID uuid.UUID, opts repository.ListOpts) ([]models.Comment, error) {
	rows, _ := r.DB.Query(ctx, listVideoComments, videoID, opts.Oldest, opts.Limit, opts.Offset)
	comments, err := pgx.CollectRows(rows, rowToComment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comments, nil
}

const updateComment = `-- name: UpdateComment
UPDATE comments
SET content = $2, updated_at = clock_timestamp()
WHERE id = $1
RETURNING ` + commentColumns

func (r *CommentRepo) UpdateComment(ctx context.Context, commentID uuid.UUID, content string) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, updateComment, commentID, content)
	return collectComment(rows)
}

const deleteComment = `-- name: DeleteComment
DELETE FROM comments
WHERE id = $1
`

func (r *CommentRepo) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteComment, commentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}

func collectComment(rows pgx.Rows) (models.Comment, error) {
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, apperrors.ErrCommentNotFound
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

func rowToComment(row pgx.CollectableRow) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.VideoID, &c.OwnerID, &c.Content)
	return c, err
}
