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

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, updated_at, username, email, full_name,
avatar_url, avatar_key, cover_image_url, cover_image_key, password_hash, refresh_token`

const createUser = `-- name: CreateUser
INSERT INTO users (id, username, email, full_name, avatar_url, avatar_key, cover_image_url, cover_image_key, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser,
		uuid.New(), arg.Username, arg.Email, arg.FullName,
		arg.AvatarURL, arg.AvatarKey, arg.CoverImageURL, arg.CoverImageKey, arg.PasswordHash,
	)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	return collectUser(rows)
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT ` + userColumns + `
FROM users
WHERE username = $1
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	return collectUser(rows)
}

const getUserByLogin = `-- name: GetUserByLogin
SELECT ` + userColumns + `
FROM users
WHERE username = $1 OR email = $1
`

// Login is matched against both username and email
func (r *UserRepo) GetUserByLogin(ctx context.Context, login string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByLogin, login)
	return collectUser(rows)
}

const updateUser = `-- name: UpdateUser
UPDATE users
SET username  = COALESCE($2, username),
    full_name = COALESCE($3, full_name),
    updated_at = clock_timestamp()
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateUser(ctx context.Context, userID uuid.UUID, arg repository.UpdateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateUser, userID, arg.Username, arg.FullName)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}
}

const updatePassword = `-- name: UpdatePassword
UPDATE users
SET password_hash = $2, updated_at = clock_timestamp()
WHERE id = $1
`

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	tag, err := r.DB.Exec(ctx, updatePassword, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

const updateAvatar = `-- name: UpdateAvatar
UPDATE users
SET avatar_url = $2, avatar_key = $3, updated_at = clock_timestamp()
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateAvatar(ctx context.Context, userID uuid.UUID, url string, key string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateAvatar, userID, url, key)
	return collectUser(rows)
}

const updateCoverImage = `-- name: UpdateCoverImage
UPDATE users
SET cover_image_url = $2, cover_image_key = $3, updated_at = clock_timestamp()
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateCoverImage(ctx context.Context, userID uuid.UUID, url string, key string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateCoverImage, userID, url, key)
	return collectUser(rows)
}

const setRefreshToken = `-- name: SetRefreshToken
UPDATE users
SET refresh_token = $2
WHERE id = $1
`

// Overwrite stored refresh token no matter what it was
// Only this field changes: no validation of the rest of the record
func (r *UserRepo) SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	tag, err := r.DB.Exec(ctx, setRefreshToken, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

const rotateRefreshToken = `-- name: RotateRefreshToken
UPDATE users
SET refresh_token = $3
WHERE id = $1 AND refresh_token = $2
`

// Compare-and-swap on the refresh_token column
// The row condition makes rotation single-use: out of any number of
// concurrent attempts with the same current token only one update matches
func (r *UserRepo) RotateRefreshToken(ctx context.Context, userID uuid.UUID, current string, next string) error {
	tag, err := r.DB.Exec(ctx, rotateRefreshToken, userID, current, next)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRefreshTokenReused
	}

	return nil
}

const getChannelProfile = `-- name: GetChannelProfile
SELECT ` + userColumns + `,
    (SELECT count(*) FROM subscriptions WHERE channel_id = users.id)    AS subscriber_count,
    (SELECT count(*) FROM subscriptions WHERE subscriber_id = users.id) AS subscribed_to_count,
    EXISTS (SELECT 1 FROM subscriptions WHERE channel_id = users.id AND subscriber_id = $2) AS is_subscribed
FROM users
WHERE username = $1
`

func (r *UserRepo) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error) {
	rows, _ := r.DB.Query(ctx, getChannelProfile, username, viewerID)
	profile, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.ChannelProfile, error) {
		var p models.ChannelProfile
		err := row.Scan(
			&p.User.ID, &p.User.CreatedAt, &p.User.UpdatedAt, &p.User.Username, &p.User.Email, &p.User.FullName,
			&p.User.AvatarURL, &p.User.AvatarKey, &p.User.CoverImageURL, &p.User.CoverImageKey,
			&p.User.HashedPassword, &p.User.RefreshToken,
			&p.SubscriberCount, &p.SubscribedToCount, &p.IsSubscribed,
		)
		return p, err
	})

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		return profile, apperrors.ErrUserNotFound
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Email, &u.FullName,
		&u.AvatarURL, &u.AvatarKey, &u.CoverImageURL, &u.CoverImageKey,
		&u.HashedPassword, &u.RefreshToken,
	)
	return u, err
}
