package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/media"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
	"github.com/videotube/videotube/internal/service/auth"
)

type RegisterParams struct {
	Username string
	Email    string
	FullName string
	Password string

	// Avatar is required, cover image is not
	Avatar     media.Upload
	CoverImage *media.Upload
}

type UserService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
	media   media.Store
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage, mediaStore media.Store) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
		media:   mediaStore,
	}
}

func (s *UserService) Register(ctx context.Context, arg RegisterParams) (models.User, error) {
	var user models.User

	// Usernames and emails are stored lowercased so uniqueness and
	// lookups are case insensitive
	arg.Username = strings.ToLower(arg.Username)
	arg.Email = strings.ToLower(arg.Email)

	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	avatarKey := media.RandomKey("avatars", arg.Avatar.Filename)
	avatarURL, err := s.media.Upload(ctx, avatarKey, arg.Avatar.ContentType, arg.Avatar.Body)
	if err != nil {
		return user, fmt.Errorf("can't upload avatar. Err: %w", err)
	}

	coverURL, coverKey := "", ""
	if arg.CoverImage != nil {
		coverKey = media.RandomKey("covers", arg.CoverImage.Filename)
		coverURL, err = s.media.Upload(ctx, coverKey, arg.CoverImage.ContentType, arg.CoverImage.Body)
		if err != nil {
			_ = s.media.Delete(ctx, avatarKey)
			return user, fmt.Errorf("can't upload cover image. Err: %w", err)
		}
	}

	user, err = s.storage.User().CreateUser(ctx, repository.CreateUserParams{
		Username:      arg.Username,
		Email:         arg.Email,
		FullName:      arg.FullName,
		AvatarURL:     avatarURL,
		AvatarKey:     avatarKey,
		CoverImageURL: coverURL,
		CoverImageKey: coverKey,
		PasswordHash:  hash,
	})
	if err != nil {
		// Orphaned uploads are cheaper than orphaned rows
		_ = s.media.Delete(ctx, avatarKey)
		_ = s.media.Delete(ctx, coverKey)
		return user, err
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetUserByID(ctx, userID)
}

// Verify the old password before storing the new hash
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string) error {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.HashedPassword, oldPassword); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password. Err: %w", err)
	}

	return s.storage.User().UpdatePassword(ctx, userID, hash)
}

func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, arg repository.UpdateUserParams) (models.User, error) {
	if arg.Username == nil && arg.FullName == nil {
		return models.User{}, apperrors.ErrNothingToUpdate
	}

	if arg.Username != nil {
		lowered := strings.ToLower(*arg.Username)
		arg.Username = &lowered
	}

	return s.storage.User().UpdateUser(ctx, userID, arg)
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload media.Upload) (models.User, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	key := media.RandomKey("avatars", upload.Filename)
	url, err := s.media.Upload(ctx, key, upload.ContentType, upload.Body)
	if err != nil {
		return models.User{}, fmt.Errorf("can't upload avatar. Err: %w", err)
	}

	updated, err := s.storage.User().UpdateAvatar(ctx, userID, url, key)
	if err != nil {
		_ = s.media.Delete(ctx, key)
		return models.User{}, err
	}

	_ = s.media.Delete(ctx, user.AvatarKey)
	return updated, nil
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, upload media.Upload) (models.User, error) {
	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	key := media.RandomKey("covers", upload.Filename)
	url, err := s.media.Upload(ctx, key, upload.ContentType, upload.Body)
	if err != nil {
		return models.User{}, fmt.Errorf("can't upload cover image. Err: %w", err)
	}

	updated, err := s.storage.User().UpdateCoverImage(ctx, userID, url, key)
	if err != nil {
		_ = s.media.Delete(ctx, key)
		return models.User{}, err
	}

	_ = s.media.Delete(ctx, user.CoverImageKey)
	return updated, nil
}

func (s *UserService) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error) {
	return s.storage.User().GetChannelProfile(ctx, strings.ToLower(username), viewerID)
}

func (s *UserService) WatchHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.WatchEntry, error) {
	return s.storage.WatchHistory().ListUserHistory(ctx, userID, limit)
}
