package playlist

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type PlaylistService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *PlaylistService {
	return &PlaylistService{storage: storage}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID uuid.UUID, name string, description string) (models.Playlist, error) {
	return s.storage.Playlist().CreatePlaylist(ctx, ownerID, name, description)
}

func (s *PlaylistService) Get(ctx context.Context, playlistID uuid.UUID) (models.Playlist, error) {
	return s.storage.Playlist().GetPlaylistByID(ctx, playlistID)
}

func (s *PlaylistService) ListUserPlaylists(ctx context.Context, userID uuid.UUID) ([]models.Playlist, error) {
	return s.storage.Playlist().ListUserPlaylists(ctx, userID)
}

func (s *PlaylistService) Update(ctx context.Context, playlistID uuid.UUID, userID uuid.UUID, arg repository.UpdatePlaylistParams) (models.Playlist, error) {
	if err := s.checkOwner(ctx, playlistID, userID); err != nil {
		return models.Playlist{}, err
	}
	if arg.Name == nil && arg.Description == nil {
		return models.Playlist{}, apperrors.ErrNothingToUpdate
	}

	return s.storage.Playlist().UpdatePlaylist(ctx, playlistID, arg)
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID uuid.UUID, userID uuid.UUID) error {
	if err := s.checkOwner(ctx, playlistID, userID); err != nil {
		return err
	}

	return s.storage.Playlist().DeletePlaylist(ctx, playlistID)
}

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID, userID uuid.UUID) (models.Playlist, error) {
	if err := s.checkOwner(ctx, playlistID, userID); err != nil {
		return models.Playlist{}, err
	}
	if _, err := s.storage.Video().GetVideoByID(ctx, videoID); err != nil {
		return models.Playlist{}, err
	}

	if err := s.storage.Playlist().AddVideo(ctx, playlistID, videoID); err != nil {
		return models.Playlist{}, err
	}

	return s.storage.Playlist().GetPlaylistByID(ctx, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID, userID uuid.UUID) (models.Playlist, error) {
	if err := s.checkOwner(ctx, playlistID, userID); err != nil {
		return models.Playlist{}, err
	}

	if err := s.storage.Playlist().RemoveVideo(ctx, playlistID, videoID); err != nil {
		return models.Playlist{}, err
	}

	return s.storage.Playlist().GetPlaylistByID(ctx, playlistID)
}

func (s *PlaylistService) checkOwner(ctx context.Context, playlistID uuid.UUID, userID uuid.UUID) error {
	playlist, err := s.storage.Playlist().GetPlaylistByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.OwnerID != userID {
		return apperrors.ErrNotOwner
	}
	return nil
}
