package video

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/media"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type PublishParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Duration    float64

	VideoFile media.Upload
	Thumbnail media.Upload
}

type UpdateParams struct {
	Title       *string
	Description *string
	Thumbnail   *media.Upload
}

// Records a view without blocking the request
type ViewRecorder interface {
	Record(videoID uuid.UUID, userID uuid.UUID)
}

type VideoService struct {
	storage repository.Storage
	media   media.Store
	views   ViewRecorder
}

func NewService(storage repository.Storage, mediaStore media.Store, views ViewRecorder) *VideoService {
	return &VideoService{
		storage: storage,
		media:   mediaStore,
		views:   views,
	}
}

func (s *VideoService) Publish(ctx context.Context, arg PublishParams) (models.Video, error) {
	var video models.Video

	videoKey := media.RandomKey("videos", arg.VideoFile.Filename)
	videoURL, err := s.media.Upload(ctx, videoKey, arg.VideoFile.ContentType, arg.VideoFile.Body)
	if err != nil {
		return video, fmt.Errorf("can't upload video file. Err: %w", err)
	}

	thumbKey := media.RandomKey("thumbnails", arg.Thumbnail.Filename)
	thumbURL, err := s.media.Upload(ctx, thumbKey, arg.Thumbnail.ContentType, arg.Thumbnail.Body)
	if err != nil {
		_ = s.media.Delete(ctx, videoKey)
		return video, fmt.Errorf("can't upload thumbnail. Err: %w", err)
	}

	video, err = s.storage.Video().CreateVideo(ctx, repository.CreateVideoParams{
		OwnerID:      arg.OwnerID,
		VideoURL:     videoURL,
		VideoKey:     videoKey,
		ThumbnailURL: thumbURL,
		ThumbnailKey: thumbKey,
		Title:        arg.Title,
		Description:  arg.Description,
		Duration:     arg.Duration,
	})
	if err != nil {
		_ = s.media.Delete(ctx, videoKey)
		_ = s.media.Delete(ctx, thumbKey)
		return video, err
	}

	return video, nil
}

// Get video and record the view.
// Unpublished videos are visible to the owner only.
func (s *VideoService) Get(ctx context.Context, videoID uuid.UUID, viewerID uuid.UUID) (models.Video, error) {
	video, err := s.storage.Video().GetVideoByID(ctx, videoID)
	if err != nil {
		return video, err
	}

	if !video.IsPublished && video.OwnerID != viewerID {
		return models.Video{}, apperrors.ErrVideoNotFound
	}

	s.views.Record(video.ID, viewerID)
	return video, nil
}

func (s *VideoService) List(ctx context.Context, opts repository.ListVideosOpts) ([]models.Video, error) {
	return s.storage.Video().ListVideos(ctx, opts)
}

func (s *VideoService) Update(ctx context.Context, videoID uuid.UUID, userID uuid.UUID, arg UpdateParams) (models.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, userID)
	if err != nil {
		return models.Video{}, err
	}

	if arg.Title == nil && arg.Description == nil && arg.Thumbnail == nil {
		return models.Video{}, apperrors.ErrNothingToUpdate
	}

	params := repository.UpdateVideoParams{
		Title:       arg.Title,
		Description: arg.Description,
	}

	oldThumbKey := ""
	if arg.Thumbnail != nil {
		key := media.RandomKey("thumbnails", arg.Thumbnail.Filename)
		url, err := s.media.Upload(ctx, key, arg.Thumbnail.ContentType, arg.Thumbnail.Body)
		if err != nil {
			return models.Video{}, fmt.Errorf("can't upload thumbnail. Err: %w", err)
		}
		params.ThumbnailURL = &url
		params.ThumbnailKey = &key
		oldThumbKey = video.ThumbnailKey
	}

	updated, err := s.storage.Video().UpdateVideo(ctx, videoID, params)
	if err != nil {
		if params.ThumbnailKey != nil {
			_ = s.media.Delete(ctx, *params.ThumbnailKey)
		}
		return models.Video{}, err
	}

	_ = s.media.Delete(ctx, oldThumbKey)
	return updated, nil
}

// Delete the video row first, then the stored objects
func (s *VideoService) Delete(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) error {
	video, err := s.ownedVideo(ctx, videoID, userID)
	if err != nil {
		return err
	}

	if err := s.storage.Video().DeleteVideo(ctx, videoID); err != nil {
		return err
	}

	_ = s.media.Delete(ctx, video.VideoKey)
	_ = s.media.Delete(ctx, video.ThumbnailKey)
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) (models.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, userID)
	if err != nil {
		return models.Video{}, err
	}

	return s.storage.Video().SetPublished(ctx, videoID, !video.IsPublished)
}

func (s *VideoService) ChannelStats(ctx context.Context, ownerID uuid.UUID) (models.ChannelStats, error) {
	return s.storage.Video().GetChannelStats(ctx, ownerID)
}

func (s *VideoService) ChannelVideos(ctx context.Context, ownerID uuid.UUID, opts repository.ListVideosOpts) ([]models.Video, error) {
	opts.OwnerID = &ownerID
	return s.storage.Video().ListVideos(ctx, opts)
}

func (s *VideoService) ownedVideo(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) (models.Video, error) {
	video, err := s.storage.Video().GetVideoByID(ctx, videoID)
	if err != nil {
		return video, err
	}
	if video.OwnerID != userID {
		return models.Video{}, apperrors.ErrNotOwner
	}
	return video, nil
}
