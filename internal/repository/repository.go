package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
)

type CreateUserParams struct {
	Username      string
	Email         string
	FullName      string
	AvatarURL     string
	AvatarKey     string
	CoverImageURL string
	CoverImageKey string
	PasswordHash  string
}

// UpdateUserParams: nil fields are left untouched
type UpdateUserParams struct {
	Username *string
	FullName *string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with same username or email exists must return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id, username or login (username OR email match)
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByLogin(ctx context.Context, login string) (models.User, error)

	UpdateUser(ctx context.Context, userID uuid.UUID, arg UpdateUserParams) (models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, url string, key string) (models.User, error)
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, url string, key string) (models.User, error)

	// Overwrite the stored refresh token unconditionally
	// Used on login (new value) and logout (empty string)
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error

	// Replace the stored refresh token with next only if the stored value
	// still equals current. Single atomic conditional update: two concurrent
	// rotations with the same current token can't both succeed.
	// Must return apperrors.ErrRefreshTokenReused if the stored value differs
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, current string, next string) error

	// Channel page of the user with given username as seen by viewerID
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error)
}

type CreateVideoParams struct {
	OwnerID      uuid.UUID
	VideoURL     string
	VideoKey     string
	ThumbnailURL string
	ThumbnailKey string
	Title        string
	Description  string
	Duration     float64
}

// UpdateVideoParams: nil fields are left untouched
type UpdateVideoParams struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
	ThumbnailKey *string
}

const (
	VideoSortByCreatedAt = "created_at"
	VideoSortByViews     = "views"
	VideoSortByDuration  = "duration"
)

type ListVideosOpts struct {
	// Optional substring match against title and description
	Query string

	// Optional filter by video owner
	OwnerID *uuid.UUID

	// Skip unpublished videos
	OnlyPublished bool

	SortBy string // one of VideoSortBy constants, newest first by default
	Oldest bool

	Limit  int
	Offset int
}

type VideoRepo interface {
	CreateVideo(ctx context.Context, arg CreateVideoParams) (models.Video, error)

	// If video not found must return apperrors.ErrVideoNotFound
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.Video, error)

	ListVideos(ctx context.Context, opts ListVideosOpts) ([]models.Video, error)
	UpdateVideo(ctx context.Context, videoID uuid.UUID, arg UpdateVideoParams) (models.Video, error)
	DeleteVideo(ctx context.Context, videoID uuid.UUID) error
	SetPublished(ctx context.Context, videoID uuid.UUID, published bool) (models.Video, error)

	// Increment view counter, used by the views processor in batches
	AddViews(ctx context.Context, videoID uuid.UUID, count int64) error

	// Aggregate dashboard numbers for the channel owner
	GetChannelStats(ctx context.Context, ownerID uuid.UUID) (models.ChannelStats, error)
}

// Page options for comment and tweet listings, newest first by default
type ListOpts struct {
	Oldest bool
	Limit  int
	Offset int
}

type CommentRepo interface {
	CreateComment(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, content string) (models.Comment, error)

	// If comment not found must return apperrors.ErrCommentNotFound
	GetCommentByID(ctx context.Context, commentID uuid.UUID) (models.Comment, error)

	ListVideoComments(ctx context.Context, videoID uuid.UUID, opts ListOpts) ([]models.Comment, error)
	UpdateComment(ctx context.Context, commentID uuid.UUID, content string) (models.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}

type TweetRepo interface {
	CreateTweet(ctx context.Context, ownerID uuid.UUID, content string) (models.Tweet, error)

	// If tweet not found must return apperrors.ErrTweetNotFound
	GetTweetByID(ctx context.Context, tweetID uuid.UUID) (models.Tweet, error)

	// Tweets with like counts
	ListUserTweets(ctx context.Context, userID uuid.UUID, opts ListOpts) ([]models.Tweet, error)
	UpdateTweet(ctx context.Context, tweetID uuid.UUID, content string) (models.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID uuid.UUID) error
}

type LikeRepo interface {
	// Add like to the target if none exists yet, remove the existing one otherwise
	// Returns true if the like was added
	Toggle(ctx context.Context, likedBy uuid.UUID, likeFor string, targetID uuid.UUID) (liked bool, err error)

	ListLikedVideos(ctx context.Context, likedBy uuid.UUID) ([]models.Video, error)
}

type SubscriptionRepo interface {
	// Subscribe to the channel if not subscribed yet, unsubscribe otherwise
	// Returns true if the subscription was added
	Toggle(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) (subscribed bool, err error)

	ListChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.User, error)
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error)
}

// UpdatePlaylistParams: nil fields are left untouched
type UpdatePlaylistParams struct {
	Name        *string
	Description *string
}

type PlaylistRepo interface {
	CreatePlaylist(ctx context.Context, ownerID uuid.UUID, name string, description string) (models.Playlist, error)

	// Playlist with its videos
	// If playlist not found must return apperrors.ErrPlaylistNotFound
	GetPlaylistByID(ctx context.Context, playlistID uuid.UUID) (models.Playlist, error)

	ListUserPlaylists(ctx context.Context, userID uuid.UUID) ([]models.Playlist, error)
	UpdatePlaylist(ctx context.Context, playlistID uuid.UUID, arg UpdatePlaylistParams) (models.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID uuid.UUID) error

	// Must return apperrors.ErrVideoInPlaylist if the video is already there
	AddVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID) error
	RemoveVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID) error
}

type WatchParams struct {
	UserID  uuid.UUID
	VideoID uuid.UUID
}

type WatchHistoryRepo interface {
	// Append watch records, used by the views processor in batches
	AddWatches(ctx context.Context, watches []WatchParams) error

	ListUserHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.WatchEntry, error)
}

// Storage aggregates all repositories over a single connection or transaction
type Storage interface {
	User() UserRepo
	Video() VideoRepo
	Comment() CommentRepo
	Tweet() TweetRepo
	Like() LikeRepo
	Subscription() SubscriptionRepo
	Playlist() PlaylistRepo
	WatchHistory() WatchHistoryRepo

	// Run fn within a database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
