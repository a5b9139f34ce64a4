package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/handlers/middleware"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/media"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
	"github.com/videotube/videotube/internal/service/user"
	"github.com/videotube/videotube/internal/service/video"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type Services struct {
	Auth         authService
	User         userService
	Video        videoService
	Comment      commentService
	Tweet        tweetService
	Like         likeService
	Subscription subscriptionService
	Playlist     playlistService
}

func NewRouter(s Services, l logger.Logger) http.Handler {
	authMiddleware := middleware.AuthMiddleware(s.Auth)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	api := http.NewServeMux()

	api.Handle("GET /healthcheck", handleHealthcheck())

	api.Handle("POST /users/register", handleRegister(s.User, l))
	api.Handle("POST /users/login", handleLogin(s.Auth, l))
	api.Handle("POST /users/refresh-token", handleRefreshToken(s.Auth, l))
	api.Handle("POST /users/logout", withAuth(handleLogout(s.Auth, l)))
	api.Handle("POST /users/change-password", withAuth(handleChangePassword(s.User, l)))
	api.Handle("GET /users/current-user", withAuth(handleCurrentUser()))
	api.Handle("PATCH /users/update-account", withAuth(handleUpdateAccount(s.User, l)))
	api.Handle("PATCH /users/avatar", withAuth(handleUpdateAvatar(s.User, l)))
	api.Handle("PATCH /users/cover-image", withAuth(handleUpdateCoverImage(s.User, l)))
	api.Handle("GET /users/c/{username}", withAuth(handleChannelProfile(s.User, l)))
	api.Handle("GET /users/watch-history", withAuth(handleWatchHistory(s.User, l)))

	api.Handle("GET /videos", withAuth(handleListVideos(s.Video, l)))
	api.Handle("POST /videos", withAuth(handlePublishVideo(s.Video, l)))
	api.Handle("GET /videos/{videoID}", withAuth(handleGetVideo(s.Video, l)))
	api.Handle("PATCH /videos/{videoID}", withAuth(handleUpdateVideo(s.Video, l)))
	api.Handle("DELETE /videos/{videoID}", withAuth(handleDeleteVideo(s.Video, l)))
	api.Handle("PATCH /videos/toggle/publish/{videoID}", withAuth(handleTogglePublish(s.Video, l)))

	api.Handle("GET /comments/{videoID}", withAuth(handleListComments(s.Comment, l)))
	api.Handle("POST /comments/{videoID}", withAuth(handleCreateComment(s.Comment, l)))
	api.Handle("PATCH /comments/c/{commentID}", withAuth(handleUpdateComment(s.Comment, l)))
	api.Handle("DELETE /comments/c/{commentID}", withAuth(handleDeleteComment(s.Comment, l)))

	api.Handle("POST /likes/toggle/v/{videoID}", withAuth(handleToggleVideoLike(s.Like, l)))
	api.Handle("POST /likes/toggle/c/{commentID}", withAuth(handleToggleCommentLike(s.Like, l)))
	api.Handle("POST /likes/toggle/t/{tweetID}", withAuth(handleToggleTweetLike(s.Like, l)))
	api.Handle("GET /likes/videos", withAuth(handleListLikedVideos(s.Like, l)))

	api.Handle("POST /tweets", withAuth(handleCreateTweet(s.Tweet, l)))
	api.Handle("GET /tweets/user/{userID}", withAuth(handleListUserTweets(s.Tweet, l)))
	api.Handle("PATCH /tweets/{tweetID}", withAuth(handleUpdateTweet(s.Tweet, l)))
	api.Handle("DELETE /tweets/{tweetID}", withAuth(handleDeleteTweet(s.Tweet, l)))

	api.Handle("POST /subscriptions/c/{channelID}", withAuth(handleToggleSubscription(s.Subscription, l)))
	api.Handle("GET /subscriptions/c/{channelID}", withAuth(handleChannelSubscribers(s.Subscription, l)))
	api.Handle("GET /subscriptions/u/{subscriberID}", withAuth(handleSubscribedChannels(s.Subscription, l)))

	api.Handle("POST /playlists", withAuth(handleCreatePlaylist(s.Playlist, l)))
	api.Handle("GET /playlists/user/{userID}", withAuth(handleListUserPlaylists(s.Playlist, l)))
	api.Handle("GET /playlists/{playlistID}", withAuth(handleGetPlaylist(s.Playlist, l)))
	api.Handle("PATCH /playlists/{playlistID}", withAuth(handleUpdatePlaylist(s.Playlist, l)))
	api.Handle("DELETE /playlists/{playlistID}", withAuth(handleDeletePlaylist(s.Playlist, l)))
	api.Handle("PATCH /playlists/add/{videoID}/{playlistID}", withAuth(handleAddPlaylistVideo(s.Playlist, l)))
	api.Handle("PATCH /playlists/remove/{videoID}/{playlistID}", withAuth(handleRemovePlaylistVideo(s.Playlist, l)))

	api.Handle("GET /dashboard/stats", withAuth(handleChannelStats(s.Video, l)))
	api.Handle("GET /dashboard/videos", withAuth(handleChannelVideos(s.Video, l)))

	root := http.NewServeMux()
	root.Handle("/api/v1/", http.StripPrefix("/api/v1", api))

	handler := chain(root,
		middleware.LoggerMiddleware(l),
	)

	return handler
}

type authService interface {
	// Login user with username or email
	// Has to return apperrors.ErrUserNotFound or apperrors.ErrInvalidCredentials on bad credentials
	Login(ctx context.Context, login string, password string) (models.User, models.TokenPair, error)

	// Rotate the refresh token and issue a new pair
	// If the stored token does not match: apperrors.ErrRefreshTokenReused
	// If the token is malformed or expired: apperrors.ErrTokenInvalid
	Refresh(ctx context.Context, refresh string) (models.User, models.TokenPair, error)

	// Revoke the stored refresh token
	Logout(ctx context.Context, userID uuid.UUID) error

	// Authenticate the request, cookie or Authorization header
	Auth(ctx context.Context, r *http.Request) (models.User, error)

	SetAuth(w http.ResponseWriter, pair models.TokenPair)
	ClearAuth(w http.ResponseWriter)
	ReadRefreshToken(r *http.Request) (string, error)
}

type userService interface {
	Register(ctx context.Context, arg user.RegisterParams) (models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword string, newPassword string) error
	UpdateAccount(ctx context.Context, userID uuid.UUID, arg repository.UpdateUserParams) (models.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, upload media.Upload) (models.User, error)
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, upload media.Upload) (models.User, error)
	ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.WatchEntry, error)
}

type videoService interface {
	Publish(ctx context.Context, arg video.PublishParams) (models.Video, error)
	Get(ctx context.Context, videoID uuid.UUID, viewerID uuid.UUID) (models.Video, error)
	List(ctx context.Context, opts repository.ListVideosOpts) ([]models.Video, error)
	Update(ctx context.Context, videoID uuid.UUID, userID uuid.UUID, arg video.UpdateParams) (models.Video, error)
	Delete(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) error
	TogglePublish(ctx context.Context, videoID uuid.UUID, userID uuid.UUID) (models.Video, error)
	ChannelStats(ctx context.Context, ownerID uuid.UUID) (models.ChannelStats, error)
	ChannelVideos(ctx context.Context, ownerID uuid.UUID, opts repository.ListVideosOpts) ([]models.Video, error)
}

type commentService interface {
	Create(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, content string) (models.Comment, error)
	List(ctx context.Context, videoID uuid.UUID, opts repository.ListOpts) ([]models.Comment, error)
	Update(ctx context.Context, commentID uuid.UUID, userID uuid.UUID, content string) (models.Comment, error)
	Delete(ctx context.Context, commentID uuid.UUID, userID uuid.UUID) error
}

type tweetService interface {
	Create(ctx context.Context, ownerID uuid.UUID, content string) (models.Tweet, error)
	ListUserTweets(ctx context.Context, userID uuid.UUID, opts repository.ListOpts) ([]models.Tweet, error)
	Update(ctx context.Context, tweetID uuid.UUID, userID uuid.UUID, content string) (models.Tweet, error)
	Delete(ctx context.Context, tweetID uuid.UUID, userID uuid.UUID) error
}

type likeService interface {
	ToggleVideo(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) (bool, error)
	ToggleComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) (bool, error)
	ToggleTweet(ctx context.Context, userID uuid.UUID, tweetID uuid.UUID) (bool, error)
	LikedVideos(ctx context.Context, userID uuid.UUID) ([]models.Video, error)
}

type subscriptionService interface {
	Toggle(ctx context.Context, subscriberID uuid.UUID, channelID uuid.UUID) (bool, error)
	ChannelSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.User, error)
	SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.User, error)
}

type playlistService interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string, description string) (models.Playlist, error)
	Get(ctx context.Context, playlistID uuid.UUID) (models.Playlist, error)
	ListUserPlaylists(ctx context.Context, userID uuid.UUID) ([]models.Playlist, error)
	Update(ctx context.Context, playlistID uuid.UUID, userID uuid.UUID, arg repository.UpdatePlaylistParams) (models.Playlist, error)
	Delete(ctx context.Context, playlistID uuid.UUID, userID uuid.UUID) error
	AddVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID, userID uuid.UUID) (models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID uuid.UUID, videoID uuid.UUID, userID uuid.UUID) (models.Playlist, error)
}
