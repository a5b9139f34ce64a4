package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/videotube/videotube/internal/db"
	"github.com/videotube/videotube/internal/handlers"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/media"
	"github.com/videotube/videotube/internal/repository/postgres"
	"github.com/videotube/videotube/internal/service/auth"
	"github.com/videotube/videotube/internal/service/auth/tokenmanager"
	"github.com/videotube/videotube/internal/service/comment"
	"github.com/videotube/videotube/internal/service/like"
	"github.com/videotube/videotube/internal/service/playlist"
	"github.com/videotube/videotube/internal/service/subscription"
	"github.com/videotube/videotube/internal/service/tweet"
	"github.com/videotube/videotube/internal/service/user"
	"github.com/videotube/videotube/internal/service/video"
	"github.com/videotube/videotube/internal/service/viewsprocessor"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	views  *viewsprocessor.Processor
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Object storage for uploaded media
	mediaStore, err := media.NewS3Store(ctx, media.S3Config{
		Region:        c.S3Region,
		Endpoint:      c.S3Endpoint,
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Bucket:        c.S3Bucket,
		PublicBaseURL: c.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating media store. Err: %w", err)
	}

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{SecureCookies: c.SecureCookies}, tokenManager, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	views := viewsprocessor.New(viewsprocessor.Config{}, storage.Video(), storage.WatchHistory(), logger)

	mux := handlers.NewRouter(handlers.Services{
		Auth:         authService,
		User:         user.NewService(auth.DefaultHasher, storage, mediaStore),
		Video:        video.NewService(storage, mediaStore, views),
		Comment:      comment.NewService(storage),
		Tweet:        tweet.NewService(storage),
		Like:         like.NewService(storage),
		Subscription: subscription.NewService(storage),
		Playlist:     playlist.NewService(storage),
	}, logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     logger,
		views:      views,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	// Buffered view counter runs for the lifetime of the server
	viewsDone := s.views.Process(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-viewsDone

	return err
}
