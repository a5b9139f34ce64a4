package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/handlers/render"
	"github.com/videotube/videotube/internal/handlers/userctx"
	"github.com/videotube/videotube/internal/logger"
)

// Toggle handlers differ only in the path value name and the service call
func handleToggleLike(
	pathName string,
	toggle func(ctx context.Context, userID uuid.UUID, targetID uuid.UUID) (bool, error),
	l logger.Logger,
) http.Handler {
	type response struct {
		Liked bool `json:"liked"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		targetID, err := pathID(r, pathName)
		if err != nil {
			render.ServiceError(w, "Invalid id", http.StatusBadRequest)
			return
		}

		liked, err := toggle(r.Context(), u.ID, targetID)
		switch {
		case err == nil:
			render.JSON(w, response{Liked: liked})
		case errors.Is(err, apperrors.ErrVideoNotFound):
			render.ServiceError(w, "Video not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrCommentNotFound):
			render.ServiceError(w, "Comment not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrTweetNotFound):
			render.ServiceError(w, "Tweet not found", http.StatusNotFound)
		default:
			l.Error("Failed to toggle like", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleToggleVideoLike(likeService likeService, l logger.Logger) http.Handler {
	return handleToggleLike("videoID", likeService.ToggleVideo, l)
}

func handleToggleCommentLike(likeService likeService, l logger.Logger) http.Handler {
	return handleToggleLike("commentID", likeService.ToggleComment, l)
}

func handleToggleTweetLike(likeService likeService, l logger.Logger) http.Handler {
	return handleToggleLike("tweetID", likeService.ToggleTweet, l)
}

func handleListLikedVideos(likeService likeService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		videos, err := likeService.LikedVideos(r.Context(), u.ID)
		if err != nil {
			l.Error("Failed to list liked videos", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, newVideoResponses(videos))
	})
}
