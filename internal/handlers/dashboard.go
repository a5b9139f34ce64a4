package handlers

import (
	"net/http"

	"github.com/videotube/videotube/internal/handlers/render"
	"github.com/videotube/videotube/internal/handlers/userctx"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/repository"
)

func handleChannelStats(videoService videoService, l logger.Logger) http.Handler {
	type response struct {
		TotalVideos      int64 `json:"totalVideos"`
		TotalViews       int64 `json:"totalViews"`
		TotalSubscribers int64 `json:"totalSubscribers"`
		TotalLikes       int64 `json:"totalLikes"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		stats, err := videoService.ChannelStats(r.Context(), u.ID)
		if err != nil {
			l.Error("Failed to get channel stats", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{
			TotalVideos:      stats.TotalVideos,
			TotalViews:       stats.TotalViews,
			TotalSubscribers: stats.TotalSubscribers,
			TotalLikes:       stats.TotalLikes,
		})
	})
}

// Channel videos for the owner dashboard, unpublished included
func handleChannelVideos(videoService videoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		opts := repository.ListVideosOpts{
			Limit: queryInt(r, "limit", 0),
		}

		videos, err := videoService.ChannelVideos(r.Context(), u.ID, opts)
		if err != nil {
			l.Error("Failed to list channel videos", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, newVideoResponses(videos))
	})
}
