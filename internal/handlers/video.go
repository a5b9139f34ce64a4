package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/handlers/render"
	"github.com/videotube/videotube/internal/handlers/userctx"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
	"github.com/videotube/videotube/internal/service/video"
)

const defaultPageSize = 10

func handleListVideos(videoService videoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		opts := repository.ListVideosOpts{
			Query:         q.Get("query"),
			OnlyPublished: true,
			SortBy:        q.Get("sortBy"),
			Oldest:        q.Get("sortType") == "asc",
			Limit:         queryInt(r, "limit", defaultPageSize),
		}

		page := queryInt(r, "page", 1)
		if page < 1 {
			page = 1
		}
		opts.Offset = (page - 1) * opts.Limit

		if raw := q.Get("userId"); raw != "" {
			ownerID, err := uuid.Parse(raw)
			if err != nil {
				render.ServiceError(w, "Invalid userId", http.StatusBadRequest)
				return
			}
			opts.OwnerID = &ownerID
		}

		videos, err := videoService.List(r.Context(), opts)
		if err != nil {
			l.Error("Failed to list videos", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, newVideoResponses(videos))
	})
}

func handlePublishVideo(videoService videoService, l logger.Logger) http.Handler {
	type form struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			render.ServiceError(w, "Failed to parse multipart form", http.StatusBadRequest)
			return
		}

		data := form{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
		}
		if err := render.Validate(w, data); err != nil {
			return
		}

		duration, err := strconv.ParseFloat(r.FormValue("duration"), 64)
		if err != nil || duration < 0 {
			render.ServiceError(w, "Invalid duration", http.StatusBadRequest)
			return
		}

		videoFile, vf, err := formFile(r, "videoFile")
		if err != nil {
			render.ServiceError(w, "Video file is required", http.StatusBadRequest)
			return
		}
		defer vf.Close() //nolint:errcheck

		thumbnail, tf, err := formFile(r, "thumbnail")
		if err != nil {
			render.ServiceError(w, "Thumbnail is required", http.StatusBadRequest)
			return
		}
		defer tf.Close() //nolint:errcheck

		published, err := videoService.Publish(r.Context(), video.PublishParams{
			OwnerID:     u.ID,
			Title:       data.Title,
			Description: data.Description,
			Duration:    duration,
			VideoFile:   videoFile,
			Thumbnail:   thumbnail,
		})
		if err != nil {
			l.Error("Failed to publish video", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, newVideoResponse(published), http.StatusCreated)
	})
}

func handleGetVideo(videoService videoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		videoID, err := pathID(r, "videoID")
		if err != nil {
			render.ServiceError(w, "Invalid video id", http.StatusBadRequest)
			return
		}

		v, err := videoService.Get(r.Context(), videoID, u.ID)
		switch {
		case err == nil:
			render.JSON(w, newVideoResponse(v))
		case errors.Is(err, apperrors.ErrVideoNotFound):
			render.ServiceError(w, "Video not found", http.StatusNotFound)
		default:
			l.Error("Failed to get video", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateVideo(videoService videoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		videoID, err := pathID(r, "videoID")
		if err != nil {
			render.ServiceError(w, "Invalid video id", http.StatusBadRequest)
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			render.ServiceError(w, "Failed to parse multipart form", http.StatusBadRequest)
			return
		}

		var params video.UpdateParams
		if _, ok := r.MultipartForm.Value["title"]; ok {
			title := r.FormValue("title")
			params.Title = &title
		}
		if _, ok := r.MultipartForm.Value["description"]; ok {
			description := r.FormValue("description")
			params.Description = &description
		}
		if thumbnail, tf, err := formFile(r, "thumbnail"); err == nil {
			defer tf.Close() //nolint:errcheck
			params.Thumbnail = &thumbnail
		}

		updated, err := videoService.Update(r.Context(), videoID, u.ID, params)
		renderVideoOrError(w, l, updated, err)
	})
}

func handleDeleteVideo(videoService videoService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		videoID, err := pathID(r, "videoID")
		if err != nil {
			render.ServiceError(w, "Invalid video id", http.StatusBadRequest)
			return
		}

		err = videoService.Delete(r.Context(), videoID, u.ID)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Video deleted successfully"})
		case errors.Is(err, apperrors.ErrVideoNotFound):
			render.ServiceError(w, "Video not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNotOwner):
			render.ServiceError(w, "Only the owner may delete a video", http.StatusForbidden)
		default:
			l.Error("Failed to delete video", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleTogglePublish(videoService videoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		videoID, err := pathID(r, "videoID")
		if err != nil {
			render.ServiceError(w, "Invalid video id", http.StatusBadRequest)
			return
		}

		toggled, err := videoService.TogglePublish(r.Context(), videoID, u.ID)
		renderVideoOrError(w, l, toggled, err)
	})
}

func renderVideoOrError(w http.ResponseWriter, l logger.Logger, v models.Video, err error) {
	switch {
	case err == nil:
		render.JSON(w, newVideoResponse(v))
	case errors.Is(err, apperrors.ErrVideoNotFound):
		render.ServiceError(w, "Video not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrNotOwner):
		render.ServiceError(w, "Only the owner may modify a video", http.StatusForbidden)
	case errors.Is(err, apperrors.ErrNothingToUpdate):
		render.ServiceError(w, "At least one field is required", http.StatusBadRequest)
	default:
		l.Error("Video operation failed", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
