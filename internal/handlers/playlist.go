package handlers

import (
	"errors"
	"net/http"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/handlers/render"
	"github.com/videotube/videotube/internal/handlers/userctx"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

func handleCreatePlaylist(playlistService playlistService, l logger.Logger) http.Handler {
	type request struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description" validate:"max=1000"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		playlist, err := playlistService.Create(r.Context(), u.ID, data.Name, data.Description)
		if err != nil {
			l.Error("Failed to create playlist", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, newPlaylistResponse(playlist), http.StatusCreated)
	})
}

func handleGetPlaylist(playlistService playlistService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		playlistID, err := pathID(r, "playlistID")
		if err != nil {
			render.ServiceError(w, "Invalid playlist id", http.StatusBadRequest)
			return
		}

		playlist, err := playlistService.Get(r.Context(), playlistID)
		renderPlaylistOrError(w, l, playlist, err)
	})
}

func handleListUserPlaylists(playlistService playlistService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		playlists, err := playlistService.ListUserPlaylists(r.Context(), userID)
		if err != nil {
			l.Error("Failed to list playlists", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]PlaylistResponse, 0, len(playlists))
		for _, p := range playlists {
			res = append(res, newPlaylistResponse(p))
		}
		render.JSON(w, res)
	})
}

func handleUpdatePlaylist(playlistService playlistService, l logger.Logger) http.Handler {
	type request struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
		Description *string `json:"description" validate:"omitempty,max=1000"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		playlistID, err := pathID(r, "playlistID")
		if err != nil {
			render.ServiceError(w, "Invalid playlist id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		playlist, err := playlistService.Update(r.Context(), playlistID, u.ID, repository.UpdatePlaylistParams{
			Name:        data.Name,
			Description: data.Description,
		})
		renderPlaylistOrError(w, l, playlist, err)
	})
}

func handleDeletePlaylist(playlistService playlistService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		playlistID, err := pathID(r, "playlistID")
		if err != nil {
			render.ServiceError(w, "Invalid playlist id", http.StatusBadRequest)
			return
		}

		err = playlistService.Delete(r.Context(), playlistID, u.ID)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Playlist deleted successfully"})
		case errors.Is(err, apperrors.ErrPlaylistNotFound):
			render.ServiceError(w, "Playlist not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNotOwner):
			render.ServiceError(w, "Only the owner may delete a playlist", http.StatusForbidden)
		default:
			l.Error("Failed to delete playlist", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAddPlaylistVideo(playlistService playlistService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		playlistID, err := pathID(r, "playlistID")
		if err != nil {
			render.ServiceError(w, "Invalid playlist id", http.StatusBadRequest)
			return
		}
		videoID, err := pathID(r, "videoID")
		if err != nil {
			render.ServiceError(w, "Invalid video id", http.StatusBadRequest)
			return
		}

		playlist, err := playlistService.AddVideo(r.Context(), playlistID, videoID, u.ID)
		if errors.Is(err, apperrors.ErrVideoInPlaylist) {
			render.ServiceError(w, "Video is already in the playlist", http.StatusConflict)
			return
		}
		renderPlaylistOrError(w, l, playlist, err)
	})
}

func handleRemovePlaylistVideo(playlistService playlistService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		playlistID, err := pathID(r, "playlistID")
		if err != nil {
			render.ServiceError(w, "Invalid playlist id", http.StatusBadRequest)
			return
		}
		videoID, err := pathID(r, "videoID")
		if err != nil {
			render.ServiceError(w, "Invalid video id", http.StatusBadRequest)
			return
		}

		playlist, err := playlistService.RemoveVideo(r.Context(), playlistID, videoID, u.ID)
		renderPlaylistOrError(w, l, playlist, err)
	})
}

func renderPlaylistOrError(w http.ResponseWriter, l logger.Logger, p models.Playlist, err error) {
	switch {
	case err == nil:
		render.JSON(w, newPlaylistResponse(p))
	case errors.Is(err, apperrors.ErrPlaylistNotFound):
		render.ServiceError(w, "Playlist not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrVideoNotFound):
		render.ServiceError(w, "Video not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrNotOwner):
		render.ServiceError(w, "Only the owner may modify a playlist", http.StatusForbidden)
	case errors.Is(err, apperrors.ErrNothingToUpdate):
		render.ServiceError(w, "At least one field is required", http.StatusBadRequest)
	default:
		l.Error("Playlist operation failed", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
