package handlers

import (
	"errors"
	"net/http"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/handlers/render"
	"github.com/videotube/videotube/internal/handlers/userctx"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/repository"
)

func handleListComments(commentService commentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathID(r, "videoID")
		if err != nil {
			render.ServiceError(w, "Invalid video id", http.StatusBadRequest)
			return
		}

		opts := repository.ListOpts{
			Limit:  queryInt(r, "limit", defaultPageSize),
			Oldest: r.URL.Query().Get("sortType") == "asc",
		}
		page := queryInt(r, "page", 1)
		if page < 1 {
			page = 1
		}
		opts.Offset = (page - 1) * opts.Limit

		comments, err := commentService.List(r.Context(), videoID, opts)
		switch {
		case err == nil:
			res := make([]CommentResponse, 0, len(comments))
			for _, c := range comments {
				res = append(res, newCommentResponse(c))
			}
			render.JSON(w, res)
		case errors.Is(err, apperrors.ErrVideoNotFound):
			render.ServiceError(w, "Video not found", http.StatusNotFound)
		default:
			l.Error("Failed to list comments", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleCreateComment(commentService commentService, l logger.Logger) http.Handler {
	type request struct {
		Content string `json:"content" validate:"required,max=1000"`
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

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		comment, err := commentService.Create(r.Context(), videoID, u.ID, data.Content)
		switch {
		case err == nil:
			render.JSONWithStatus(w, newCommentResponse(comment), http.StatusCreated)
		case errors.Is(err, apperrors.ErrVideoNotFound):
			render.ServiceError(w, "Video not found", http.StatusNotFound)
		default:
			l.Error("Failed to create comment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateComment(commentService commentService, l logger.Logger) http.Handler {
	type request struct {
		Content string `json:"content" validate:"required,max=1000"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		commentID, err := pathID(r, "commentID")
		if err != nil {
			render.ServiceError(w, "Invalid comment id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		comment, err := commentService.Update(r.Context(), commentID, u.ID, data.Content)
		switch {
		case err == nil:
			render.JSON(w, newCommentResponse(comment))
		case errors.Is(err, apperrors.ErrCommentNotFound):
			render.ServiceError(w, "Comment not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNotOwner):
			render.ServiceError(w, "Only the owner may edit a comment", http.StatusForbidden)
		default:
			l.Error("Failed to update comment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeleteComment(commentService commentService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		commentID, err := pathID(r, "commentID")
		if err != nil {
			render.ServiceError(w, "Invalid comment id", http.StatusBadRequest)
			return
		}

		err = commentService.Delete(r.Context(), commentID, u.ID)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Comment deleted successfully"})
		case errors.Is(err, apperrors.ErrCommentNotFound):
			render.ServiceError(w, "Comment not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNotOwner):
			render.ServiceError(w, "Only the owner may delete a comment", http.StatusForbidden)
		default:
			l.Error("Failed to delete comment", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
