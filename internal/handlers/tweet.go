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

func handleCreateTweet(tweetService tweetService, l logger.Logger) http.Handler {
	type request struct {
		Content string `json:"content" validate:"required,max=280"`
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

		tweet, err := tweetService.Create(r.Context(), u.ID, data.Content)
		if err != nil {
			l.Error("Failed to create tweet", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSONWithStatus(w, newTweetResponse(tweet), http.StatusCreated)
	})
}

func handleListUserTweets(tweetService tweetService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathID(r, "userID")
		if err != nil {
			render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
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

		tweets, err := tweetService.ListUserTweets(r.Context(), userID, opts)
		switch {
		case err == nil:
			res := make([]TweetResponse, 0, len(tweets))
			for _, t := range tweets {
				res = append(res, newTweetResponse(t))
			}
			render.JSON(w, res)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to list tweets", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateTweet(tweetService tweetService, l logger.Logger) http.Handler {
	type request struct {
		Content string `json:"content" validate:"required,max=280"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		tweetID, err := pathID(r, "tweetID")
		if err != nil {
			render.ServiceError(w, "Invalid tweet id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		tweet, err := tweetService.Update(r.Context(), tweetID, u.ID, data.Content)
		switch {
		case err == nil:
			render.JSON(w, newTweetResponse(tweet))
		case errors.Is(err, apperrors.ErrTweetNotFound):
			render.ServiceError(w, "Tweet not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNotOwner):
			render.ServiceError(w, "Only the owner may edit a tweet", http.StatusForbidden)
		default:
			l.Error("Failed to update tweet", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeleteTweet(tweetService tweetService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		tweetID, err := pathID(r, "tweetID")
		if err != nil {
			render.ServiceError(w, "Invalid tweet id", http.StatusBadRequest)
			return
		}

		err = tweetService.Delete(r.Context(), tweetID, u.ID)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Tweet deleted successfully"})
		case errors.Is(err, apperrors.ErrTweetNotFound):
			render.ServiceError(w, "Tweet not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNotOwner):
			render.ServiceError(w, "Only the owner may delete a tweet", http.StatusForbidden)
		default:
			l.Error("Failed to delete tweet", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
