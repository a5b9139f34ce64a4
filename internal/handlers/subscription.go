package handlers

import (
	"errors"
	"net/http"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/handlers/render"
	"github.com/videotube/videotube/internal/handlers/userctx"
	"github.com/videotube/videotube/internal/logger"
)

func handleToggleSubscription(subscriptionService subscriptionService, l logger.Logger) http.Handler {
	type response struct {
		Subscribed bool `json:"subscribed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		channelID, err := pathID(r, "channelID")
		if err != nil {
			render.ServiceError(w, "Invalid channel id", http.StatusBadRequest)
			return
		}

		subscribed, err := subscriptionService.Toggle(r.Context(), u.ID, channelID)
		switch {
		case err == nil:
			render.JSON(w, response{Subscribed: subscribed})
		case errors.Is(err, apperrors.ErrSelfSubscription):
			render.ServiceError(w, "Can not subscribe to yourself", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Channel not found", http.StatusNotFound)
		default:
			l.Error("Failed to toggle subscription", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleChannelSubscribers(subscriptionService subscriptionService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		channelID, err := pathID(r, "channelID")
		if err != nil {
			render.ServiceError(w, "Invalid channel id", http.StatusBadRequest)
			return
		}

		subscribers, err := subscriptionService.ChannelSubscribers(r.Context(), channelID)
		if err != nil {
			l.Error("Failed to list subscribers", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, newUserResponses(subscribers))
	})
}

func handleSubscribedChannels(subscriptionService subscriptionService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subscriberID, err := pathID(r, "subscriberID")
		if err != nil {
			render.ServiceError(w, "Invalid subscriber id", http.StatusBadRequest)
			return
		}

		channels, err := subscriptionService.SubscribedChannels(r.Context(), subscriberID)
		if err != nil {
			l.Error("Failed to list subscribed channels", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, newUserResponses(channels))
	})
}
