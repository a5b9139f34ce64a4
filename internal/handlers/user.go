package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/handlers/render"
	"github.com/videotube/videotube/internal/handlers/userctx"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/media"
	"github.com/videotube/videotube/internal/repository"
	"github.com/videotube/videotube/internal/service/user"
)

func handleRegister(userService userService, l logger.Logger) http.Handler {
	type form struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email"`
		FullName string `json:"fullName" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			render.ServiceError(w, "Failed to parse multipart form", http.StatusBadRequest)
			return
		}

		data := form{
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			FullName: r.FormValue("fullName"),
			Password: r.FormValue("password"),
		}
		if err := render.Validate(w, data); err != nil {
			return
		}

		avatar, avatarFile, err := formFile(r, "avatar")
		if err != nil {
			render.ServiceError(w, "Avatar file is required", http.StatusBadRequest)
			return
		}
		defer avatarFile.Close() //nolint:errcheck

		params := user.RegisterParams{
			Username: data.Username,
			Email:    data.Email,
			FullName: data.FullName,
			Password: data.Password,
			Avatar:   avatar,
		}

		// Cover image is optional
		if cover, coverFile, err := formFile(r, "coverImage"); err == nil {
			defer coverFile.Close() //nolint:errcheck
			params.CoverImage = &cover
		}

		registered, err := userService.Register(r.Context(), params)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.ServiceError(w, "User with this username or email already exists", http.StatusConflict)
			default:
				l.Error("Registration failed", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, newUserResponse(registered), http.StatusCreated)
	})
}

func handleCurrentUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		render.JSON(w, newUserResponse(u))
	})
}

func handleChangePassword(userService userService, l logger.Logger) http.Handler {
	type request struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=8"`
	}
	type response struct {
		Message string `json:"message"`
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

		err = userService.ChangePassword(r.Context(), u.ID, data.OldPassword, data.NewPassword)
		switch {
		case err == nil:
			render.JSON(w, response{Message: "Password changed successfully"})
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Old password is incorrect", http.StatusUnauthorized)
		default:
			l.Error("Password change failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateAccount(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Username *string `json:"username" validate:"omitempty,min=2,max=50"`
		FullName *string `json:"fullName" validate:"omitempty,min=1"`
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

		updated, err := userService.UpdateAccount(r.Context(), u.ID, repository.UpdateUserParams{
			Username: data.Username,
			FullName: data.FullName,
		})
		switch {
		case err == nil:
			render.JSON(w, newUserResponse(updated))
		case errors.Is(err, apperrors.ErrNothingToUpdate):
			render.ServiceError(w, "At least one field is required", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Username already taken", http.StatusConflict)
		default:
			l.Error("Account update failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// Shared by avatar and cover image updates, they differ only in form field
// and service call
func handleUpdateImage(
	field string,
	update func(r *http.Request, upload media.Upload) (UserResponse, error),
	l logger.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			render.ServiceError(w, "Failed to parse multipart form", http.StatusBadRequest)
			return
		}

		upload, file, err := formFile(r, field)
		if err != nil {
			render.ServiceError(w, "File field '"+field+"' is required", http.StatusBadRequest)
			return
		}
		defer file.Close() //nolint:errcheck

		res, err := update(r, upload)
		if err != nil {
			l.Error("Image update failed", "field", field, "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, res)
	})
}

func handleUpdateAvatar(userService userService, l logger.Logger) http.Handler {
	return handleUpdateImage("avatar", func(r *http.Request, upload media.Upload) (UserResponse, error) {
		u, _ := userctx.FromContext(r.Context())
		updated, err := userService.UpdateAvatar(r.Context(), u.ID, upload)
		return newUserResponse(updated), err
	}, l)
}

func handleUpdateCoverImage(userService userService, l logger.Logger) http.Handler {
	return handleUpdateImage("coverImage", func(r *http.Request, upload media.Upload) (UserResponse, error) {
		u, _ := userctx.FromContext(r.Context())
		updated, err := userService.UpdateCoverImage(r.Context(), u.ID, upload)
		return newUserResponse(updated), err
	}, l)
}

func handleChannelProfile(userService userService, l logger.Logger) http.Handler {
	type response struct {
		UserResponse
		SubscriberCount   int64 `json:"subscribersCount"`
		SubscribedToCount int64 `json:"channelsSubscribedToCount"`
		IsSubscribed      bool  `json:"isSubscribed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		username := r.PathValue("username")
		if username == "" {
			render.ServiceError(w, "Username is required", http.StatusBadRequest)
			return
		}

		profile, err := userService.ChannelProfile(r.Context(), username, viewer.ID)
		switch {
		case err == nil:
			render.JSON(w, response{
				UserResponse:      newUserResponse(profile.User),
				SubscriberCount:   profile.SubscriberCount,
				SubscribedToCount: profile.SubscribedToCount,
				IsSubscribed:      profile.IsSubscribed,
			})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "Channel not found", http.StatusNotFound)
		default:
			l.Error("Failed to get channel profile", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleWatchHistory(userService userService, l logger.Logger) http.Handler {
	type entry struct {
		Video     VideoResponse `json:"video"`
		WatchedAt time.Time     `json:"watchedAt"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		history, err := userService.WatchHistory(r.Context(), u.ID, queryInt(r, "limit", 0))
		if err != nil {
			l.Error("Failed to get watch history", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		entries := make([]entry, 0, len(history))
		for _, h := range history {
			entries = append(entries, entry{Video: newVideoResponse(h.Video), WatchedAt: h.WatchedAt})
		}
		render.JSON(w, entries)
	})
}
