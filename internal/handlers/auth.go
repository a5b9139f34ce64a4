package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/handlers/render"
	"github.com/videotube/videotube/internal/handlers/userctx"
	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/models"
)

type authResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func newAuthResponse(user models.User, pair models.TokenPair) authResponse {
	return authResponse{
		User:         newUserResponse(user),
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	}
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		// Username and email are interchangeable on login
		login := data.Username
		if login == "" {
			login = data.Email
		}
		if login == "" {
			render.ServiceError(w, "Username or email is required", http.StatusBadRequest)
			return
		}

		user, pair, err := authService.Login(r.Context(), login, data.Password)
		switch {
		case err == nil:
			authService.SetAuth(w, pair)
			render.JSON(w, newAuthResponse(user, pair))
		case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrInvalidCredentials):
			// Same answer for unknown user and wrong password
			render.ServiceError(w, "Invalid credentials", http.StatusUnauthorized)
		default:
			l.Error("Login failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleRefreshToken(authService authService, l logger.Logger) http.Handler {
	type request struct {
		RefreshToken string `json:"refreshToken"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Cookie first, request body as fallback
		refresh, err := authService.ReadRefreshToken(r)
		if err != nil {
			var data request
			_ = json.NewDecoder(r.Body).Decode(&data)
			refresh = data.RefreshToken
		}
		if refresh == "" {
			render.ServiceError(w, "Refresh token required", http.StatusUnauthorized)
			return
		}

		user, pair, err := authService.Refresh(r.Context(), refresh)
		switch {
		case err == nil:
			authService.SetAuth(w, pair)
			render.JSON(w, newAuthResponse(user, pair))
		case errors.Is(err, apperrors.ErrRefreshTokenReused):
			render.ServiceError(w, "Refresh token already used or revoked", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrTokenInvalid):
			render.ServiceError(w, "Refresh token invalid or expired", http.StatusUnauthorized)
		default:
			l.Error("Token refresh failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogout(authService authService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := authService.Logout(r.Context(), user.ID); err != nil {
			l.Error("Logout failed", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		authService.ClearAuth(w)
		render.JSON(w, response{Message: "User logged out successfully"})
	})
}
