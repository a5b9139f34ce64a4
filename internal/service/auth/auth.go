package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
	"github.com/videotube/videotube/internal/service/auth/tokenmanager"
)

const (
	defaultAccessCookieName  = "accessToken"
	defaultRefreshCookieName = "refreshToken"
	defaultAccessAuthScheme  = "Bearer"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher to use during login or password change
	// BcryptHasher is used if not set
	Hasher PasswordHasher

	// Cookie names to carry the token pair
	// If not set than defaults are used
	AccessCookieName  string
	RefreshCookieName string

	// Mark auth cookies as Secure
	// Should be on everywhere except local development
	SecureCookies bool
}

type AuthService struct {
	token  *tokenmanager.TokenManager
	hasher PasswordHasher

	userRepo repository.UserRepo

	accessCookieName  string
	refreshCookieName string
	accessAuthScheme  string
	secureCookies     bool
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if cfg.AccessCookieName == "" {
		cfg.AccessCookieName = defaultAccessCookieName
	}
	if cfg.RefreshCookieName == "" {
		cfg.RefreshCookieName = defaultRefreshCookieName
	}

	return &AuthService{
		token:             token,
		hasher:            hasher,
		userRepo:          userRepo,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
		accessAuthScheme:  defaultAccessAuthScheme,
		secureCookies:     cfg.SecureCookies,
	}, nil
}

// Check login and password and start a session for the user.
// Stored usernames and emails are lowercase, so the login is folded
// before the lookup.
func (s *AuthService) Login(ctx context.Context, login string, password string) (models.User, models.TokenPair, error) {
	user, err := s.userRepo.GetUserByLogin(ctx, strings.ToLower(login))
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	pair, err := s.Issue(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Issue a fresh token pair for the user and store the refresh token.
// The stored value replaces whatever was there, so issuing a new pair
// invalidates the previous refresh token.
func (s *AuthService) Issue(ctx context.Context, user models.User) (models.TokenPair, error) {
	pair, err := s.token.GeneratePair(user)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w. Err: %w", apperrors.ErrSessionIssue, err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, pair.Refresh.Value); err != nil {
		return models.TokenPair{}, fmt.Errorf("%w. Err: %w", apperrors.ErrSessionIssue, err)
	}

	return pair, nil
}

// Exchange a refresh token for a new pair.
// The stored token is swapped for the new one in a single conditional
// update, so a token may be exchanged exactly once even under
// concurrent requests.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.User, models.TokenPair, error) {
	userID, err := s.token.ParseRefresh(refresh)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("%w. Err: %w", apperrors.ErrTokenInvalid, err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.User{}, models.TokenPair{}, apperrors.ErrTokenInvalid
		}
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.token.GeneratePair(user)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("%w. Err: %w", apperrors.ErrSessionIssue, err)
	}

	if err := s.userRepo.RotateRefreshToken(ctx, user.ID, refresh, pair.Refresh.Value); err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Drop the stored refresh token so it can't be exchanged anymore
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.SetRefreshToken(ctx, userID, "")
}

// Authenticate the request: access token cookie first, then the
// Authorization header. The user behind the claims is loaded from
// storage, so a token issued for a since-deleted account is rejected.
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	access := ""
	if cookie, err := r.Cookie(s.accessCookieName); err == nil {
		access = cookie.Value
	}
	if access == "" {
		header := r.Header.Get("Authorization")
		if after, found := strings.CutPrefix(header, s.accessAuthScheme+" "); found {
			access = after
		}
	}
	if access == "" {
		return models.User{}, apperrors.ErrTokenMissing
	}

	claims, err := s.token.ParseAccess(access)
	if err != nil {
		return models.User{}, fmt.Errorf("%w. Err: %w", apperrors.ErrTokenInvalid, err)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.User{}, apperrors.ErrTokenInvalid
		}
		return models.User{}, err
	}

	return user, nil
}

// Set token pair as httpOnly cookies
func (s *AuthService) SetAuth(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.accessCookieName,
		Value:    pair.Access.Value,
		Path:     "/",
		Expires:  pair.Access.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     s.refreshCookieName,
		Value:    pair.Refresh.Value,
		Path:     "/",
		Expires:  pair.Refresh.ExpiresAt,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Expire both auth cookies
func (s *AuthService) ClearAuth(w http.ResponseWriter) {
	for _, name := range []string{s.accessCookieName, s.refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   s.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// Read refresh token from the cookie
func (s *AuthService) ReadRefreshToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.ErrTokenMissing
	}
	return cookie.Value, nil
}

// Hash password for storage
func (s *AuthService) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

// Compare stored hash with the provided password
func (s *AuthService) ComparePassword(hashedPassword string, password string) error {
	return s.hasher.Compare(hashedPassword, password)
}
