package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid user credentials")

	ErrTokenMissing       = errors.New("no token provided")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrRefreshTokenReused = errors.New("refresh token is expired or reused")
	ErrSessionIssue       = errors.New("failed to issue session tokens")

	ErrVideoNotFound    = errors.New("video not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrTweetNotFound    = errors.New("tweet not found")
	ErrPlaylistNotFound = errors.New("playlist not found")

	ErrNotOwner = errors.New("resource is owned by another user")

	ErrSelfSubscription = errors.New("can't subscribe to own channel")
	ErrVideoInPlaylist  = errors.New("video already in playlist")
	ErrNothingToUpdate  = errors.New("nothing to update")
)
