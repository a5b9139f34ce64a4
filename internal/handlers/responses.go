package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
)

// UserResponse is the public shape of a user. Password hash, stored refresh
// token and raw storage keys never leave the service.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type VideoResponse struct {
	ID          uuid.UUID `json:"id"`
	Owner       uuid.UUID `json:"owner"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	Video     uuid.UUID `json:"video"`
	Owner     uuid.UUID `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TweetResponse struct {
	ID        uuid.UUID `json:"id"`
	Owner     uuid.UUID `json:"owner"`
	Content   string    `json:"content"`
	LikeCount int64     `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PlaylistResponse struct {
	ID          uuid.UUID       `json:"id"`
	Owner       uuid.UUID       `json:"owner"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Videos      []VideoResponse `json:"videos"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func newUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.AvatarURL,
		CoverImage: u.CoverImageURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func newUserResponses(users []models.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, newUserResponse(u))
	}
	return res
}

func newVideoResponse(v models.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		Owner:       v.OwnerID,
		VideoFile:   v.VideoURL,
		Thumbnail:   v.ThumbnailURL,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func newVideoResponses(videos []models.Video) []VideoResponse {
	res := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		res = append(res, newVideoResponse(v))
	}
	return res
}

func newCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Video:     c.VideoID,
		Owner:     c.OwnerID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func newTweetResponse(t models.Tweet) TweetResponse {
	return TweetResponse{
		ID:        t.ID,
		Owner:     t.OwnerID,
		Content:   t.Content,
		LikeCount: t.LikeCount,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func newPlaylistResponse(p models.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          p.ID,
		Owner:       p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Videos:      newVideoResponses(p.Videos),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
