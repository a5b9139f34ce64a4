package comment

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/repository"
)

type CommentService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *CommentService {
	return &CommentService{storage: storage}
}

func (s *CommentService) Create(ctx context.Context, videoID uuid.UUID, ownerID uuid.UUID, content string) (models.Comment, error) {
	return s.storage.Comment().CreateComment(ctx, videoID, ownerID, content)
}

func (s *CommentService) List(ctx context.Context, videoID uuid.UUID, opts repository.ListOpts) ([]models.Comment, error) {
	// Listing comments of a missing video is a 404, not an empty page
	if _, err := s.storage.Video().GetVideoByID(ctx, videoID); err != nil {
		return nil, err
	}

	return s.storage.Comment().ListVideoComments(ctx, videoID, opts)
}

func (s *CommentService) Update(ctx context.Context, commentID uuid.UUID, userID uuid.UUID, content string) (models.Comment, error) {
	if err := s.checkOwner(ctx, commentID, userID); err != nil {
		return models.Comment{}, err
	}

	return s.storage.Comment().UpdateComment(ctx, commentID, content)
}

func (s *CommentService) Delete(ctx context.Context, commentID uuid.UUID, userID uuid.UUID) error {
	if err := s.checkOwner(ctx, commentID, userID); err != nil {
		return err
	}

	return s.storage.Comment().DeleteComment(ctx, commentID)
}

func (s *CommentService) checkOwner(ctx context.Context, commentID uuid.UUID, userID uuid.UUID) error {
	comment, err := s.storage.Comment().GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != userID {
		return apperrors.ErrNotOwner
	}
	return nil
}
