package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

type CommentService struct {
	repo    repository.CommentRepository
	videos  repository.VideoRepository
	posts   repository.CommunityPostRepository
	cascade *CascadeEngine
}

func NewCommentService(repo repository.CommentRepository, videos repository.VideoRepository, posts repository.CommunityPostRepository, cascade *CascadeEngine) *CommentService {
	return &CommentService{repo: repo, videos: videos, posts: posts, cascade: cascade}
}

// Create comments on a video or community post, which must exist.
func (s *CommentService) Create(ctx context.Context, parent model.ContentRef, ownerID, content string) (*model.Comment, error) {
	content, err := requireLength("content", content, model.CommentMinLength, model.CommentMaxLength)
	if err != nil {
		return nil, err
	}
	if err := s.requireParent(ctx, parent, ownerID); err != nil {
		return nil, err
	}

	comment := model.NewComment(parent, ownerID, content)
	comment.ID = uuid.NewString()
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*model.Comment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of a parent's comments, newest first.
func (s *CommentService) List(ctx context.Context, parent model.ContentRef, viewerID string, page, limit int) (*model.CommentPage, error) {
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return nil, err
	}
	if err := s.requireParent(ctx, parent, viewerID); err != nil {
		return nil, err
	}

	comments, total, err := s.repo.ListByParent(ctx, parent, page, limit)
	if err != nil {
		return nil, err
	}
	return &model.CommentPage{Comments: comments, Page: page, Limit: limit, TotalComments: total}, nil
}

func (s *CommentService) Update(ctx context.Context, id, userID, content string) (*model.Comment, error) {
	content, err := requireLength("content", content, model.CommentMinLength, model.CommentMaxLength)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(comment, userID); err != nil {
		return nil, err
	}
	return s.repo.UpdateContent(ctx, id, content)
}

// Delete removes the comment and the likes on it.
func (s *CommentService) Delete(ctx context.Context, id, userID string) error {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AssertOwner(comment, userID); err != nil {
		return err
	}
	return s.cascade.DeleteComment(ctx, comment)
}

func (s *CommentService) requireParent(ctx context.Context, parent model.ContentRef, actorID string) error {
	switch parent.Kind {
	case model.ContentVideo:
		_, err := visibleVideo(ctx, s.videos, parent.ID, actorID)
		return err
	case model.ContentCommunityPost:
		exists, err := s.posts.Exists(ctx, parent.ID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", parent.Kind, err)
		}
		if !exists {
			return model.ErrCommunityPostNotFound
		}
		return nil
	default:
		return model.ErrNotCommentable
	}
}
