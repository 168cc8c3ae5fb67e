package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

type CommunityPostService struct {
	repo    repository.CommunityPostRepository
	users   repository.UserRepository
	cascade *CascadeEngine
}

func NewCommunityPostService(repo repository.CommunityPostRepository, users repository.UserRepository, cascade *CascadeEngine) *CommunityPostService {
	return &CommunityPostService{repo: repo, users: users, cascade: cascade}
}

func (s *CommunityPostService) Create(ctx context.Context, ownerID string, req *model.CommunityPostRequest) (*model.CommunityPost, error) {
	if req.Title == nil {
		return nil, model.InvalidArgument("title is required")
	}
	if req.Content == nil {
		return nil, model.InvalidArgument("content is required")
	}

	title, err := requireLength("title", *req.Title, model.TitleMinLength, model.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	content, err := requireLength("content", *req.Content, model.PostContentMinLength, model.PostContentMaxLength)
	if err != nil {
		return nil, err
	}

	post := &model.CommunityPost{
		ID:      uuid.NewString(),
		Owner:   ownerID,
		Title:   title,
		Content: content,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *CommunityPostService) Get(ctx context.Context, id string) (*model.CommunityPost, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByOwner lists a user's posts, newest first.
func (s *CommunityPostService) ListByOwner(ctx context.Context, ownerID string) ([]model.CommunityPost, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *CommunityPostService) Update(ctx context.Context, id, userID string, req *model.CommunityPostRequest) (*model.CommunityPost, error) {
	if req.Title == nil && req.Content == nil {
		return nil, model.ErrNothingToUpdate
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(post, userID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if post.Title, err = requireLength("title", *req.Title, model.TitleMinLength, model.TitleMaxLength); err != nil {
			return nil, err
		}
	}
	if req.Content != nil {
		if post.Content, err = requireLength("content", *req.Content, model.PostContentMinLength, model.PostContentMaxLength); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post, its comments and all likes on either.
func (s *CommunityPostService) Delete(ctx context.Context, id, userID string) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AssertOwner(post, userID); err != nil {
		return err
	}
	return s.cascade.DeletePost(ctx, post)
}
