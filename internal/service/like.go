package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rahanur19/youStream/internal/metrics"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

type LikeService struct {
	repo     repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	posts    repository.CommunityPostRepository
	metrics  *metrics.Metrics
}

func NewLikeService(
	repo repository.LikeRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	posts repository.CommunityPostRepository,
	m *metrics.Metrics,
) *LikeService {
	return &LikeService{
		repo:     repo,
		videos:   videos,
		comments: comments,
		posts:    posts,
		metrics:  m,
	}
}

// Toggle removes userID's like on target if present, otherwise adds one.
// A concurrent duplicate add is absorbed by the store, so the pair ends up
// liked exactly once.
func (s *LikeService) Toggle(ctx context.Context, target model.ContentRef, userID string) (*model.LikeToggleResult, error) {
	if err := s.requireTarget(ctx, target, userID); err != nil {
		return nil, err
	}

	removed, err := s.repo.Delete(ctx, target, userID)
	if err != nil {
		return nil, err
	}

	state := model.ToggleRemoved
	if !removed {
		if _, err := s.repo.Create(ctx, model.NewLike(target, userID)); err != nil {
			return nil, err
		}
		state = model.ToggleAdded
	}

	count, err := s.repo.CountByTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveToggle("like_"+string(target.Kind), string(state))

	return &model.LikeToggleResult{
		Target:     target,
		State:      state,
		IsLiked:    state == model.ToggleAdded,
		LikesCount: count,
	}, nil
}

func (s *LikeService) Count(ctx context.Context, target model.ContentRef, viewerID string) (*model.LikeCount, error) {
	if err := s.requireTarget(ctx, target, viewerID); err != nil {
		return nil, err
	}
	count, err := s.repo.CountByTarget(ctx, target)
	if err != nil {
		return nil, err
	}
	return &model.LikeCount{Target: target, LikesCount: count}, nil
}

// LikedVideos lists the published videos userID has liked.
func (s *LikeService) LikedVideos(ctx context.Context, userID string) ([]model.Video, error) {
	return s.repo.ListLikedVideos(ctx, userID)
}

// requireTarget checks that target exists for actorID. Videos, and comments
// on videos, are hidden from everyone but the owner while unpublished.
func (s *LikeService) requireTarget(ctx context.Context, target model.ContentRef, actorID string) error {
	switch target.Kind {
	case model.ContentVideo:
		_, err := visibleVideo(ctx, s.videos, target.ID, actorID)
		return err
	case model.ContentComment:
		comment, err := s.comments.GetByID(ctx, target.ID)
		if err != nil {
			return err
		}
		if parent := comment.Parent(); parent.Kind == model.ContentVideo {
			_, err := visibleVideo(ctx, s.videos, parent.ID, actorID)
			if errors.Is(err, model.ErrVideoNotFound) {
				return model.ErrCommentNotFound
			}
			return err
		}
		return nil
	case model.ContentCommunityPost:
		exists, err := s.posts.Exists(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", target.Kind, err)
		}
		if !exists {
			return model.ErrCommunityPostNotFound
		}
		return nil
	default:
		return model.ErrNotLikeable
	}
}
