package service

import (
	"context"

	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

// DashboardService aggregates a channel's own numbers.
type DashboardService struct {
	videos        repository.VideoRepository
	subscriptions repository.SubscriptionRepository
}

func NewDashboardService(videos repository.VideoRepository, subscriptions repository.SubscriptionRepository) *DashboardService {
	return &DashboardService{videos: videos, subscriptions: subscriptions}
}

func (s *DashboardService) Stats(ctx context.Context, ownerID string) (*model.ChannelStats, error) {
	stats, err := s.videos.ChannelStats(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if stats.TotalSubscribers, err = s.subscriptions.CountSubscribers(ctx, ownerID); err != nil {
		return nil, err
	}
	return stats, nil
}

// Videos lists all of the channel's videos, unpublished included.
func (s *DashboardService) Videos(ctx context.Context, ownerID string) ([]model.Video, error) {
	return s.videos.ListByOwner(ctx, ownerID)
}
