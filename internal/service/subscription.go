package service

import (
	"context"
	"errors"

	"github.com/Rahanur19/youStream/internal/metrics"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

var errChannelNotFound = model.NotFound("channel not found")

type SubscriptionService struct {
	repo    repository.SubscriptionRepository
	users   repository.UserRepository
	metrics *metrics.Metrics
}

func NewSubscriptionService(repo repository.SubscriptionRepository, users repository.UserRepository, m *metrics.Metrics) *SubscriptionService {
	return &SubscriptionService{repo: repo, users: users, metrics: m}
}

// Toggle subscribes subscriberID to channelID, or unsubscribes if already
// subscribed.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID string) (*model.SubscriptionToggleResult, error) {
	if subscriberID == channelID {
		return nil, model.ErrCannotSubscribeSelf
	}
	if err := s.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}

	removed, err := s.repo.Delete(ctx, subscriberID, channelID)
	if err != nil {
		return nil, err
	}

	state := model.ToggleRemoved
	if !removed {
		if _, err := s.repo.Create(ctx, subscriberID, channelID); err != nil {
			return nil, err
		}
		state = model.ToggleAdded
	}

	count, err := s.repo.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveToggle("subscription", string(state))

	return &model.SubscriptionToggleResult{
		ChannelID:        channelID,
		State:            state,
		IsSubscribed:     state == model.ToggleAdded,
		SubscribersCount: count,
	}, nil
}

// Subscribers lists the users subscribed to channelID.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID string) (*model.SubscriberList, error) {
	if err := s.requireChannel(ctx, channelID); err != nil {
		return nil, err
	}
	users, err := s.repo.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &model.SubscriberList{Users: users, Count: len(users)}, nil
}

// Channels lists the channels subscriberID is subscribed to.
func (s *SubscriptionService) Channels(ctx context.Context, subscriberID string) (*model.SubscriberList, error) {
	if _, err := s.users.GetByID(ctx, subscriberID); err != nil {
		return nil, err
	}
	users, err := s.repo.ListChannels(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	return &model.SubscriberList{Users: users, Count: len(users)}, nil
}

func (s *SubscriptionService) requireChannel(ctx context.Context, channelID string) error {
	if _, err := s.users.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return errChannelNotFound
		}
		return err
	}
	return nil
}
