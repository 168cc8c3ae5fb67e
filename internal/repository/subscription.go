package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscriberID, channelID string) (bool, error) {
	query := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, uuid.NewString(), subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to create subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, subscriberID, channelID string) (bool, error) {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	result, err := r.db.ExecContext(ctx, query, subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, subscriberID, channelID); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return exists, nil
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID)
}

func (r *subscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID)
}

func (r *subscriptionRepository) count(ctx context.Context, query, id string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC
	`
	return r.listUsers(ctx, query, channelID)
}

func (r *subscriptionRepository) ListChannels(ctx context.Context, subscriberID string) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC
	`
	return r.listUsers(ctx, query, subscriberID)
}

func (r *subscriptionRepository) listUsers(ctx context.Context, query, id string) ([]model.UserSummary, error) {
	users := []model.UserSummary{}
	if err := sqlx.SelectContext(ctx, r.db, &users, query, id); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return users, nil
}
