package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
)

type communityPostRepository struct {
	db *sqlx.DB
}

func NewCommunityPostRepository(db *sqlx.DB) CommunityPostRepository {
	return &communityPostRepository{db: db}
}

func (r *communityPostRepository) Create(ctx context.Context, p *model.CommunityPost) error {
	query := `
		INSERT INTO community_posts (id, owner_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, p.ID, p.Owner, p.Title, p.Content).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert community post: %w", err)
	}
	return nil
}

func (r *communityPostRepository) GetByID(ctx context.Context, id string) (*model.CommunityPost, error) {
	query := `
		SELECT id, owner_id, title, content, created_at, updated_at
		FROM community_posts
		WHERE id = $1
	`
	var p model.CommunityPost
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCommunityPostNotFound
		}
		return nil, fmt.Errorf("failed to get community post: %w", err)
	}
	return &p, nil
}

func (r *communityPostRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM community_posts WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check community post existence: %w", err)
	}
	return exists, nil
}

func (r *communityPostRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.CommunityPost, error) {
	query := `
		SELECT id, owner_id, title, content, created_at, updated_at
		FROM community_posts
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	posts := []model.CommunityPost{}
	if err := r.db.SelectContext(ctx, &posts, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list community posts: %w", err)
	}
	return posts, nil
}

func (r *communityPostRepository) Update(ctx context.Context, p *model.CommunityPost) error {
	query := `
		UPDATE community_posts
		SET title = $2, content = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, p.ID, p.Title, p.Content).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrCommunityPostNotFound
		}
		return fmt.Errorf("failed to update community post: %w", err)
	}
	return nil
}

func (r *communityPostRepository) Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	result, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM community_posts WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete community post: %w", err)
	}
	return result.RowsAffected()
}
