package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
)

const commentColumns = `id, content, video_id, community_post_id, owner_id, created_at, updated_at`

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// parentColumn maps a commentable kind to its reference column.
func parentColumn(kind model.ContentKind) (string, error) {
	switch kind {
	case model.ContentVideo:
		return "video_id", nil
	case model.ContentCommunityPost:
		return "community_post_id", nil
	}
	return "", model.ErrNotCommentable
}

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (id, content, video_id, community_post_id, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, c.ID, c.Content, c.VideoID, c.CommunityPostID, c.Owner).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	err := r.db.GetContext(ctx, &c, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check comment existence: %w", err)
	}
	return exists, nil
}

// ListByParent returns one page of comments, newest first, and the total count.
func (r *commentRepository) ListByParent(ctx context.Context, parent model.ContentRef, page, limit int) ([]model.Comment, int64, error) {
	column, err := parentColumn(parent.Kind)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM comments WHERE `+column+` = $1`, parent.ID); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	comments := []model.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, parent.ID, limit, (page-1)*limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + commentColumns

	var c model.Comment
	if err := r.db.GetContext(ctx, &c, query, id, content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) ListIDsByParent(ctx context.Context, tx *sqlx.Tx, parent model.ContentRef) ([]string, error) {
	column, err := parentColumn(parent.Kind)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	err = sqlx.SelectContext(ctx, pick(r.db, tx), &ids, `SELECT id FROM comments WHERE `+column+` = $1`, parent.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to collect comment ids: %w", err)
	}
	return ids, nil
}

func (r *commentRepository) DeleteByParent(ctx context.Context, tx *sqlx.Tx, parent model.ContentRef) (int64, error) {
	column, err := parentColumn(parent.Kind)
	if err != nil {
		return 0, err
	}

	result, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM comments WHERE `+column+` = $1`, parent.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments: %w", err)
	}
	return result.RowsAffected()
}

func (r *commentRepository) Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	result, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comment: %w", err)
	}
	return result.RowsAffected()
}
