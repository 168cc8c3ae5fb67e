package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// likeColumn maps a likeable kind to its reference column.
func likeColumn(kind model.ContentKind) (string, error) {
	switch kind {
	case model.ContentVideo:
		return "video_id", nil
	case model.ContentComment:
		return "comment_id", nil
	case model.ContentCommunityPost:
		return "community_post_id", nil
	}
	return "", model.ErrNotLikeable
}

// Create relies on the per-kind partial unique indexes: a concurrent
// duplicate is dropped by ON CONFLICT and reported as not inserted.
func (r *likeRepository) Create(ctx context.Context, l *model.Like) (bool, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	query := `
		INSERT INTO likes (id, video_id, comment_id, community_post_id, liked_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, l.ID, l.VideoID, l.CommentID, l.CommunityPostID, l.LikedBy)
	if err != nil {
		return false, fmt.Errorf("failed to create like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, target model.ContentRef, userID string) (bool, error) {
	column, err := likeColumn(target.Kind)
	if err != nil {
		return false, err
	}

	query := `DELETE FROM likes WHERE ` + column + ` = $1 AND liked_by = $2`
	result, err := r.db.ExecContext(ctx, query, target.ID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *likeRepository) CountByTarget(ctx context.Context, target model.ContentRef) (int64, error) {
	column, err := likeColumn(target.Kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM likes WHERE `+column+` = $1`, target.ID); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// ListLikedVideos returns the published videos the user liked, most recent like first.
func (r *likeRepository) ListLikedVideos(ctx context.Context, userID string) ([]model.Video, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at
		FROM likes l
		JOIN videos v ON v.id = l.video_id
		WHERE l.liked_by = $1 AND v.is_published = TRUE
		ORDER BY l.created_at DESC
	`
	videos := []model.Video{}
	if err := r.db.SelectContext(ctx, &videos, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list liked videos: %w", err)
	}
	return videos, nil
}

func (r *likeRepository) DeleteByTarget(ctx context.Context, tx *sqlx.Tx, target model.ContentRef) (int64, error) {
	column, err := likeColumn(target.Kind)
	if err != nil {
		return 0, err
	}

	result, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM likes WHERE `+column+` = $1`, target.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes on %s: %w", target.Kind, err)
	}
	return result.RowsAffected()
}

func (r *likeRepository) DeleteByCommentIDs(ctx context.Context, tx *sqlx.Tx, commentIDs []string) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM likes WHERE comment_id = ANY($1::uuid[])`
	result, err := pick(r.db, tx).ExecContext(ctx, query, uuidArray(commentIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete comment likes: %w", err)
	}
	return result.RowsAffected()
}
