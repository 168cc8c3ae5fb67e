package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
)

const videoColumns = `id, owner_id, title, description, video_url, thumbnail_url, duration, views,
		       is_published, created_at, updated_at`

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING views, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		v.ID, v.Owner, v.Title, v.Description, v.VideoURL, v.ThumbnailURL, v.Duration, v.IsPublished,
	).Scan(&v.Views, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := r.db.GetContext(ctx, &v, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &v, nil
}

func (r *videoRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM videos WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check video existence: %w", err)
	}
	return exists, nil
}

// List pages through videos. Only published videos are returned unless the
// viewer lists their own channel.
func (r *videoRepository) List(ctx context.Context, q model.VideoQuery) ([]model.Video, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.OwnerID != "" {
		conds = append(conds, "owner_id = "+arg(q.OwnerID))
	}
	if q.OwnerID == "" || q.OwnerID != q.ViewerID {
		conds = append(conds, "is_published = TRUE")
	}
	if s := strings.TrimSpace(q.Query); s != "" {
		p := arg("%" + escapeLike(s) + "%")
		conds = append(conds, fmt.Sprintf(`(title ILIKE %s ESCAPE '\' OR description ILIKE %s ESCAPE '\')`, p, p))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM videos `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	column, ok := model.VideoSortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM videos %s ORDER BY %s %s, id LIMIT %s OFFSET %s`,
		videoColumns, where, column, direction, arg(q.Limit), arg((q.Page-1)*q.Limit))

	videos := []model.Video{}
	if err := r.db.SelectContext(ctx, &videos, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, total, nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE owner_id = $1 ORDER BY created_at DESC`

	videos := []model.Video{}
	if err := r.db.SelectContext(ctx, &videos, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list channel videos: %w", err)
	}
	return videos, nil
}

// Update writes the editable details: title, description, thumbnail.
// The published flag only changes through TogglePublish.
func (r *videoRepository) Update(ctx context.Context, v *model.Video) error {
	query := `
		UPDATE videos
		SET title = $2, description = $3, thumbnail_url = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING is_published, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, v.ID, v.Title, v.Description, v.ThumbnailURL).
		Scan(&v.IsPublished, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrVideoNotFound
		}
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

// TogglePublish flips the published flag in place so concurrent toggles and
// edits never overwrite each other.
func (r *videoRepository) TogglePublish(ctx context.Context, id string) (*model.Video, error) {
	query := `
		UPDATE videos
		SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + videoColumns

	var v model.Video
	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to toggle publish status: %w", err)
	}
	return &v, nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

func (r *videoRepository) ChannelStats(ctx context.Context, ownerID string) (*model.ChannelStats, error) {
	query := `
		SELECT COUNT(*) AS total_videos,
		       COALESCE(SUM(v.views), 0)::BIGINT AS total_views,
		       COALESCE(SUM((SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id)), 0)::BIGINT AS total_likes
		FROM videos v
		WHERE v.owner_id = $1
	`
	var stats model.ChannelStats
	if err := r.db.GetContext(ctx, &stats, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get channel stats: %w", err)
	}
	return &stats, nil
}

func (r *videoRepository) Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	result, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete video: %w", err)
	}
	return result.RowsAffected()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern using '\' as
// the escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
