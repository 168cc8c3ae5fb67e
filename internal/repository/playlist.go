package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
)

const playlistColumns = `id, name, description, owner_id, created_at, updated_at`

type playlistRepository struct {
	db *sqlx.DB
}

func NewPlaylistRepository(db *sqlx.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, p *model.Playlist) error {
	query := `
		INSERT INTO playlists (id, name, description, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, p.ID, p.Name, p.Description, p.Owner).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return model.ErrPlaylistNameExists
		}
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	if p.Videos == nil {
		p.Videos = []string{}
	}
	return nil
}

// GetByID loads the playlist together with its video IDs in insertion order.
func (r *playlistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	var p model.Playlist
	err := r.db.GetContext(ctx, &p, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	p.Videos = []string{}
	query := `SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY position, added_at`
	if err := r.db.SelectContext(ctx, &p.Videos, query, id); err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}
	return &p, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error) {
	playlists := []model.Playlist{}
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &playlists, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	if len(playlists) == 0 {
		return playlists, nil
	}

	ids := make([]string, len(playlists))
	index := make(map[string]int, len(playlists))
	for i := range playlists {
		playlists[i].Videos = []string{}
		ids[i] = playlists[i].ID
		index[playlists[i].ID] = i
	}

	var members []struct {
		PlaylistID string `db:"playlist_id"`
		VideoID    string `db:"video_id"`
	}
	query = `
		SELECT playlist_id, video_id
		FROM playlist_videos
		WHERE playlist_id = ANY($1::uuid[])
		ORDER BY playlist_id, position, added_at
	`
	if err := r.db.SelectContext(ctx, &members, query, uuidArray(ids)); err != nil {
		return nil, fmt.Errorf("failed to list playlist videos: %w", err)
	}
	for _, m := range members {
		i := index[m.PlaylistID]
		playlists[i].Videos = append(playlists[i].Videos, m.VideoID)
	}
	return playlists, nil
}

func (r *playlistRepository) Update(ctx context.Context, p *model.Playlist) error {
	query := `
		UPDATE playlists
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, p.ID, p.Name, p.Description).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrPlaylistNotFound
		}
		if _, ok := uniqueViolation(err); ok {
			return model.ErrPlaylistNameExists
		}
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return nil
}

// Delete removes the memberships and then the playlist row.
func (r *playlistRepository) Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error) {
	ext := pick(r.db, tx)
	if _, err := ext.ExecContext(ctx, `DELETE FROM playlist_videos WHERE playlist_id = $1`, id); err != nil {
		return 0, fmt.Errorf("failed to delete playlist videos: %w", err)
	}

	result, err := ext.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete playlist: %w", err)
	}
	return result.RowsAffected()
}

func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, position)
		SELECT $1::uuid, $2::uuid, COALESCE(MAX(position), 0) + 1
		FROM playlist_videos
		WHERE playlist_id = $1::uuid
		ON CONFLICT (playlist_id, video_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, playlistID, videoID)
	if err != nil {
		return false, fmt.Errorf("failed to add video to playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		r.touch(ctx, playlistID)
	}
	return rows > 0, nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	query := `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`
	result, err := r.db.ExecContext(ctx, query, playlistID, videoID)
	if err != nil {
		return false, fmt.Errorf("failed to remove video from playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		r.touch(ctx, playlistID)
	}
	return rows > 0, nil
}

// touch bumps updated_at after a membership change; failures are ignored.
func (r *playlistRepository) touch(ctx context.Context, playlistID string) {
	_, _ = r.db.ExecContext(ctx, `UPDATE playlists SET updated_at = NOW() WHERE id = $1`, playlistID)
}

func (r *playlistRepository) RemoveVideoFromAll(ctx context.Context, tx *sqlx.Tx, videoID string) (int64, error) {
	result, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM playlist_videos WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach video from playlists: %w", err)
	}
	return result.RowsAffected()
}
