package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
)

const userColumns = `id, username, email, full_name, password_hashed, avatar_url, cover_image_url,
		       refresh_token, created_at, updated_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Uniqueness of username and email is enforced by
// the store; a violation maps to ErrUsernameExists or ErrEmailExists.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, password_hashed, avatar_url, cover_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.FullName,
		u.PasswordHashed,
		u.AvatarURL,
		u.CoverImageURL,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == "users_email_key" {
				return model.ErrEmailExists
			}
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, id string, fullName, email *string) (*model.User, error) {
	query := `
		UPDATE users
		SET full_name = COALESCE($2::varchar, full_name),
		    email = COALESCE($3::varchar, email),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id, fullName, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		if _, ok := uniqueViolation(err); ok {
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return &u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHashed string) error {
	query := `UPDATE users SET password_hashed = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, "password", id, passwordHashed)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	query := `UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, "avatar", id, avatarURL)
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, id string, coverURL *string) error {
	query := `UPDATE users SET cover_image_url = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, "cover image", id, coverURL)
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id string, token *string) error {
	query := `UPDATE users SET refresh_token = $2 WHERE id = $1`
	return r.execOne(ctx, query, "refresh token", id, token)
}

func (r *userRepository) SwapRefreshToken(ctx context.Context, id, oldToken, newToken string) (bool, error) {
	query := `UPDATE users SET refresh_token = $3 WHERE id = $1 AND refresh_token = $2`
	result, err := r.db.ExecContext(ctx, query, id, oldToken, newToken)
	if err != nil {
		return false, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

// execOne runs a single-row update and maps "no row" to ErrUserNotFound.
func (r *userRepository) execOne(ctx context.Context, query, what string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// AddToWatchHistory moves videoID to the head of the user's history.
func (r *userRepository) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at
	`
	if _, err := r.db.ExecContext(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to record watch history: %w", err)
	}
	return nil
}

func (r *userRepository) GetWatchHistory(ctx context.Context, userID string, limit int) ([]model.Video, error) {
	query := `
		SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
		       v.duration, v.views, v.is_published, v.created_at, v.updated_at
		FROM watch_history wh
		JOIN videos v ON v.id = wh.video_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC
		LIMIT $2
	`

	videos := []model.Video{}
	if err := r.db.SelectContext(ctx, &videos, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	return videos, nil
}

func (r *userRepository) DeleteWatchHistoryByVideo(ctx context.Context, tx *sqlx.Tx, videoID string) (int64, error) {
	result, err := pick(r.db, tx).ExecContext(ctx, `DELETE FROM watch_history WHERE video_id = $1`, videoID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete watch history: %w", err)
	}
	return result.RowsAffected()
}
