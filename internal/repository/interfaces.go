package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
)

// Transactor runs fn inside one store transaction. fn's error rolls back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateAccount(ctx context.Context, id string, fullName, email *string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHashed string) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	UpdateCoverImage(ctx context.Context, id string, coverURL *string) error
	// SetRefreshToken overwrites the single active refresh token; nil clears it.
	SetRefreshToken(ctx context.Context, id string, token *string) error
	// SwapRefreshToken replaces oldToken with newToken only if oldToken is
	// still the stored value. It reports whether the swap happened.
	SwapRefreshToken(ctx context.Context, id, oldToken, newToken string) (bool, error)
	AddToWatchHistory(ctx context.Context, userID, videoID string) error
	GetWatchHistory(ctx context.Context, userID string, limit int) ([]model.Video, error)
	DeleteWatchHistoryByVideo(ctx context.Context, tx *sqlx.Tx, videoID string) (int64, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id string) (*model.Video, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, q model.VideoQuery) ([]model.Video, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error)
	Update(ctx context.Context, video *model.Video) error
	TogglePublish(ctx context.Context, id string) (*model.Video, error)
	IncrementViews(ctx context.Context, id string) error
	ChannelStats(ctx context.Context, ownerID string) (*model.ChannelStats, error)
	Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error)
}

type CommunityPostRepository interface {
	Create(ctx context.Context, post *model.CommunityPost) error
	GetByID(ctx context.Context, id string) (*model.CommunityPost, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.CommunityPost, error)
	Update(ctx context.Context, post *model.CommunityPost) error
	Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListByParent(ctx context.Context, parent model.ContentRef, page, limit int) ([]model.Comment, int64, error)
	UpdateContent(ctx context.Context, id, content string) (*model.Comment, error)
	ListIDsByParent(ctx context.Context, tx *sqlx.Tx, parent model.ContentRef) ([]string, error)
	DeleteByParent(ctx context.Context, tx *sqlx.Tx, parent model.ContentRef) (int64, error)
	Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error)
}

type LikeRepository interface {
	// Create inserts the like unless the (target, user) pair already exists.
	// It reports whether a row was inserted.
	Create(ctx context.Context, like *model.Like) (bool, error)
	// Delete removes the (target, user) like and reports whether one existed.
	Delete(ctx context.Context, target model.ContentRef, userID string) (bool, error)
	CountByTarget(ctx context.Context, target model.ContentRef) (int64, error)
	ListLikedVideos(ctx context.Context, userID string) ([]model.Video, error)
	DeleteByTarget(ctx context.Context, tx *sqlx.Tx, target model.ContentRef) (int64, error)
	DeleteByCommentIDs(ctx context.Context, tx *sqlx.Tx, commentIDs []string) (int64, error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error)
	Update(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, tx *sqlx.Tx, id string) (int64, error)
	// AddVideo appends videoID; it reports false if already present.
	AddVideo(ctx context.Context, playlistID, videoID string) (bool, error)
	// RemoveVideo reports false if videoID was not in the playlist.
	RemoveVideo(ctx context.Context, playlistID, videoID string) (bool, error)
	RemoveVideoFromAll(ctx context.Context, tx *sqlx.Tx, videoID string) (int64, error)
}

type SubscriptionRepository interface {
	// Create reports false if the pair already exists.
	Create(ctx context.Context, subscriberID, channelID string) (bool, error)
	// Delete reports false if the pair did not exist.
	Delete(ctx context.Context, subscriberID, channelID string) (bool, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error)
	ListSubscribers(ctx context.Context, channelID string) ([]model.UserSummary, error)
	ListChannels(ctx context.Context, subscriberID string) ([]model.UserSummary, error)
}
