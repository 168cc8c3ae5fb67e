package model

import "time"

// Video is an uploaded video owned by one user.
type Video struct {
	ID           string    `db:"id" json:"id"`
	Owner        string    `db:"owner_id" json:"owner"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	VideoURL     string    `db:"video_url" json:"videoFile"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnail"`
	Duration     float64   `db:"duration" json:"duration"`
	Views        int64     `db:"views" json:"views"`
	IsPublished  bool      `db:"is_published" json:"isPublished"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

func (v *Video) OwnerID() string { return v.Owner }

// Ref returns the content reference used by likes and comments.
func (v *Video) Ref() ContentRef { return ContentRef{Kind: ContentVideo, ID: v.ID} }

// PublishVideoInput carries an upload after multipart parsing.
type PublishVideoInput struct {
	Title       string
	Description string
	VideoFile   *MediaFile
	Thumbnail   *MediaFile
}

// UpdateVideoInput holds optional replacements. Nil fields are left unchanged.
type UpdateVideoInput struct {
	Title       *string
	Description *string
	Thumbnail   *MediaFile
}

// VideoQuery filters and pages the public video listing.
type VideoQuery struct {
	OwnerID  string
	Query    string
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int

	// ViewerID lets an owner see their own unpublished videos in the list.
	ViewerID string
}

// VideoPage is one page of a video listing.
type VideoPage struct {
	Videos     []Video `json:"videos"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalCount int64   `json:"totalVideos"`
}

// Video field limits and listing defaults
const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMaxLength = 500

	DefaultPageSize = 10
	MaxPageSize     = 50
	MaxPage         = 10000
)

// Sort columns accepted by VideoQuery.SortBy.
var VideoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

var (
	ErrVideoNotFound        = newError(ErrNotFound, "video not found")
	ErrVideoFileRequired    = newError(ErrInvalidArgument, "video file is required")
	ErrThumbnailRequired    = newError(ErrInvalidArgument, "thumbnail is required")
	ErrInvalidSortField     = newError(ErrInvalidArgument, "invalid sort field")
	ErrInvalidPagination    = newError(ErrInvalidArgument, "page must be between 1 and 10000 and limit must be positive")
	ErrVideoDurationUnknown = newError(ErrInvalidArgument, "could not read video duration")
)
