package model

import "time"

// Like references exactly one of video, comment or community post.
type Like struct {
	ID              string    `db:"id" json:"id"`
	VideoID         *string   `db:"video_id" json:"video,omitempty"`
	CommentID       *string   `db:"comment_id" json:"comment,omitempty"`
	CommunityPostID *string   `db:"community_post_id" json:"communityPost,omitempty"`
	LikedBy         string    `db:"liked_by" json:"likedBy"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// NewLike builds a like of target by userID.
func NewLike(target ContentRef, userID string) *Like {
	l := &Like{LikedBy: userID}
	id := target.ID
	switch target.Kind {
	case ContentVideo:
		l.VideoID = &id
	case ContentComment:
		l.CommentID = &id
	case ContentCommunityPost:
		l.CommunityPostID = &id
	}
	return l
}

// Target returns the content the like points at.
func (l *Like) Target() ContentRef {
	switch {
	case l.VideoID != nil:
		return ContentRef{Kind: ContentVideo, ID: *l.VideoID}
	case l.CommentID != nil:
		return ContentRef{Kind: ContentComment, ID: *l.CommentID}
	case l.CommunityPostID != nil:
		return ContentRef{Kind: ContentCommunityPost, ID: *l.CommunityPostID}
	}
	return ContentRef{}
}

// ToggleState is the outcome of a toggle.
type ToggleState string

const (
	ToggleAdded   ToggleState = "added"
	ToggleRemoved ToggleState = "removed"
)

// LikeToggleResult reports the new like state and count for the target.
type LikeToggleResult struct {
	Target     ContentRef  `json:"target"`
	State      ToggleState `json:"state"`
	IsLiked    bool        `json:"isLiked"`
	LikesCount int64       `json:"likesCount"`
}

// LikeCount is the response for like-count lookups.
type LikeCount struct {
	Target     ContentRef `json:"target"`
	LikesCount int64      `json:"likesCount"`
}

var ErrNotLikeable = newError(ErrInvalidArgument, "unsupported like target")
