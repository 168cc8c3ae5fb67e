package model

import "time"

// Comment is attached to exactly one video or community post.
type Comment struct {
	ID              string    `db:"id" json:"id"`
	Content         string    `db:"content" json:"content"`
	VideoID         *string   `db:"video_id" json:"video,omitempty"`
	CommunityPostID *string   `db:"community_post_id" json:"communityPost,omitempty"`
	Owner           string    `db:"owner_id" json:"owner"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

func (c *Comment) OwnerID() string { return c.Owner }

func (c *Comment) Ref() ContentRef { return ContentRef{Kind: ContentComment, ID: c.ID} }

// Parent returns the video or community post the comment belongs to.
func (c *Comment) Parent() ContentRef {
	if c.VideoID != nil {
		return ContentRef{Kind: ContentVideo, ID: *c.VideoID}
	}
	if c.CommunityPostID != nil {
		return ContentRef{Kind: ContentCommunityPost, ID: *c.CommunityPostID}
	}
	return ContentRef{}
}

// NewComment builds a comment bound to parent. parent must be commentable.
func NewComment(parent ContentRef, ownerID, content string) *Comment {
	c := &Comment{Content: content, Owner: ownerID}
	id := parent.ID
	switch parent.Kind {
	case ContentVideo:
		c.VideoID = &id
	case ContentCommunityPost:
		c.CommunityPostID = &id
	}
	return c
}

// CommentRequest is the body for creating or editing a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentPage is one page of comments for a parent.
type CommentPage struct {
	Comments      []Comment `json:"comments"`
	Page          int       `json:"page"`
	Limit         int       `json:"limit"`
	TotalComments int64     `json:"totalComments"`
}

// Comment constraints
const (
	CommentMinLength = 1
	CommentMaxLength = 300
)

var (
	ErrCommentNotFound    = newError(ErrNotFound, "comment not found")
	ErrNotCommentable     = newError(ErrInvalidArgument, "comments are only allowed on videos and community posts")
	ErrCommentParentEmpty = newError(ErrInvalidArgument, "comment must reference a video or a community post")
)
