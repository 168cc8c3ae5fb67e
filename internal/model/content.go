package model

import "time"

// ContentKind names the entity kinds that can be liked or commented on.
type ContentKind string

const (
	ContentVideo         ContentKind = "video"
	ContentComment       ContentKind = "comment"
	ContentCommunityPost ContentKind = "communityPost"
)

// ContentRef points at one content entity.
type ContentRef struct {
	Kind ContentKind `json:"kind"`
	ID   string      `json:"id"`
}

// Commentable reports whether comments may reference this kind.
func (k ContentKind) Commentable() bool {
	return k == ContentVideo || k == ContentCommunityPost
}

// Likeable reports whether likes may reference this kind.
func (k ContentKind) Likeable() bool {
	return k == ContentVideo || k == ContentComment || k == ContentCommunityPost
}

// CommunityPost is a text post on a user's channel.
type CommunityPost struct {
	ID        string    `db:"id" json:"id"`
	Owner     string    `db:"owner_id" json:"owner"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

func (p *CommunityPost) OwnerID() string { return p.Owner }

func (p *CommunityPost) Ref() ContentRef {
	return ContentRef{Kind: ContentCommunityPost, ID: p.ID}
}

// CommunityPostRequest is used for create and update. Update treats nil as unchanged.
type CommunityPostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Community post limits
const (
	PostContentMinLength = 1
	PostContentMaxLength = 1000
)

var ErrCommunityPostNotFound = newError(ErrNotFound, "community post not found")
