package model

import "time"

// Playlist is an ordered, duplicate-free list of videos owned by one user.
type Playlist struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Owner       string    `db:"owner_id" json:"owner"`
	Videos      []string  `db:"-" json:"videos"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

func (p *Playlist) OwnerID() string { return p.Owner }

// Contains reports whether videoID is already in the playlist.
func (p *Playlist) Contains(videoID string) bool {
	for _, id := range p.Videos {
		if id == videoID {
			return true
		}
	}
	return false
}

// PlaylistRequest is used for create and update. Update treats nil as unchanged.
type PlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Playlist limits
const (
	PlaylistNameMinLength        = 3
	PlaylistNameMaxLength        = 50
	PlaylistDescriptionMaxLength = 500
)

var (
	ErrPlaylistNotFound       = newError(ErrNotFound, "playlist not found")
	ErrPlaylistNameExists     = newError(ErrConflict, "a playlist with this name already exists")
	ErrVideoAlreadyInPlaylist = newError(ErrConflict, "video already exists in playlist")
	ErrVideoNotInPlaylist     = newError(ErrNotFound, "video not found in playlist")
)
