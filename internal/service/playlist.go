package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

type PlaylistService struct {
	repo   repository.PlaylistRepository
	videos repository.VideoRepository
	users  repository.UserRepository
	tx     repository.Transactor
}

func NewPlaylistService(repo repository.PlaylistRepository, videos repository.VideoRepository, users repository.UserRepository, tx repository.Transactor) *PlaylistService {
	return &PlaylistService{repo: repo, videos: videos, users: users, tx: tx}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID string, req *model.PlaylistRequest) (*model.Playlist, error) {
	if req.Name == nil {
		return nil, model.InvalidArgument("name is required")
	}
	name, err := requireLength("name", *req.Name, model.PlaylistNameMinLength, model.PlaylistNameMaxLength)
	if err != nil {
		return nil, err
	}

	var description string
	if req.Description != nil {
		if description, err = requireLength("description", *req.Description, 0, model.PlaylistDescriptionMaxLength); err != nil {
			return nil, err
		}
	}

	playlist := &model.Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Owner:       ownerID,
		Videos:      []string{},
	}
	if err := s.repo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) Get(ctx context.Context, id string) (*model.Playlist, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID string) ([]model.Playlist, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *PlaylistService) Update(ctx context.Context, id, userID string, req *model.PlaylistRequest) (*model.Playlist, error) {
	if req.Name == nil && req.Description == nil {
		return nil, model.ErrNothingToUpdate
	}

	playlist, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if playlist.Name, err = requireLength("name", *req.Name, model.PlaylistNameMinLength, model.PlaylistNameMaxLength); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if playlist.Description, err = requireLength("description", *req.Description, 0, model.PlaylistDescriptionMaxLength); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Delete removes the playlist and its memberships in one transaction.
func (s *PlaylistService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.repo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return model.ErrPlaylistNotFound
		}
		return nil
	})
}

// AddVideo appends videoID to the playlist. Adding a video twice is a conflict,
// and another channel's unpublished video is not found.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, userID string) (*model.Playlist, error) {
	if _, err := s.owned(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	if _, err := visibleVideo(ctx, s.videos, videoID, userID); err != nil {
		return nil, err
	}

	added, err := s.repo.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, model.ErrVideoAlreadyInPlaylist
	}
	return s.repo.GetByID(ctx, playlistID)
}

// RemoveVideo drops videoID, keeping the order of the remaining videos.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, userID string) (*model.Playlist, error) {
	if _, err := s.owned(ctx, playlistID, userID); err != nil {
		return nil, err
	}

	removed, err := s.repo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, model.ErrVideoNotInPlaylist
	}
	return s.repo.GetByID(ctx, playlistID)
}

func (s *PlaylistService) owned(ctx context.Context, id, userID string) (*model.Playlist, error) {
	playlist, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(playlist, userID); err != nil {
		return nil, err
	}
	return playlist, nil
}
