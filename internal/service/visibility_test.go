package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Rahanur19/youStream/internal/model"
)

// =============================================================================
// UNPUBLISHED VIDEO VISIBILITY
// =============================================================================

func TestUnpublishedVideo_HiddenFromOtherUsers(t *testing.T) {
	env := newTestEnv()
	owner := env.addUser("owner")
	stranger := env.addUser("stranger")
	draft := env.addVideo(owner.ID, false)
	ownerComment := env.addComment(draft.Ref(), owner.ID)
	strangerList := env.addPlaylist(stranger.ID, "Later")
	ownerList := env.addPlaylist(owner.ID, "Drafts")

	tests := []struct {
		name    string
		call    func(ctx context.Context, actorID string) error
		wantErr error
	}{
		{
			name: "comment create",
			call: func(ctx context.Context, actorID string) error {
				_, err := env.comments.Create(ctx, draft.Ref(), actorID, "first")
				return err
			},
			wantErr: model.ErrVideoNotFound,
		},
		{
			name: "comment list",
			call: func(ctx context.Context, actorID string) error {
				_, err := env.comments.List(ctx, draft.Ref(), actorID, 1, 10)
				return err
			},
			wantErr: model.ErrVideoNotFound,
		},
		{
			name: "like count",
			call: func(ctx context.Context, actorID string) error {
				_, err := env.likes.Count(ctx, draft.Ref(), actorID)
				return err
			},
			wantErr: model.ErrVideoNotFound,
		},
		{
			name: "like count on comment",
			call: func(ctx context.Context, actorID string) error {
				_, err := env.likes.Count(ctx, ownerComment.Ref(), actorID)
				return err
			},
			wantErr: model.ErrCommentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			// ACT & ASSERT: the stranger sees nothing, the owner works normally
			if err := tt.call(ctx, stranger.ID); !errors.Is(err, tt.wantErr) {
				t.Errorf("stranger error = %v, want %v", err, tt.wantErr)
			}
			if err := tt.call(ctx, ""); !errors.Is(err, tt.wantErr) {
				t.Errorf("anonymous error = %v, want %v", err, tt.wantErr)
			}
			if err := tt.call(ctx, owner.ID); err != nil {
				t.Errorf("owner error = %v", err)
			}
		})
	}

	t.Run("like toggle", func(t *testing.T) {
		ctx := context.Background()
		if _, err := env.likes.Toggle(ctx, draft.Ref(), stranger.ID); !errors.Is(err, model.ErrVideoNotFound) {
			t.Errorf("stranger Toggle() error = %v, want ErrVideoNotFound", err)
		}
		if _, err := env.likes.Toggle(ctx, ownerComment.Ref(), stranger.ID); !errors.Is(err, model.ErrCommentNotFound) {
			t.Errorf("stranger comment Toggle() error = %v, want ErrCommentNotFound", err)
		}

		res, err := env.likes.Toggle(ctx, draft.Ref(), owner.ID)
		if err != nil {
			t.Fatalf("owner Toggle() error = %v", err)
		}
		if res.LikesCount != 1 {
			t.Errorf("owner Toggle() count = %d, want 1", res.LikesCount)
		}
	})

	t.Run("playlist add", func(t *testing.T) {
		ctx := context.Background()
		if _, err := env.playlists.AddVideo(ctx, strangerList.ID, draft.ID, stranger.ID); !errors.Is(err, model.ErrVideoNotFound) {
			t.Errorf("stranger AddVideo() error = %v, want ErrVideoNotFound", err)
		}

		playlist, err := env.playlists.AddVideo(ctx, ownerList.ID, draft.ID, owner.ID)
		if err != nil {
			t.Fatalf("owner AddVideo() error = %v", err)
		}
		if len(playlist.Videos) != 1 || playlist.Videos[0] != draft.ID {
			t.Errorf("owner AddVideo() videos = %v, want [%s]", playlist.Videos, draft.ID)
		}
	})
}

func TestPublishedVideo_OpenToOtherUsers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.addUser("owner")
	fan := env.addUser("fan")
	video := env.addVideo(owner.ID, true)

	if _, err := env.comments.Create(ctx, video.Ref(), fan.ID, "great"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	page, err := env.comments.List(ctx, video.Ref(), "", 1, 10)
	if err != nil {
		t.Fatalf("anonymous List() error = %v", err)
	}
	if page.TotalComments != 1 {
		t.Errorf("List() total = %d, want 1", page.TotalComments)
	}
	if _, err := env.likes.Toggle(ctx, video.Ref(), fan.ID); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	count, err := env.likes.Count(ctx, video.Ref(), "")
	if err != nil || count.LikesCount != 1 {
		t.Errorf("Count() = %+v, %v; want 1 like", count, err)
	}
}

// =============================================================================
// PUBLISH FLAG
// =============================================================================

func TestVideoService_Update_KeepsPublishFlag(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.addUser("owner")
	video := env.addVideo(owner.ID, true)

	// ARRANGE: a copy read before the toggle
	stale, err := (memVideos{env.store}).GetByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if _, err := env.videos.TogglePublish(ctx, video.ID, owner.ID); err != nil {
		t.Fatalf("TogglePublish() error = %v", err)
	}

	// ACT: write the stale copy back, then edit through the service
	stale.Title = "Stale title"
	if err := (memVideos{env.store}).Update(ctx, stale); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	updated, err := env.videos.Update(ctx, video.ID, owner.ID, &model.UpdateVideoInput{Title: ptr("Fresh title")})
	if err != nil {
		t.Fatalf("service Update() error = %v", err)
	}

	// ASSERT
	if stale.IsPublished || updated.IsPublished {
		t.Errorf("publish flag reverted: stale=%v updated=%v", stale.IsPublished, updated.IsPublished)
	}
	if _, err := env.videos.Get(ctx, video.ID, ""); !errors.Is(err, model.ErrVideoNotFound) {
		t.Errorf("anonymous Get() error = %v, want ErrVideoNotFound", err)
	}
}
