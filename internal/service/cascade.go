package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/metrics"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

// ReleaseJournal records media objects whose deletion failed so they can be
// swept later.
type ReleaseJournal interface {
	PublishMediaReleaseFailed(ctx context.Context, url, entity, entityID, reason string) (string, error)
}

// CascadeDeps groups the repositories the cascade plans touch.
type CascadeDeps struct {
	Tx        repository.Transactor
	Users     repository.UserRepository
	Videos    repository.VideoRepository
	Posts     repository.CommunityPostRepository
	Comments  repository.CommentRepository
	Likes     repository.LikeRepository
	Playlists repository.PlaylistRepository
	Media     MediaStore
	Metrics   *metrics.Metrics
}

// CascadeEngine deletes content together with everything that references
// it. Each plan runs in one transaction; media is released after commit.
type CascadeEngine struct {
	deps    CascadeDeps
	journal ReleaseJournal // nil when Redis is not configured
}

func NewCascadeEngine(deps CascadeDeps) *CascadeEngine {
	return &CascadeEngine{deps: deps}
}

// SetJournal enables journaling of failed media releases.
func (e *CascadeEngine) SetJournal(j ReleaseJournal) {
	e.journal = j
}

type cascadeStep struct {
	name string
	run  func(ctx context.Context, tx *sqlx.Tx) (int64, error)
}

// DeleteVideo removes the video, its comments, likes on both, its playlist
// memberships and watch history entries, then releases the video file and
// thumbnail.
func (e *CascadeEngine) DeleteVideo(ctx context.Context, video *model.Video) error {
	if err := e.run(ctx, string(model.ContentVideo), video.ID, e.contentPlan(video.Ref())); err != nil {
		return err
	}
	e.ReleaseMedia(ctx, string(model.ContentVideo), video.ID, video.VideoURL, video.ThumbnailURL)
	return nil
}

// DeletePost removes the community post, its comments and likes on both.
func (e *CascadeEngine) DeletePost(ctx context.Context, post *model.CommunityPost) error {
	return e.run(ctx, string(model.ContentCommunityPost), post.ID, e.contentPlan(post.Ref()))
}

// DeleteComment removes the likes on the comment, then the comment.
func (e *CascadeEngine) DeleteComment(ctx context.Context, comment *model.Comment) error {
	ref := comment.Ref()
	steps := []cascadeStep{
		{"delete_direct_likes", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
			return e.deps.Likes.DeleteByTarget(ctx, tx, ref)
		}},
		{"delete_target", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
			return deleteOne(e.deps.Comments.Delete(ctx, tx, ref.ID))(model.ErrCommentNotFound)
		}},
	}
	return e.run(ctx, string(model.ContentComment), ref.ID, steps)
}

// contentPlan builds the ordered plan for a video or community post. Steps
// share the comment ID set collected by the first step.
func (e *CascadeEngine) contentPlan(target model.ContentRef) []cascadeStep {
	var commentIDs []string

	steps := []cascadeStep{
		{"collect_comments", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
			ids, err := e.deps.Comments.ListIDsByParent(ctx, tx, target)
			commentIDs = ids
			return int64(len(ids)), err
		}},
		{"delete_comment_likes", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
			return e.deps.Likes.DeleteByCommentIDs(ctx, tx, commentIDs)
		}},
		{"delete_direct_likes", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
			return e.deps.Likes.DeleteByTarget(ctx, tx, target)
		}},
		{"delete_comments", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
			return e.deps.Comments.DeleteByParent(ctx, tx, target)
		}},
	}

	if target.Kind == model.ContentVideo {
		steps = append(steps,
			cascadeStep{"detach_from_playlists", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
				return e.deps.Playlists.RemoveVideoFromAll(ctx, tx, target.ID)
			}},
			cascadeStep{"clear_watch_history", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
				return e.deps.Users.DeleteWatchHistoryByVideo(ctx, tx, target.ID)
			}},
			cascadeStep{"delete_target", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
				return deleteOne(e.deps.Videos.Delete(ctx, tx, target.ID))(model.ErrVideoNotFound)
			}},
		)
		return steps
	}

	return append(steps, cascadeStep{"delete_target", func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
		return deleteOne(e.deps.Posts.Delete(ctx, tx, target.ID))(model.ErrCommunityPostNotFound)
	}})
}

// deleteOne turns "zero rows deleted" into notFound, rolling the plan back.
func deleteOne(rows int64, err error) func(notFound error) (int64, error) {
	return func(notFound error) (int64, error) {
		if err != nil {
			return 0, err
		}
		if rows == 0 {
			return 0, notFound
		}
		return rows, nil
	}
}

func (e *CascadeEngine) run(ctx context.Context, entity, id string, steps []cascadeStep) error {
	log := logrus.WithFields(logrus.Fields{"entity": entity, "entity_id": id})
	affected := make([]int64, len(steps))

	err := e.deps.Tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		for i, step := range steps {
			rows, err := step.run(ctx, tx)
			if err != nil {
				log.WithError(err).WithField("step", step.name).Warn("[Cascade] Step FAILED")
				return fmt.Errorf("cascade %s: %w", step.name, err)
			}
			affected[i] = rows
			log.WithFields(logrus.Fields{"step": step.name, "rows": rows}).Debug("[Cascade] Step OK")
		}
		return nil
	})
	e.deps.Metrics.ObserveCascade(entity, err)
	if err != nil {
		return err
	}

	fields := logrus.Fields{}
	for i, step := range steps {
		fields[step.name] = affected[i]
		e.deps.Metrics.ObserveCascadeStep(entity, step.name, affected[i])
	}
	log.WithFields(fields).Info("[Cascade] Delete OK")
	return nil
}

// ReleaseMedia deletes objects best-effort. It runs detached from ctx
// cancellation; failures are logged, counted and journaled, never returned.
func (e *CascadeEngine) ReleaseMedia(ctx context.Context, entity, entityID string, urls ...string) {
	ctx = context.WithoutCancel(ctx)

	for _, url := range urls {
		if url == "" {
			continue
		}
		err := e.deps.Media.Release(ctx, url)
		e.deps.Metrics.ObserveMediaRelease(err)
		if err == nil {
			continue
		}

		log := logrus.WithError(err).WithFields(logrus.Fields{"entity": entity, "entity_id": entityID, "url": url})
		log.Warn("[Cascade] Media release FAILED")

		if e.journal == nil {
			continue
		}
		if _, jerr := e.journal.PublishMediaReleaseFailed(ctx, url, entity, entityID, err.Error()); jerr != nil {
			log.WithField("journal_error", jerr).Error("[Cascade] Journal publish FAILED")
		}
	}
}
