package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/repository"
)

type VideoService struct {
	repo    repository.VideoRepository
	users   repository.UserRepository
	media   MediaStore
	cascade *CascadeEngine
}

func NewVideoService(repo repository.VideoRepository, users repository.UserRepository, media MediaStore, cascade *CascadeEngine) *VideoService {
	return &VideoService{
		repo:    repo,
		users:   users,
		media:   media,
		cascade: cascade,
	}
}

// Publish uploads the video and thumbnail and creates a published video.
func (s *VideoService) Publish(ctx context.Context, ownerID string, in *model.PublishVideoInput) (*model.Video, error) {
	title, err := requireLength("title", in.Title, model.TitleMinLength, model.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	description, err := requireLength("description", in.Description, 0, model.DescriptionMaxLength)
	if err != nil {
		return nil, err
	}
	if in.VideoFile == nil {
		return nil, model.ErrVideoFileRequired
	}
	if in.Thumbnail == nil {
		return nil, model.ErrThumbnailRequired
	}

	video := &model.Video{
		ID:          uuid.NewString(),
		Owner:       ownerID,
		Title:       title,
		Description: description,
		IsPublished: true,
	}

	in.VideoFile.Kind = model.MediaVideo
	videoUpload, err := s.media.Upload(ctx, in.VideoFile)
	if err != nil {
		return nil, err
	}
	in.Thumbnail.Kind = model.MediaThumbnail
	thumbUpload, err := s.media.Upload(ctx, in.Thumbnail)
	if err != nil {
		s.cascade.ReleaseMedia(ctx, string(model.ContentVideo), video.ID, videoUpload.URL)
		return nil, err
	}

	video.VideoURL = videoUpload.URL
	video.ThumbnailURL = thumbUpload.URL
	video.Duration = videoUpload.Duration

	if err := s.repo.Create(ctx, video); err != nil {
		s.cascade.ReleaseMedia(ctx, string(model.ContentVideo), video.ID, video.VideoURL, video.ThumbnailURL)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"video_id": video.ID, "owner_id": ownerID, "duration": video.Duration}).Info("[Video] Publish OK")
	return video, nil
}

// Get returns a video. Unpublished videos are visible to their owner only.
// An authenticated view of a published video counts a view and moves it to
// the head of the viewer's watch history.
func (s *VideoService) Get(ctx context.Context, id, viewerID string) (*model.Video, error) {
	video, err := visibleVideo(ctx, s.repo, id, viewerID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished || viewerID == "" {
		return video, nil
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	video.Views++

	if err := s.users.AddToWatchHistory(ctx, viewerID, id); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"video_id": id, "user_id": viewerID}).Warn("[Video] Watch history update FAILED")
	}
	return video, nil
}

func (s *VideoService) List(ctx context.Context, q model.VideoQuery) (*model.VideoPage, error) {
	page, limit, err := normalizePage(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}
	q.Page, q.Limit = page, limit

	if q.SortBy != "" {
		if _, ok := model.VideoSortColumns[q.SortBy]; !ok {
			return nil, model.ErrInvalidSortField
		}
	} else {
		q.SortBy, q.SortDesc = "createdAt", true
	}
	if q.OwnerID != "" {
		if err := ValidateID(q.OwnerID); err != nil {
			return nil, err
		}
	}

	videos, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &model.VideoPage{Videos: videos, Page: page, Limit: limit, TotalCount: total}, nil
}

// Update changes title, description and/or thumbnail. The old thumbnail is
// released once the new one is stored.
func (s *VideoService) Update(ctx context.Context, id, userID string, in *model.UpdateVideoInput) (*model.Video, error) {
	if in.Title == nil && in.Description == nil && in.Thumbnail == nil {
		return nil, model.ErrNothingToUpdate
	}

	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(video, userID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		if video.Title, err = requireLength("title", *in.Title, model.TitleMinLength, model.TitleMaxLength); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if video.Description, err = requireLength("description", *in.Description, 0, model.DescriptionMaxLength); err != nil {
			return nil, err
		}
	}

	var oldThumbnail, newThumbnail string
	if in.Thumbnail != nil {
		in.Thumbnail.Kind = model.MediaThumbnail
		upload, err := s.media.Upload(ctx, in.Thumbnail)
		if err != nil {
			return nil, err
		}
		oldThumbnail, newThumbnail = video.ThumbnailURL, upload.URL
		video.ThumbnailURL = upload.URL
	}

	if err := s.repo.Update(ctx, video); err != nil {
		s.cascade.ReleaseMedia(ctx, string(model.ContentVideo), id, newThumbnail)
		return nil, err
	}

	s.cascade.ReleaseMedia(ctx, string(model.ContentVideo), id, oldThumbnail)
	return video, nil
}

// TogglePublish flips the published flag.
func (s *VideoService) TogglePublish(ctx context.Context, id, userID string) (*model.Video, error) {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(video, userID); err != nil {
		return nil, err
	}
	return s.repo.TogglePublish(ctx, id)
}

// Delete removes the video and everything that references it.
func (s *VideoService) Delete(ctx context.Context, id, userID string) error {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AssertOwner(video, userID); err != nil {
		return err
	}
	return s.cascade.DeleteVideo(ctx, video)
}

// ListByOwner returns every video of the channel, unpublished included.
func (s *VideoService) ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// visibleVideo loads a video that viewerID may interact with. Unpublished
// videos exist only for their owner.
func visibleVideo(ctx context.Context, videos repository.VideoRepository, id, viewerID string) (*model.Video, error) {
	video, err := videos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.Owner != viewerID {
		return nil, model.ErrVideoNotFound
	}
	return video, nil
}
