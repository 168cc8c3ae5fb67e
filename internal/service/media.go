package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/storage"
)

// MediaStore binds uploaded bytes to public URLs and releases them again.
type MediaStore interface {
	Upload(ctx context.Context, file *model.MediaFile) (*model.UploadResult, error)
	Release(ctx context.Context, url string) error
}

// MediaService normalizes images, measures videos and writes both to the
// configured object store.
type MediaService struct {
	store     storage.ObjectStore
	durations storage.DurationReader
	publicURL string
}

func NewMediaService(store storage.ObjectStore, durations storage.DurationReader, publicURL string) *MediaService {
	return &MediaService{
		store:     store,
		durations: durations,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Upload validates file by kind and stores it under a fresh key.
func (s *MediaService) Upload(ctx context.Context, file *model.MediaFile) (*model.UploadResult, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, model.ErrEmptyFile
	}
	if file.Kind == model.MediaVideo {
		return s.uploadVideo(ctx, file)
	}

	spec, ok := model.ImageSpecs[file.Kind]
	if !ok {
		return nil, fmt.Errorf("unsupported media kind %q", file.Kind)
	}
	if len(file.Data) > model.MaxImageSizeBytes {
		return nil, model.ErrFileTooLarge
	}
	if !model.IsAllowedImageType(detectContentType(file)) {
		return nil, model.ErrInvalidImageType
	}

	jpegBytes, err := resizeToJPEG(file.Data, spec.Width, spec.Height, model.ImageQuality)
	if err != nil {
		return nil, model.InvalidArgument("image could not be decoded")
	}

	key := fmt.Sprintf("%s/%s%s", spec.Folder, uuid.NewString(), model.ImageExt)
	if err := s.store.Put(ctx, key, jpegBytes, model.ContentTypeJPEG, model.ImageCacheControl); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"kind": file.Kind, "key": key, "bytes": len(jpegBytes)}).Info("[Media] Upload OK")
	return &model.UploadResult{URL: storage.URLForKey(s.publicURL, key), Key: key}, nil
}

func (s *MediaService) uploadVideo(ctx context.Context, file *model.MediaFile) (*model.UploadResult, error) {
	if len(file.Data) > model.MaxVideoSizeBytes {
		return nil, model.ErrFileTooLarge
	}
	contentType := detectContentType(file)
	ext, ok := model.VideoExtension(contentType)
	if !ok {
		return nil, model.ErrInvalidVideoType
	}

	duration, err := s.durations.Duration(ctx, file.Data, ext)
	if err != nil {
		logrus.WithError(err).WithField("filename", file.Filename).Warn("[Media] Duration read FAILED")
		return nil, model.ErrVideoDurationUnknown
	}

	key := fmt.Sprintf("%s/%s%s", model.VideoFolder, uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, file.Data, contentType, model.VideoCacheControl); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"key": key, "bytes": len(file.Data), "duration": duration}).Info("[Media] Upload OK")
	return &model.UploadResult{URL: storage.URLForKey(s.publicURL, key), Key: key, Duration: duration}, nil
}

// Release deletes the object behind url. URLs outside the bucket are left alone.
func (s *MediaService) Release(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	key, ok := storage.KeyFromURL(s.publicURL, url)
	if !ok {
		logrus.WithField("url", url).Debug("[Media] Release skipped: foreign url")
		return nil
	}
	return s.store.Delete(ctx, key)
}

// detectContentType trusts the declared type and falls back to sniffing.
func detectContentType(file *model.MediaFile) string {
	contentType := file.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(file.Data[:min(len(file.Data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// resizeToJPEG center-crops to the target box and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
