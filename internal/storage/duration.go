package storage

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DurationReader reads the playback length of a video upload.
type DurationReader interface {
	Duration(ctx context.Context, data []byte, ext string) (float64, error)
}

// FFmpegDuration reads container metadata through ffmpeg-go.
type FFmpegDuration struct{}

func NewFFmpegDuration() *FFmpegDuration {
	return &FFmpegDuration{}
}

// Duration spills data to a temp file, since ffmpeg needs a seekable input.
func (d *FFmpegDuration) Duration(ctx context.Context, data []byte, ext string) (float64, error) {
	f, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return 0, errors.WithMessage(err, "failed to create temp upload")
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return 0, errors.WithMessage(err, "failed to write temp upload")
	}
	if err := f.Close(); err != nil {
		return 0, errors.WithMessage(err, "failed to close temp upload")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	out, err := ffmpeg.Probe(f.Name())
	if err != nil {
		return 0, errors.WithMessage(err, "failed to read media metadata")
	}
	return parseFormatDuration(out)
}

type formatOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseFormatDuration(out string) (float64, error) {
	var meta formatOutput
	if err := json.Unmarshal([]byte(out), &meta); err != nil {
		return 0, errors.WithMessage(err, "failed to parse media metadata")
	}
	if meta.Format.Duration == "" {
		return 0, errors.New("media metadata has no duration")
	}

	seconds, err := strconv.ParseFloat(meta.Format.Duration, 64)
	if err != nil {
		return 0, errors.WithMessage(err, "invalid media duration")
	}
	if seconds <= 0 {
		return 0, errors.Errorf("non-positive duration %v", seconds)
	}
	return seconds, nil
}
