package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/queue"
)

// ErrMalformedEvent marks journal entries that can never be processed.
// The sweeper acknowledges them so they do not stay pending forever.
var ErrMalformedEvent = errors.New("malformed journal event")

// Releaser deletes a stored object by its public URL.
type Releaser interface {
	Release(ctx context.Context, url string) error
}

// Handler retries the storage deletion recorded by one journal event.
type Handler struct {
	releaser Releaser
}

func NewHandler(releaser Releaser) *Handler {
	return &Handler{releaser: releaser}
}

// HandleEvent routes an event by type. It returns ErrMalformedEvent for
// unknown types and events without a URL.
func (h *Handler) HandleEvent(ctx context.Context, event queue.JournalEvent) error {
	startTime := time.Now()
	log := logrus.WithFields(logrus.Fields{
		"type":      event.Type,
		"url":       event.URL,
		"entity":    event.Entity,
		"entity_id": event.EntityID,
	})

	switch event.Type {
	case queue.EventMediaReleaseFailed:
	default:
		log.Warn("[Worker] HandleEvent: unknown event type")
		return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, event.Type)
	}
	if event.URL == "" {
		log.Warn("[Worker] HandleEvent: event has no url")
		return fmt.Errorf("%w: missing url", ErrMalformedEvent)
	}

	if err := h.releaser.Release(ctx, event.URL); err != nil {
		log.WithError(err).WithField("duration", time.Since(startTime)).Error("[Worker] HandleEvent FAILED")
		return err
	}

	log.WithField("duration", time.Since(startTime)).Info("[Worker] HandleEvent OK")
	return nil
}
