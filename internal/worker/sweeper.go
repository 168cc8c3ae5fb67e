package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/metrics"
	"github.com/Rahanur19/youStream/internal/queue"
)

const (
	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultConsumerName identifies the sweeper inside the consumer group.
	// Reusing the name across runs lets a new run pick up what an earlier
	// one left pending.
	DefaultConsumerName = "mediasweep"
)

// SweeperConfig holds configuration for a drain run.
type SweeperConfig struct {
	BatchSize    int64
	ConsumerName string
}

func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		BatchSize:    DefaultBatchSize,
		ConsumerName: DefaultConsumerName,
	}
}

// Report summarizes one drain run.
type Report struct {
	Released int // deleted from storage and acknowledged
	Dropped  int // malformed, acknowledged without a retry
	Failed   int // still pending, retried on the next run
}

// Sweeper drains the media release journal once: first the entries this
// consumer already holds as pending, then every entry not yet delivered.
// Successful releases are acknowledged; failed ones stay pending.
type Sweeper struct {
	consumer  queue.Consumer
	handler   *Handler
	metrics   *metrics.Metrics
	batchSize int64
	name      string
}

func NewSweeper(consumer queue.Consumer, handler *Handler, m *metrics.Metrics, cfg SweeperConfig) *Sweeper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = DefaultConsumerName
	}

	return &Sweeper{
		consumer:  consumer,
		handler:   handler,
		metrics:   m,
		batchSize: cfg.BatchSize,
		name:      cfg.ConsumerName,
	}
}

// Drain processes the journal until nothing is left to read and returns.
func (s *Sweeper) Drain(ctx context.Context) (Report, error) {
	var report Report
	log := logrus.WithFields(logrus.Fields{
		"stream":   queue.StreamMediaReleases,
		"group":    queue.ConsumerGroupMediaSweep,
		"consumer": s.name,
	})

	if err := s.consumer.EnsureGroup(ctx, queue.StreamMediaReleases, queue.ConsumerGroupMediaSweep); err != nil {
		return report, err
	}

	if err := s.drainPending(ctx, &report); err != nil {
		log.WithError(err).Error("[Sweeper] Drain FAILED")
		return report, err
	}
	if err := s.drainNew(ctx, &report); err != nil {
		log.WithError(err).Error("[Sweeper] Drain FAILED")
		return report, err
	}

	log.WithFields(logrus.Fields{
		"released": report.Released,
		"dropped":  report.Dropped,
		"failed":   report.Failed,
	}).Info("[Sweeper] Drain OK")
	return report, nil
}

// drainPending walks this consumer's pending list with a cursor, since
// failed entries remain in it and would otherwise be read again.
func (s *Sweeper) drainPending(ctx context.Context, report *Report) error {
	cursor := "0"
	for {
		messages, err := s.consumer.ReadPending(ctx, queue.StreamMediaReleases, queue.ConsumerGroupMediaSweep, s.name, cursor, s.batchSize)
		if err != nil {
			return fmt.Errorf("read pending: %w", err)
		}
		if len(messages) == 0 {
			return nil
		}

		if err := s.handleMessages(ctx, messages, report); err != nil {
			return err
		}
		cursor = messages[len(messages)-1].ID
	}
}

func (s *Sweeper) drainNew(ctx context.Context, report *Report) error {
	for {
		messages, err := s.consumer.Read(ctx, queue.StreamMediaReleases, queue.ConsumerGroupMediaSweep, s.name, s.batchSize, -1)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if len(messages) == 0 {
			return nil
		}

		if err := s.handleMessages(ctx, messages, report); err != nil {
			return err
		}
	}
}

func (s *Sweeper) handleMessages(ctx context.Context, messages []queue.Message, report *Report) error {
	var ack []string
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.handler.HandleEvent(ctx, msg.Event)
		switch {
		case err == nil:
			report.Released++
			ack = append(ack, msg.ID)
			s.metrics.ObserveMediaRelease(nil)
		case errors.Is(err, ErrMalformedEvent):
			report.Dropped++
			ack = append(ack, msg.ID)
		default:
			report.Failed++
			s.metrics.ObserveMediaRelease(err)
		}
	}

	if err := s.consumer.Ack(ctx, queue.StreamMediaReleases, queue.ConsumerGroupMediaSweep, ack...); err != nil {
		return fmt.Errorf("ack: %w", err)
	}
	return nil
}
