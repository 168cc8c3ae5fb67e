package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Message represents a message read from a Redis stream.
type Message struct {
	ID    string // Redis message ID (e.g., "1702000000000-0")
	Event JournalEvent
}

// Consumer defines the interface for consuming events from a stream.
type Consumer interface {
	// EnsureGroup creates the consumer group (and stream) if missing.
	EnsureGroup(ctx context.Context, stream, group string) error

	// Read reads messages never delivered to any consumer of the group.
	// block < 0 returns immediately when nothing is available.
	Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error)

	// ReadPending reads messages delivered to consumer but not acknowledged,
	// starting after startID ("0" for the beginning).
	ReadPending(ctx context.Context, stream, group, consumer, startID string, count int64) ([]Message, error)

	// Ack removes messages from the consumer's pending list.
	Ack(ctx context.Context, stream, group string, messageIDs ...string) error

	// Pending returns the number of unacknowledged messages for the group.
	Pending(ctx context.Context, stream, group string) (int64, error)
}

// RedisConsumer implements Consumer using Redis Streams.
type RedisConsumer struct {
	client *redis.Client
}

// NewConsumer creates a new Consumer backed by Redis Streams.
func NewConsumer(client *redis.Client) *RedisConsumer {
	return &RedisConsumer{client: client}
}

// EnsureGroup runs XGROUP CREATE ... MKSTREAM from ID "0", so a new group
// sees every journaled event.
func (c *RedisConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	log := logrus.WithFields(logrus.Fields{"stream": stream, "group": group})

	err := c.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			log.Debug("[Consumer] EnsureGroup: already exists")
			return nil
		}
		log.WithError(err).Error("[Consumer] EnsureGroup FAILED")
		return fmt.Errorf("create consumer group: %w", err)
	}

	log.Info("[Consumer] EnsureGroup OK (created)")
	return nil
}

func (c *RedisConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]Message, error) {
	return c.read(ctx, stream, group, consumer, ">", count, block)
}

func (c *RedisConsumer) ReadPending(ctx context.Context, stream, group, consumer, startID string, count int64) ([]Message, error) {
	if startID == "" {
		startID = "0"
	}
	return c.read(ctx, stream, group, consumer, startID, count, -1)
}

func (c *RedisConsumer) read(ctx context.Context, stream, group, consumer, id string, count int64, block time.Duration) ([]Message, error) {
	startTime := time.Now()
	log := logrus.WithFields(logrus.Fields{"stream": stream, "group": group, "consumer": consumer, "from": id})

	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, id},
		Count:    count,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		log.WithError(err).Error("[Consumer] Read FAILED")
		return nil, fmt.Errorf("xreadgroup: %w", err)
	}

	var messages []Message
	for _, s := range streams {
		for _, msg := range s.Messages {
			event, err := ParseJournalEvent(msg.Values)
			if err != nil {
				// Malformed entries are returned with a zero event so the
				// caller can still acknowledge them.
				log.WithError(err).WithField("msg_id", msg.ID).Warn("[Consumer] Read parse error")
			}
			messages = append(messages, Message{ID: msg.ID, Event: event})
		}
	}

	log.WithFields(logrus.Fields{
		"count":    len(messages),
		"duration": time.Since(startTime),
	}).Debug("[Consumer] Read OK")

	return messages, nil
}

// Ack acknowledges messages using XACK.
func (c *RedisConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	if len(messageIDs) == 0 {
		return nil
	}

	acked, err := c.client.XAck(ctx, stream, group, messageIDs...).Result()
	if err != nil {
		logrus.WithError(err).WithField("ids", messageIDs).Error("[Consumer] Ack FAILED")
		return fmt.Errorf("xack: %w", err)
	}

	logrus.WithFields(logrus.Fields{"stream": stream, "acked": acked}).Debug("[Consumer] Ack OK")
	return nil
}

// Pending returns the count of pending messages for the consumer group.
func (c *RedisConsumer) Pending(ctx context.Context, stream, group string) (int64, error) {
	info, err := c.client.XPending(ctx, stream, group).Result()
	if err != nil {
		return 0, fmt.Errorf("xpending: %w", err)
	}
	return info.Count, nil
}
