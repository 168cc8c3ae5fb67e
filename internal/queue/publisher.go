package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the stream and returns the Redis message ID.
	Publish(ctx context.Context, stream string, event JournalEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD with an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event JournalEvent) (string, error) {
	startTime := time.Now()
	log := logrus.WithFields(logrus.Fields{"stream": stream, "type": event.Type})

	values, err := event.ToMap()
	if err != nil {
		log.WithError(err).Error("[Publisher] Publish FAILED")
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		log.WithError(err).Error("[Publisher] Publish FAILED")
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.WithFields(logrus.Fields{
		"msg_id":   messageID,
		"url":      event.URL,
		"duration": time.Since(startTime),
	}).Info("[Publisher] Publish OK")

	return messageID, nil
}

// PublishMediaReleaseFailed journals an object that still has to be deleted.
func (p *RedisPublisher) PublishMediaReleaseFailed(ctx context.Context, url, entity, entityID, reason string) (string, error) {
	event := NewMediaReleaseFailedEvent(url, entity, entityID, reason)
	return p.Publish(ctx, StreamMediaReleases, event)
}
