package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the media release journal
const (
	EventMediaReleaseFailed = "media_release_failed"
)

// Stream names
const (
	StreamMediaReleases = "stream:media_releases"
)

// Consumer group name for media sweepers
const (
	ConsumerGroupMediaSweep = "media_sweepers"
)

// JournalEvent records a media object that could not be released after its
// owning entity was deleted or its reference replaced.
type JournalEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	URL      string `json:"url"`
	Entity   string `json:"entity,omitempty"`    // video, user
	EntityID string `json:"entity_id,omitempty"` // owning entity at the time of release
	Reason   string `json:"reason,omitempty"`
}

// NewMediaReleaseFailedEvent creates an event for an object left behind in storage.
func NewMediaReleaseFailedEvent(url, entity, entityID, reason string) JournalEvent {
	return JournalEvent{
		Type:      EventMediaReleaseFailed,
		Timestamp: time.Now().Unix(),
		URL:       url,
		Entity:    entity,
		EntityID:  entityID,
		Reason:    reason,
	}
}

// ToMap converts the event to field-value pairs for XADD, with the JSON body
// under "data".
func (e JournalEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseJournalEvent parses a JournalEvent from Redis stream message values.
func ParseJournalEvent(values map[string]interface{}) (JournalEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return JournalEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event JournalEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return JournalEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
