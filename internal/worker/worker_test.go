package worker_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/Rahanur19/youStream/internal/metrics"
	"github.com/Rahanur19/youStream/internal/queue"
	"github.com/Rahanur19/youStream/internal/worker"
)

// =============================================================================
// Mock Implementations
// =============================================================================

// memConsumer emulates one consumer group on one stream: Read hands out
// undelivered entries and marks them pending, ReadPending returns pending
// entries after startID, Ack removes them from the pending list.
type memConsumer struct {
	mu        sync.Mutex
	entries   []queue.Message
	delivered int
	pending   map[string]bool
	groupErr  error
	readCalls int
}

func newMemConsumer(events ...queue.JournalEvent) *memConsumer {
	c := &memConsumer{pending: make(map[string]bool)}
	for _, e := range events {
		c.add(e)
	}
	return c
}

func (c *memConsumer) add(e queue.JournalEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := fmt.Sprintf("%013d-0", len(c.entries)+1)
	c.entries = append(c.entries, queue.Message{ID: id, Event: e})
}

func (c *memConsumer) EnsureGroup(ctx context.Context, stream, group string) error {
	return c.groupErr
}

func (c *memConsumer) Read(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]queue.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readCalls++

	var out []queue.Message
	for c.delivered < len(c.entries) && int64(len(out)) < count {
		msg := c.entries[c.delivered]
		c.pending[msg.ID] = true
		out = append(out, msg)
		c.delivered++
	}
	return out, nil
}

func (c *memConsumer) ReadPending(ctx context.Context, stream, group, consumer, startID string, count int64) ([]queue.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []queue.Message
	for _, msg := range c.entries[:c.delivered] {
		if !c.pending[msg.ID] || strings.Compare(msg.ID, startID) <= 0 {
			continue
		}
		out = append(out, msg)
		if int64(len(out)) == count {
			break
		}
	}
	return out, nil
}

func (c *memConsumer) Ack(ctx context.Context, stream, group string, messageIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range messageIDs {
		delete(c.pending, id)
	}
	return nil
}

func (c *memConsumer) Pending(ctx context.Context, stream, group string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.pending)), nil
}

// mockReleaser records released URLs and fails for URLs in failing.
type mockReleaser struct {
	released []string
	failing  map[string]bool
}

func (m *mockReleaser) Release(ctx context.Context, url string) error {
	if m.failing[url] {
		return errors.New("storage unavailable")
	}
	m.released = append(m.released, url)
	return nil
}

func releaseEvent(url string) queue.JournalEvent {
	return queue.NewMediaReleaseFailedEvent(url, "video", "00000000-0000-4000-8000-000000000001", "timeout")
}

func newSweeper(c queue.Consumer, r worker.Releaser, m *metrics.Metrics, batch int64) *worker.Sweeper {
	return worker.NewSweeper(c, worker.NewHandler(r), m, worker.SweeperConfig{BatchSize: batch})
}

// =============================================================================
// Handler Tests
// =============================================================================

func TestHandleEvent(t *testing.T) {
	tests := []struct {
		name          string
		event         queue.JournalEvent
		wantMalformed bool
		wantReleased  int
	}{
		{name: "release", event: releaseEvent("https://cdn.test/videos/1"), wantReleased: 1},
		{name: "unknown type", event: queue.JournalEvent{Type: "post_created", URL: "https://cdn.test/x"}, wantMalformed: true},
		{name: "zero event", event: queue.JournalEvent{}, wantMalformed: true},
		{name: "missing url", event: releaseEvent(""), wantMalformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			releaser := &mockReleaser{}
			h := worker.NewHandler(releaser)

			// ACT
			err := h.HandleEvent(context.Background(), tt.event)

			// ASSERT
			if got := errors.Is(err, worker.ErrMalformedEvent); got != tt.wantMalformed {
				t.Errorf("errors.Is(err, ErrMalformedEvent) = %v, want %v (err=%v)", got, tt.wantMalformed, err)
			}
			if len(releaser.released) != tt.wantReleased {
				t.Errorf("released %d urls, want %d", len(releaser.released), tt.wantReleased)
			}
		})
	}
}

func TestHandleEvent_ReleaseErrorIsNotMalformed(t *testing.T) {
	releaser := &mockReleaser{failing: map[string]bool{"https://cdn.test/a": true}}
	h := worker.NewHandler(releaser)

	err := h.HandleEvent(context.Background(), releaseEvent("https://cdn.test/a"))
	if err == nil {
		t.Fatal("expected release error")
	}
	if errors.Is(err, worker.ErrMalformedEvent) {
		t.Errorf("storage failure reported as malformed: %v", err)
	}
}

// =============================================================================
// Sweeper Tests
// =============================================================================

func TestDrain_ReleasesAndAcknowledges(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	consumer := newMemConsumer(
		releaseEvent("https://cdn.test/videos/1"),
		releaseEvent("https://cdn.test/thumbnails/1"),
		releaseEvent("https://cdn.test/videos/2"),
	)
	releaser := &mockReleaser{}
	m := metrics.New(prometheus.NewRegistry())
	sweeper := newSweeper(consumer, releaser, m, 2)

	// ACT
	report, err := sweeper.Drain(ctx)

	// ASSERT
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if report != (worker.Report{Released: 3}) {
		t.Errorf("report = %+v, want 3 released", report)
	}
	if len(releaser.released) != 3 || releaser.released[0] != "https://cdn.test/videos/1" {
		t.Errorf("released = %v", releaser.released)
	}
	if pending, _ := consumer.Pending(ctx, "", ""); pending != 0 {
		t.Errorf("pending = %d, want 0", pending)
	}
	if got := testutil.ToFloat64(m.MediaReleaseTotal.WithLabelValues("success")); got != 3 {
		t.Errorf("media release success metric = %v, want 3", got)
	}

	// A second run finds nothing.
	report, err = sweeper.Drain(ctx)
	if err != nil {
		t.Fatalf("second Drain: %v", err)
	}
	if report != (worker.Report{}) {
		t.Errorf("second report = %+v, want empty", report)
	}
}

func TestDrain_FailuresStayPendingAndAreRetried(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	consumer := newMemConsumer(
		releaseEvent("https://cdn.test/videos/1"),
		releaseEvent("https://cdn.test/videos/2"),
		releaseEvent("https://cdn.test/videos/3"),
	)
	releaser := &mockReleaser{failing: map[string]bool{"https://cdn.test/videos/2": true}}
	m := metrics.New(prometheus.NewRegistry())
	sweeper := newSweeper(consumer, releaser, m, 10)

	// ACT
	report, err := sweeper.Drain(ctx)

	// ASSERT
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if report != (worker.Report{Released: 2, Failed: 1}) {
		t.Errorf("report = %+v, want 2 released 1 failed", report)
	}
	if pending, _ := consumer.Pending(ctx, "", ""); pending != 1 {
		t.Errorf("pending = %d, want 1", pending)
	}
	if got := testutil.ToFloat64(m.MediaReleaseTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("media release error metric = %v, want 1", got)
	}

	// Storage recovers; the next run picks the entry up from the pending list.
	releaser.failing = nil
	report, err = sweeper.Drain(ctx)
	if err != nil {
		t.Fatalf("second Drain: %v", err)
	}
	if report != (worker.Report{Released: 1}) {
		t.Errorf("second report = %+v, want 1 released", report)
	}
	if last := releaser.released[len(releaser.released)-1]; last != "https://cdn.test/videos/2" {
		t.Errorf("last released = %q, want videos/2", last)
	}
	if pending, _ := consumer.Pending(ctx, "", ""); pending != 0 {
		t.Errorf("pending = %d, want 0", pending)
	}
}

func TestDrain_PendingCursorTerminatesWhenEverythingFails(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	failing := map[string]bool{}
	var events []queue.JournalEvent
	for i := 1; i <= 3; i++ {
		url := fmt.Sprintf("https://cdn.test/videos/%d", i)
		failing[url] = true
		events = append(events, releaseEvent(url))
	}
	consumer := newMemConsumer(events...)
	sweeper := newSweeper(consumer, &mockReleaser{failing: failing}, nil, 1)

	if _, err := sweeper.Drain(ctx); err != nil {
		t.Fatalf("first Drain: %v", err)
	}

	// ACT
	report, err := sweeper.Drain(ctx)

	// ASSERT
	if err != nil {
		t.Fatalf("second Drain: %v", err)
	}
	if report != (worker.Report{Failed: 3}) {
		t.Errorf("report = %+v, want 3 failed", report)
	}
	if pending, _ := consumer.Pending(ctx, "", ""); pending != 3 {
		t.Errorf("pending = %d, want 3", pending)
	}
}

func TestDrain_DropsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	consumer := newMemConsumer(
		queue.JournalEvent{},
		releaseEvent("https://cdn.test/avatars/1"),
	)
	releaser := &mockReleaser{}
	sweeper := newSweeper(consumer, releaser, nil, 10)

	report, err := sweeper.Drain(ctx)
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if report != (worker.Report{Released: 1, Dropped: 1}) {
		t.Errorf("report = %+v, want 1 released 1 dropped", report)
	}
	if pending, _ := consumer.Pending(ctx, "", ""); pending != 0 {
		t.Errorf("pending = %d, want 0", pending)
	}
}

func TestDrain_EnsureGroupError(t *testing.T) {
	consumer := newMemConsumer(releaseEvent("https://cdn.test/videos/1"))
	consumer.groupErr = errors.New("NOPERM")
	sweeper := newSweeper(consumer, &mockReleaser{}, nil, 10)

	if _, err := sweeper.Drain(context.Background()); err == nil {
		t.Fatal("expected EnsureGroup error")
	}
	if consumer.readCalls != 0 {
		t.Errorf("read %d times after EnsureGroup failed", consumer.readCalls)
	}
}

func TestDrain_StopsOnCancelledContext(t *testing.T) {
	consumer := newMemConsumer(releaseEvent("https://cdn.test/videos/1"))
	releaser := &mockReleaser{}
	sweeper := newSweeper(consumer, releaser, nil, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sweeper.Drain(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(releaser.released) != 0 {
		t.Errorf("released %v after cancel", releaser.released)
	}
}

// =============================================================================
// Redis Integration
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set, skipping Redis integration test")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1
	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestStreamToSweeperIntegration(t *testing.T) {
	// ARRANGE
	client := setupTestRedis(t)
	ctx := context.Background()

	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)
	for _, url := range []string{"https://cdn.test/videos/1", "https://cdn.test/videos/2"} {
		if _, err := publisher.PublishMediaReleaseFailed(ctx, url, "video", "v1", "timeout"); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	releaser := &mockReleaser{failing: map[string]bool{"https://cdn.test/videos/2": true}}
	sweeper := newSweeper(consumer, releaser, nil, 10)

	// ACT
	report, err := sweeper.Drain(ctx)

	// ASSERT
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if report != (worker.Report{Released: 1, Failed: 1}) {
		t.Errorf("report = %+v, want 1 released 1 failed", report)
	}
	pending, err := consumer.Pending(ctx, queue.StreamMediaReleases, queue.ConsumerGroupMediaSweep)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if pending != 1 {
		t.Errorf("pending = %d, want 1", pending)
	}

	releaser.failing = nil
	report, err = sweeper.Drain(ctx)
	if err != nil {
		t.Fatalf("second Drain: %v", err)
	}
	if report != (worker.Report{Released: 1}) {
		t.Errorf("second report = %+v, want 1 released", report)
	}
	pending, _ = consumer.Pending(ctx, queue.StreamMediaReleases, queue.ConsumerGroupMediaSweep)
	if pending != 0 {
		t.Errorf("pending after retry = %d, want 0", pending)
	}
}
