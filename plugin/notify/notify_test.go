package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	alerts []*Alert
}

func (s *captureSink) Send(_ context.Context, alert *Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

func TestNewAlert(t *testing.T) {
	alert := NewAlert(7, KindInsight, "title", "body")
	assert.NotEmpty(t, alert.UID)
	assert.Equal(t, int32(7), alert.UserID)
	assert.Equal(t, KindInsight, alert.Kind)
	assert.False(t, alert.CreatedAt.IsZero())
}

func TestQueueDispatches(t *testing.T) {
	sink := &captureSink{}
	queue := NewQueue(8, sink)
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)

	require.True(t, queue.Enqueue(NewAlert(1, KindInsight, "a", "b")))
	require.True(t, queue.Enqueue(NewAlert(1, KindPlanAdjusted, "c", "d")))

	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 2, sink.count())
}

func TestQueueDropsWhenFull(t *testing.T) {
	// No dispatcher running: the buffer fills up and the overflow is dropped
	// instead of blocking the producer.
	queue := NewQueue(2)
	defer queue.Close()

	assert.True(t, queue.Enqueue(NewAlert(1, KindInsight, "a", "")))
	assert.True(t, queue.Enqueue(NewAlert(1, KindInsight, "b", "")))
	assert.False(t, queue.Enqueue(NewAlert(1, KindInsight, "c", "")))
	assert.Equal(t, 2, queue.Pending())
}
