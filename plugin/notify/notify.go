// Package notify delivers typed engine alerts to external channels. The
// engine enqueues and moves on: delivery is asynchronous, rate limited and
// never confirmed back to the analysis pipeline.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/time/rate"
)

// Kind is the alert type, used by channels to pick formatting and by the
// client app for routing.
type Kind string

const (
	KindInsight        Kind = "insight"
	KindScheduleChange Kind = "schedule_change"
	KindPlanAdjusted   Kind = "plan_adjusted"
	KindInjuryAdvice   Kind = "injury_advice"
)

// Alert is one outbound notification.
type Alert struct {
	UID       string    `json:"uid"`
	UserID    int32     `json:"userId"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAlert stamps a fresh alert.
func NewAlert(userID int32, kind Kind, title, body string) *Alert {
	return &Alert{
		UID:       shortuuid.New(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
}

// Sink delivers an alert to one external channel.
type Sink interface {
	Send(ctx context.Context, alert *Alert) error
}

// Queue is the typed outbound alert queue. A single dispatcher goroutine
// drains it to every configured sink; a sink failure is logged, never
// retried and never surfaced to the producer.
type Queue struct {
	ch      chan *Alert
	sinks   []Sink
	limiter *rate.Limiter

	closeOnce sync.Once
	done      chan struct{}
}

// NewQueue creates a queue with the given buffer capacity. Delivery is
// limited to one alert per second with small bursts, which is plenty for a
// personal plan and keeps a misbehaving rule from flooding a chat channel.
func NewQueue(capacity int, sinks ...Sink) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	return &Queue{
		ch:      make(chan *Alert, capacity),
		sinks:   sinks,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		done:    make(chan struct{}),
	}
}

// Start runs the dispatcher until ctx is cancelled or Close is called.
func (q *Queue) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.done:
				return
			case alert := <-q.ch:
				q.dispatch(ctx, alert)
			}
		}
	}()
}

// Enqueue hands an alert to the dispatcher. Fire-and-forget: when the queue
// is full the alert is dropped with a warning rather than blocking an
// analysis run. Returns whether the alert was accepted.
func (q *Queue) Enqueue(alert *Alert) bool {
	select {
	case q.ch <- alert:
		return true
	default:
		slog.Warn("notification queue full, dropping alert",
			"kind", alert.Kind,
			"user", alert.UserID,
		)
		return false
	}
}

// Close stops the dispatcher. Buffered alerts are dropped.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Pending reports the number of alerts waiting for dispatch.
func (q *Queue) Pending() int {
	return len(q.ch)
}

func (q *Queue) dispatch(ctx context.Context, alert *Alert) {
	if err := q.limiter.Wait(ctx); err != nil {
		return
	}
	for _, sink := range q.sinks {
		if err := sink.Send(ctx, alert); err != nil {
			slog.Warn("failed to deliver alert",
				"kind", alert.Kind,
				"user", alert.UserID,
				"error", err,
			)
		}
	}
}
