// Package events carries fire-and-forget booking side effects over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	TopicBookingCreated        = "booking.created"
	TopicBookingCompleted      = "booking.completed"
	TopicCancellationSubmitted = "cancellation.submitted"
	TopicDispatchRequested     = "dispatch.requested"
)

// Event is the payload of every topic. Token carries the cancellation
// token on booking.created and the review token on booking.completed.
type Event struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Token      string    `json:"token,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits events. Implementations must not block on delivery.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev Event) error
}

// Discard drops every event. The one-shot job commands use it.
type Discard struct{}

func (Discard) Publish(context.Context, string, Event) error { return nil }

type conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes to "<prefix>.<topic>".
type NATSPublisher struct {
	nc     conn
	prefix string
}

func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{nc: nc, prefix: prefix}
}

func (p *NATSPublisher) Subject(topic string) string {
	return Subject(p.prefix, topic)
}

func (p *NATSPublisher) Publish(_ context.Context, topic string, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}
	if err := p.nc.Publish(p.Subject(topic), data); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func Subject(prefix, topic string) string {
	if prefix == "" {
		return topic
	}
	return prefix + "." + topic
}

// Handler processes one decoded event.
type Handler func(ctx context.Context, ev Event) error

// Subscribe registers h on "<prefix>.<topic>". Handler errors are logged;
// there is no redelivery.
func Subscribe(nc *nats.Conn, prefix, topic string, timeout time.Duration, h Handler) (*nats.Subscription, error) {
	return nc.Subscribe(Subject(prefix, topic), func(msg *nats.Msg) {
		Dispatch(msg.Data, topic, timeout, h)
	})
}

// Dispatch decodes data and runs h with a bounded context.
func Dispatch(data []byte, topic string, timeout time.Duration, h Handler) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil || ev.BookingID == uuid.Nil {
		slog.Warn("events: dropping malformed message", "topic", topic, "err", err)
		return
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := h(ctx, ev); err != nil {
		slog.Warn("events: handler failed", "topic", topic, "booking_id", ev.BookingID, "err", err)
	}
}
