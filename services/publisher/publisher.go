package publisher

import (
	"context"
	"time"

	"lotwatch/torgiwatch/internal/model"
)

// Event kinds
const (
	EventNewLot       = "new_lot"
	EventStatusChange = "status_change"
)

// LotEvent is one NEW or CHANGED lot observed by a check
type LotEvent struct {
	Type      string    `json:"type"`
	Lot       model.Lot `json:"lot"`
	OldStatus string    `json:"old_status,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher represents a service for publishing lot events
type Publisher interface {
	// Publish publishes an event to a stream
	Publish(ctx context.Context, event LotEvent) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}

// NopPublisher drops every event. It is used when no stream is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, LotEvent) error { return nil }
func (NopPublisher) TrimStreams(context.Context) error      { return nil }
func (NopPublisher) Close() error                           { return nil }
