package service

import (
	"context"
	"time"
)

// InsertEvent announces a row inserted into a watched table.
type InsertEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Table      string    `json:"table"`
	RecordID   string    `json:"record_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InsertHandler receives insert events for one table.
type InsertHandler func(ctx context.Context, event *InsertEvent)

// EventPublisher defines the interface for publishing insert events
type EventPublisher interface {
	// PublishInsert announces a new row. Delivery is best effort.
	PublishInsert(ctx context.Context, event *InsertEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

// InsertSubscriber lets in-process consumers follow inserts on a table.
type InsertSubscriber interface {
	// SubscribeToInserts registers handler for table and returns the function that removes it.
	SubscribeToInserts(table string, handler InsertHandler) (unsubscribe func())
}
