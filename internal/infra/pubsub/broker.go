package pubsub

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/domain/service"
)

type subscription struct {
	id      uint64
	handler service.InsertHandler
}

// Broker fans insert events out to in-process subscribers, keyed by table.
// Handlers run synchronously on the publishing goroutine and must not block.
type Broker struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
	logger *slog.Logger
}

// NewBroker creates an empty broker.
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		subs:   make(map[string][]subscription),
		logger: logger,
	}
}

// SubscribeToInserts registers handler for table. The returned function is idempotent.
func (b *Broker) SubscribeToInserts(table string, handler service.InsertHandler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[table] = append(b.subs[table], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { b.remove(table, id) })
	}
}

// Dispatch delivers event to every subscriber of its table. A panicking handler is logged and skipped.
func (b *Broker) Dispatch(ctx context.Context, event *service.InsertEvent) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[event.Table]))
	copy(subs, b.subs[event.Table])
	b.mu.RUnlock()

	for _, sub := range subs {
		b.deliver(ctx, sub, event)
	}
}

// SubscriberCount reports how many handlers follow table.
func (b *Broker) SubscriberCount(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[table])
}

func (b *Broker) deliver(ctx context.Context, sub subscription, event *service.InsertEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("[Broker] Insert handler panicked",
				slog.String("table", event.Table),
				slog.String("record_id", event.RecordID),
				slog.Any("panic", r),
			)
		}
	}()

	sub.handler(ctx, event)
}

func (b *Broker) remove(table string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[table]
	for i, sub := range subs {
		if sub.id == id {
			b.subs[table] = append(subs[:i:i], subs[i+1:]...)

			break
		}
	}
	if len(b.subs[table]) == 0 {
		delete(b.subs, table)
	}
}
