package pubsub

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBroker_DispatchByTable(t *testing.T) {
	broker := NewBroker(newDiscardLogger())

	var orders, contacts []string
	broker.SubscribeToInserts(constants.TableOrders, func(_ context.Context, event *service.InsertEvent) {
		orders = append(orders, event.RecordID)
	})
	broker.SubscribeToInserts(constants.TableContactMessages, func(_ context.Context, event *service.InsertEvent) {
		contacts = append(contacts, event.RecordID)
	})

	broker.Dispatch(context.Background(), &service.InsertEvent{Table: constants.TableOrders, RecordID: "o-1"})
	broker.Dispatch(context.Background(), &service.InsertEvent{Table: constants.TableContactMessages, RecordID: "c-1"})
	broker.Dispatch(context.Background(), &service.InsertEvent{Table: "products", RecordID: "p-1"})

	assert.Equal(t, []string{"o-1"}, orders)
	assert.Equal(t, []string{"c-1"}, contacts)
}

func TestBroker_Unsubscribe(t *testing.T) {
	broker := NewBroker(newDiscardLogger())

	calls := 0
	unsubscribe := broker.SubscribeToInserts(constants.TableOrders, func(context.Context, *service.InsertEvent) {
		calls++
	})
	other := broker.SubscribeToInserts(constants.TableOrders, func(context.Context, *service.InsertEvent) {})
	assert.Equal(t, 2, broker.SubscriberCount(constants.TableOrders))

	broker.Dispatch(context.Background(), &service.InsertEvent{Table: constants.TableOrders, RecordID: "o-1"})
	unsubscribe()
	unsubscribe()
	broker.Dispatch(context.Background(), &service.InsertEvent{Table: constants.TableOrders, RecordID: "o-2"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, broker.SubscriberCount(constants.TableOrders))

	other()
	assert.Equal(t, 0, broker.SubscriberCount(constants.TableOrders))
}

func TestBroker_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	broker := NewBroker(newDiscardLogger())

	delivered := false
	broker.SubscribeToInserts(constants.TableOrders, func(context.Context, *service.InsertEvent) {
		panic("boom")
	})
	broker.SubscribeToInserts(constants.TableOrders, func(context.Context, *service.InsertEvent) {
		delivered = true
	})

	assert.NotPanics(t, func() {
		broker.Dispatch(context.Background(), &service.InsertEvent{Table: constants.TableOrders, RecordID: "o-1"})
	})
	assert.True(t, delivered)
}
