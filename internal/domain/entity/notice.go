package entity

import (
	"fmt"
	"time"

	"storefront/internal/domain/constants"

	"github.com/google/uuid"
)

// NoticeType is the source table of a feed notice.
type NoticeType string

const (
	NoticeTypeOrder   NoticeType = "order"
	NoticeTypeContact NoticeType = "contact"
)

// noticeTables maps watched tables to the notice type their rows produce.
var noticeTables = map[string]NoticeType{
	constants.TableOrders:          NoticeTypeOrder,
	constants.TableContactMessages: NoticeTypeContact,
}

// IsValid checks if the NoticeType is a valid value.
func (t NoticeType) IsValid() bool {
	return t == NoticeTypeOrder || t == NoticeTypeContact
}

// Title is the push notification title for notices of this type.
func (t NoticeType) Title() string {
	if t == NoticeTypeOrder {
		return "New order"
	}

	return "New contact message"
}

// NoticeTypeForTable returns the notice type produced by inserts on table.
func NoticeTypeForTable(table string) (NoticeType, bool) {
	t, ok := noticeTables[table]

	return t, ok
}

// WatchedTables lists the tables whose inserts feed the admin notices.
func WatchedTables() []string {
	return []string{constants.TableOrders, constants.TableContactMessages}
}

// Notice is one entry of the admin notification feed.
type Notice struct {
	Type      NoticeType
	ID        uuid.UUID
	Message   string
	CreatedAt time.Time
}

// Key identifies a notice for deduplication.
func (n *Notice) Key() string {
	return string(n.Type) + ":" + n.ID.String()
}

// NewOrderNotice builds the feed entry for a placed order.
func NewOrderNotice(order *Order) *Notice {
	return &Notice{
		Type:      NoticeTypeOrder,
		ID:        order.ID,
		Message:   fmt.Sprintf("New order #%s for %s", order.Reference(), order.TotalAmount.StringFixed(2)),
		CreatedAt: order.CreatedAt,
	}
}

// NewContactNotice builds the feed entry for a contact message.
func NewContactNotice(msg *ContactMessage) *Notice {
	return &Notice{
		Type:      NoticeTypeContact,
		ID:        msg.ID,
		Message:   fmt.Sprintf("New message from %s: %s", msg.Name, msg.Subject),
		CreatedAt: msg.CreatedAt,
	}
}
