package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

// PushMessage is the body Google Pub/Sub POSTs to a push endpoint.
// The local publisher sends the same shape so the worker cannot tell them apart.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// eventAttributes are copied onto every message for filtering and tracing.
func eventAttributes(event *service.InsertEvent) map[string]string {
	attributes := map[string]string{
		"table":     event.Table,
		"record_id": event.RecordID,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}

// NewPushMessage wraps event the way Pub/Sub push delivery does.
func NewPushMessage(event *service.InsertEvent, subscription string) (*PushMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	msg := &PushMessage{Subscription: subscription}
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = eventAttributes(event)
	msg.Message.MessageID = event.Table + ":" + event.RecordID
	msg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)

	return msg, nil
}

// DecodeEvent extracts the insert event carried by a push message.
func (m *PushMessage) DecodeEvent() (*service.InsertEvent, error) {
	data, err := base64.StdEncoding.DecodeString(m.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode message data")
	}

	var event service.InsertEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "failed to parse insert event")
	}

	if event.Table == "" || event.RecordID == "" {
		return nil, errors.New("insert event is missing table or record id")
	}

	return &event, nil
}
