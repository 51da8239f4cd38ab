// Package constants holds string values shared between configuration and wiring.
package constants

const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Pub/Sub providers accepted in pubsub.provider.
const (
	PubSubProviderInProcess = "inprocess"
	PubSubProviderLocal     = "local"
	PubSubProviderGoogle    = "google"
)

// Notification feed modes accepted in notifications.mode.
const (
	NotificationModePoll      = "poll"
	NotificationModeSubscribe = "subscribe"
)

// Table names published on insert events.
const (
	TableOrders          = "orders"
	TableContactMessages = "contact_messages"
)
