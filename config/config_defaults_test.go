package config

import (
	"testing"
	"time"

	"storefront/internal/domain/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	require.NotNil(t, cfg.Checkout)
	assert.True(t, cfg.Checkout.RequirePhone)
	assert.True(t, cfg.Checkout.RequireCompleteProfile)
	assert.False(t, cfg.Checkout.Transactional)
	assert.Equal(t, "United Kingdom", cfg.Checkout.DefaultCountry)

	require.NotNil(t, cfg.Orders)
	assert.False(t, cfg.Orders.StrictTransitions)

	require.NotNil(t, cfg.Notifications)
	assert.Equal(t, constants.NotificationModePoll, cfg.Notifications.Mode)
	assert.Equal(t, 5, cfg.Notifications.FetchLimit)
	assert.Equal(t, 10, cfg.Notifications.DisplayLimit)

	assert.Equal(t, "product-images", cfg.Storage.ProductBucket)
	assert.Equal(t, "category-images", cfg.Storage.CategoryBucket)
	assert.Equal(t, time.Minute, cfg.Redis.CatalogTTL)
	assert.Equal(t, constants.PubSubProviderInProcess, cfg.PubSub.Provider)
	assert.Equal(t, "100KB", cfg.HTTP.MaxRequestBodySize)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Checkout: &CheckoutConfig{
			RequirePhone:   false,
			Transactional:  true,
			DefaultCountry: "Kenya",
		},
		Notifications: &NotificationsConfig{
			Mode:         constants.NotificationModeSubscribe,
			DisplayLimit: 3,
		},
	}

	applyDefaults(cfg)

	assert.False(t, cfg.Checkout.RequirePhone)
	assert.True(t, cfg.Checkout.Transactional)
	assert.Equal(t, "Kenya", cfg.Checkout.DefaultCountry)
	assert.Equal(t, constants.NotificationModeSubscribe, cfg.Notifications.Mode)
	assert.Equal(t, 3, cfg.Notifications.DisplayLimit)
	assert.Equal(t, 5, cfg.Notifications.FetchLimit)
}
