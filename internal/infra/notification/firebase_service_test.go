package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WithoutFirebaseConfigIsNoop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, cfg := range []*config.Config{
		{},
		{Firebase: &config.FirebaseConfig{AdminTopic: "admins"}},
	} {
		svc, err := New(cfg, logger)
		require.NoError(t, err)
		assert.False(t, IsEnabled(svc))
		assert.NoError(t, svc.SendTopicNotification(context.Background(), "admins", "title", "body", nil))
	}
}
