package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoopCache()

	require.NoError(t, c.Set(ctx, "products:all", []byte("[]"), time.Minute))

	value, found, err := c.Get(ctx, "products:all")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)

	assert.NoError(t, c.Invalidate(ctx))
}

func TestNew_WithoutRedisURLUsesNoop(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	c, err := New(Params{
		Lc:     lc,
		Config: &config.Config{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	assert.IsType(t, noopCache{}, c)
}

func TestNew_InvalidRedisURL(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	_, err := New(Params{
		Lc:     lc,
		Config: &config.Config{Redis: &config.RedisConfig{URL: "://not-a-url"}},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	assert.Error(t, err)
}
