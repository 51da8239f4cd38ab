package errors

import (
	"net/http"
	"testing"

	"storefront/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	err := ErrValidationFailed.WithDetails("city is required")

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.False(t, errors.Is(err, ErrProfileIncomplete))
	assert.Equal(t, "city is required", err.Details())
	assert.Empty(t, ErrValidationFailed.Details())
}

func TestBaseError_WrapMessageStillMatches(t *testing.T) {
	err := ErrOrderItemsFailed.WrapMessage("order 1234 left without items")

	assert.True(t, errors.Is(err, ErrOrderItemsFailed))

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ORDER_ITEMS_FAILED", appErr.ErrorCode())
}

func TestDatabaseExecuteError_IsStoreUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseExecuteError(cause, "failed to insert order")

	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPCode())
	assert.Equal(t, "STORE_UNAVAILABLE", err.ErrorCode())
	assert.Equal(t, "failed to insert order", err.Details())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}
