package qrcode

import (
	"encoding/json"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel, "")
			assert.NotNil(t, service)
		})
	}
}

func TestNew_WithoutSection(t *testing.T) {
	service := New(&config.Config{})

	qrBytes, err := service.GenerateOrderQR(uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)
}

func TestQRCodeService_GenerateOrderQR(t *testing.T) {
	service := NewQRCodeService(256, "M", "https://shop.example.com/")

	qrBytes, err := service.GenerateOrderQR(uuid.New())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(qrBytes), 4)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
}

func TestQRCodeService_ParseOrderQR(t *testing.T) {
	service := NewQRCodeService(256, "M", "")
	orderID := uuid.New()

	jsonData, err := json.Marshal(OrderQRData{
		Type:      "order",
		OrderID:   orderID.String(),
		Reference: entity.ShortReference(orderID),
	})
	require.NoError(t, err)

	parsedID, err := service.ParseOrderQR(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, orderID, parsedID)
}

func TestQRCodeService_ParseOrderQR_Errors(t *testing.T) {
	service := NewQRCodeService(256, "M", "")
	orderID := uuid.New()

	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{"invalid json", "invalid json", "failed to unmarshal QR code data"},
		{"wrong type", mustJSON(t, OrderQRData{Type: "subscription", OrderID: orderID.String()}), "invalid QR code type"},
		{"invalid uuid", mustJSON(t, OrderQRData{Type: "order", OrderID: "not-a-valid-uuid"}), "failed to parse order ID"},
		{"reference mismatch", mustJSON(t, OrderQRData{Type: "order", OrderID: orderID.String(), Reference: "deadbeef"}), "does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ParseOrderQR(tt.payload)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return string(data)
}
