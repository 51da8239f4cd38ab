package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateOrderQR encodes a link to the order as a PNG QR code.
	GenerateOrderQR(orderID uuid.UUID) ([]byte, error)

	// ParseOrderQR extracts the order id from the QR code content.
	ParseOrderQR(qrData string) (uuid.UUID, error)
}
