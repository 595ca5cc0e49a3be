package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateOrderQR renders a PNG receipt QR code for an order.
	GenerateOrderQR(orderID uuid.UUID) ([]byte, error)

	// ParseOrderQR decodes a scanned receipt payload and returns the order ID.
	ParseOrderQR(qrData string) (uuid.UUID, error)
}
