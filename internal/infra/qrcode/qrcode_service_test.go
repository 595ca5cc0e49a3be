package qrcode

import (
	"bytes"
	"encoding/json"
	"image/png"
	"testing"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"

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
			svc := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, svc)
		})
	}
}

func TestNewQRCodeServiceFromConfig(t *testing.T) {
	svc := NewQRCodeServiceFromConfig(&config.Config{})
	assert.Equal(t, defaultSize, svc.(*qrcodeService).size)

	svc = NewQRCodeServiceFromConfig(&config.Config{QRCode: &config.QRCodeConfig{Size: 512, ErrorCorrectionLevel: "H"}})
	assert.Equal(t, 512, svc.(*qrcodeService).size)
}

func TestQRCodeService_GenerateOrderQR(t *testing.T) {
	sizes := []int{128, 256, 512}

	for _, size := range sizes {
		svc := NewQRCodeService(size, "M")

		qrBytes, err := svc.GenerateOrderQR(uuid.New())
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(qrBytes))
		require.NoError(t, err)
		assert.Equal(t, size, img.Bounds().Dx())
	}
}

func TestQRCodeService_ParseOrderQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")
	orderID := uuid.New()

	valid, err := json.Marshal(QRCodeData{OrderID: orderID.String(), Type: orderReceiptType})
	require.NoError(t, err)

	parsedID, err := svc.ParseOrderQR(string(valid))
	require.NoError(t, err)
	assert.Equal(t, orderID, parsedID)
}

func TestQRCodeService_ParseOrderQR_Invalid(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	wrongType, err := json.Marshal(QRCodeData{OrderID: uuid.New().String(), Type: "subscription"})
	require.NoError(t, err)
	badID, err := json.Marshal(QRCodeData{OrderID: "not-a-valid-uuid", Type: orderReceiptType})
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload string
		detail  string
	}{
		{"invalid json", "invalid json", "failed to unmarshal QR code data"},
		{"wrong type", string(wrongType), "invalid QR code type"},
		{"bad uuid", string(badID), "failed to parse order ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseOrderQR(tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidQRCode)
			assert.Contains(t, err.Error(), tt.detail)
		})
	}
}
