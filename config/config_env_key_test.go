package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master":  map[string]any{"userName": "user"},
		},
		"payment": map[string]any{
			"checkoutTokenTTL": "20h",
			"successUrl":       "",
		},
		"otp": map[string]any{
			"resendCooldown": "60s",
		},
		"notification": map[string]any{
			"opsMailbox": "",
			"queueSize":  256,
		},
		"secretKey": map[string]any{"checkout": ""},
	}

	tests := map[string]string{
		"POSTGRES_MASTER_USERNAME":  "postgres.master.userName",
		"PAYMENT_CHECKOUTTOKENTTL":  "payment.checkoutTokenTTL",
		"PAYMENT_SUCCESSURL":        "payment.successUrl",
		"OTP_RESENDCOOLDOWN":        "otp.resendCooldown",
		"NOTIFICATION_OPSMAILBOX":   "notification.opsMailbox",
		"NOTIFICATION_QUEUESIZE":    "notification.queueSize",
		"SECRETKEY_CHECKOUT":        "secretKey.checkout",
		"SENDGRID_API_KEY":          "sendgrid.api.key",
		"POSTGRES_MASTER_UNDEFINED": "postgres.master.undefined",
	}

	for envKey, want := range tests {
		t.Run(envKey, func(t *testing.T) {
			assert.Equal(t, want, canonicalizeEnvKey(envKey, existing))
		})
	}
}
