package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_FillsMissingSections(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 60*time.Second, cfg.OTP.ResendCooldown)
	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, 20*time.Hour, cfg.Payment.CheckoutTokenTTL)
	assert.Equal(t, "NGN", cfg.Payment.Currency)
	assert.Equal(t, 15*time.Second, cfg.Payment.Timeout)
	assert.Equal(t, 4, cfg.Notification.Workers)
	assert.Equal(t, 256, cfg.Notification.QueueSize)
	assert.Nil(t, cfg.Metrics)
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{
		OTP:     &OTPConfig{TTL: time.Minute, ResendCooldown: 10 * time.Second, Length: 8},
		Payment: &PaymentConfig{Currency: "USD", CheckoutTokenTTL: time.Hour, Timeout: time.Second},
		Metrics: &MetricsConfig{Enabled: true},
	}

	applyDefaults(cfg)

	assert.Equal(t, time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 10*time.Second, cfg.OTP.ResendCooldown)
	assert.Equal(t, 8, cfg.OTP.Length)
	assert.Equal(t, "USD", cfg.Payment.Currency)
	assert.Equal(t, time.Hour, cfg.Payment.CheckoutTokenTTL)
	assert.Equal(t, time.Second, cfg.Payment.Timeout)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}
