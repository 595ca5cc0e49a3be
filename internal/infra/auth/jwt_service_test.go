package auth

import (
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:   "test_access_secret_key_very_long_for_testing",
			Refresh:  "test_refresh_secret_key_very_long_for_testing",
			Checkout: "test_checkout_secret_key_very_long_for_testing",
		},
		Auth: &config.AuthConfig{
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		},
		Payment: &config.PaymentConfig{
			CheckoutTokenTTL: 20 * time.Hour,
		},
	}
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	userID := uuid.New()
	roles := []string{"user", "admin"}

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID, roles)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, roles, accessClaims.Roles)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)

	refreshClaims, err := jwtService.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Nil(t, refreshClaims.Roles) // Refresh tokens don't have roles
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)

	assert.Equal(t, time.Hour, jwtService.GetRefreshTokenDuration())
}

func TestJWTService_RejectsCrossedTokenTypes(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(uuid.New(), []string{"user"})
	require.NoError(t, err)

	_, err = jwtService.ValidateRefreshToken(accessToken)
	assert.Error(t, err)

	_, err = jwtService.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "failed to parse token")
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	impl := svc.(*jwtService)
	impl.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	accessToken, _, err := impl.GenerateTokens(uuid.New(), nil)
	require.NoError(t, err)

	impl.now = time.Now
	_, err = impl.ValidateAccessToken(accessToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_MissingSecrets(t *testing.T) {
	cfg := newTestConfig()
	cfg.SecretKey.Refresh = ""

	svc, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestJWTService_HashToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	h1 := svc.HashToken("token-a")
	h2 := svc.HashToken("token-a")
	h3 := svc.HashToken("token-b")

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestCheckoutTokenService_RoundTrip(t *testing.T) {
	svc, err := NewCheckoutTokenService(newTestConfig())
	require.NoError(t, err)

	userID, cartID := uuid.New(), uuid.New()
	token, err := svc.IssueCheckoutToken(userID, cartID, "tx-123", "12 Marina Road, Lagos")
	require.NoError(t, err)

	claims, err := svc.ParseCheckoutToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, cartID, claims.CartID)
	assert.Equal(t, "tx-123", claims.TxRef)
	assert.Equal(t, "12 Marina Road, Lagos", claims.Address)
	assert.Equal(t, service.TokenTypeCheckout, claims.Type)
}

func TestCheckoutTokenService_RejectsSessionToken(t *testing.T) {
	cfg := newTestConfig()

	sessions, err := NewJWTService(cfg)
	require.NoError(t, err)
	checkout, err := NewCheckoutTokenService(cfg)
	require.NoError(t, err)

	accessToken, _, err := sessions.GenerateTokens(uuid.New(), []string{"user"})
	require.NoError(t, err)

	_, err = checkout.ParseCheckoutToken(accessToken)
	assert.Error(t, err)
}

func TestCheckoutTokenService_Expired(t *testing.T) {
	svc, err := NewCheckoutTokenService(newTestConfig())
	require.NoError(t, err)

	impl := svc.(*checkoutTokenService)
	impl.now = func() time.Time { return time.Now().Add(-21 * time.Hour) }
	token, err := impl.IssueCheckoutToken(uuid.New(), uuid.New(), "tx-1", "somewhere far")
	require.NoError(t, err)

	impl.now = time.Now
	_, err = impl.ParseCheckoutToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestCheckoutTokenService_RequiresDistinctSecret(t *testing.T) {
	cfg := newTestConfig()
	cfg.SecretKey.Checkout = cfg.SecretKey.Access

	_, err := NewCheckoutTokenService(cfg)
	assert.Error(t, err)
}

func TestCodeGenerator_Generate(t *testing.T) {
	gen := NewCodeGenerator(&config.Config{OTP: &config.OTPConfig{Length: 6}})

	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
	}
}
