package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess   = "access"
	TokenTypeRefresh  = "refresh"
	TokenTypeCheckout = "checkout"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Roles  []string  `json:"roles,omitempty"`
	Type   string    `json:"type"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating session JWTs.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a given user.
	GenerateTokens(userID uuid.UUID, roles []string) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken parses an access token.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken parses a refresh token.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// HashToken returns the storage hash of a raw token.
	HashToken(token string) string

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}

// CheckoutClaims binds a payment confirmation to the cart, buyer and delivery address.
type CheckoutClaims struct {
	UserID  uuid.UUID `json:"uid"`
	CartID  uuid.UUID `json:"cid"`
	TxRef   string    `json:"tx_ref"`
	Address string    `json:"address"`
	Type    string    `json:"type"`
	jwt.RegisteredClaims
}

// CheckoutTokenService issues single-purpose checkout confirmation tokens.
// They are signed with their own secret so they can never pass as session tokens.
type CheckoutTokenService interface {
	IssueCheckoutToken(userID, cartID uuid.UUID, txRef, address string) (string, error)
	ParseCheckoutToken(tokenString string) (*CheckoutClaims, error)
}
