package auth

import (
	"time"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	checkoutAudience   = "checkout-confirmation"
	defaultCheckoutTTL = 20 * time.Hour
)

type checkoutTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCheckoutTokenService builds the signer for payment confirmation tokens.
func NewCheckoutTokenService(cfg *config.Config) (service.CheckoutTokenService, error) {
	if cfg.SecretKey.Checkout == "" {
		return nil, errors.New("checkout secret must be provided")
	}
	if cfg.SecretKey.Checkout == cfg.SecretKey.Access || cfg.SecretKey.Checkout == cfg.SecretKey.Refresh {
		return nil, errors.New("checkout secret must differ from session secrets")
	}

	ttl := defaultCheckoutTTL
	if cfg.Payment != nil && cfg.Payment.CheckoutTokenTTL > 0 {
		ttl = cfg.Payment.CheckoutTokenTTL
	}

	return &checkoutTokenService{
		secret: []byte(cfg.SecretKey.Checkout),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *checkoutTokenService) IssueCheckoutToken(userID, cartID uuid.UUID, txRef, address string) (string, error) {
	now := s.now()
	claims := &service.CheckoutClaims{
		UserID:  userID,
		CartID:  cartID,
		TxRef:   txRef,
		Address: address,
		Type:    service.TokenTypeCheckout,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        txRef,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{checkoutAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign checkout token")
	}

	return signed, nil
}

func (s *checkoutTokenService) ParseCheckoutToken(tokenString string) (*service.CheckoutClaims, error) {
	claims := &service.CheckoutClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(checkoutAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse checkout token")
	}

	if claims.Type != service.TokenTypeCheckout {
		return nil, errors.Errorf("unexpected token type %q", claims.Type)
	}

	return claims, nil
}
