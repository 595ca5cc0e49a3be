// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignupInput defines the data required to open a new account.
type SignupInput struct {
	Email          string
	Password       string
	VerifyPassword string
	FirstName      string
	LastName       string
	PhoneNumber    string
}

// VerifySignupInput confirms the signup code mailed to Email.
type VerifySignupInput struct {
	Email string
	Code  string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshTokenInput carries the refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token of the session to end.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// SignupOutput reports the pending account. Created is false when an unverified
// account already existed and only a fresh code was issued.
type SignupOutput struct {
	User    *entity.User
	Created bool
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns a new access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// AuthUsecase covers account creation and session management.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)
	VerifySignup(ctx context.Context, input *VerifySignupInput) (*LoginOutput, error)
	ResendSignupOTP(ctx context.Context, email string) error
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}
