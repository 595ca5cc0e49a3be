package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// PasswordResetInput starts an unauthenticated password reset.
type PasswordResetInput struct {
	Email          string
	NewPassword    string
	VerifyPassword string
}

// ConfirmPasswordResetInput completes a reset with the mailed code.
type ConfirmPasswordResetInput struct {
	Email string
	Code  string
}

// PasswordChangeInput starts a password change for a signed-in user.
type PasswordChangeInput struct {
	NewPassword    string
	VerifyPassword string
}

// EmailChangeInput starts an email change. Password is the current password.
type EmailChangeInput struct {
	NewEmail string
	Password string
}

// NameChangeInput starts a name change. At least one field must be set.
type NameChangeInput struct {
	FirstName string
	LastName  string
}

// AccountUsecase covers profile reads and the code-confirmed account changes.
type AccountUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	RequestPasswordReset(ctx context.Context, input *PasswordResetInput) error
	ResendPasswordResetOTP(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, input *ConfirmPasswordResetInput) (*LoginOutput, error)

	RequestPasswordChange(ctx context.Context, userID uuid.UUID, input *PasswordChangeInput) error
	ConfirmPasswordChange(ctx context.Context, userID uuid.UUID, code string) error

	RequestEmailChange(ctx context.Context, userID uuid.UUID, input *EmailChangeInput) error
	ConfirmEmailChange(ctx context.Context, userID uuid.UUID, code string) (*entity.User, error)

	RequestNameChange(ctx context.Context, userID uuid.UUID, input *NameChangeInput) error
	ConfirmNameChange(ctx context.Context, userID uuid.UUID, code string) (*entity.User, error)

	// ResendOTP re-issues the code of a pending password, email or name change.
	ResendOTP(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose) error
}
