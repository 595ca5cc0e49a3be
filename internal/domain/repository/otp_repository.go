package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOTPRequestNotFound is returned when no pending request exists for a (user, purpose) pair.
var ErrOTPRequestNotFound = errors.New("otp request not found")

// OTPRepository stores at most one pending request per (user, purpose).
type OTPRepository interface {
	// Upsert replaces any pending request for the same (user, purpose) atomically.
	Upsert(ctx context.Context, req *entity.OTPRequest) error

	// FindForUpdate loads the pending request and locks it until the surrounding transaction ends.
	FindForUpdate(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose) (*entity.OTPRequest, error)

	// Delete removes the request by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
