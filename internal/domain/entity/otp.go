package entity

import (
	"time"

	"github.com/google/uuid"
)

// OTPPurpose names the account mutation a one-time code authorises.
type OTPPurpose string

const (
	OTPPurposeSignup         OTPPurpose = "signup"
	OTPPurposeForgotPassword OTPPurpose = "forgot_password"
	OTPPurposePasswordChange OTPPurpose = "password_change"
	OTPPurposeEmailChange    OTPPurpose = "email_change"
	OTPPurposeNameChange     OTPPurpose = "name_change"
)

// IsValid reports whether p is a known purpose.
func (p OTPPurpose) IsValid() bool {
	switch p {
	case OTPPurposeSignup, OTPPurposeForgotPassword, OTPPurposePasswordChange,
		OTPPurposeEmailChange, OTPPurposeNameChange:
		return true
	default:
		return false
	}
}

// OTPPayload carries the pending change applied on successful verification.
// Only the fields relevant to the purpose are set.
type OTPPayload struct {
	PasswordHash string `json:"password_hash,omitempty"`
	NewEmail     string `json:"new_email,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
}

// OTPRequest is the single pending request for a (user, purpose) pair.
type OTPRequest struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Purpose   OTPPurpose
	Code      string
	Payload   OTPPayload
	CreatedAt time.Time // Reset on every resend.
}

// ExpiredAt reports whether the request is older than ttl at now.
func (r *OTPRequest) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.CreatedAt) > ttl
}

// ResendAllowedAt reports whether the cooldown since the last send has elapsed.
func (r *OTPRequest) ResendAllowedAt(now time.Time, cooldown time.Duration) bool {
	return now.Sub(r.CreatedAt) >= cooldown
}
