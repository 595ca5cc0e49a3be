package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OTPPayloadColumn is the JSON document stored alongside a pending request.
type OTPPayloadColumn struct {
	PasswordHash string `json:"password_hash,omitempty"`
	NewEmail     string `json:"new_email,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
}

// OTPRequestModel mirrors the 'otp_requests' table. The (user_id, purpose) pair is unique,
// so a new request for the same purpose replaces the previous one.
type OTPRequestModel struct {
	ID        uuid.UUID                            `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:idx_otp_user_purpose"`
	Purpose   string                               `gorm:"type:varchar(32);not null;uniqueIndex:idx_otp_user_purpose"`
	Code      string                               `gorm:"type:varchar(16);not null"`
	Payload   datatypes.JSONType[OTPPayloadColumn] `gorm:"type:jsonb;not null"`
	CreatedAt time.Time                            `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (OTPRequestModel) TableName() string {
	return "otp_requests"
}
