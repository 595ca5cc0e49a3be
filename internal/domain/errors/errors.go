package errors

import (
	"net/http"

	"storefront/internal/errors"
)

// Kind classifies an AppError independent of its transport mapping.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindExternal       Kind = "external_service"
	KindAuthorization  Kind = "authorization"
	KindAuthentication Kind = "authentication"
	KindInternal       Kind = "internal"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind        // Taxonomy member
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, httpCode int, errorCode, message string) *BaseError {
	return &BaseError{
		kind:      kind,
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches on error code so that copies made by WithDetails still match the predefined error.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) Kind() Kind {
	return e.kind
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		kind:      e.kind,
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// KindOf reports the taxonomy member of err, or KindInternal when err carries no AppError.
func KindOf(err error) Kind {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindInternal
}

// Predefined error types
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"USER_NOT_FOUND", "User not found")

	ErrUserAlreadyExists = NewBaseError(KindConflict, http.StatusConflict,
		"USER_ALREADY_EXISTS", "An account with this email already exists")

	ErrEmailInUse = NewBaseError(KindConflict, http.StatusConflict,
		"EMAIL_IN_USE", "This email address is already in use")

	ErrUserNotVerified = NewBaseError(KindAuthorization, http.StatusForbidden,
		"USER_NOT_VERIFIED", "Please verify your email address first")

	ErrUserAlreadyVerified = NewBaseError(KindConflict, http.StatusConflict,
		"USER_ALREADY_VERIFIED", "This account is already verified")

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(KindAuthentication, http.StatusUnauthorized,
		"INVALID_CREDENTIALS", "Invalid email or password")

	ErrRefreshTokenInvalid = NewBaseError(KindAuthentication, http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID", "Refresh token is invalid or expired")

	ErrPasswordMismatch = NewBaseError(KindValidation, http.StatusBadRequest,
		"PASSWORD_MISMATCH", "Passwords do not match")

	ErrPasswordStrength = NewBaseError(KindValidation, http.StatusBadRequest,
		"PASSWORD_STRENGTH", "Password does not meet strength requirements")

	ErrCurrentPasswordInvalid = NewBaseError(KindAuthorization, http.StatusForbidden,
		"CURRENT_PASSWORD_INVALID", "Current password is incorrect")

	// OTP workflow errors
	ErrOTPNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"OTP_NOT_FOUND", "No pending verification request")

	ErrOTPMismatch = NewBaseError(KindConflict, http.StatusConflict,
		"OTP_MISMATCH", "Verification code is incorrect")

	ErrOTPExpired = NewBaseError(KindConflict, http.StatusConflict,
		"OTP_EXPIRED", "Verification code has expired, request a new one")

	ErrOTPResendTooSoon = NewBaseError(KindConflict, http.StatusTooManyRequests,
		"OTP_RESEND_TOO_SOON", "Please wait before requesting another code")

	// Catalog errors
	ErrProductNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"PRODUCT_NOT_FOUND", "Product not found")

	ErrCategoryNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"CATEGORY_NOT_FOUND", "Category not found")

	ErrSubCategoryNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"SUBCATEGORY_NOT_FOUND", "Sub-category not found")

	ErrCategoryInUse = NewBaseError(KindConflict, http.StatusConflict,
		"CATEGORY_IN_USE", "Category still has products or sub-categories")

	// Cart and checkout errors
	ErrCartNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"CART_NOT_FOUND", "Cart not found")

	ErrCartItemNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"CART_ITEM_NOT_FOUND", "Cart item not found")

	ErrCartEmpty = NewBaseError(KindValidation, http.StatusBadRequest,
		"CART_EMPTY", "Cart has no items")

	ErrInsufficientInventory = NewBaseError(KindConflict, http.StatusConflict,
		"INSUFFICIENT_INVENTORY", "Not enough stock for one or more products")

	ErrInvalidAddress = NewBaseError(KindValidation, http.StatusBadRequest,
		"INVALID_ADDRESS", "A delivery address is required")

	ErrInvalidCheckoutToken = NewBaseError(KindAuthorization, http.StatusForbidden,
		"INVALID_CHECKOUT_TOKEN", "Checkout token is invalid or expired")

	ErrPaymentFailed = NewBaseError(KindConflict, http.StatusPaymentRequired,
		"PAYMENT_FAILED", "Payment was not successful")

	ErrPaymentGateway = NewBaseError(KindExternal, http.StatusBadGateway,
		"PAYMENT_GATEWAY_ERROR", "Payment provider is unavailable, please try again")

	// Notification errors
	ErrMailDelivery = NewBaseError(KindExternal, http.StatusBadGateway,
		"MAIL_DELIVERY_FAILED", "Mail provider rejected or did not accept the message")

	ErrOrderNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"ORDER_NOT_FOUND", "Order not found")

	ErrOrderAlreadyPlaced = NewBaseError(KindConflict, http.StatusConflict,
		"ORDER_ALREADY_PLACED", "This payment has already been processed")

	// Validation-related errors
	ErrValidationFailed = NewBaseError(KindValidation, http.StatusBadRequest,
		"VALIDATION_FAILED", "Input validation failed")

	ErrInvalidQRCode = NewBaseError(KindValidation, http.StatusBadRequest,
		"INVALID_QR_CODE", "QR code payload is not recognised")

	// General errors
	ErrInternalError = NewBaseError(KindInternal, http.StatusInternalServerError,
		"INTERNAL_ERROR", "Internal server error")

	ErrForbidden = NewBaseError(KindAuthorization, http.StatusForbidden,
		"FORBIDDEN", "You do not have permission to access this resource")

	ErrNotFound = NewBaseError(KindNotFound, http.StatusNotFound,
		"NOT_FOUND", "Resource not found")

	ErrConflict = NewBaseError(KindConflict, http.StatusConflict,
		"CONFLICT", "Resource conflict")
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database operation failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
