package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// AccountHandler serves the profile and the code-confirmed account changes.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

type PasswordResetRequest struct {
	Email          string `json:"email" validate:"required,email"`
	NewPassword    string `json:"new_password" validate:"required"`
	VerifyPassword string `json:"verify_password" validate:"required"`
}

type PasswordChangeRequest struct {
	NewPassword    string `json:"new_password" validate:"required"`
	VerifyPassword string `json:"verify_password" validate:"required"`
}

type EmailChangeRequest struct {
	NewEmail string `json:"new_email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

type NameChangeRequest struct {
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

type OTPRequest struct {
	OTP string `json:"otp" validate:"required,numeric"`
}

type ResendOTPRequest struct {
	Purpose string `json:"purpose" validate:"required,oneof=password_change email_change name_change"`
}

func (h *AccountHandler) GetProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	user, err := h.accountUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user))
}

// RequestPasswordReset is unauthenticated; the code goes to the account's email.
func (h *AccountHandler) RequestPasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.RequestPasswordReset(c.Request().Context(), &usecase.PasswordResetInput{
		Email:          req.Email,
		NewPassword:    req.NewPassword,
		VerifyPassword: req.VerifyPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "A verification code has been sent to your email")
}

func (h *AccountHandler) ResendPasswordResetOTP(c echo.Context) error {
	var req EmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.ResendPasswordResetOTP(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "A new verification code has been sent")
}

func (h *AccountHandler) ConfirmPasswordReset(c echo.Context) error {
	var req EmailOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.accountUC.ConfirmPasswordReset(c.Request().Context(), &usecase.ConfirmPasswordResetInput{
		Email: req.Email,
		Code:  req.OTP,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokenView(output))
}

func (h *AccountHandler) RequestPasswordChange(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req PasswordChangeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.RequestPasswordChange(c.Request().Context(), userID, &usecase.PasswordChangeInput{
		NewPassword:    req.NewPassword,
		VerifyPassword: req.VerifyPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "A verification code has been sent to your email")
}

func (h *AccountHandler) ConfirmPasswordChange(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req OTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.ConfirmPasswordChange(c.Request().Context(), userID, req.OTP); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Password changed, please log in again")
}

func (h *AccountHandler) RequestEmailChange(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req EmailChangeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.RequestEmailChange(c.Request().Context(), userID, &usecase.EmailChangeInput{
		NewEmail: req.NewEmail,
		Password: req.Password,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "A verification code has been sent to "+req.NewEmail)
}

func (h *AccountHandler) ConfirmEmailChange(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req OTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accountUC.ConfirmEmailChange(c.Request().Context(), userID, req.OTP)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user))
}

func (h *AccountHandler) RequestNameChange(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req NameChangeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.RequestNameChange(c.Request().Context(), userID, &usecase.NameChangeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "A verification code has been sent to your email")
}

func (h *AccountHandler) ConfirmNameChange(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req OTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accountUC.ConfirmNameChange(c.Request().Context(), userID, req.OTP)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user))
}

func (h *AccountHandler) ResendOTP(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req ResendOTPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.ResendOTP(c.Request().Context(), userID, entity.OTPPurpose(req.Purpose)); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "A new verification code has been sent")
}
