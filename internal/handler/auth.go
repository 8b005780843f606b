package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub-api/internal/apperr"
	"github.com/taskhub/taskhub-api/internal/auth"
	"github.com/taskhub/taskhub-api/internal/model"
	"github.com/taskhub/taskhub-api/internal/repository"
)

// UserStore is the slice of the user repository the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, email, username, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ResetFlow is the password-reset workflow behind the forgot/verify/reset
// endpoints.
type ResetFlow interface {
	SendResetCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, code, email string) error
	ResetPassword(ctx context.Context, code, newPassword, confirmPassword, email string) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Users      UserStore
	Issuer     *auth.Issuer
	Reset      ResetFlow
	BcryptCost int
}

func NewAuthHandler(users UserStore, issuer *auth.Issuer, reset ResetFlow, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Issuer: issuer, Reset: reset, BcryptCost: bcryptCost}
}

// ----- DTOs -----

type signUpReq struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required"`
}
type signInReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}
type verifyResetCodeReq struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}
type resetPasswordReq struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword"`
	Email           string `json:"email" validate:"required,email"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignUp creates a user and returns a bearer token immediately.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Respond(c, err)
	}
	if reason := checkPasswordPolicy(req.Password); reason != "" {
		return apperr.Respond(c, apperr.New(apperr.KindValidation, reason))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Username, req.Password, h.BcryptCost)
	if err != nil {
		return apperr.Respond(c, mapUserErr(err))
	}
	token, err := h.Issuer.Issue(req.Email)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user":    userPart{ID: uid, Username: req.Username, Email: req.Email},
		"token":   token,
		"message": "User successfully registered",
		"status":  "success",
	})
}

// SignIn verifies credentials and returns a fresh bearer token. An unknown
// email answers 401; a wrong password answers 400 (bad credentials).
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Respond(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindUnauthorized, "Email not found", err))
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return apperr.Respond(c, apperr.New(apperr.KindValidation, "Invalid email or password"))
	}
	token, err := h.Issuer.Issue(u.Email)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":   token,
		"user":    userPart{ID: u.ID, Username: u.Username, Email: u.Email},
		"email":   u.Email,
		"message": "Login successful",
	})
}

// ForgotPassword triggers the reset-code flow. The response body never
// reveals whether the email is registered: unknown addresses get the same
// success-shaped answer, and only a genuine fault produces a 500.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Respond(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	exists, err := h.Users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return forgotPasswordFault(c)
	}
	if exists {
		if err := h.Reset.SendResetCode(ctx, req.Email); err != nil {
			return forgotPasswordFault(c)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "If your email is registered, a password reset code has been sent.",
		"success": true,
	})
}

func forgotPasswordFault(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"message": "An error occurred. Please try again later.",
		"success": false,
	})
}

// VerifyResetCode checks a (code, email) pair without consuming it:
// 200 when redeemable, 400 when unknown, 410 when expired.
func (h *AuthHandler) VerifyResetCode(c echo.Context) error {
	var req verifyResetCodeReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Respond(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reset.VerifyCode(ctx, req.Token, req.Email); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Code is valid", "valid": true})
}

// ResetPassword redeems a code and sets the new password. The policy is
// enforced here, before the workflow runs; token violations answer 400
// whether the code is unknown or expired.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Respond(c, err)
	}
	if reason := checkPasswordPolicy(req.NewPassword); reason != "" {
		return apperr.Respond(c, apperr.New(apperr.KindValidation, reason))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reset.ResetPassword(ctx, req.Token, req.NewPassword, req.ConfirmPassword, req.Email); err != nil {
		// This endpoint flattens expired codes to 400: the client already
		// verified the code, so any token failure here is a plain rejection.
		if kind := apperr.KindOf(err); kind == apperr.KindExpiredToken {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   kind.Code(),
				"message": "Token has expired",
			})
		}
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Your password has been reset successfully"})
}

// AuthRoot answers the bare auth probe.
func (h *AuthHandler) AuthRoot(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"message": "The endpoint you are trying to reach does not exist.",
	})
}

// mapUserErr converts repository failures to apperr kinds.
func mapUserErr(err error) error {
	if errors.Is(err, repository.ErrEmailExists) {
		return apperr.Wrap(apperr.KindConflict, "email already exists", err)
	}
	return err
}
