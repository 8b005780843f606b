package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub-api/internal/apperr"
	"github.com/taskhub/taskhub-api/internal/middleware"
	"github.com/taskhub/taskhub-api/internal/model"
)

// ProfileStore is the slice of the user repository the profile endpoints need.
type ProfileStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, userID uint64, username, avatarURL string) error
}

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	Users ProfileStore
}

func NewUserHandler(users ProfileStore) *UserHandler { return &UserHandler{Users: users} }

type updateProfileReq struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// Me returns the caller's identity as resolved by the request gate.
func (h *UserHandler) Me(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, user)
}

// UpdateMe rewrites the caller's mutable profile fields.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return apperr.Respond(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return apperr.Respond(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, user.ID, req.Username, req.AvatarURL); err != nil {
		return apperr.Respond(c, err)
	}
	updated, err := h.Users.GetByID(ctx, user.ID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// parseID converts a path parameter into a numeric id.
func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
