package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accuaim/accuaim-server/internal/config"
	"github.com/accuaim/accuaim-server/internal/repository"
)

// AccountHandler covers profile updates, password changes and
// account deletion for the authenticated user.
type AccountHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAccountHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Users: u, Tokens: t}
}

type updateProfileReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
type deleteAccountReq struct {
	Password string `json:"password"`
}

// UpdateProfile replaces the user's name and email.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, req.Name, req.Email); err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case repository.ErrInvalidEmail:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
		case repository.ErrNameRequired:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Name: u.FullName, Email: u.Email})
}

// ChangePassword verifies the current password before setting a new
// one, then revokes every refresh token the user holds.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.ChangePassword(ctx, uid, req.CurrentPassword, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		switch err {
		case repository.ErrBadCredentials:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "change password failed"})
	}

	// Any session established with the old password is out.
	_ = h.Tokens.RevokeAllForUser(ctx, uid)
	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount removes the user and everything they own after a
// password confirmation.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req deleteAccountReq
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, uid, req.Password); err != nil {
		switch err {
		case repository.ErrBadCredentials:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
