package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/accuaim/accuaim-server/internal/middleware"
)

// getUserID returns the authenticated user's ID placed in the
// context by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok || uid == 0 {
		return 0, echo.ErrUnauthorized
	}
	return uid, nil
}
