package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accuaim/accuaim-server/internal/stats"
)

// StatsHandler serves the dashboard and the global leaderboard.
type StatsHandler struct {
	Engine *stats.Engine
}

func NewStatsHandler(e *stats.Engine) *StatsHandler {
	return &StatsHandler{Engine: e}
}

// Dashboard returns the caller's all-time summary.
func (h *StatsHandler) Dashboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Engine.Dashboard(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Leaderboard ranks every user with at least one planned shot.
// sort_by selects the ranking key, limit caps the rows returned.
func (h *StatsHandler) Leaderboard(c echo.Context) error {
	sortKey := c.QueryParam("sort_by")
	if sortKey == "" {
		sortKey = stats.SortByAccuracy
	}
	if !stats.ValidSortKey(sortKey) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sort_by must be accuracy, made or planned"})
	}
	limit := stats.DefaultLeaderboardLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Engine.Leaderboard(ctx, sortKey, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rows)
}
