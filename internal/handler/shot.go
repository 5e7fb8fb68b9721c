package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accuaim/accuaim-server/internal/model"
	"github.com/accuaim/accuaim-server/internal/repository"
	"github.com/accuaim/accuaim-server/internal/stats"
)

// ShotHandler records and removes individual shots and serves the
// per-block views.
type ShotHandler struct {
	Shots  *repository.ShotRepo
	Guard  *repository.Guard
	Engine *stats.Engine
}

func NewShotHandler(s *repository.ShotRepo, g *repository.Guard, e *stats.Engine) *ShotHandler {
	return &ShotHandler{Shots: s, Guard: g, Engine: e}
}

type recordShotReq struct {
	PosX   float64 `json:"pos_x"`
	PosY   float64 `json:"pos_y"`
	Result string  `json:"result"`
}

// RecordShot appends a shot to a block of a session the caller
// owns. Recording into a finished session is a conflict.
func (h *ShotHandler) RecordShot(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blockID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid block id"})
	}
	var req recordShotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidShotResult(req.Result) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "result must be MADE or MISSED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Guard.BlockOwnedBy(ctx, blockID, uid); err != nil {
		if err == sql.ErrNoRows || err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	shot, err := h.Shots.Record(ctx, blockID, req.PosX, req.PosY, req.Result)
	if err != nil {
		switch err {
		case repository.ErrSessionFinished:
			return c.JSON(http.StatusConflict, echo.Map{"error": "session already finished"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record shot failed"})
	}
	return c.JSON(http.StatusCreated, shot)
}

// ListBlockShots returns the shots of one block in order.
func (h *ShotHandler) ListBlockShots(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blockID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid block id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Guard.BlockOwnedBy(ctx, blockID, uid); err != nil {
		if err == sql.ErrNoRows || err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	shots, err := h.Shots.ListByBlock(ctx, blockID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, shots)
}

// BlockAccuracy returns the made/taken percentage of one block.
func (h *ShotHandler) BlockAccuracy(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blockID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid block id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Guard.BlockOwnedBy(ctx, blockID, uid); err != nil {
		if err == sql.ErrNoRows || err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	acc, err := h.Engine.BlockAccuracy(ctx, blockID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"block_id": blockID, "accuracy": acc})
}

// RemoveShot deletes a shot and renumbers the rest of its session.
// Ownership failures are a 403 here, unlike the read paths: the
// delete is the one mutation addressed by shot ID directly.
func (h *ShotHandler) RemoveShot(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	shotID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shot id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Shots.Remove(ctx, uid, shotID); err != nil {
		switch err {
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your shot"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
