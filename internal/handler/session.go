package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accuaim/accuaim-server/internal/model"
	"github.com/accuaim/accuaim-server/internal/queue"
	"github.com/accuaim/accuaim-server/internal/repository"
	queuepublisher "github.com/accuaim/accuaim-server/internal/service"
	"github.com/accuaim/accuaim-server/internal/stats"
)

// SessionHandler covers creating, listing, reading and finishing
// practice sessions.
type SessionHandler struct {
	Sessions *repository.SessionRepo
	Shots    *repository.ShotRepo
	Guard    *repository.Guard
	Engine   *stats.Engine
}

func NewSessionHandler(s *repository.SessionRepo, sh *repository.ShotRepo, g *repository.Guard, e *stats.Engine) *SessionHandler {
	return &SessionHandler{Sessions: s, Shots: sh, Guard: g, Engine: e}
}

type createSessionReq struct {
	Blocks []repository.BlockInput `json:"blocks"`
}

type sessionResp struct {
	ID        uint64        `json:"id"`
	UserID    uint64        `json:"user_id"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at"`
	Blocks    []model.Block `json:"blocks,omitempty"`
}

func toSessionResp(s *model.PracticeSession, blocks []model.Block) sessionResp {
	return sessionResp{
		ID:        s.ID,
		UserID:    s.UserID,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Blocks:    blocks,
	}
}

// CreateSession opens a new session with its plan of blocks.
func (h *SessionHandler) CreateSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	session, blocks, err := h.Sessions.Create(ctx, uid, req.Blocks)
	if err != nil {
		switch err {
		case repository.ErrInvalidBlock:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid block plan"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	return c.JSON(http.StatusCreated, toSessionResp(session, blocks))
}

// ListSessions returns the caller's sessions, most recent first.
func (h *SessionHandler) ListSessions(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]sessionResp, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResp(&sessions[i], nil))
	}
	return c.JSON(http.StatusOK, out)
}

// GetSession returns the aggregated stats view of one session. A
// session owned by someone else answers the same 404 as a missing
// one.
func (h *SessionHandler) GetSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Engine.SessionStats(ctx, uid, sessionID)
	if err != nil {
		if err == sql.ErrNoRows || err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, st)
}

// FinishSession closes the session and publishes a summary event.
// Publishing is best effort; a broker outage never fails the
// request.
func (h *SessionHandler) FinishSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Guard.SessionOwnedBy(ctx, sessionID, uid); err != nil {
		if err == sql.ErrNoRows || err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	session, err := h.Sessions.Finish(ctx, sessionID)
	if err != nil {
		switch err {
		case repository.ErrSessionFinished:
			return c.JSON(http.StatusConflict, echo.Map{"error": "session already finished"})
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "finish session failed"})
	}

	go h.publishFinished(uid, session)

	return c.JSON(http.StatusOK, toSessionResp(session, nil))
}

// ListSessionShots returns every shot of a session in display
// order.
func (h *SessionHandler) ListSessionShots(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Guard.SessionOwnedBy(ctx, sessionID, uid); err != nil {
		if err == sql.ErrNoRows || err == repository.ErrForbidden {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	shots, err := h.Shots.ListBySession(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, shots)
}

// publishFinished builds the summary event from fresh stats and
// hands it to the broker. Runs detached from the request.
func (h *SessionHandler) publishFinished(uid uint64, session *model.PracticeSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := h.Engine.SessionStats(ctx, uid, session.ID)
	if err != nil {
		log.Printf("[QUEUE] skipping session.finished for %d: %v", session.ID, err)
		return
	}
	ended := ""
	if session.EndedAt != nil {
		ended = session.EndedAt.UTC().Format(time.RFC3339)
	}
	ev := queue.SessionFinishedEvent{
		SessionID:    session.ID,
		UserID:       uid,
		StartedAt:    session.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:      ended,
		PlannedShots: st.PlannedShots,
		MadeShots:    st.MadeShots,
		Accuracy:     st.ShootingPercentage,
	}
	if err := queuepublisher.PublishSessionFinished(ctx, ev); err != nil {
		log.Printf("[QUEUE] publish session.finished for %d failed: %v", session.ID, err)
	}
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
