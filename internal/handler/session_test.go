package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accuaim/accuaim-server/internal/repository"
	"github.com/accuaim/accuaim-server/internal/stats"
)

func newSessionHandler(t *testing.T) (*SessionHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewSessionHandler(
		repository.NewSessionRepo(db),
		repository.NewShotRepo(db),
		repository.NewGuard(db),
		stats.NewEngine(db),
	)
	return h, mock
}

func sessionCtx(method, target, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(9))
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func TestCreateSessionEmptyPlan(t *testing.T) {
	h, _ := newSessionHandler(t)

	c, rec := sessionCtx(http.MethodPost, "/v1/sessions", `{"blocks":[]}`, "")
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSessionUnknownArea(t *testing.T) {
	h, _ := newSessionHandler(t)

	c, rec := sessionCtx(http.MethodPost, "/v1/sessions",
		`{"blocks":[{"targetArea":"Backboard","shotsPlanned":10}]}`, "")
	require.NoError(t, h.CreateSession(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSessionForeignLooksMissing(t *testing.T) {
	h, mock := newSessionHandler(t)

	mock.ExpectQuery("SELECT user_id FROM practice_sessions WHERE id=").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(77))

	c, rec := sessionCtx(http.MethodGet, "/v1/sessions/3", "", "3")
	require.NoError(t, h.GetSession(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "session not found")
}

func TestFinishSessionTwiceConflicts(t *testing.T) {
	h, mock := newSessionHandler(t)

	started := time.Now().UTC().Add(-time.Hour)
	ended := time.Now().UTC().Add(-time.Minute)

	mock.ExpectQuery("SELECT user_id FROM practice_sessions WHERE id=").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
	mock.ExpectExec("UPDATE practice_sessions SET ended_at=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, user_id, started_at, ended_at FROM practice_sessions").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "started_at", "ended_at"}).
			AddRow(3, 9, started, ended))

	c, rec := sessionCtx(http.MethodPost, "/v1/sessions/3/finish", "", "3")
	require.NoError(t, h.FinishSession(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSessionShotsBadID(t *testing.T) {
	h, _ := newSessionHandler(t)

	c, rec := sessionCtx(http.MethodGet, "/v1/sessions/nope/shots", "", "nope")
	require.NoError(t, h.ListSessionShots(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
