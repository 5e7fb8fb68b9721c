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

func newShotHandler(t *testing.T) (*ShotHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewShotHandler(repository.NewShotRepo(db), repository.NewGuard(db), stats.NewEngine(db)), mock
}

func shotCtx(method, target, body, blockID string) (echo.Context, *httptest.ResponseRecorder) {
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
	c.SetParamNames("id")
	c.SetParamValues(blockID)
	return c, rec
}

func TestRecordShotRejectsBadResult(t *testing.T) {
	h, _ := newShotHandler(t)

	c, rec := shotCtx(http.MethodPost, "/v1/blocks/7/shots", `{"pos_x":0.5,"pos_y":0.5,"result":"KINDA"}`, "7")
	require.NoError(t, h.RecordShot(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordShotForeignBlockIs404(t *testing.T) {
	h, mock := newShotHandler(t)

	// The chain resolves to a different owner; the response must not
	// reveal that the block exists.
	mock.ExpectQuery("SELECT b.session_id, ps.user_id").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "user_id"}).AddRow(3, 77))

	c, rec := shotCtx(http.MethodPost, "/v1/blocks/7/shots", `{"pos_x":0.5,"pos_y":0.5,"result":"MADE"}`, "7")
	require.NoError(t, h.RecordShot(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordShotFinishedSessionConflict(t *testing.T) {
	h, mock := newShotHandler(t)

	mock.ExpectQuery("SELECT b.session_id, ps.user_id").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "user_id"}).AddRow(3, 9))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT b.session_id, ps.ended_at").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "ended_at"}).
			AddRow(3, time.Now().UTC()))
	mock.ExpectRollback()

	c, rec := shotCtx(http.MethodPost, "/v1/blocks/7/shots", `{"pos_x":0.5,"pos_y":0.5,"result":"MADE"}`, "7")
	require.NoError(t, h.RecordShot(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveShotForbidden(t *testing.T) {
	h, mock := newShotHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.session_id, ps.user_id").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "user_id"}).AddRow(3, 77))
	mock.ExpectRollback()

	c, rec := shotCtx(http.MethodDelete, "/v1/shots/42", "", "42")
	require.NoError(t, h.RemoveShot(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveShotBadID(t *testing.T) {
	h, _ := newShotHandler(t)

	c, rec := shotCtx(http.MethodDelete, "/v1/shots/abc", "", "abc")
	require.NoError(t, h.RemoveShot(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
