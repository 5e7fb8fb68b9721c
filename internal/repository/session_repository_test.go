package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSessionRepo(db)

	blocks := []BlockInput{
		{TargetArea: "Top Right", ShotsPlanned: 20},
		{TargetArea: "Five Hole", ShotsPlanned: 10},
	}

	mock.ExpectQuery("SELECT id FROM users WHERE id=").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO practice_sessions").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO blocks").
		WithArgs(uint64(3), "Top Right", uint32(20), 1, uint64(3), "Five Hole", uint32(10), 2).
		WillReturnResult(sqlmock.NewResult(7, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT id, session_id, target_area, shots_planned, position FROM blocks").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "target_area", "shots_planned", "position"}).
			AddRow(7, 3, "Top Right", 20, 1).
			AddRow(8, 3, "Five Hole", 10, 2))

	session, created, err := repo.Create(context.Background(), 9, blocks)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), session.ID)
	assert.Equal(t, uint64(9), session.UserID)
	assert.Nil(t, session.EndedAt)
	require.Len(t, created, 2)
	assert.Equal(t, "Top Right", created[0].TargetArea)
	assert.Equal(t, uint32(2), created[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCreateRejectsBadPlans(t *testing.T) {
	db, _ := newMock(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	_, _, err := repo.Create(ctx, 9, nil)
	assert.ErrorIs(t, err, ErrInvalidBlock)

	_, _, err = repo.Create(ctx, 9, []BlockInput{{TargetArea: "Top Right", ShotsPlanned: 0}})
	assert.ErrorIs(t, err, ErrInvalidBlock)

	_, _, err = repo.Create(ctx, 9, []BlockInput{{TargetArea: "Backboard", ShotsPlanned: 5}})
	assert.ErrorIs(t, err, ErrInvalidBlock)
}

func TestSessionCreateUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSessionRepo(db)

	mock.ExpectQuery("SELECT id FROM users WHERE id=").
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.Create(context.Background(), 404,
		[]BlockInput{{TargetArea: "Top Right", ShotsPlanned: 5}})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSessionFinish(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSessionRepo(db)

	started := time.Now().UTC().Add(-time.Hour)
	ended := time.Now().UTC()

	mock.ExpectExec("UPDATE practice_sessions SET ended_at=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, user_id, started_at, ended_at FROM practice_sessions").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "started_at", "ended_at"}).
			AddRow(3, 9, started, ended))

	s, err := repo.Finish(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, s.EndedAt)
	assert.True(t, s.Finished())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionFinishTwice(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSessionRepo(db)

	started := time.Now().UTC().Add(-time.Hour)
	ended := time.Now().UTC().Add(-time.Minute)

	// The guarded UPDATE touches nothing; the session turns out to
	// be already finished.
	mock.ExpectExec("UPDATE practice_sessions SET ended_at=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, user_id, started_at, ended_at FROM practice_sessions").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "started_at", "ended_at"}).
			AddRow(3, 9, started, ended))

	_, err := repo.Finish(context.Background(), 3)
	assert.ErrorIs(t, err, ErrSessionFinished)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionFinishUnknown(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSessionRepo(db)

	mock.ExpectExec("UPDATE practice_sessions SET ended_at=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, user_id, started_at, ended_at FROM practice_sessions").
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Finish(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGuardOwnership(t *testing.T) {
	db, mock := newMock(t)
	guard := NewGuard(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id FROM practice_sessions WHERE id=").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
	assert.NoError(t, guard.SessionOwnedBy(ctx, 3, 9))

	mock.ExpectQuery("SELECT user_id FROM practice_sessions WHERE id=").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(9))
	assert.ErrorIs(t, guard.SessionOwnedBy(ctx, 3, 77), ErrForbidden)

	mock.ExpectQuery("SELECT b.session_id, ps.user_id").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "user_id"}).AddRow(3, 9))
	sid, err := guard.BlockOwnedBy(ctx, 7, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sid)

	mock.ExpectQuery("SELECT s.session_id, ps.user_id").
		WithArgs(uint64(42)).
		WillReturnError(sql.ErrNoRows)
	_, err = guard.ShotOwnedBy(ctx, 42, 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
