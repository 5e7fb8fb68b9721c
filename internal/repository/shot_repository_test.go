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

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestShotRecord(t *testing.T) {
	db, mock := newMock(t)
	repo := NewShotRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT b.session_id, ps.ended_at").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "ended_at"}).AddRow(3, nil))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(shot_no\),0\)\+1 FROM shots`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(5))
	mock.ExpectExec("INSERT INTO shots").
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectCommit()

	shot, err := repo.Record(context.Background(), 7, 0.4, 0.6, "MADE")
	require.NoError(t, err)
	assert.Equal(t, uint64(101), shot.ID)
	assert.Equal(t, uint64(7), shot.BlockID)
	assert.Equal(t, uint64(3), shot.SessionID)
	assert.Equal(t, uint32(5), shot.ShotNo)
	assert.Equal(t, "MADE", shot.Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShotRecordFinishedSession(t *testing.T) {
	db, mock := newMock(t)
	repo := NewShotRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT b.session_id, ps.ended_at").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "ended_at"}).
			AddRow(3, time.Now().UTC()))
	mock.ExpectRollback()

	_, err := repo.Record(context.Background(), 7, 0.1, 0.1, "MISSED")
	assert.ErrorIs(t, err, ErrSessionFinished)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShotRecordRejectsBadResult(t *testing.T) {
	db, _ := newMock(t)
	repo := NewShotRepo(db)

	_, err := repo.Record(context.Background(), 7, 0, 0, "KINDA")
	assert.ErrorIs(t, err, ErrInvalidBlock)
}

func TestShotRemoveRenumbers(t *testing.T) {
	db, mock := newMock(t)
	repo := NewShotRepo(db)

	mock.ExpectBegin()
	// Ownership chain resolves to the calling user.
	mock.ExpectQuery("SELECT s.session_id, ps.user_id").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "user_id"}).AddRow(3, 9))
	mock.ExpectExec("DELETE FROM shots WHERE id=?").
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Renumber: shift past max, then reassign 1..N in order.
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(shot_no\),0\) FROM shots`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(4))
	mock.ExpectExec(`UPDATE shots SET shot_no = shot_no \+ \?`).
		WithArgs(uint32(4), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("SELECT id FROM shots WHERE session_id=\\? ORDER BY shot_no").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11).AddRow(13))
	mock.ExpectExec("UPDATE shots SET shot_no=\\? WHERE id=\\?").
		WithArgs(1, uint64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE shots SET shot_no=\\? WHERE id=\\?").
		WithArgs(2, uint64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE shots SET shot_no=\\? WHERE id=\\?").
		WithArgs(3, uint64(13)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Remove(context.Background(), 9, 42)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShotRemoveForbidden(t *testing.T) {
	db, mock := newMock(t)
	repo := NewShotRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.session_id, ps.user_id").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "user_id"}).AddRow(3, 77))
	mock.ExpectRollback()

	// Owned by user 77, requested by user 9: nothing is deleted.
	err := repo.Remove(context.Background(), 9, 42)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShotRemoveMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewShotRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.session_id, ps.user_id").
		WithArgs(uint64(999)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Remove(context.Background(), 9, 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenumberEmptySession(t *testing.T) {
	db, mock := newMock(t)
	repo := NewShotRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(shot_no\),0\) FROM shots`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
	mock.ExpectCommit()

	require.NoError(t, repo.Renumber(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
