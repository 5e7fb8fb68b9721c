package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/accuaim/accuaim-server/internal/model"
)

// SessionRepo provides CRUD operations for practice sessions and
// their blocks. A session and its blocks are created together in
// one transaction; a session missing its blocks is never visible.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// BlockInput is one requested block at session creation time.
type BlockInput struct {
	TargetArea   string `json:"targetArea"`
	ShotsPlanned uint32 `json:"shotsPlanned"`
}

// Create inserts a practice session started now for the given user
// plus one block row per input, preserving caller order. It returns
// sql.ErrNoRows when the user does not exist and ErrInvalidBlock
// when the block list is empty or malformed.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, blocks []BlockInput) (*model.PracticeSession, []model.Block, error) {
	if len(blocks) == 0 {
		return nil, nil, ErrInvalidBlock
	}
	for _, b := range blocks {
		if b.ShotsPlanned == 0 || !model.ValidTargetArea(b.TargetArea) {
			return nil, nil, ErrInvalidBlock
		}
	}

	var exists uint64
	if err := r.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE id=? LIMIT 1", userID).Scan(&exists); err != nil {
		return nil, nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	started := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO practice_sessions (user_id, started_at) VALUES (?,?)", userID, started)
	if err != nil {
		return nil, nil, err
	}
	sid, err := res.LastInsertId()
	if err != nil {
		return nil, nil, err
	}
	session := &model.PracticeSession{ID: uint64(sid), UserID: userID, StartedAt: started}

	// Bulk insert the blocks in a single statement, position following
	// the order the caller supplied.
	query := "INSERT INTO blocks (session_id, target_area, shots_planned, position) VALUES "
	args := make([]any, 0, len(blocks)*4)
	placeholders := make([]string, 0, len(blocks))
	for i, b := range blocks {
		placeholders = append(placeholders, "(?,?,?,?)")
		args = append(args, session.ID, b.TargetArea, b.ShotsPlanned, i+1)
	}
	if _, err := tx.ExecContext(ctx, query+strings.Join(placeholders, ","), args...); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	created, err := r.BlocksBySession(ctx, session.ID)
	if err != nil {
		return nil, nil, err
	}
	return session, created, nil
}

// Finish sets the session's end timestamp to now. A second finish
// is ErrSessionFinished; an unknown session is sql.ErrNoRows.
func (r *SessionRepo) Finish(ctx context.Context, sessionID uint64) (*model.PracticeSession, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE practice_sessions SET ended_at=? WHERE id=? AND ended_at IS NULL",
		time.Now().UTC(), sessionID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		s, err := r.GetByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if s.Finished() {
			return nil, ErrSessionFinished
		}
		return nil, sql.ErrNoRows
	}
	return r.GetByID(ctx, sessionID)
}

// GetByID fetches a session by id.
func (r *SessionRepo) GetByID(ctx context.Context, sessionID uint64) (*model.PracticeSession, error) {
	var (
		s     model.PracticeSession
		ended sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, started_at, ended_at FROM practice_sessions WHERE id=? LIMIT 1",
		sessionID).Scan(&s.ID, &s.UserID, &s.StartedAt, &ended)
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		t := ended.Time
		s.EndedAt = &t
	}
	return &s, nil
}

// ListByUser returns the user's sessions newest first.
func (r *SessionRepo) ListByUser(ctx context.Context, userID uint64) ([]model.PracticeSession, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, started_at, ended_at FROM practice_sessions WHERE user_id=? ORDER BY started_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]model.PracticeSession, 0)
	for rows.Next() {
		var (
			s     model.PracticeSession
			ended sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.StartedAt, &ended); err != nil {
			return nil, err
		}
		if ended.Valid {
			t := ended.Time
			s.EndedAt = &t
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// BlocksBySession returns the session's blocks in display order.
func (r *SessionRepo) BlocksBySession(ctx context.Context, sessionID uint64) ([]model.Block, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, session_id, target_area, shots_planned, position FROM blocks WHERE session_id=? ORDER BY position",
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blocks := make([]model.Block, 0)
	for rows.Next() {
		var b model.Block
		if err := rows.Scan(&b.ID, &b.SessionID, &b.TargetArea, &b.ShotsPlanned, &b.Position); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}
