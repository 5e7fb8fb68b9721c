package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/accuaim/accuaim-server/internal/model"
)

// ShotRepo records and removes individual shots. Per-session shot
// numbers (shots.shot_no) are a display concern: after any deletion
// they are renumbered back to a contiguous 1..N, inside the same
// transaction as the delete, so clients never observe a gap.
type ShotRepo struct {
	db *sql.DB
}

// NewShotRepo returns a new ShotRepo bound to the given database.
func NewShotRepo(db *sql.DB) *ShotRepo { return &ShotRepo{db: db} }

// Record appends a shot to the block with taken_at = now and the
// next shot number in the owning session. The block's remaining
// planned capacity is deliberately not checked; shooting past the
// plan is allowed. Recording into a finished session returns
// ErrSessionFinished.
func (r *ShotRepo) Record(ctx context.Context, blockID uint64, posX, posY float64, result string) (*model.Shot, error) {
	if !model.ValidShotResult(result) {
		return nil, ErrInvalidBlock
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Resolve the block's session and lock it so two concurrent
	// recordings cannot claim the same shot number.
	var (
		sessionID uint64
		ended     sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		`SELECT b.session_id, ps.ended_at
		 FROM blocks b
		 JOIN practice_sessions ps ON ps.id = b.session_id
		 WHERE b.id = ? FOR UPDATE`, blockID).Scan(&sessionID, &ended)
	if err != nil {
		return nil, err
	}
	if ended.Valid {
		return nil, ErrSessionFinished
	}

	var next uint32
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(shot_no),0)+1 FROM shots WHERE session_id=?", sessionID).Scan(&next); err != nil {
		return nil, err
	}

	taken := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO shots (block_id, session_id, shot_no, pos_x, pos_y, result, taken_at) VALUES (?,?,?,?,?,?,?)",
		blockID, sessionID, next, posX, posY, result, taken)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Shot{
		ID:        uint64(id),
		BlockID:   blockID,
		SessionID: sessionID,
		ShotNo:    next,
		PosX:      posX,
		PosY:      posY,
		Result:    result,
		TakenAt:   taken,
	}, nil
}

// ListBySession returns every shot in the session, ordered by block
// then shot number for a stable display order.
func (r *ShotRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Shot, error) {
	return r.list(ctx,
		"SELECT id, block_id, session_id, shot_no, pos_x, pos_y, result, taken_at FROM shots WHERE session_id=? ORDER BY block_id, shot_no",
		sessionID)
}

// ListByBlock returns the block's shots in recording order.
func (r *ShotRepo) ListByBlock(ctx context.Context, blockID uint64) ([]model.Shot, error) {
	return r.list(ctx,
		"SELECT id, block_id, session_id, shot_no, pos_x, pos_y, result, taken_at FROM shots WHERE block_id=? ORDER BY shot_no",
		blockID)
}

func (r *ShotRepo) list(ctx context.Context, query string, arg any) ([]model.Shot, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shots := make([]model.Shot, 0)
	for rows.Next() {
		var s model.Shot
		if err := rows.Scan(&s.ID, &s.BlockID, &s.SessionID, &s.ShotNo, &s.PosX, &s.PosY, &s.Result, &s.TakenAt); err != nil {
			return nil, err
		}
		shots = append(shots, s)
	}
	return shots, rows.Err()
}

// Remove deletes a shot after verifying the ownership chain
// shot -> session -> user, then renumbers the session's remaining
// shots, all in one transaction. A chain mismatch is ErrForbidden
// and leaves the store untouched.
func (r *ShotRepo) Remove(ctx context.Context, userID, shotID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	sessionID, owner, err := shotOwner(ctx, tx, shotID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM shots WHERE id=?", shotID); err != nil {
		return err
	}
	if err := renumberTx(ctx, tx, sessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// Renumber reassigns the session's shot numbers to 1..N in their
// current order, as a single transaction.
func (r *ShotRepo) Renumber(ctx context.Context, sessionID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := renumberTx(ctx, tx, sessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// renumberTx rewrites shot_no to a contiguous 1..N, ascending in the
// existing shot_no order. shot_no is unique per session, so the
// numbers are first shifted past the current maximum; every target
// value in the second pass is then below every intermediate value
// and no assignment can collide, whatever order the rows are
// visited in. The naive approach of updating straight to 1..N can
// hit the unique index mid-sequence.
func renumberTx(ctx context.Context, tx *sql.Tx, sessionID uint64) error {
	var maxNo uint32
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(shot_no),0) FROM shots WHERE session_id=?", sessionID).Scan(&maxNo); err != nil {
		return err
	}
	if maxNo == 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE shots SET shot_no = shot_no + ? WHERE session_id=?", maxNo, sessionID); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM shots WHERE session_id=? ORDER BY shot_no", sessionID)
	if err != nil {
		return err
	}
	ids := make([]uint64, 0, maxNo)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE shots SET shot_no=? WHERE id=?", i+1, id); err != nil {
			return err
		}
	}
	return nil
}
