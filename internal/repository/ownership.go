package repository

import (
	"context"
	"database/sql"
)

// rowQuerier is satisfied by both *sql.DB and *sql.Tx so the chain
// lookups below can run standalone or inside a transaction.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Guard answers the single authorization question the whole API
// keeps asking: does this session/block/shot belong to the calling
// user? Every disclosure or mutation of practice data goes through
// one of these checks instead of re-deriving the join at each call
// site. A failed check is ErrForbidden; a missing row is
// sql.ErrNoRows.
type Guard struct{ DB *sql.DB }

func NewGuard(db *sql.DB) *Guard { return &Guard{DB: db} }

// SessionOwnedBy verifies that the session exists and belongs to userID.
func (g *Guard) SessionOwnedBy(ctx context.Context, sessionID, userID uint64) error {
	owner, err := sessionOwner(ctx, g.DB, sessionID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}

// BlockOwnedBy verifies the block's chain block -> session -> user
// and returns the owning session ID on success.
func (g *Guard) BlockOwnedBy(ctx context.Context, blockID, userID uint64) (uint64, error) {
	sessionID, owner, err := blockOwner(ctx, g.DB, blockID)
	if err != nil {
		return 0, err
	}
	if owner != userID {
		return 0, ErrForbidden
	}
	return sessionID, nil
}

// ShotOwnedBy verifies the shot's chain shot -> block -> session ->
// user and returns the owning session ID on success.
func (g *Guard) ShotOwnedBy(ctx context.Context, shotID, userID uint64) (uint64, error) {
	sessionID, owner, err := shotOwner(ctx, g.DB, shotID)
	if err != nil {
		return 0, err
	}
	if owner != userID {
		return 0, ErrForbidden
	}
	return sessionID, nil
}

func sessionOwner(ctx context.Context, q rowQuerier, sessionID uint64) (uint64, error) {
	var owner uint64
	err := q.QueryRowContext(ctx,
		"SELECT user_id FROM practice_sessions WHERE id=?", sessionID).Scan(&owner)
	return owner, err
}

func blockOwner(ctx context.Context, q rowQuerier, blockID uint64) (sessionID, owner uint64, err error) {
	err = q.QueryRowContext(ctx,
		`SELECT b.session_id, ps.user_id
		 FROM blocks b
		 JOIN practice_sessions ps ON ps.id = b.session_id
		 WHERE b.id = ?`, blockID).Scan(&sessionID, &owner)
	return sessionID, owner, err
}

func shotOwner(ctx context.Context, q rowQuerier, shotID uint64) (sessionID, owner uint64, err error) {
	err = q.QueryRowContext(ctx,
		`SELECT s.session_id, ps.user_id
		 FROM shots s
		 JOIN practice_sessions ps ON ps.id = s.session_id
		 WHERE s.id = ?`, shotID).Scan(&sessionID, &owner)
	return sessionID, owner, err
}
