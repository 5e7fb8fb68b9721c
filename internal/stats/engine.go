package stats

import (
	"context"
	"database/sql"
	"time"

	"github.com/accuaim/accuaim-server/internal/repository"
)

// Engine computes derived statistics over the practice store. It
// depends on the ownership Guard for session disclosure checks but
// issues its own aggregate queries; no method here writes.
type Engine struct {
	DB    *sql.DB
	Guard *repository.Guard
}

// NewEngine returns an Engine bound to the given database.
func NewEngine(db *sql.DB) *Engine {
	return &Engine{DB: db, Guard: repository.NewGuard(db)}
}

// BlockAccuracy returns the block's made/total percentage with two
// decimals, "0.00%" when the block has no recorded shots.
func (e *Engine) BlockAccuracy(ctx context.Context, blockID uint64) (string, error) {
	var made, total int64
	err := e.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(result='MADE'),0), COUNT(*) FROM shots WHERE block_id=?",
		blockID).Scan(&made, &total)
	if err != nil {
		return "", err
	}
	return Percent2(made, total), nil
}

// BlockLine is the per-block breakdown inside SessionStats.
type BlockLine struct {
	BlockID      uint64 `json:"block_id"`
	TargetArea   string `json:"target_area"`
	ShotsPlanned int64  `json:"shots_planned"`
	MadeShots    int64  `json:"made_shots"`
	MissedShots  int64  `json:"missed_shots"`
}

// SessionStats aggregates one session for its owner. The field
// names mirror the session details screen of the client.
type SessionStats struct {
	UserID             uint64      `json:"user_id"`
	SessionID          uint64      `json:"session_id"`
	PlannedShots       int64       `json:"planned_shots"`
	MadeShots          int64       `json:"made_shots"`
	MissedShots        int64       `json:"missed_shots"`
	TotalShots         int64       `json:"total_shots"`
	ShootingPercentage string      `json:"shooting_percentage"`
	Blocks             []BlockLine `json:"blocks"`
}

// SessionStats returns the session's totals and a per-block
// breakdown. The ownership check runs first: a session that does
// not exist and a session owned by someone else fail the same way,
// so the response never reveals whether the ID is real.
func (e *Engine) SessionStats(ctx context.Context, userID, sessionID uint64) (*SessionStats, error) {
	if err := e.Guard.SessionOwnedBy(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	const q = `SELECT b.id, b.target_area, b.shots_planned,
	                  COALESCE(SUM(s.result='MADE'),0),
	                  COALESCE(SUM(s.result='MISSED'),0)
	           FROM blocks b
	           LEFT JOIN shots s ON s.block_id = b.id
	           WHERE b.session_id = ?
	           GROUP BY b.id, b.target_area, b.shots_planned, b.position
	           ORDER BY b.position`
	rows, err := e.DB.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	st := &SessionStats{UserID: userID, SessionID: sessionID, Blocks: make([]BlockLine, 0)}
	for rows.Next() {
		var line BlockLine
		if err := rows.Scan(&line.BlockID, &line.TargetArea, &line.ShotsPlanned, &line.MadeShots, &line.MissedShots); err != nil {
			return nil, err
		}
		st.PlannedShots += line.ShotsPlanned
		st.MadeShots += line.MadeShots
		st.MissedShots += line.MissedShots
		st.Blocks = append(st.Blocks, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	st.TotalShots = st.MadeShots + st.MissedShots
	st.ShootingPercentage = Percent2(st.MadeShots, st.TotalShots)
	return st, nil
}

// Dashboard is the home-screen summary for one user. The field
// names match what the client's state expects.
type Dashboard struct {
	Streak              int    `json:"streak"`
	TotalMade           int64  `json:"totalMade"`
	TotalPlanned        int64  `json:"totalPlanned"`
	AllTimeAccuracy     string `json:"allTimeAccuracy"`
	LastSessionAccuracy string `json:"lastSessionAccuracy"`
}

// Dashboard computes the user's lifetime totals, the all-time and
// last-session accuracy and the current practice-day streak.
func (e *Engine) Dashboard(ctx context.Context, userID uint64) (*Dashboard, error) {
	d := &Dashboard{}

	err := e.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(b.shots_planned),0)
		 FROM practice_sessions ps
		 JOIN blocks b ON b.session_id = ps.id
		 WHERE ps.user_id = ?`, userID).Scan(&d.TotalPlanned)
	if err != nil {
		return nil, err
	}
	err = e.DB.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM shots s
		 JOIN practice_sessions ps ON ps.id = s.session_id
		 WHERE ps.user_id = ? AND s.result = 'MADE'`, userID).Scan(&d.TotalMade)
	if err != nil {
		return nil, err
	}
	d.AllTimeAccuracy = Accuracy1(d.TotalMade, d.TotalPlanned)

	last, err := e.lastSessionAccuracy(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.LastSessionAccuracy = last

	days, err := e.practiceDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.Streak = Streak(days, time.Now().UTC())
	return d, nil
}

func (e *Engine) lastSessionAccuracy(ctx context.Context, userID uint64) (string, error) {
	var sessionID uint64
	err := e.DB.QueryRowContext(ctx,
		"SELECT id FROM practice_sessions WHERE user_id=? ORDER BY started_at DESC, id DESC LIMIT 1",
		userID).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return "N/A", nil
	}
	if err != nil {
		return "", err
	}

	var planned, made int64
	if err := e.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(shots_planned),0) FROM blocks WHERE session_id=?",
		sessionID).Scan(&planned); err != nil {
		return "", err
	}
	if err := e.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shots WHERE session_id=? AND result='MADE'",
		sessionID).Scan(&made); err != nil {
		return "", err
	}
	return Accuracy1(made, planned), nil
}

// practiceDays returns the distinct calendar dates on which the
// user started a session.
func (e *Engine) practiceDays(ctx context.Context, userID uint64) ([]time.Time, error) {
	rows, err := e.DB.QueryContext(ctx,
		"SELECT DISTINCT DATE(started_at) FROM practice_sessions WHERE user_id=? ORDER BY 1 DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]time.Time, 0)
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// Leaderboard ranks every user who has planned at least one shot.
// Aggregation happens in SQL; ordering and truncation happen in
// Rank so the tie-break rules live in one place.
func (e *Engine) Leaderboard(ctx context.Context, sortKey string, limit int) ([]LeaderboardRow, error) {
	const q = `SELECT u.id, u.full_name, COALESCE(m.made,0), p.planned
	           FROM users u
	           JOIN (SELECT ps.user_id, SUM(b.shots_planned) AS planned
	                 FROM practice_sessions ps
	                 JOIN blocks b ON b.session_id = ps.id
	                 GROUP BY ps.user_id) p ON p.user_id = u.id
	           LEFT JOIN (SELECT ps.user_id, COUNT(*) AS made
	                      FROM practice_sessions ps
	                      JOIN shots s ON s.session_id = ps.id AND s.result = 'MADE'
	                      GROUP BY ps.user_id) m ON m.user_id = u.id
	           WHERE p.planned > 0`
	rows, err := e.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make([]LeaderboardRow, 0)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.UserID, &r.FullName, &r.TotalMade, &r.TotalPlanned); err != nil {
			return nil, err
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return Rank(all, sortKey, limit), nil
}
