package model

import "time"

// Shot result values as stored in the shots.result enum column.
const (
	ShotMade   = "MADE"
	ShotMissed = "MISSED"
)

// Shot is one recorded attempt within a block. Every shot carries
// an explicit result; made and missed counts are both summed from
// rows rather than derived from the block's plan, so a block may
// hold more or fewer shots than were planned.
//
// SessionID is denormalized onto the row (the block already links
// to the session) so that the per-session display number can be
// kept unique and renumbered without joining through blocks.
//
// Fields:
//  ID        – primary key identifier.
//  BlockID   – owning block.
//  SessionID – session the block belongs to.
//  ShotNo    – per-session display number; contiguous 1..N.
//  PosX/PosY – where on the target the shot landed.
//  Result    – ShotMade or ShotMissed.
//  TakenAt   – when the shot was recorded.
type Shot struct {
	ID        uint64    // shots.id
	BlockID   uint64    // shots.block_id
	SessionID uint64    // shots.session_id
	ShotNo    uint32    // shots.shot_no
	PosX      float64   // shots.pos_x
	PosY      float64   // shots.pos_y
	Result    string    // shots.result
	TakenAt   time.Time // shots.taken_at
}

// ValidShotResult reports whether r is one of the enum values.
func ValidShotResult(r string) bool { return r == ShotMade || r == ShotMissed }
