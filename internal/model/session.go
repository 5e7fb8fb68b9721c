package model

import "time"

// PracticeSession groups the blocks a user shoots in one visit to
// the gym. The owning user never changes after creation; the only
// field that is mutated later is EndedAt, set exactly once when the
// session is finished.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user; immutable.
//  StartedAt – when the session was created.
//  EndedAt   – when the session was finished (null while active).
type PracticeSession struct {
	ID        uint64     // practice_sessions.id
	UserID    uint64     // practice_sessions.user_id
	StartedAt time.Time  // practice_sessions.started_at
	EndedAt   *time.Time // practice_sessions.ended_at (nullable)
}

// Finished reports whether the session has been closed out.
func (s *PracticeSession) Finished() bool { return s.EndedAt != nil }

// Block is one planned drill inside a session: a target area plus
// the number of shots the user intends to take at it. Blocks are
// created in a batch with their session and are immutable; the plan
// is not decremented as shots are recorded.
//
// Fields:
//  ID           – primary key identifier.
//  SessionID    – owning practice session.
//  TargetArea   – one of the TargetAreas labels.
//  ShotsPlanned – positive planned shot count, fixed at creation.
//  Position     – caller-supplied order within the session.
type Block struct {
	ID           uint64 // blocks.id
	SessionID    uint64 // blocks.session_id
	TargetArea   string // blocks.target_area
	ShotsPlanned uint32 // blocks.shots_planned
	Position     uint32 // blocks.position
}

// TargetAreas is the fixed set of labels a block may target. The
// order here is the order the client picker shows them in.
var TargetAreas = []string{
	"Top Right",
	"Top Left",
	"Bottom Right",
	"Bottom Left",
	"Top Shelf",
	"Right Pipe",
	"Left Pipe",
	"Five Hole",
}

// ValidTargetArea reports whether area is one of the known labels.
func ValidTargetArea(area string) bool {
	for _, a := range TargetAreas {
		if a == area {
			return true
		}
	}
	return false
}
