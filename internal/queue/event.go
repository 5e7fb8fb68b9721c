// Package queue defines message payloads exchanged over the message broker.
package queue

// SessionFinishedEvent is published when a practice session is
// finished. It carries enough for downstream consumers to log or
// feed analytics without querying the primary database.
type SessionFinishedEvent struct {
	SessionID    uint64 `json:"session_id"`
	UserID       uint64 `json:"user_id"`
	StartedAt    string `json:"started_at"`
	EndedAt      string `json:"ended_at"`
	PlannedShots int64  `json:"planned_shots"`
	MadeShots    int64  `json:"made_shots"`
	Accuracy     string `json:"accuracy"`
}
