package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidTargetArea(t *testing.T) {
	for _, a := range TargetAreas {
		assert.True(t, ValidTargetArea(a), a)
	}
	assert.False(t, ValidTargetArea(""))
	assert.False(t, ValidTargetArea("Backboard"))
	assert.False(t, ValidTargetArea("top right")) // labels are case-sensitive
}

func TestValidShotResult(t *testing.T) {
	assert.True(t, ValidShotResult(ShotMade))
	assert.True(t, ValidShotResult(ShotMissed))
	assert.False(t, ValidShotResult("made"))
	assert.False(t, ValidShotResult(""))
}

func TestSessionFinished(t *testing.T) {
	s := PracticeSession{StartedAt: time.Now().UTC()}
	assert.False(t, s.Finished())

	now := time.Now().UTC()
	s.EndedAt = &now
	assert.True(t, s.Finished())
}
