package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSortKey(t *testing.T) {
	assert.True(t, ValidSortKey(SortByAccuracy))
	assert.True(t, ValidSortKey(SortByMade))
	assert.True(t, ValidSortKey(SortByPlanned))
	assert.False(t, ValidSortKey(""))
	assert.False(t, ValidSortKey("streak"))
}

func TestRankByAccuracy(t *testing.T) {
	rows := []LeaderboardRow{
		{UserID: 1, FullName: "Ana", TotalMade: 50, TotalPlanned: 100},  // 50%
		{UserID: 2, FullName: "Ben", TotalMade: 30, TotalPlanned: 40},   // 75%
		{UserID: 3, FullName: "Cam", TotalMade: 90, TotalPlanned: 200},  // 45%
	}
	got := Rank(rows, SortByAccuracy, 10)
	require.Len(t, got, 3)
	assert.Equal(t, uint64(2), got[0].UserID)
	assert.Equal(t, uint64(1), got[1].UserID)
	assert.Equal(t, uint64(3), got[2].UserID)
	assert.Equal(t, "75.00%", got[0].AccuracyPercent)
	assert.Equal(t, "45.00%", got[2].AccuracyPercent)
}

func TestRankDropsUsersWithNoPlan(t *testing.T) {
	rows := []LeaderboardRow{
		{UserID: 1, TotalMade: 10, TotalPlanned: 20},
		{UserID: 2, TotalMade: 0, TotalPlanned: 0},
	}
	got := Rank(rows, SortByAccuracy, 10)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].UserID)
}

func TestRankTieBreaks(t *testing.T) {
	// Same accuracy: more made shots wins; fully equal rows fall
	// back to the lower user ID.
	rows := []LeaderboardRow{
		{UserID: 9, TotalMade: 5, TotalPlanned: 10},
		{UserID: 4, TotalMade: 50, TotalPlanned: 100},
		{UserID: 2, TotalMade: 5, TotalPlanned: 10},
	}
	got := Rank(rows, SortByAccuracy, 10)
	require.Len(t, got, 3)
	assert.Equal(t, uint64(4), got[0].UserID) // 50 made beats 5
	assert.Equal(t, uint64(2), got[1].UserID) // id 2 before id 9
	assert.Equal(t, uint64(9), got[2].UserID)
}

func TestRankByMadeAndPlanned(t *testing.T) {
	rows := []LeaderboardRow{
		{UserID: 1, TotalMade: 10, TotalPlanned: 300},
		{UserID: 2, TotalMade: 80, TotalPlanned: 100},
	}
	byMade := Rank(rows, SortByMade, 10)
	assert.Equal(t, uint64(2), byMade[0].UserID)

	byPlanned := Rank(rows, SortByPlanned, 10)
	assert.Equal(t, uint64(1), byPlanned[0].UserID)
}

func TestRankLimit(t *testing.T) {
	rows := []LeaderboardRow{
		{UserID: 1, TotalMade: 3, TotalPlanned: 10},
		{UserID: 2, TotalMade: 2, TotalPlanned: 10},
		{UserID: 3, TotalMade: 1, TotalPlanned: 10},
	}
	got := Rank(rows, SortByMade, 2)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].UserID)

	// Non-positive limit falls back to the default cap.
	got = Rank(rows, SortByMade, 0)
	assert.Len(t, got, 3)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	rows := []LeaderboardRow{
		{UserID: 1, TotalMade: 1, TotalPlanned: 10},
		{UserID: 2, TotalMade: 9, TotalPlanned: 10},
	}
	_ = Rank(rows, SortByAccuracy, 10)
	assert.Equal(t, uint64(1), rows[0].UserID)
	assert.Empty(t, rows[0].AccuracyPercent)
}
