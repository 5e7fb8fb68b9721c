package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent2(t *testing.T) {
	assert.Equal(t, "0.00%", Percent2(0, 0))
	assert.Equal(t, "0.00%", Percent2(5, 0)) // no division by zero
	assert.Equal(t, "0.00%", Percent2(0, 10))
	assert.Equal(t, "100.00%", Percent2(10, 10))
	assert.Equal(t, "50.00%", Percent2(1, 2))
	assert.Equal(t, "66.67%", Percent2(2, 3))
	assert.Equal(t, "33.33%", Percent2(1, 3))
}

func TestAccuracy1(t *testing.T) {
	assert.Equal(t, "N/A", Accuracy1(0, 0))
	assert.Equal(t, "N/A", Accuracy1(3, 0))
	assert.Equal(t, "0.0%", Accuracy1(0, 20))
	assert.Equal(t, "75.0%", Accuracy1(15, 20))
	assert.Equal(t, "66.7%", Accuracy1(2, 3))
	// Made can exceed planned when a player keeps shooting past the
	// block's plan; the ratio simply goes above 100%.
	assert.Equal(t, "120.0%", Accuracy1(12, 10))
}
