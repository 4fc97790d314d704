package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateGrowthPercentage(t *testing.T) {
	rc := &ReportController{}

	assert.Equal(t, 0.0, rc.calculateGrowthPercentage(0, 0))
	assert.Equal(t, 100.0, rc.calculateGrowthPercentage(500, 0))
	assert.Equal(t, 50.0, rc.calculateGrowthPercentage(1500, 1000))
	assert.Equal(t, -25.0, rc.calculateGrowthPercentage(750, 1000))
	assert.Equal(t, -100.0, rc.calculateGrowthPercentage(0, 1000))
}

func TestQuarterBounds(t *testing.T) {
	rc := &ReportController{}

	cases := []struct {
		date      string
		wantStart string
		wantEnd   string
	}{
		{"2026-01-15", "2026-01-01", "2026-03-31"},
		{"2026-03-31", "2026-01-01", "2026-03-31"},
		{"2026-05-02", "2026-04-01", "2026-06-30"},
		{"2026-08-29", "2026-07-01", "2026-09-30"},
		{"2026-12-31", "2026-10-01", "2026-12-31"},
	}

	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		assert.NoError(t, err)

		assert.Equal(t, tc.wantStart, rc.getQuarterStart(d).Format("2006-01-02"), "start for %s", tc.date)
		assert.Equal(t, tc.wantEnd, rc.getQuarterEnd(d).Format("2006-01-02"), "end for %s", tc.date)
	}
}
