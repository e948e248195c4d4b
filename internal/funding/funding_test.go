package funding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPercentFunded(t *testing.T) {
	cases := []struct {
		name   string
		raised float64
		goal   float64
		want   int
	}{
		{"zero raised", 0, 50000, 0},
		{"partial", 42000, 50000, 84},
		{"rounds up", 333, 1000, 33},
		{"rounds half up", 335, 1000, 34},
		{"exactly funded", 50000, 50000, 100},
		{"overfunded clamps to 100", 120000, 50000, 100},
		{"zero goal", 1000, 0, 0},
		{"negative goal", 1000, -5, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PercentFunded(tc.raised, tc.goal))
		})
	}
}

func TestPercentFundedMonotonic(t *testing.T) {
	prev := 0
	for raised := 0.0; raised <= 60000; raised += 1500 {
		pct := PercentFunded(raised, 50000)
		require.GreaterOrEqual(t, pct, prev)
		require.LessOrEqual(t, pct, 100)
		prev = pct
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{"thirty days out", now.AddDate(0, 0, 30), 30},
		{"partial day rounds up", now.Add(36 * time.Hour), 2},
		{"under a day", now.Add(5 * time.Hour), 1},
		{"ends now", now, 0},
		{"already ended", now.AddDate(0, 0, -3), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DaysLeft(tc.end, now))
		})
	}
}

func TestDaysLeftDeterministic(t *testing.T) {
	now := time.Now()
	end := now.AddDate(0, 0, 14)
	require.Equal(t, DaysLeft(end, now), DaysLeft(end, now))
}
