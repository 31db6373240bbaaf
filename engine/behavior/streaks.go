package behavior

import (
	"sort"
	"time"

	"github.com/hrygo/fitflow/engine/history"
)

// maxStreakGapDays is the largest calendar-day gap between consecutive
// completed workouts that keeps a streak alive. A one-day gap (single rest
// day) is tolerated; anything above two days starts a new streak.
const maxStreakGapDays = 2

// Streaks walks the completed attempts in effective-date order and collects
// streak statistics. The trailing segment is the current streak; segments are
// counted as breaks.
func Streaks(completed []history.Attempt) StreakPatterns {
	if len(completed) == 0 {
		return StreakPatterns{}
	}

	dates := make([]time.Time, 0, len(completed))
	for _, a := range completed {
		dates = append(dates, a.EffectiveDate())
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var segments []int
	current := 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) > maxStreakGapDays {
			segments = append(segments, current)
			current = 1
			continue
		}
		current++
	}
	segments = append(segments, current)

	patterns := StreakPatterns{
		CurrentStreak: segments[len(segments)-1],
		StreakBreaks:  len(segments),
	}
	total := 0
	for _, length := range segments {
		total += length
		if length > patterns.LongestStreak {
			patterns.LongestStreak = length
		}
	}
	patterns.AverageStreak = float64(total) / float64(len(segments))
	return patterns
}

// daysBetween returns the calendar-day distance between two instants,
// ignoring the time of day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
