// Package behavior turns aggregated workout history into a BehaviorPatterns
// snapshot: completion rate, problem days and hours, difficulty tolerance and
// streak statistics. Each analysis run recomputes the snapshot wholesale; the
// latest snapshot always supersedes the prior one.
package behavior

import (
	"time"

	"github.com/hrygo/fitflow/engine/history"
)

// ToleranceLevel is a coarse classification of how well a user copes with
// higher-difficulty sessions.
type ToleranceLevel string

const (
	ToleranceLow    ToleranceLevel = "low"
	ToleranceMedium ToleranceLevel = "medium"
	ToleranceHigh   ToleranceLevel = "high"
)

// DifficultyTolerance compares the mean difficulty ordinal of completed and
// missed attempts.
type DifficultyTolerance struct {
	Level                  ToleranceLevel
	AvgCompletedDifficulty float64
	AvgMissedDifficulty    float64
}

// StreakPatterns summarizes runs of completed workouts. A streak survives a
// single rest day between consecutive entries; a gap of more than two days
// breaks it.
type StreakPatterns struct {
	AverageStreak float64
	LongestStreak int
	CurrentStreak int
	StreakBreaks  int
}

// Patterns is the durable behavior snapshot persisted between runs.
type Patterns struct {
	CompletionRate      float64
	MissedPatterns      history.MissedPatterns
	DifficultyTolerance DifficultyTolerance
	StreakPatterns      StreakPatterns
	PreferredTimes      map[int]int
	TypePreferences     map[history.Focus]int
	LastAnalyzed        time.Time
}

// DefaultPatterns is the documented baseline substituted when no history
// exists yet (or the stored snapshot cannot be read). Kept as an explicit
// named constructor so the "no history yet" path is independently testable.
func DefaultPatterns(now time.Time) Patterns {
	return Patterns{
		CompletionRate:      0.0,
		MissedPatterns:      history.AnalyzeMissed(nil),
		DifficultyTolerance: DifficultyTolerance{Level: ToleranceMedium},
		PreferredTimes:      map[int]int{},
		TypePreferences:     map[history.Focus]int{},
		LastAnalyzed:        now,
	}
}

// Analyze reduces the completed and missed attempt sets into a snapshot.
func Analyze(completed, missed []history.Attempt, now time.Time) Patterns {
	completedTables := history.Aggregate(completed)
	return Patterns{
		CompletionRate:      CompletionRate(len(completed), len(missed)),
		MissedPatterns:      history.AnalyzeMissed(missed),
		DifficultyTolerance: Tolerance(completed, missed),
		StreakPatterns:      Streaks(completed),
		PreferredTimes:      completedTables.ByHour,
		TypePreferences:     completedTables.ByFocus,
		LastAnalyzed:        now,
	}
}

// CompletionRate is |completed| / (|completed| + |missed|), 0.0 when both are
// empty. Never divides by zero.
func CompletionRate(completed, missed int) float64 {
	total := completed + missed
	if total == 0 {
		return 0.0
	}
	return float64(completed) / float64(total)
}

// Tolerance classifies difficulty tolerance by comparing mean difficulty of
// the completed and missed sets. The one-ordinal margin is a fixed noise
// threshold, not a tunable.
func Tolerance(completed, missed []history.Attempt) DifficultyTolerance {
	tolerance := DifficultyTolerance{
		Level:                  ToleranceMedium,
		AvgCompletedDifficulty: meanDifficulty(completed),
		AvgMissedDifficulty:    meanDifficulty(missed),
	}

	switch {
	case len(completed) == 0 || len(missed) == 0:
		// One-sided history gives no comparison basis; stay medium rather
		// than compare against a zero mean.
	case tolerance.AvgMissedDifficulty > tolerance.AvgCompletedDifficulty+1:
		tolerance.Level = ToleranceLow
	case tolerance.AvgCompletedDifficulty > tolerance.AvgMissedDifficulty+1:
		tolerance.Level = ToleranceHigh
	}
	return tolerance
}

func meanDifficulty(attempts []history.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	sum := 0
	for _, a := range attempts {
		sum += a.Difficulty
	}
	return float64(sum) / float64(len(attempts))
}
