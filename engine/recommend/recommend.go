// Package recommend combines the behavior snapshot and the optional check-in
// analysis into ranked insights and workout modifications. The rule table is
// a union: every rule is evaluated independently and all matching rules fire.
package recommend

import (
	"fmt"
	"sort"

	"github.com/hrygo/fitflow/engine/behavior"
	"github.com/hrygo/fitflow/engine/checkin"
)

// Severity ranks an insight for display.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// InsightType categorizes an insight.
type InsightType string

const (
	InsightCompletion  InsightType = "completion"
	InsightScheduling  InsightType = "scheduling"
	InsightDifficulty  InsightType = "difficulty"
	InsightConsistency InsightType = "consistency"
)

// Insight is a human-readable, severity-ranked observation. Insights are
// ephemeral: regenerated on each run, never merged with prior ones.
type Insight struct {
	Type           InsightType
	Severity       Severity
	Title          string
	Description    string
	Recommendation string
	Confidence     float64 // [0, 1]
}

// ModificationType enumerates the plan changes the engine can apply.
type ModificationType string

const (
	ReduceIntensity    ModificationType = "reduceIntensity"
	IncreaseIntensity  ModificationType = "increaseIntensity"
	AddRecovery        ModificationType = "addRecovery"
	ShorterWorkouts    ModificationType = "shorterWorkouts"
	VarietyIncrease    ModificationType = "varietyIncrease"
	InjuryModification ModificationType = "injuryModification"
)

// Modification is one plan change with its justification.
type Modification struct {
	Type       ModificationType
	Reason     string
	Suggestion string
}

// lowCompletionThreshold triggers the completion-rate rule.
const lowCompletionThreshold = 0.7

// shortStreakThreshold triggers the consistency rule.
const shortStreakThreshold = 3.0

// busyPeriodThreshold is how many distinct busy signals it takes before the
// plan shortens workouts.
const busyPeriodThreshold = 2

// lowMotivationThreshold is the lower motivation band; below it a recovery
// session is swapped into the plan.
const lowMotivationThreshold = 0.4

// Recommend evaluates the full rule table. analysis may be nil when no
// check-in text was submitted; the history-driven rules still run. Insights
// come back sorted by severity, highest first (stable, so rule order breaks
// ties).
func Recommend(patterns behavior.Patterns, analysis *checkin.Analysis) ([]Insight, []Modification) {
	var insights []Insight
	var mods []Modification

	if patterns.CompletionRate < lowCompletionThreshold {
		insights = append(insights, Insight{
			Type:     InsightCompletion,
			Severity: SeverityHigh,
			Title:    "Completion rate is slipping",
			Description: fmt.Sprintf("You completed %.0f%% of your scheduled workouts recently.",
				patterns.CompletionRate*100),
			Recommendation: "Consider fewer or less intense sessions until the plan sticks.",
			Confidence:     0.9,
		})
		mods = append(mods, Modification{
			Type:       ReduceIntensity,
			Reason:     fmt.Sprintf("completion rate %.2f below %.2f", patterns.CompletionRate, lowCompletionThreshold),
			Suggestion: "Lower workout intensity so sessions are easier to finish.",
		})
	}

	if day := patterns.MissedPatterns.MostProblematicDay; day != nil {
		insights = append(insights, Insight{
			Type:           InsightScheduling,
			Severity:       SeverityMedium,
			Title:          fmt.Sprintf("%ss are not working out", day.String()),
			Description:    fmt.Sprintf("Most of your missed workouts fall on %s.", day.String()),
			Recommendation: fmt.Sprintf("Move %s sessions to a different day.", day.String()),
			Confidence:     0.7,
		})
	}

	if hour := patterns.MissedPatterns.MostProblematicHour; hour != nil {
		insights = append(insights, Insight{
			Type:           InsightScheduling,
			Severity:       SeverityMedium,
			Title:          "A time of day keeps getting missed",
			Description:    fmt.Sprintf("Workouts around %02d:00 are missed most often.", *hour),
			Recommendation: "Try scheduling sessions at a different time.",
			Confidence:     0.7,
		})
	}

	switch patterns.DifficultyTolerance.Level {
	case behavior.ToleranceLow:
		insights = append(insights, Insight{
			Type:           InsightDifficulty,
			Severity:       SeverityHigh,
			Title:          "Harder sessions are being missed",
			Description:    "You complete easier workouts but skip the harder ones.",
			Recommendation: "Reduce difficulty and build back up gradually.",
			Confidence:     0.8,
		})
		mods = append(mods, Modification{
			Type:       ReduceIntensity,
			Reason:     "low difficulty tolerance",
			Suggestion: "Dial difficulty down one level.",
		})
	case behavior.ToleranceHigh:
		insights = append(insights, Insight{
			Type:           InsightDifficulty,
			Severity:       SeverityLow,
			Title:          "Ready for more",
			Description:    "You finish harder sessions readily.",
			Recommendation: "Progress to the next difficulty level.",
			Confidence:     0.8,
		})
		mods = append(mods, Modification{
			Type:       IncreaseIntensity,
			Reason:     "high difficulty tolerance",
			Suggestion: "Raise difficulty one level.",
		})
	}

	if patterns.StreakPatterns.AverageStreak < shortStreakThreshold {
		description := fmt.Sprintf("Your average streak is %.1f workouts before a break.",
			patterns.StreakPatterns.AverageStreak)
		if analysis != nil {
			// The consistency copy uses the [0,1] motivation score, not the
			// raw sentiment scale. The two scales are kept separate on
			// purpose; see engine/checkin.
			description += fmt.Sprintf(" Current motivation score: %.1f.", analysis.MotivationScore)
		}
		insights = append(insights, Insight{
			Type:           InsightConsistency,
			Severity:       SeverityMedium,
			Title:          "Streaks are short",
			Description:    description,
			Recommendation: "Aim for three sessions in a row, with at most one rest day between.",
			Confidence:     0.6,
		})
	}

	if analysis != nil {
		if analysis.Sentiment.Polarity == checkin.PolarityNegative {
			mods = append(mods, Modification{
				Type:       VarietyIncrease,
				Reason:     "negative check-in sentiment",
				Suggestion: "Rotate in different focus types to keep sessions fresh.",
			})
		}

		if len(analysis.PhysicalLimitations) > 0 {
			mods = append(mods, Modification{
				Type:       InjuryModification,
				Reason:     fmt.Sprintf("reported limitations: %v", analysis.PhysicalLimitations),
				Suggestion: "Remove exercises loading the affected areas and substitute rehabilitation work.",
			})
		}

		if analysis.MotivationScore < lowMotivationThreshold {
			mods = append(mods, Modification{
				Type:       AddRecovery,
				Reason:     fmt.Sprintf("motivation score %.1f below %.1f", analysis.MotivationScore, lowMotivationThreshold),
				Suggestion: "Swap one session for a light recovery day.",
			})
		}

		if len(analysis.BusyPeriods) > busyPeriodThreshold {
			mods = append(mods, Modification{
				Type:       ShorterWorkouts,
				Reason:     fmt.Sprintf("%d busy-period signals in check-in", len(analysis.BusyPeriods)),
				Suggestion: "Cut sessions down so they fit a packed week.",
			})
		}
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Severity > insights[j].Severity
	})
	return insights, mods
}
