// Package history reduces past workout attempts into the frequency tables
// the behavior analyzer consumes. All reductions are pure and recomputed in
// full on every run; nothing here mutates its input.
package history

import "time"

// Focus identifies what a workout session trains.
type Focus string

const (
	FocusStrength    Focus = "strength"
	FocusCardio      Focus = "cardio"
	FocusFlexibility Focus = "flexibility"
	FocusHIIT        Focus = "hiit"
	FocusRecovery    Focus = "recovery"
)

// Attempt is one unit of workout history. CompletedAt and Completed are set
// once at completion time by the surrounding app; this engine only reads them.
type Attempt struct {
	ScheduledAt time.Time
	CompletedAt *time.Time
	Completed   bool
	Focus       Focus
	Difficulty  int // ordinal, 1 (easy) to 3 (hard)
}

// EffectiveDate is the completion time when known, otherwise the scheduled
// time. Streak walks order attempts by this.
func (a Attempt) EffectiveDate() time.Time {
	if a.CompletedAt != nil {
		return *a.CompletedAt
	}
	return a.ScheduledAt
}

// Partition splits attempts into completed and missed sets. An attempt is
// missed only when it is not completed AND its scheduled day is already over
// relative to now; attempts scheduled today or later are neither completed
// nor missed and drop out of the analysis.
func Partition(attempts []Attempt, now time.Time) (completed, missed []Attempt) {
	today := startOfDay(now)
	for _, a := range attempts {
		switch {
		case a.Completed:
			completed = append(completed, a)
		case startOfDay(a.ScheduledAt).Before(today):
			missed = append(missed, a)
		}
	}
	return completed, missed
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Tables holds per-dimension frequency counts for a set of attempts, keyed
// by the scheduled time. Lookup by key only; no iteration order is implied.
type Tables struct {
	ByWeekday map[time.Weekday]int
	ByHour    map[int]int
	ByFocus   map[Focus]int
}

// Aggregate counts attempts by weekday, hour of day and focus.
func Aggregate(attempts []Attempt) Tables {
	tables := Tables{
		ByWeekday: make(map[time.Weekday]int),
		ByHour:    make(map[int]int),
		ByFocus:   make(map[Focus]int),
	}
	for _, a := range attempts {
		tables.ByWeekday[a.ScheduledAt.Weekday()]++
		tables.ByHour[a.ScheduledAt.Hour()]++
		tables.ByFocus[a.Focus]++
	}
	return tables
}

// MissedPatterns describes where in the week workouts tend to be missed.
// The "most problematic" selections break count ties in favor of the first
// value encountered while walking the input slice; since input order is
// itself deterministic, so is the result.
type MissedPatterns struct {
	DaysMissed  map[time.Weekday]int
	TimesMissed map[int]int
	TypesMissed map[Focus]int

	MostProblematicDay  *time.Weekday
	MostProblematicHour *int
	MostMissedType      *Focus
}

// AnalyzeMissed builds the missed-workout pattern tables from the missed set.
func AnalyzeMissed(missed []Attempt) MissedPatterns {
	patterns := MissedPatterns{
		DaysMissed:  make(map[time.Weekday]int),
		TimesMissed: make(map[int]int),
		TypesMissed: make(map[Focus]int),
	}

	var bestDayCount, bestHourCount, bestTypeCount int
	for _, a := range missed {
		day := a.ScheduledAt.Weekday()
		hour := a.ScheduledAt.Hour()
		focus := a.Focus

		patterns.DaysMissed[day]++
		patterns.TimesMissed[hour]++
		patterns.TypesMissed[focus]++

		// Strict > keeps the first-encountered winner on ties.
		if patterns.DaysMissed[day] > bestDayCount {
			bestDayCount = patterns.DaysMissed[day]
			d := day
			patterns.MostProblematicDay = &d
		}
		if patterns.TimesMissed[hour] > bestHourCount {
			bestHourCount = patterns.TimesMissed[hour]
			h := hour
			patterns.MostProblematicHour = &h
		}
		if patterns.TypesMissed[focus] > bestTypeCount {
			bestTypeCount = patterns.TypesMissed[focus]
			f := focus
			patterns.MostMissedType = &f
		}
	}
	return patterns
}
