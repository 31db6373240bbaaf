// Package scheduler places workouts into free time slots around busy
// calendar intervals. Placement is first-fit over a fixed daily window:
// deterministic and explainable rather than fragmentation-optimal.
package scheduler

import (
	"time"

	"github.com/hrygo/fitflow/engine/interval"
)

const (
	// Workouts are only placed between 06:00 and 22:00 local time.
	windowStartHour = 6
	windowEndHour   = 22

	// Candidate start times advance on a 30-minute grid.
	slotGranularity = 30 * time.Minute
)

// SlotRequest asks for a workout to be placed somewhere on its desired day.
type SlotRequest struct {
	WorkoutUID  string
	DesiredDate time.Time // the day to place on; the time portion is the current (pre-relocation) start
	Duration    time.Duration
}

// Placement is the outcome of scheduling one request. When no free slot
// exists within the daily window, Assigned is false and StartTime carries the
// request's original desired time untouched. A request is never dropped.
type Placement struct {
	WorkoutUID string
	StartTime  time.Time
	Duration   time.Duration
	Assigned   bool
}

// ScheduleWeek assigns each request the first free slot on its desired day.
// Busy intervals on other days are ignored for that request. An empty busy
// set (for example after a calendar permission failure) degrades to
// "schedule anywhere in the window", which is the documented fallback.
func ScheduleWeek(requests []SlotRequest, busy []interval.Span) []Placement {
	placements := make([]Placement, 0, len(requests))
	for _, req := range requests {
		placements = append(placements, scheduleOne(req, busy))
	}
	return placements
}

func scheduleOne(req SlotRequest, busy []interval.Span) Placement {
	placement := Placement{
		WorkoutUID: req.WorkoutUID,
		StartTime:  req.DesiredDate,
		Duration:   req.Duration,
	}
	if req.Duration <= 0 {
		return placement
	}

	busyThatDay := busyOnDay(busy, req.DesiredDate)

	year, month, day := req.DesiredDate.Date()
	loc := req.DesiredDate.Location()
	windowStart := time.Date(year, month, day, windowStartHour, 0, 0, 0, loc)
	windowEnd := time.Date(year, month, day, windowEndHour, 0, 0, 0, loc)

	for start := windowStart; !start.Add(req.Duration).After(windowEnd); start = start.Add(slotGranularity) {
		if IsSlotFree(start, req.Duration, busyThatDay) {
			placement.StartTime = start
			placement.Assigned = true
			return placement
		}
	}
	return placement
}

// IsSlotFree reports whether [start, start+duration) overlaps none of the
// given busy intervals. Exposed for availability previews.
func IsSlotFree(start time.Time, duration time.Duration, busy []interval.Span) bool {
	candidate := interval.New(start, duration)
	for _, b := range busy {
		if interval.Overlaps(candidate, b) {
			return false
		}
	}
	return true
}

// busyOnDay keeps the portion of each busy interval that falls on the given
// day, so an interval spanning midnight still blocks the morning it runs into.
func busyOnDay(busy []interval.Span, day time.Time) []interval.Span {
	var out []interval.Span
	for _, b := range busy {
		if clipped, ok := b.ClipToDay(day); ok {
			out = append(out, clipped)
		}
	}
	return out
}
