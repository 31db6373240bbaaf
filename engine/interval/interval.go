// Package interval provides pure time-interval geometry used by the slot
// scheduler. Intervals are half-open: [Start, End).
package interval

import "time"

// Span is a half-open time interval [Start, End).
// A well-formed span has Start before End; a zero-duration span is legal
// input but overlaps nothing.
type Span struct {
	Start time.Time
	End   time.Time
}

// New returns the span [start, start+d).
func New(start time.Time, d time.Duration) Span {
	return Span{Start: start, End: start.Add(d)}
}

// Duration returns End - Start.
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// IsValid reports whether Start is strictly before End.
func (s Span) IsValid() bool {
	return s.Start.Before(s.End)
}

// Overlaps reports whether a and b share any instant.
// Half-open semantics: spans that merely touch at an endpoint do not overlap,
// and a zero-duration span never overlaps anything.
func Overlaps(a, b Span) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Contains reports whether t falls inside s, including the start instant and
// excluding the end instant.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// ClipToDay returns the portion of s that falls on the calendar day of day,
// in day's location, and whether any portion remains. An interval spanning
// midnight contributes its before-midnight part to one day and its
// after-midnight part to the next.
func (s Span) ClipToDay(day time.Time) (Span, bool) {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	clipped := s
	if clipped.Start.Before(dayStart) {
		clipped.Start = dayStart
	}
	if clipped.End.After(dayEnd) {
		clipped.End = dayEnd
	}
	if !clipped.IsValid() {
		return Span{}, false
	}
	return clipped, true
}
