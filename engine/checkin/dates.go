package checkin

import (
	"strings"
	"time"

	"github.com/hrygo/fitflow/engine/interval"
)

// The recognized relative phrases form a closed set. Anything else yields no
// interval; there is deliberately no generic date parser here.

// RelativeDateRanges maps literal relative phrases in the text to concrete
// half-open intervals relative to now:
//
//	"tomorrow"     -> [next day 00:00, +1 day)
//	"this weekend" -> [coming Saturday 00:00, +2 days)
//	"next week"    -> [next Monday 00:00, +7 days)
func RelativeDateRanges(text string, now time.Time) []interval.Span {
	lowered := strings.ToLower(text)
	var spans []interval.Span

	if strings.Contains(lowered, "tomorrow") {
		start := startOfDay(now).AddDate(0, 0, 1)
		spans = append(spans, interval.New(start, 24*time.Hour))
	}
	if strings.Contains(lowered, "this weekend") {
		spans = append(spans, interval.New(comingSaturday(now), 48*time.Hour))
	}
	if strings.Contains(lowered, "next week") {
		spans = append(spans, interval.New(nextMonday(now), 7*24*time.Hour))
	}
	return spans
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// comingSaturday is the start of the next Saturday, or today if it already
// is Saturday (the weekend being talked about is the one under way).
func comingSaturday(now time.Time) time.Time {
	day := startOfDay(now)
	offset := (int(time.Saturday) - int(day.Weekday()) + 7) % 7
	if day.Weekday() == time.Sunday {
		// "this weekend" on a Sunday still means the current one.
		offset = -1
	}
	return day.AddDate(0, 0, offset)
}

// nextMonday is the start of the following week's Monday, never today.
func nextMonday(now time.Time) time.Time {
	day := startOfDay(now)
	offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return day.AddDate(0, 0, offset)
}
