package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func span(startHour, endHour int) Span {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return Span{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", span(6, 8), span(9, 10), false},
		{"touching endpoints do not overlap", span(6, 8), span(8, 10), false},
		{"partial overlap", span(6, 9), span(8, 10), true},
		{"containment", span(6, 12), span(8, 9), true},
		{"identical", span(6, 8), span(6, 8), true},
		{"zero-duration never overlaps", span(7, 7), span(6, 8), false},
		{"both zero-duration", span(7, 7), span(7, 7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			// Overlap is symmetric.
			assert.Equal(t, Overlaps(tt.a, tt.b), Overlaps(tt.b, tt.a))
		})
	}
}

func TestContains(t *testing.T) {
	s := span(6, 8)
	assert.True(t, s.Contains(s.Start), "start instant is inside")
	assert.False(t, s.Contains(s.End), "end instant is outside")
	assert.True(t, s.Contains(s.Start.Add(time.Hour)))
	assert.False(t, s.Contains(s.Start.Add(-time.Minute)))
}

func TestClipToDay(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	inside := span(9, 11)
	clipped, ok := inside.ClipToDay(day)
	assert.True(t, ok)
	assert.Equal(t, inside, clipped, "an interval fully inside the day is unchanged")

	overnight := Span{Start: day.Add(-time.Hour), End: day.Add(10 * time.Hour)}
	clipped, ok = overnight.ClipToDay(day)
	assert.True(t, ok)
	assert.Equal(t, day, clipped.Start, "the before-midnight part is cut off")
	assert.Equal(t, day.Add(10*time.Hour), clipped.End)

	clipped, ok = overnight.ClipToDay(day.AddDate(0, 0, -1))
	assert.True(t, ok)
	assert.Equal(t, day.Add(-time.Hour), clipped.Start)
	assert.Equal(t, day, clipped.End, "the previous day keeps its part up to midnight")

	_, ok = span(9, 11).ClipToDay(day.AddDate(0, 0, 3))
	assert.False(t, ok, "an interval on another day leaves nothing")

	_, ok = span(7, 7).ClipToDay(day)
	assert.False(t, ok, "a zero-duration interval leaves nothing")
}

func TestNewAndDuration(t *testing.T) {
	start := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	s := New(start, 45*time.Minute)
	assert.Equal(t, 45*time.Minute, s.Duration())
	assert.True(t, s.IsValid())
	assert.False(t, New(start, 0).IsValid())
}
