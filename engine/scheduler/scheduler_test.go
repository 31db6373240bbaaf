package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/fitflow/engine/interval"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
}

func busySpan(day time.Time, startHour, startMin, endHour, endMin int) interval.Span {
	return interval.Span{Start: at(day, startHour, startMin), End: at(day, endHour, endMin)}
}

func TestScheduleWeekAllFree(t *testing.T) {
	// Five requests across a free week all land on the first 06:00 slot of
	// their respective day.
	var requests []SlotRequest
	for i := 0; i < 5; i++ {
		day := monday.AddDate(0, 0, i)
		requests = append(requests, SlotRequest{
			WorkoutUID:  "w" + string(rune('1'+i)),
			DesiredDate: at(day, 12, 0),
			Duration:    30 * time.Minute,
		})
	}

	placements := ScheduleWeek(requests, nil)
	require.Len(t, placements, 5)
	for i, p := range placements {
		assert.True(t, p.Assigned, "request %d should be assigned", i)
		assert.Equal(t, at(monday.AddDate(0, 0, i), 6, 0), p.StartTime)
	}
}

func TestScheduleWeekFirstFitSkipsBusy(t *testing.T) {
	busy := []interval.Span{
		busySpan(monday, 6, 0, 7, 0),
		busySpan(monday, 7, 30, 8, 0),
	}
	placements := ScheduleWeek([]SlotRequest{{
		WorkoutUID:  "w1",
		DesiredDate: at(monday, 18, 0),
		Duration:    time.Hour,
	}}, busy)

	require.Len(t, placements, 1)
	require.True(t, placements[0].Assigned)
	// 06:00 collides, 06:30 collides, 07:00 collides with the 07:30 block
	// (one-hour candidate), first free start is 08:00.
	assert.Equal(t, at(monday, 8, 0), placements[0].StartTime)
}

func TestScheduleWeekFullyBookedDay(t *testing.T) {
	busy := []interval.Span{busySpan(monday, 6, 0, 22, 0)}
	desired := at(monday, 9, 15)

	placements := ScheduleWeek([]SlotRequest{{
		WorkoutUID:  "w1",
		DesiredDate: desired,
		Duration:    30 * time.Minute,
	}}, busy)

	require.Len(t, placements, 1)
	assert.False(t, placements[0].Assigned)
	// The original desired time stays untouched on failure.
	assert.Equal(t, desired, placements[0].StartTime)
}

func TestScheduleWeekIgnoresOtherDays(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	busy := []interval.Span{busySpan(tuesday, 6, 0, 22, 0)}

	placements := ScheduleWeek([]SlotRequest{{
		WorkoutUID:  "w1",
		DesiredDate: at(monday, 12, 0),
		Duration:    30 * time.Minute,
	}}, busy)

	require.True(t, placements[0].Assigned)
	assert.Equal(t, at(monday, 6, 0), placements[0].StartTime)
}

func TestScheduleWeekOvernightBusyBlocksMorning(t *testing.T) {
	// A block running from Sunday evening into Monday morning must keep
	// Monday's early slots busy even though it starts the day before.
	sunday := monday.AddDate(0, 0, -1)
	busy := []interval.Span{{Start: at(sunday, 23, 0), End: at(monday, 10, 0)}}

	placements := ScheduleWeek([]SlotRequest{{
		WorkoutUID:  "w1",
		DesiredDate: at(monday, 7, 0),
		Duration:    time.Hour,
	}}, busy)

	require.Len(t, placements, 1)
	require.True(t, placements[0].Assigned)
	assert.Equal(t, at(monday, 10, 0), placements[0].StartTime)
}

func TestScheduleWeekRespectsWindowEnd(t *testing.T) {
	// Everything before 21:00 is busy; a one-hour workout still fits at
	// exactly 21:00 but a 90-minute one does not.
	busy := []interval.Span{busySpan(monday, 6, 0, 21, 0)}

	fits := ScheduleWeek([]SlotRequest{{WorkoutUID: "a", DesiredDate: monday, Duration: time.Hour}}, busy)
	require.True(t, fits[0].Assigned)
	assert.Equal(t, at(monday, 21, 0), fits[0].StartTime)

	tooLong := ScheduleWeek([]SlotRequest{{WorkoutUID: "b", DesiredDate: monday, Duration: 90 * time.Minute}}, busy)
	assert.False(t, tooLong[0].Assigned)
}

func TestScheduleWeekDeterministic(t *testing.T) {
	busy := []interval.Span{
		busySpan(monday, 6, 0, 9, 0),
		busySpan(monday, 10, 0, 12, 0),
	}
	requests := []SlotRequest{
		{WorkoutUID: "a", DesiredDate: monday, Duration: 45 * time.Minute},
		{WorkoutUID: "b", DesiredDate: monday, Duration: 2 * time.Hour},
	}

	first := ScheduleWeek(requests, busy)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScheduleWeek(requests, busy))
	}
}

func TestScheduleWeekAssignedSlotsNeverOverlapBusy(t *testing.T) {
	busy := []interval.Span{
		busySpan(monday, 6, 30, 7, 15),
		busySpan(monday, 8, 0, 8, 30),
		busySpan(monday, 12, 0, 14, 0),
	}
	requests := []SlotRequest{
		{WorkoutUID: "a", DesiredDate: monday, Duration: 30 * time.Minute},
		{WorkoutUID: "b", DesiredDate: monday, Duration: time.Hour},
		{WorkoutUID: "c", DesiredDate: monday, Duration: 90 * time.Minute},
	}

	for _, p := range ScheduleWeek(requests, busy) {
		if !p.Assigned {
			continue
		}
		assigned := interval.New(p.StartTime, p.Duration)
		for _, b := range busy {
			assert.False(t, interval.Overlaps(assigned, b),
				"assigned slot %v overlaps busy %v", assigned, b)
		}
	}
}

func TestIsSlotFree(t *testing.T) {
	busy := []interval.Span{busySpan(monday, 9, 0, 10, 0)}

	assert.True(t, IsSlotFree(at(monday, 8, 0), time.Hour, busy), "slot ending at busy start is free")
	assert.True(t, IsSlotFree(at(monday, 10, 0), time.Hour, busy), "slot starting at busy end is free")
	assert.False(t, IsSlotFree(at(monday, 9, 30), time.Hour, busy))
	assert.True(t, IsSlotFree(at(monday, 9, 30), time.Hour, nil), "no busy intervals means free")
}

func TestScheduleWeekZeroDurationUnassigned(t *testing.T) {
	placements := ScheduleWeek([]SlotRequest{{WorkoutUID: "a", DesiredDate: monday}}, nil)
	assert.False(t, placements[0].Assigned)
}
