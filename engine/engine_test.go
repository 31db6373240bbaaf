package engine

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/fitflow/engine/behavior"
	"github.com/hrygo/fitflow/engine/checkin"
	"github.com/hrygo/fitflow/engine/history"
	"github.com/hrygo/fitflow/engine/interval"
	"github.com/hrygo/fitflow/engine/recommend"
	"github.com/hrygo/fitflow/engine/scheduler"
	"github.com/hrygo/fitflow/plugin/notify"
)

var testNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

type fakeStorage struct {
	attempts []history.Attempt
	upcoming []recommend.PlannedWorkout

	multiplier float64
	patterns   *behavior.Patterns

	committedPatterns   *behavior.Patterns
	committedMultiplier float64
	committedRewrites   []recommend.PlannedWorkout
	savedCheckIns       []*checkin.Analysis
	rescheduled         map[string]time.Time
	unassigned          []string

	commitErr error
	fetchErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{multiplier: DefaultMultiplier, rescheduled: map[string]time.Time{}}
}

func (f *fakeStorage) FetchRecentWorkouts(_ context.Context, _ int32, _ int) ([]history.Attempt, error) {
	return f.attempts, f.fetchErr
}

func (f *fakeStorage) FetchUpcomingWorkouts(_ context.Context, _ int32) ([]recommend.PlannedWorkout, error) {
	return f.upcoming, nil
}

func (f *fakeStorage) LoadPatterns(_ context.Context, _ int32) (*behavior.Patterns, error) {
	return f.patterns, nil
}

func (f *fakeStorage) LoadMultiplier(_ context.Context, _ int32) (float64, error) {
	return f.multiplier, nil
}

func (f *fakeStorage) SaveCheckIn(_ context.Context, _ int32, analysis *checkin.Analysis) error {
	f.savedCheckIns = append(f.savedCheckIns, analysis)
	return nil
}

func (f *fakeStorage) CommitAnalysis(_ context.Context, _ int32, patterns behavior.Patterns, multiplier float64, rewritten []recommend.PlannedWorkout) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committedPatterns = &patterns
	f.committedMultiplier = multiplier
	f.committedRewrites = rewritten
	f.multiplier = multiplier
	return nil
}

func (f *fakeStorage) RescheduleWorkout(_ context.Context, workoutUID string, startTime time.Time, assigned bool) error {
	if assigned {
		f.rescheduled[workoutUID] = startTime
	} else {
		f.unassigned = append(f.unassigned, workoutUID)
	}
	return nil
}

type fakeCalendar struct {
	busy []interval.Span
	err  error
}

func (f *fakeCalendar) FetchBusyIntervals(_ context.Context, _ int32, _, _ time.Time) ([]interval.Span, error) {
	return f.busy, f.err
}

type fakeNotifier struct {
	alerts []*notify.Alert
}

func (f *fakeNotifier) Enqueue(alert *notify.Alert) bool {
	f.alerts = append(f.alerts, alert)
	return true
}

func (f *fakeNotifier) kinds() map[notify.Kind]int {
	kinds := map[notify.Kind]int{}
	for _, a := range f.alerts {
		kinds[a.Kind]++
	}
	return kinds
}

func newTestService(storage *fakeStorage, calendar *fakeCalendar, notifier *fakeNotifier) *Service {
	// Box the concrete pointer only when it is non-nil, so a nil notifier
	// reaches NewService as a true nil interface.
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	svc := NewService(storage, calendar, n, nil, 30)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestNewServiceToleratesTypedNilNotifier(t *testing.T) {
	storage := newFakeStorage()
	storage.attempts = spread(10, 5)

	var nilNotifier *fakeNotifier
	svc := NewService(storage, &fakeCalendar{}, nilNotifier, nil, 30)
	svc.now = func() time.Time { return testNow }
	assert.Nil(t, svc.notifier)

	// The low completion rate emits alerts; with the notifier normalized to
	// nil they are silently skipped instead of dereferencing a nil pointer.
	_, err := svc.RunAnalysis(context.Background(), 1, "")
	require.NoError(t, err)
}

// spread lays out one attempt per day ending the given number of days before
// testNow, alternating completion according to completedEvery.
func spread(count int, completedEvery int) []history.Attempt {
	attempts := make([]history.Attempt, 0, count)
	for i := 0; i < count; i++ {
		scheduled := testNow.AddDate(0, 0, -(count - i))
		a := history.Attempt{
			ScheduledAt: scheduled,
			Focus:       history.FocusStrength,
			Difficulty:  2,
		}
		if completedEvery > 0 && i%completedEvery == 0 {
			a.Completed = true
			done := scheduled.Add(time.Hour)
			a.CompletedAt = &done
		}
		attempts = append(attempts, a)
	}
	return attempts
}

func TestRunAnalysisEmptyHistoryUsesDefaults(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage, &fakeCalendar{}, nil)

	result, err := svc.RunAnalysis(context.Background(), 1, "")
	require.NoError(t, err)

	assert.Equal(t, behavior.DefaultPatterns(testNow), result.Patterns)
	require.NotNil(t, storage.committedPatterns)
	assert.Equal(t, 0.0, storage.committedPatterns.CompletionRate)
	// The default snapshot trips the low-completion rule, lowering the
	// multiplier from its 1.0 starting point.
	assert.InDelta(t, 0.85, result.Multiplier, 1e-9)
}

func TestRunAnalysisCommitsAtomically(t *testing.T) {
	storage := newFakeStorage()
	storage.attempts = spread(10, 1) // all completed
	svc := newTestService(storage, &fakeCalendar{}, nil)

	result, err := svc.RunAnalysis(context.Background(), 1, "")
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Patterns.CompletionRate)
	require.NotNil(t, storage.committedPatterns)
	assert.Equal(t, result.Patterns, *storage.committedPatterns)
	assert.Equal(t, result.Multiplier, storage.committedMultiplier)
}

func TestRunAnalysisCommitFailureAborts(t *testing.T) {
	storage := newFakeStorage()
	storage.attempts = spread(10, 1)
	storage.commitErr = errors.New("disk full")
	notifier := &fakeNotifier{}
	svc := newTestService(storage, &fakeCalendar{}, notifier)

	_, err := svc.RunAnalysis(context.Background(), 1, "")
	require.Error(t, err)

	// Nothing persisted, nothing announced.
	assert.Nil(t, storage.committedPatterns)
	assert.Empty(t, notifier.alerts)
}

func TestRunAnalysisFetchFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.fetchErr = errors.New("db locked")
	svc := newTestService(storage, &fakeCalendar{}, nil)

	_, err := svc.RunAnalysis(context.Background(), 1, "")
	assert.Error(t, err)
}

func TestRunAnalysisWithCheckIn(t *testing.T) {
	storage := newFakeStorage()
	storage.attempts = spread(10, 1)
	storage.upcoming = []recommend.PlannedWorkout{{
		UID:   "w1",
		Focus: history.FocusStrength,
		Exercises: []recommend.Exercise{
			{Name: "deadlift", TargetMuscles: []string{"back"}},
			{Name: "plank", TargetMuscles: []string{"core"}},
		},
	}}
	notifier := &fakeNotifier{}
	svc := newTestService(storage, &fakeCalendar{}, notifier)

	result, err := svc.RunAnalysis(context.Background(), 1, "my back is sore this week")
	require.NoError(t, err)

	require.NotNil(t, result.CheckIn)
	assert.Contains(t, result.CheckIn.PhysicalLimitations, "back: sore")
	require.Len(t, storage.savedCheckIns, 1)

	// The injury modification rewrote the upcoming plan and the rewrite was
	// part of the commit.
	require.NotEmpty(t, storage.committedRewrites)
	for _, exercise := range storage.committedRewrites[0].Exercises {
		assert.NotEqual(t, "deadlift", exercise.Name)
	}

	kinds := notifier.kinds()
	assert.Positive(t, kinds[notify.KindInjuryAdvice])
}

func TestRunAnalysisNoStructuralModsSkipsRewrite(t *testing.T) {
	storage := newFakeStorage()
	storage.attempts = spread(10, 1)
	svc := newTestService(storage, &fakeCalendar{}, nil)

	result, err := svc.RunAnalysis(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Empty(t, result.Modifications)
	assert.Empty(t, storage.committedRewrites)
}

func TestRunAnalysisEmitsHighSeverityInsights(t *testing.T) {
	storage := newFakeStorage()
	storage.attempts = spread(10, 5) // 2 of 10 completed
	notifier := &fakeNotifier{}
	svc := newTestService(storage, &fakeCalendar{}, notifier)

	_, err := svc.RunAnalysis(context.Background(), 1, "")
	require.NoError(t, err)

	kinds := notifier.kinds()
	assert.Positive(t, kinds[notify.KindInsight])
}

func TestRunAnalysisSerializesPerUser(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage, &fakeCalendar{}, nil)

	lock := svc.userLock(1)
	assert.Same(t, lock, svc.userLock(1))
	assert.NotSame(t, lock, svc.userLock(2))
}

func TestScheduleWeekAssignsAndPersists(t *testing.T) {
	storage := newFakeStorage()
	day := time.Date(2026, 3, 23, 18, 0, 0, 0, time.UTC)
	busy := []interval.Span{interval.New(time.Date(2026, 3, 23, 6, 0, 0, 0, time.UTC), time.Hour)}
	notifier := &fakeNotifier{}
	svc := newTestService(storage, &fakeCalendar{busy: busy}, notifier)

	placements, err := svc.ScheduleWeek(context.Background(), 1, []scheduler.SlotRequest{
		{WorkoutUID: "w1", DesiredDate: day, Duration: time.Hour},
	})
	require.NoError(t, err)
	require.Len(t, placements, 1)

	assert.True(t, placements[0].Assigned)
	assert.Equal(t, 7, placements[0].StartTime.Hour())
	assert.Equal(t, placements[0].StartTime, storage.rescheduled["w1"])
	assert.Positive(t, notifier.kinds()[notify.KindScheduleChange])
}

func TestScheduleWeekCalendarFailureDegrades(t *testing.T) {
	storage := newFakeStorage()
	day := time.Date(2026, 3, 23, 18, 0, 0, 0, time.UTC)
	calendar := &fakeCalendar{err: errors.New("permission denied")}
	svc := newTestService(storage, calendar, nil)

	placements, err := svc.ScheduleWeek(context.Background(), 1, []scheduler.SlotRequest{
		{WorkoutUID: "w1", DesiredDate: day, Duration: time.Hour},
	})
	require.NoError(t, err)
	require.Len(t, placements, 1)

	// Empty busy set: the first window slot wins.
	assert.True(t, placements[0].Assigned)
	assert.Equal(t, 6, placements[0].StartTime.Hour())
}

func TestScheduleWeekUnassignedKeepsDesiredTime(t *testing.T) {
	storage := newFakeStorage()
	day := time.Date(2026, 3, 23, 18, 0, 0, 0, time.UTC)
	busy := []interval.Span{interval.New(time.Date(2026, 3, 23, 6, 0, 0, 0, time.UTC), 16*time.Hour)}
	svc := newTestService(storage, &fakeCalendar{busy: busy}, nil)

	placements, err := svc.ScheduleWeek(context.Background(), 1, []scheduler.SlotRequest{
		{WorkoutUID: "w1", DesiredDate: day, Duration: time.Hour},
	})
	require.NoError(t, err)

	assert.False(t, placements[0].Assigned)
	assert.Equal(t, day, placements[0].StartTime)
	assert.Contains(t, storage.unassigned, "w1")
}

func TestScheduleWeekEmptyRequests(t *testing.T) {
	svc := newTestService(newFakeStorage(), &fakeCalendar{}, nil)
	placements, err := svc.ScheduleWeek(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, placements)
}

func TestPreviewSlot(t *testing.T) {
	start := time.Date(2026, 3, 23, 7, 0, 0, 0, time.UTC)
	busy := []interval.Span{interval.New(start, time.Hour)}
	svc := newTestService(newFakeStorage(), &fakeCalendar{busy: busy}, nil)

	assert.False(t, svc.PreviewSlot(context.Background(), 1, start, time.Hour))
	assert.True(t, svc.PreviewSlot(context.Background(), 1, start.Add(time.Hour), time.Hour))
}

func TestLoadPatternsFallsBackToDefault(t *testing.T) {
	storage := newFakeStorage()
	svc := newTestService(storage, &fakeCalendar{}, nil)

	patterns, err := svc.LoadPatterns(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, behavior.DefaultPatterns(testNow), patterns)

	stored := behavior.DefaultPatterns(testNow)
	stored.CompletionRate = 0.8
	storage.patterns = &stored

	patterns, err = svc.LoadPatterns(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.8, patterns.CompletionRate)
}

func TestRequestRange(t *testing.T) {
	reqs := []scheduler.SlotRequest{
		{DesiredDate: time.Date(2026, 3, 25, 18, 0, 0, 0, time.UTC)},
		{DesiredDate: time.Date(2026, 3, 23, 9, 0, 0, 0, time.UTC)},
		{DesiredDate: time.Date(2026, 3, 24, 12, 0, 0, 0, time.UTC)},
	}
	start, end := requestRange(reqs)
	assert.Equal(t, time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 26, 0, 0, 0, 0, time.UTC), end)
}
