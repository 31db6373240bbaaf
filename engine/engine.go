// Package engine wires the analysis pipeline together: fetch history,
// aggregate, analyze, recommend, apply and persist. Each run is a pure
// sequence over immutable inputs; the only mutable state is the durable
// snapshot and the difficulty multiplier, both written in a single
// all-or-nothing commit behind a per-user critical section.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/fitflow/engine/behavior"
	"github.com/hrygo/fitflow/engine/checkin"
	"github.com/hrygo/fitflow/engine/history"
	"github.com/hrygo/fitflow/engine/interval"
	"github.com/hrygo/fitflow/engine/metrics"
	"github.com/hrygo/fitflow/engine/recommend"
	"github.com/hrygo/fitflow/engine/scheduler"
	"github.com/hrygo/fitflow/plugin/notify"
)

// DefaultMultiplier is the difficulty multiplier before any analysis has
// adjusted it.
const DefaultMultiplier = 1.0

// Storage is the persistence collaborator. The engine performs no disk or
// network access itself; every I/O crossing goes through here.
type Storage interface {
	FetchRecentWorkouts(ctx context.Context, userID int32, daysBack int) ([]history.Attempt, error)
	FetchUpcomingWorkouts(ctx context.Context, userID int32) ([]recommend.PlannedWorkout, error)
	LoadPatterns(ctx context.Context, userID int32) (*behavior.Patterns, error)
	LoadMultiplier(ctx context.Context, userID int32) (float64, error)
	SaveCheckIn(ctx context.Context, userID int32, analysis *checkin.Analysis) error

	// CommitAnalysis persists the run result atomically. A failure must
	// leave the prior snapshot authoritative.
	CommitAnalysis(ctx context.Context, userID int32, patterns behavior.Patterns, multiplier float64, rewritten []recommend.PlannedWorkout) error

	// RescheduleWorkout records a slot placement outcome.
	RescheduleWorkout(ctx context.Context, workoutUID string, startTime time.Time, assigned bool) error
}

// CalendarProvider supplies busy intervals. It may fail with a permission
// error; the scheduler degrades to an empty busy set in that case.
type CalendarProvider interface {
	FetchBusyIntervals(ctx context.Context, userID int32, start, end time.Time) ([]interval.Span, error)
}

// Notifier accepts fire-and-forget alerts.
type Notifier interface {
	Enqueue(alert *notify.Alert) bool
}

// RunResult is everything one analysis run produced.
type RunResult struct {
	Patterns      behavior.Patterns
	CheckIn       *checkin.Analysis
	Insights      []recommend.Insight
	Modifications []recommend.Modification
	Multiplier    float64
}

// Service runs the adaptive scheduling and behavior pipeline.
type Service struct {
	storage  Storage
	calendar CalendarProvider
	notifier Notifier
	exporter *metrics.Exporter

	historyDays int

	mu    sync.Mutex
	locks map[int32]*sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates the engine service. notifier and exporter may be nil;
// the pipeline then runs silent and unmetered.
func NewService(storage Storage, calendar CalendarProvider, notifier Notifier, exporter *metrics.Exporter, historyDays int) *Service {
	if historyDays <= 0 {
		historyDays = 30
	}
	// A nil concrete pointer passed as the interface would slip past the
	// notifier == nil checks and crash on the first alert.
	if v := reflect.ValueOf(notifier); notifier != nil && v.Kind() == reflect.Pointer && v.IsNil() {
		notifier = nil
	}
	return &Service{
		storage:     storage,
		calendar:    calendar,
		notifier:    notifier,
		exporter:    exporter,
		historyDays: historyDays,
		locks:       map[int32]*sync.Mutex{},
		now:         time.Now,
	}
}

// userLock returns the exclusive per-user critical section. Two runs for the
// same user never overlap; runs for different users may.
func (s *Service) userLock(userID int32) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// RunAnalysis executes the full pipeline for one user. checkInText may be
// empty; the history-driven rules still run. On any persistence failure the
// run aborts and the previously stored snapshot stays authoritative.
func (s *Service) RunAnalysis(ctx context.Context, userID int32, checkInText string) (*RunResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	started := s.now()
	result, err := s.runAnalysisLocked(ctx, userID, checkInText)
	if s.exporter != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.exporter.ObserveRun(status, s.now().Sub(started))
	}
	return result, err
}

func (s *Service) runAnalysisLocked(ctx context.Context, userID int32, checkInText string) (*RunResult, error) {
	now := s.now()

	attempts, err := s.storage.FetchRecentWorkouts(ctx, userID, s.historyDays)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch workout history")
	}

	var patterns behavior.Patterns
	if len(attempts) == 0 {
		// No history yet: substitute the named baseline so downstream rules
		// have defined values to branch on.
		patterns = behavior.DefaultPatterns(now)
	} else {
		completed, missed := history.Partition(attempts, now)
		patterns = behavior.Analyze(completed, missed, now)
	}

	var analysis *checkin.Analysis
	if checkInText != "" {
		extracted := checkin.Extract(checkInText, now)
		analysis = &extracted
		if err := s.storage.SaveCheckIn(ctx, userID, analysis); err != nil {
			return nil, errors.Wrap(err, "failed to save check-in")
		}
	}

	insights, mods := recommend.Recommend(patterns, analysis)

	multiplier, err := s.storage.LoadMultiplier(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load difficulty multiplier")
	}
	newMultiplier := recommend.ApplyMultiplier(mods, multiplier)

	var rewritten []recommend.PlannedWorkout
	if hasStructural(mods) {
		upcoming, err := s.storage.FetchUpcomingWorkouts(ctx, userID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to fetch upcoming workouts")
		}
		var limitations []string
		if analysis != nil {
			limitations = analysis.PhysicalLimitations
		}
		rewritten = recommend.RewritePlan(upcoming, mods, limitations)
	}

	if err := s.storage.CommitAnalysis(ctx, userID, patterns, newMultiplier, rewritten); err != nil {
		return nil, errors.Wrap(err, "failed to commit analysis run")
	}

	s.emitAlerts(userID, insights, mods)

	slog.Info("analysis run complete",
		"user", userID,
		"completionRate", patterns.CompletionRate,
		"insights", len(insights),
		"modifications", len(mods),
		"multiplier", newMultiplier,
	)

	return &RunResult{
		Patterns:      patterns,
		CheckIn:       analysis,
		Insights:      insights,
		Modifications: mods,
		Multiplier:    newMultiplier,
	}, nil
}

// ScheduleWeek places the given slot requests around the user's calendar and
// persists the outcome. A calendar failure degrades to an empty busy set:
// scheduling proceeds anywhere inside the daily window.
func (s *Service) ScheduleWeek(ctx context.Context, userID int32, requests []scheduler.SlotRequest) ([]scheduler.Placement, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	start, end := requestRange(requests)
	busy, err := s.calendar.FetchBusyIntervals(ctx, userID, start, end)
	if err != nil {
		slog.Warn("calendar fetch failed, scheduling against empty busy set",
			"user", userID,
			"error", err,
		)
		busy = nil
	}

	placements := scheduler.ScheduleWeek(requests, busy)

	assigned := 0
	for _, p := range placements {
		if err := s.storage.RescheduleWorkout(ctx, p.WorkoutUID, p.StartTime, p.Assigned); err != nil {
			return nil, errors.Wrapf(err, "failed to persist placement for workout %s", p.WorkoutUID)
		}
		if p.Assigned {
			assigned++
		}
	}
	if s.exporter != nil {
		s.exporter.ObservePlacements(assigned, len(placements)-assigned)
	}
	if s.notifier != nil && assigned > 0 {
		alert := notify.NewAlert(userID, notify.KindScheduleChange,
			"Workouts scheduled",
			fmt.Sprintf("%d of %d workouts placed into free slots.", assigned, len(placements)))
		accepted := s.notifier.Enqueue(alert)
		if s.exporter != nil {
			s.exporter.ObserveAlert(string(alert.Kind), accepted)
		}
	}
	return placements, nil
}

// PreviewSlot reports whether [start, start+duration) is free of calendar
// conflicts, for the planning UI. Calendar failure degrades to "free".
func (s *Service) PreviewSlot(ctx context.Context, userID int32, start time.Time, duration time.Duration) bool {
	busy, err := s.calendar.FetchBusyIntervals(ctx, userID, start, start.Add(duration))
	if err != nil {
		slog.Warn("calendar fetch failed during preview", "user", userID, "error", err)
		busy = nil
	}
	return scheduler.IsSlotFree(start, duration, busy)
}

// LoadPatterns returns the stored snapshot, falling back to the default
// baseline when none exists or the read fails recoverably at the caller.
func (s *Service) LoadPatterns(ctx context.Context, userID int32) (behavior.Patterns, error) {
	patterns, err := s.storage.LoadPatterns(ctx, userID)
	if err != nil {
		return behavior.Patterns{}, errors.Wrap(err, "failed to load behavior snapshot")
	}
	if patterns == nil {
		return behavior.DefaultPatterns(s.now()), nil
	}
	return *patterns, nil
}

func (s *Service) emitAlerts(userID int32, insights []recommend.Insight, mods []recommend.Modification) {
	if s.notifier == nil {
		return
	}
	for _, insight := range insights {
		if insight.Severity != recommend.SeverityHigh {
			continue
		}
		alert := notify.NewAlert(userID, notify.KindInsight, insight.Title, insight.Description+" "+insight.Recommendation)
		accepted := s.notifier.Enqueue(alert)
		if s.exporter != nil {
			s.exporter.ObserveAlert(string(alert.Kind), accepted)
		}
	}
	for _, mod := range mods {
		kind := notify.KindPlanAdjusted
		if mod.Type == recommend.InjuryModification {
			kind = notify.KindInjuryAdvice
		}
		alert := notify.NewAlert(userID, kind, "Plan adjusted: "+string(mod.Type), mod.Suggestion)
		accepted := s.notifier.Enqueue(alert)
		if s.exporter != nil {
			s.exporter.ObserveAlert(string(alert.Kind), accepted)
		}
	}
}

func hasStructural(mods []recommend.Modification) bool {
	for _, mod := range mods {
		switch mod.Type {
		case recommend.AddRecovery, recommend.ShorterWorkouts, recommend.InjuryModification:
			return true
		}
	}
	return false
}

// requestRange spans from the start of the earliest desired day to the end
// of the latest one.
func requestRange(requests []scheduler.SlotRequest) (time.Time, time.Time) {
	min, max := requests[0].DesiredDate, requests[0].DesiredDate
	for _, req := range requests[1:] {
		if req.DesiredDate.Before(min) {
			min = req.DesiredDate
		}
		if req.DesiredDate.After(max) {
			max = req.DesiredDate
		}
	}
	minY, minM, minD := min.Date()
	maxY, maxM, maxD := max.Date()
	start := time.Date(minY, minM, minD, 0, 0, 0, 0, min.Location())
	end := time.Date(maxY, maxM, maxD, 0, 0, 0, 0, max.Location()).AddDate(0, 0, 1)
	return start, end
}
