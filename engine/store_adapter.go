package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/fitflow/engine/behavior"
	"github.com/hrygo/fitflow/engine/checkin"
	"github.com/hrygo/fitflow/engine/history"
	"github.com/hrygo/fitflow/engine/interval"
	"github.com/hrygo/fitflow/engine/recommend"
	"github.com/hrygo/fitflow/store"
)

// StoreAdapter implements Storage and CalendarProvider on top of the store
// layer, translating between store rows and the engine's value types.
// Timestamps are unix seconds in the store and time.Time in the engine.
type StoreAdapter struct {
	store *store.Store
}

// NewStoreAdapter wraps the given store.
func NewStoreAdapter(s *store.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

func (a *StoreAdapter) FetchRecentWorkouts(ctx context.Context, userID int32, daysBack int) ([]history.Attempt, error) {
	since := time.Now().AddDate(0, 0, -daysBack).Unix()
	workouts, err := a.store.ListWorkouts(ctx, &store.FindWorkout{
		UserID:         &userID,
		ScheduledAfter: &since,
	})
	if err != nil {
		return nil, err
	}

	attempts := make([]history.Attempt, 0, len(workouts))
	for _, w := range workouts {
		attempt := history.Attempt{
			ScheduledAt: time.Unix(w.ScheduledTs, 0),
			Completed:   w.Completed,
			Focus:       history.Focus(w.Focus),
			Difficulty:  w.Difficulty,
		}
		if w.CompletedTs != nil {
			completedAt := time.Unix(*w.CompletedTs, 0)
			attempt.CompletedAt = &completedAt
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func (a *StoreAdapter) FetchUpcomingWorkouts(ctx context.Context, userID int32) ([]recommend.PlannedWorkout, error) {
	now := time.Now().Unix()
	workouts, err := a.store.ListWorkouts(ctx, &store.FindWorkout{
		UserID:       &userID,
		UpcomingOnly: &now,
	})
	if err != nil {
		return nil, err
	}

	planned := make([]recommend.PlannedWorkout, 0, len(workouts))
	for _, w := range workouts {
		var exercises []recommend.Exercise
		if w.ExercisesJSON != "" {
			if err := json.Unmarshal([]byte(w.ExercisesJSON), &exercises); err != nil {
				return nil, errors.Wrapf(err, "failed to unmarshal exercises of workout %s", w.UID)
			}
		}
		planned = append(planned, recommend.PlannedWorkout{
			UID:       w.UID,
			Focus:     history.Focus(w.Focus),
			Exercises: exercises,
		})
	}
	return planned, nil
}

func (a *StoreAdapter) LoadPatterns(ctx context.Context, userID int32) (*behavior.Patterns, error) {
	snapshot, err := a.store.GetBehaviorSnapshot(ctx, &store.FindBehaviorSnapshot{UserID: &userID})
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}
	patterns := &behavior.Patterns{}
	if err := json.Unmarshal([]byte(snapshot.Payload), patterns); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal behavior snapshot of user %d", userID)
	}
	return patterns, nil
}

func (a *StoreAdapter) LoadMultiplier(ctx context.Context, userID int32) (float64, error) {
	setting, err := a.store.GetUserSetting(ctx, &store.FindUserSetting{UserID: &userID})
	if err != nil {
		return 0, err
	}
	if setting == nil {
		return DefaultMultiplier, nil
	}
	return setting.DifficultyMultiplier, nil
}

func (a *StoreAdapter) SaveCheckIn(ctx context.Context, userID int32, analysis *checkin.Analysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return errors.Wrap(err, "failed to marshal check-in analysis")
	}
	_, err = a.store.CreateCheckIn(ctx, &store.CheckIn{
		UID:       analysis.UID,
		UserID:    userID,
		RawText:   analysis.RawText,
		CreatedTs: analysis.ProcessedAt.Unix(),
		Payload:   string(payload),
	})
	return err
}

func (a *StoreAdapter) CommitAnalysis(ctx context.Context, userID int32, patterns behavior.Patterns, multiplier float64, rewritten []recommend.PlannedWorkout) error {
	payload, err := json.Marshal(patterns)
	if err != nil {
		return errors.Wrap(err, "failed to marshal behavior snapshot")
	}

	updates, err := a.workoutUpdates(ctx, userID, rewritten)
	if err != nil {
		return err
	}

	return a.store.CommitAnalysis(ctx, &store.AnalysisCommit{
		UserID: userID,
		Snapshot: &store.BehaviorSnapshot{
			UserID:     userID,
			AnalyzedTs: patterns.LastAnalyzed.Unix(),
			Payload:    string(payload),
		},
		DifficultyMultiplier: multiplier,
		UpdatedTs:            patterns.LastAnalyzed.Unix(),
		WorkoutUpdates:       updates,
	})
}

// workoutUpdates maps rewritten workouts back to store rows by UID.
func (a *StoreAdapter) workoutUpdates(ctx context.Context, userID int32, rewritten []recommend.PlannedWorkout) ([]*store.UpdateWorkout, error) {
	if len(rewritten) == 0 {
		return nil, nil
	}

	now := time.Now().Unix()
	existing, err := a.store.ListWorkouts(ctx, &store.FindWorkout{
		UserID:       &userID,
		UpcomingOnly: &now,
	})
	if err != nil {
		return nil, err
	}
	idByUID := make(map[string]int32, len(existing))
	for _, w := range existing {
		idByUID[w.UID] = w.ID
	}

	updates := make([]*store.UpdateWorkout, 0, len(rewritten))
	for _, w := range rewritten {
		id, ok := idByUID[w.UID]
		if !ok {
			return nil, errors.Errorf("rewritten workout %s not found among upcoming workouts", w.UID)
		}
		exercises, err := json.Marshal(w.Exercises)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal exercises of workout %s", w.UID)
		}
		exercisesJSON := string(exercises)
		focus := string(w.Focus)
		updates = append(updates, &store.UpdateWorkout{
			ID:            id,
			ExercisesJSON: &exercisesJSON,
			Focus:         &focus,
		})
	}
	return updates, nil
}

func (a *StoreAdapter) RescheduleWorkout(ctx context.Context, workoutUID string, startTime time.Time, assigned bool) error {
	workouts, err := a.store.ListWorkouts(ctx, &store.FindWorkout{UID: &workoutUID})
	if err != nil {
		return err
	}
	if len(workouts) == 0 {
		return errors.Errorf("workout %s not found", workoutUID)
	}

	update := &store.UpdateWorkout{
		ID:       workouts[0].ID,
		Assigned: &assigned,
	}
	if assigned {
		scheduledTs := startTime.Unix()
		update.ScheduledTs = &scheduledTs
	}
	_, err = a.store.UpdateWorkout(ctx, update)
	return err
}

func (a *StoreAdapter) FetchBusyIntervals(ctx context.Context, userID int32, start, end time.Time) ([]interval.Span, error) {
	startTs := start.Unix()
	endTs := end.Unix()
	rows, err := a.store.ListBusyIntervals(ctx, &store.FindBusyInterval{
		UserID:  &userID,
		StartTs: &startTs,
		EndTs:   &endTs,
	})
	if err != nil {
		return nil, err
	}

	spans := make([]interval.Span, 0, len(rows))
	for _, row := range rows {
		spans = append(spans, interval.Span{
			Start: time.Unix(row.StartTs, 0),
			End:   time.Unix(row.EndTs, 0),
		})
	}
	return spans, nil
}
