package store

// Workout represents one scheduled workout session, past or upcoming.
// Completion fields are written once, when the user finishes the session;
// the analysis engine only ever reads them.
type Workout struct {
	ID          int32
	UID         string
	UserID      int32
	Focus       string
	Difficulty  int // ordinal, 1-3
	DurationSec int
	ScheduledTs int64
	CompletedTs *int64
	Completed   bool
	// Assigned is false when the scheduler could not find a free slot; the
	// workout keeps its desired time and stays in the plan.
	Assigned bool
	// ExercisesJSON is the serialized exercise list for upcoming workouts.
	ExercisesJSON string
}

// FindWorkout specifies the conditions for listing workouts.
type FindWorkout struct {
	ID             *int32
	UID            *string
	UserID         *int32
	ScheduledAfter *int64
	// UpcomingOnly keeps workouts scheduled at or after the given timestamp
	// that are not yet completed.
	UpcomingOnly *int64
	Completed    *bool
	Limit        *int
}

// UpdateWorkout specifies the fields to update. Nil fields are left as-is.
type UpdateWorkout struct {
	ID            int32
	ScheduledTs   *int64
	Assigned      *bool
	ExercisesJSON *string
	Focus         *string
	Completed     *bool
	CompletedTs   *int64
}
