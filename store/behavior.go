package store

// BehaviorSnapshot is the durable result of one analysis run. Each run
// replaces the user's snapshot wholesale; there are no merge semantics.
type BehaviorSnapshot struct {
	ID         int32
	UserID     int32
	AnalyzedTs int64
	// Payload is the serialized behavior.Patterns value.
	Payload string
}

// FindBehaviorSnapshot specifies the conditions for loading a snapshot.
type FindBehaviorSnapshot struct {
	UserID *int32
}

// UserSetting carries the per-user engine state that survives between runs.
type UserSetting struct {
	UserID               int32
	DifficultyMultiplier float64
	UpdatedTs            int64
}

// FindUserSetting specifies the conditions for finding user settings.
type FindUserSetting struct {
	UserID *int32
}

// UpsertUserSetting specifies the data for upserting user settings.
type UpsertUserSetting struct {
	UserID               int32
	DifficultyMultiplier float64
	UpdatedTs            int64
}

// AnalysisCommit is the all-or-nothing write set of one analysis run.
type AnalysisCommit struct {
	UserID               int32
	Snapshot             *BehaviorSnapshot
	DifficultyMultiplier float64
	UpdatedTs            int64
	// WorkoutUpdates are the structural rewrites of upcoming workouts.
	WorkoutUpdates []*UpdateWorkout
}
