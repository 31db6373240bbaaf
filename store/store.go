package store

import (
	"context"
	"database/sql"

	"github.com/hrygo/fitflow/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// Driver is an interface for store driver.
// It contains all the methods that the store needs to implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error
	IsInitialized(ctx context.Context) (bool, error)

	// Workout model
	CreateWorkout(ctx context.Context, create *Workout) (*Workout, error)
	ListWorkouts(ctx context.Context, find *FindWorkout) ([]*Workout, error)
	UpdateWorkout(ctx context.Context, update *UpdateWorkout) (*Workout, error)

	// BehaviorSnapshot model
	GetBehaviorSnapshot(ctx context.Context, find *FindBehaviorSnapshot) (*BehaviorSnapshot, error)

	// UserSetting model
	GetUserSetting(ctx context.Context, find *FindUserSetting) (*UserSetting, error)
	ListUserSettings(ctx context.Context, find *FindUserSetting) ([]*UserSetting, error)
	UpsertUserSetting(ctx context.Context, upsert *UpsertUserSetting) (*UserSetting, error)

	// CheckIn model
	CreateCheckIn(ctx context.Context, create *CheckIn) (*CheckIn, error)
	ListCheckIns(ctx context.Context, find *FindCheckIn) ([]*CheckIn, error)

	// BusyInterval model
	ListBusyIntervals(ctx context.Context, find *FindBusyInterval) ([]*BusyInterval, error)
	CreateBusyInterval(ctx context.Context, create *BusyInterval) (*BusyInterval, error)

	// CommitAnalysis atomically persists one analysis run: the new behavior
	// snapshot, the adjusted difficulty multiplier and any rewritten
	// workouts. All writes happen in a single transaction so a failing run
	// leaves the prior snapshot authoritative.
	CommitAnalysis(ctx context.Context, commit *AnalysisCommit) error
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateWorkout(ctx context.Context, create *Workout) (*Workout, error) {
	return s.driver.CreateWorkout(ctx, create)
}

func (s *Store) ListWorkouts(ctx context.Context, find *FindWorkout) ([]*Workout, error) {
	return s.driver.ListWorkouts(ctx, find)
}

func (s *Store) UpdateWorkout(ctx context.Context, update *UpdateWorkout) (*Workout, error) {
	return s.driver.UpdateWorkout(ctx, update)
}

func (s *Store) GetBehaviorSnapshot(ctx context.Context, find *FindBehaviorSnapshot) (*BehaviorSnapshot, error) {
	return s.driver.GetBehaviorSnapshot(ctx, find)
}

func (s *Store) GetUserSetting(ctx context.Context, find *FindUserSetting) (*UserSetting, error) {
	return s.driver.GetUserSetting(ctx, find)
}

func (s *Store) ListUserSettings(ctx context.Context, find *FindUserSetting) ([]*UserSetting, error) {
	return s.driver.ListUserSettings(ctx, find)
}

func (s *Store) UpsertUserSetting(ctx context.Context, upsert *UpsertUserSetting) (*UserSetting, error) {
	return s.driver.UpsertUserSetting(ctx, upsert)
}

func (s *Store) CreateCheckIn(ctx context.Context, create *CheckIn) (*CheckIn, error) {
	return s.driver.CreateCheckIn(ctx, create)
}

func (s *Store) ListCheckIns(ctx context.Context, find *FindCheckIn) ([]*CheckIn, error) {
	return s.driver.ListCheckIns(ctx, find)
}

func (s *Store) ListBusyIntervals(ctx context.Context, find *FindBusyInterval) ([]*BusyInterval, error) {
	return s.driver.ListBusyIntervals(ctx, find)
}

func (s *Store) CreateBusyInterval(ctx context.Context, create *BusyInterval) (*BusyInterval, error) {
	return s.driver.CreateBusyInterval(ctx, create)
}

func (s *Store) CommitAnalysis(ctx context.Context, commit *AnalysisCommit) error {
	return s.driver.CommitAnalysis(ctx, commit)
}
