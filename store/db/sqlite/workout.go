package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/fitflow/store"
)

// CreateWorkout inserts a new workout row.
func (d *DB) CreateWorkout(ctx context.Context, create *store.Workout) (*store.Workout, error) {
	stmt := `
		INSERT INTO workout (uid, user_id, focus, difficulty, duration_sec, scheduled_ts, completed_ts, completed, assigned, exercises)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	var completedTs any
	if create.CompletedTs != nil {
		completedTs = *create.CompletedTs
	}
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.Focus,
		create.Difficulty,
		create.DurationSec,
		create.ScheduledTs,
		completedTs,
		boolToInt(create.Completed),
		boolToInt(create.Assigned),
		create.ExercisesJSON,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create workout")
	}
	return create, nil
}

// ListWorkouts lists workouts matching the find conditions, oldest first.
func (d *DB) ListWorkouts(ctx context.Context, find *store.FindWorkout) ([]*store.Workout, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.ScheduledAfter != nil {
		where, args = append(where, "scheduled_ts >= ?"), append(args, *find.ScheduledAfter)
	}
	if find.UpcomingOnly != nil {
		where, args = append(where, "scheduled_ts >= ? AND completed = 0"), append(args, *find.UpcomingOnly)
	}
	if find.Completed != nil {
		where, args = append(where, "completed = ?"), append(args, boolToInt(*find.Completed))
	}

	query := `SELECT id, uid, user_id, focus, difficulty, duration_sec, scheduled_ts, completed_ts, completed, assigned, exercises
		FROM workout
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY scheduled_ts ASC`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list workouts")
	}
	defer rows.Close()

	list := []*store.Workout{}
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, workout)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate workouts")
	}
	return list, nil
}

// UpdateWorkout updates a workout and returns the stored row.
func (d *DB) UpdateWorkout(ctx context.Context, update *store.UpdateWorkout) (*store.Workout, error) {
	set, args := []string{}, []any{}
	if update.ScheduledTs != nil {
		set, args = append(set, "scheduled_ts = ?"), append(args, *update.ScheduledTs)
	}
	if update.Assigned != nil {
		set, args = append(set, "assigned = ?"), append(args, boolToInt(*update.Assigned))
	}
	if update.ExercisesJSON != nil {
		set, args = append(set, "exercises = ?"), append(args, *update.ExercisesJSON)
	}
	if update.Focus != nil {
		set, args = append(set, "focus = ?"), append(args, *update.Focus)
	}
	if update.Completed != nil {
		set, args = append(set, "completed = ?"), append(args, boolToInt(*update.Completed))
	}
	if update.CompletedTs != nil {
		set, args = append(set, "completed_ts = ?"), append(args, *update.CompletedTs)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	args = append(args, update.ID)

	stmt := `UPDATE workout SET ` + strings.Join(set, ", ") + ` WHERE id = ?
		RETURNING id, uid, user_id, focus, difficulty, duration_sec, scheduled_ts, completed_ts, completed, assigned, exercises`
	workout, err := scanWorkout(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to update workout")
	}
	return workout, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (*store.Workout, error) {
	var workout store.Workout
	var completedTs sql.NullInt64
	var completed, assigned int
	if err := row.Scan(
		&workout.ID,
		&workout.UID,
		&workout.UserID,
		&workout.Focus,
		&workout.Difficulty,
		&workout.DurationSec,
		&workout.ScheduledTs,
		&completedTs,
		&completed,
		&assigned,
		&workout.ExercisesJSON,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan workout")
	}
	if completedTs.Valid {
		workout.CompletedTs = &completedTs.Int64
	}
	workout.Completed = completed != 0
	workout.Assigned = assigned != 0
	return &workout, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
