package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/fitflow/store"
)

// GetBehaviorSnapshot returns the user's latest snapshot, or nil when no
// analysis has run yet. Callers fall back to the default baseline snapshot.
func (d *DB) GetBehaviorSnapshot(ctx context.Context, find *store.FindBehaviorSnapshot) (*store.BehaviorSnapshot, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}

	query := `SELECT id, user_id, analyzed_ts, payload FROM behavior_snapshot
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY analyzed_ts DESC LIMIT 1`
	var snapshot store.BehaviorSnapshot
	err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&snapshot.ID,
		&snapshot.UserID,
		&snapshot.AnalyzedTs,
		&snapshot.Payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get behavior snapshot")
	}
	return &snapshot, nil
}

// GetUserSetting returns the user's engine setting row, or nil if absent.
func (d *DB) GetUserSetting(ctx context.Context, find *store.FindUserSetting) (*store.UserSetting, error) {
	settings, err := d.ListUserSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, nil
	}
	return settings[0], nil
}

// ListUserSettings lists user settings.
func (d *DB) ListUserSettings(ctx context.Context, find *store.FindUserSetting) ([]*store.UserSetting, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}

	query := `SELECT user_id, difficulty_multiplier, updated_ts FROM user_setting
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY user_id ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user settings")
	}
	defer rows.Close()

	list := []*store.UserSetting{}
	for rows.Next() {
		var setting store.UserSetting
		if err := rows.Scan(&setting.UserID, &setting.DifficultyMultiplier, &setting.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan user setting")
		}
		list = append(list, &setting)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate user settings")
	}
	return list, nil
}

// UpsertUserSetting inserts or updates a user setting row.
func (d *DB) UpsertUserSetting(ctx context.Context, upsert *store.UpsertUserSetting) (*store.UserSetting, error) {
	stmt := `
		INSERT INTO user_setting (user_id, difficulty_multiplier, updated_ts)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			difficulty_multiplier = excluded.difficulty_multiplier,
			updated_ts = excluded.updated_ts
		RETURNING user_id, difficulty_multiplier, updated_ts
	`
	var setting store.UserSetting
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.UserID,
		upsert.DifficultyMultiplier,
		upsert.UpdatedTs,
	).Scan(&setting.UserID, &setting.DifficultyMultiplier, &setting.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert user setting")
	}
	return &setting, nil
}

// CommitAnalysis persists one analysis run inside a single transaction:
// snapshot replacement, multiplier update and workout rewrites either all
// land or none do.
func (d *DB) CommitAnalysis(ctx context.Context, commit *store.AnalysisCommit) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin analysis commit")
	}
	defer tx.Rollback()

	if commit.Snapshot != nil {
		stmt := `
			INSERT INTO behavior_snapshot (user_id, analyzed_ts, payload)
			VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				analyzed_ts = excluded.analyzed_ts,
				payload = excluded.payload
		`
		if _, err := tx.ExecContext(ctx, stmt, commit.UserID, commit.Snapshot.AnalyzedTs, commit.Snapshot.Payload); err != nil {
			return errors.Wrap(err, "failed to persist behavior snapshot")
		}
	}

	stmt := `
		INSERT INTO user_setting (user_id, difficulty_multiplier, updated_ts)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			difficulty_multiplier = excluded.difficulty_multiplier,
			updated_ts = excluded.updated_ts
	`
	if _, err := tx.ExecContext(ctx, stmt, commit.UserID, commit.DifficultyMultiplier, commit.UpdatedTs); err != nil {
		return errors.Wrap(err, "failed to persist difficulty multiplier")
	}

	for _, update := range commit.WorkoutUpdates {
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
		if len(set) == 0 {
			continue
		}
		args = append(args, update.ID)
		if _, err := tx.ExecContext(ctx, `UPDATE workout SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...); err != nil {
			return errors.Wrapf(err, "failed to update workout %d in analysis commit", update.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit analysis")
	}
	return nil
}
