package store

import (
	"context"

	"github.com/pkg/errors"
)

// latestSchema is the full schema for a fresh database. The deployment model
// is a single on-device sqlite file, so the migrator only needs to bootstrap
// an empty database; schema upgrades ship as additive statements below.
const latestSchema = `
CREATE TABLE IF NOT EXISTS workout (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	focus TEXT NOT NULL DEFAULT '',
	difficulty INTEGER NOT NULL DEFAULT 1,
	duration_sec INTEGER NOT NULL DEFAULT 0,
	scheduled_ts BIGINT NOT NULL,
	completed_ts BIGINT,
	completed INTEGER NOT NULL DEFAULT 0,
	assigned INTEGER NOT NULL DEFAULT 0,
	exercises TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_workout_user_scheduled ON workout (user_id, scheduled_ts);

CREATE TABLE IF NOT EXISTS behavior_snapshot (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE,
	analyzed_ts BIGINT NOT NULL,
	payload TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS user_setting (
	user_id INTEGER PRIMARY KEY,
	difficulty_multiplier REAL NOT NULL DEFAULT 1.0,
	updated_ts BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS checkin (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL,
	raw_text TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL,
	payload TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_checkin_user_created ON checkin (user_id, created_ts);

CREATE TABLE IF NOT EXISTS busy_interval (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	start_ts BIGINT NOT NULL,
	end_ts BIGINT NOT NULL,
	summary TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_busy_interval_user_start ON busy_interval (user_id, start_ts);
`

// Migrate bootstraps the schema. Statements are idempotent, so running it on
// every startup is safe.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.driver.GetDB()
	if _, err := db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
