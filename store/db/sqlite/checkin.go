package sqlite

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/fitflow/store"
)

// CreateCheckIn inserts a check-in row.
func (d *DB) CreateCheckIn(ctx context.Context, create *store.CheckIn) (*store.CheckIn, error) {
	stmt := `
		INSERT INTO checkin (uid, user_id, raw_text, created_ts, payload)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.UserID,
		create.RawText,
		create.CreatedTs,
		create.Payload,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create check-in")
	}
	return create, nil
}

// ListCheckIns lists check-ins matching the find conditions, newest first.
func (d *DB) ListCheckIns(ctx context.Context, find *store.FindCheckIn) ([]*store.CheckIn, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.CreatedAfter != nil {
		where, args = append(where, "created_ts >= ?"), append(args, *find.CreatedAfter)
	}

	query := `SELECT id, uid, user_id, raw_text, created_ts, payload FROM checkin
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list check-ins")
	}
	defer rows.Close()

	list := []*store.CheckIn{}
	for rows.Next() {
		var checkIn store.CheckIn
		if err := rows.Scan(
			&checkIn.ID,
			&checkIn.UID,
			&checkIn.UserID,
			&checkIn.RawText,
			&checkIn.CreatedTs,
			&checkIn.Payload,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan check-in")
		}
		list = append(list, &checkIn)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate check-ins")
	}
	return list, nil
}

// CreateBusyInterval inserts a busy interval row. The calendar sync job is
// the only writer; the engine just reads.
func (d *DB) CreateBusyInterval(ctx context.Context, create *store.BusyInterval) (*store.BusyInterval, error) {
	stmt := `
		INSERT INTO busy_interval (user_id, start_ts, end_ts, summary)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UserID,
		create.StartTs,
		create.EndTs,
		create.Summary,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create busy interval")
	}
	return create, nil
}

// ListBusyIntervals lists busy intervals overlapping the half-open find
// range, ordered by start time.
func (d *DB) ListBusyIntervals(ctx context.Context, find *store.FindBusyInterval) ([]*store.BusyInterval, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}
	if find.EndTs != nil {
		where, args = append(where, "start_ts < ?"), append(args, *find.EndTs)
	}
	if find.StartTs != nil {
		where, args = append(where, "end_ts > ?"), append(args, *find.StartTs)
	}

	query := `SELECT id, user_id, start_ts, end_ts, summary FROM busy_interval
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY start_ts ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list busy intervals")
	}
	defer rows.Close()

	list := []*store.BusyInterval{}
	for rows.Next() {
		var busy store.BusyInterval
		if err := rows.Scan(&busy.ID, &busy.UserID, &busy.StartTs, &busy.EndTs, &busy.Summary); err != nil {
			return nil, errors.Wrap(err, "failed to scan busy interval")
		}
		list = append(list, &busy)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate busy intervals")
	}
	return list, nil
}
