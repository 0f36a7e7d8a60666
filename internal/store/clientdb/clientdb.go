package clientdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// DB is the client's local SQLite database: it persists the session cookie
// between runs and keeps a history of actions performed through the CLI.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS session (
	  id INTEGER PRIMARY KEY CHECK (id=1),
	  cookie_name TEXT NOT NULL,
	  cookie_value TEXT NOT NULL,
	  saved_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS actions (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  ts INTEGER NOT NULL,
	  type TEXT NOT NULL,
	  target TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_actions_ts ON actions(ts);
	`)
	return err
}

// SaveSession upserts the single persisted session cookie.
func (d *DB) SaveSession(ctx context.Context, name, value string, now time.Time) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO session(id, cookie_name, cookie_value, saved_at) VALUES(1,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET cookie_name=excluded.cookie_name, cookie_value=excluded.cookie_value, saved_at=excluded.saved_at`,
		name, value, now.Unix())
	return err
}

// LoadSession returns the persisted session cookie, or ok=false when none
// has been saved.
func (d *DB) LoadSession(ctx context.Context) (name, value string, ok bool, err error) {
	row := d.sql.QueryRowContext(ctx, `SELECT cookie_name, cookie_value FROM session WHERE id=1`)
	if err := row.Scan(&name, &value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", false, nil
		}
		return "", "", false, err
	}
	return name, value, true, nil
}

// ClearSession drops the persisted cookie, e.g. after logout or a 401.
func (d *DB) ClearSession(ctx context.Context) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM session WHERE id=1`)
	return err
}

// Action is one recorded client action.
type Action struct {
	TS     time.Time
	Type   string
	Target string
}

// PutAction records an action the user performed (post, like, reply, ...).
func (d *DB) PutAction(ctx context.Context, ts time.Time, typ, target string) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO actions(ts, type, target) VALUES(?,?,?)`, ts.Unix(), typ, target)
	return err
}

// LoadActionsRange returns actions in [start, end), optionally filtered by type.
func (d *DB) LoadActionsRange(ctx context.Context, start, end time.Time, typ string) ([]Action, error) {
	var rows *sql.Rows
	var err error
	if typ == "" {
		rows, err = d.sql.QueryContext(ctx, `SELECT ts, type, COALESCE(target,'') FROM actions WHERE ts>=? AND ts<? ORDER BY ts`, start.Unix(), end.Unix())
	} else {
		rows, err = d.sql.QueryContext(ctx, `SELECT ts, type, COALESCE(target,'') FROM actions WHERE ts>=? AND ts<? AND type=? ORDER BY ts`, start.Unix(), end.Unix(), typ)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Action
	for rows.Next() {
		var ts int64
		var a Action
		if err := rows.Scan(&ts, &a.Type, &a.Target); err != nil {
			return nil, err
		}
		a.TS = time.Unix(ts, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountActionsWithin counts actions of a type in [start, end).
func (d *DB) CountActionsWithin(ctx context.Context, start, end time.Time, typ string) (int, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE ts>=? AND ts<? AND type=?`, start.Unix(), end.Unix(), typ)
	var n int
	err := row.Scan(&n)
	return n, err
}
