package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:journal.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/journal?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS period_settings (
  period TEXT PRIMARY KEY,
  data TEXT NOT NULL,            -- JSON PeriodSettings
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
  student_id TEXT NOT NULL,
  group_id TEXT NOT NULL,
  period TEXT NOT NULL,
  day TEXT NOT NULL,             -- YYYY-MM-DD
  lesson_id TEXT NOT NULL DEFAULT '',
  subgroup TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  PRIMARY KEY (student_id, day, lesson_id)
);

CREATE TABLE IF NOT EXISTS lab_grades (
  student_id TEXT NOT NULL,
  group_id TEXT NOT NULL,
  period TEXT NOT NULL,
  work_number INTEGER NOT NULL,
  grade INTEGER NOT NULL,
  lesson_id TEXT NOT NULL DEFAULT '',
  comment TEXT NOT NULL DEFAULT '',
  graded_by TEXT NOT NULL DEFAULT '',
  graded_at INTEGER NOT NULL,
  PRIMARY KEY (period, student_id, work_number)
);

CREATE TABLE IF NOT EXISTS activity (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  group_id TEXT NOT NULL,
  period TEXT NOT NULL,
  points REAL NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transfer_snapshots (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  period TEXT NOT NULL,
  from_group TEXT NOT NULL,
  from_subgroup TEXT NOT NULL DEFAULT '',
  to_group TEXT NOT NULL,
  to_subgroup TEXT NOT NULL DEFAULT '',
  moved_at INTEGER NOT NULL,
  tally_json TEXT NOT NULL,
  labs_json TEXT NOT NULL,
  activity_points REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS settings_audit (
  "offset" INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  actor TEXT NOT NULL,
  period TEXT NOT NULL,
  before_json TEXT NOT NULL DEFAULT '',
  after_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS period_settings (
  period TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
  student_id TEXT NOT NULL,
  group_id TEXT NOT NULL,
  period TEXT NOT NULL,
  day TEXT NOT NULL,
  lesson_id TEXT NOT NULL DEFAULT '',
  subgroup TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  PRIMARY KEY (student_id, day, lesson_id)
);

CREATE TABLE IF NOT EXISTS lab_grades (
  student_id TEXT NOT NULL,
  group_id TEXT NOT NULL,
  period TEXT NOT NULL,
  work_number INTEGER NOT NULL,
  grade INTEGER NOT NULL,
  lesson_id TEXT NOT NULL DEFAULT '',
  comment TEXT NOT NULL DEFAULT '',
  graded_by TEXT NOT NULL DEFAULT '',
  graded_at BIGINT NOT NULL,
  PRIMARY KEY (period, student_id, work_number)
);

CREATE TABLE IF NOT EXISTS activity (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  group_id TEXT NOT NULL,
  period TEXT NOT NULL,
  points DOUBLE PRECISION NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS transfer_snapshots (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  period TEXT NOT NULL,
  from_group TEXT NOT NULL,
  from_subgroup TEXT NOT NULL DEFAULT '',
  to_group TEXT NOT NULL,
  to_subgroup TEXT NOT NULL DEFAULT '',
  moved_at BIGINT NOT NULL,
  tally_json TEXT NOT NULL,
  labs_json TEXT NOT NULL,
  activity_points DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS settings_audit (
  "offset" BIGSERIAL PRIMARY KEY,
  actor TEXT NOT NULL,
  period TEXT NOT NULL,
  before_json TEXT NOT NULL DEFAULT '',
  after_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL
);
`
