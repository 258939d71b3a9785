package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/classtrack/journal/internal/scoring"
)

// Event is one appended settings-audit row.
type Event struct {
	Offset     int64
	Actor      string
	Period     string
	BeforeJSON string // empty on first creation
	AfterJSON  string
	CreatedAt  int64
}

// Recorder appends settings edits to the settings_audit table. The log is
// append-only; rows are never updated or deleted.
type Recorder struct{ db *sql.DB }

func NewRecorder(db *sql.DB) *Recorder { return &Recorder{db: db} }

func (r *Recorder) Append(ctx context.Context, e Event) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings_audit (actor, period, before_json, after_json, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.Actor, e.Period, e.BeforeJSON, e.AfterJSON, e.CreatedAt)
	return err
}

// RecordSettingsChange satisfies journal.Auditor: it serializes the prior
// and new settings and appends them as one event.
func (r *Recorder) RecordSettingsChange(ctx context.Context, actor, period string, before, after *scoring.PeriodSettings) error {
	e := Event{Actor: actor, Period: period}
	if before != nil {
		raw, err := json.Marshal(before)
		if err != nil {
			return err
		}
		e.BeforeJSON = string(raw)
	}
	if after != nil {
		raw, err := json.Marshal(after)
		if err != nil {
			return err
		}
		e.AfterJSON = string(raw)
	}
	return r.Append(ctx, e)
}
