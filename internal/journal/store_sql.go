package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/journal/internal/scoring"
)

// SQLStore persists journal records through database/sql. It speaks both
// sqlite and postgres; the schema lives in internal/db.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

const dayFormat = "2006-01-02"

func (s *SQLStore) GetSettings(ctx context.Context, period string) (scoring.PeriodSettings, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM period_settings WHERE period=$1`, period).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scoring.PeriodSettings{}, fmt.Errorf("period %q: %w", period, ErrSettingsNotFound)
		}
		return scoring.PeriodSettings{}, err
	}
	var out scoring.PeriodSettings
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return scoring.PeriodSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

func (s *SQLStore) PutSettings(ctx context.Context, set scoring.PeriodSettings) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO period_settings (period,data,updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (period) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		set.Period, string(raw), time.Now().Unix())
	return err
}

func (s *SQLStore) UpsertAttendance(ctx context.Context, rec AttendanceRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO attendance (student_id,group_id,period,day,lesson_id,subgroup,status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (student_id,day,lesson_id) DO UPDATE SET
			group_id=EXCLUDED.group_id, period=EXCLUDED.period, subgroup=EXCLUDED.subgroup, status=EXCLUDED.status`,
		rec.StudentID, rec.GroupID, rec.Period, rec.Date.Format(dayFormat), rec.LessonID, rec.Subgroup, string(rec.Status))
	return err
}

func (s *SQLStore) ListAttendance(ctx context.Context, studentID, groupID, period string) ([]AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT student_id,group_id,period,day,lesson_id,subgroup,status
		FROM attendance WHERE student_id=$1 AND group_id=$2 AND period=$3`, studentID, groupID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AttendanceRecord
	for rows.Next() {
		var r AttendanceRecord
		var day, status string
		if err := rows.Scan(&r.StudentID, &r.GroupID, &r.Period, &day, &r.LessonID, &r.Subgroup, &status); err != nil {
			return nil, err
		}
		if r.Date, err = time.Parse(dayFormat, day); err != nil {
			return nil, fmt.Errorf("attendance day %q: %w", day, err)
		}
		r.Status = scoring.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertLabGrade(ctx context.Context, g LabGrade) (LabGrade, error) {
	if g.GradedAt.IsZero() {
		g.GradedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO lab_grades (student_id,group_id,period,work_number,grade,lesson_id,comment,graded_by,graded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (period,student_id,work_number) DO UPDATE SET
			group_id=EXCLUDED.group_id, grade=EXCLUDED.grade, lesson_id=EXCLUDED.lesson_id,
			comment=EXCLUDED.comment, graded_by=EXCLUDED.graded_by, graded_at=EXCLUDED.graded_at`,
		g.StudentID, g.GroupID, g.Period, g.WorkNumber, g.Grade, g.LessonID, g.Comment, g.GradedBy, g.GradedAt.Unix())
	return g, err
}

func (s *SQLStore) ListLabGrades(ctx context.Context, studentID, groupID, period string) ([]LabGrade, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT student_id,group_id,period,work_number,grade,lesson_id,comment,graded_by,graded_at
		FROM lab_grades WHERE student_id=$1 AND group_id=$2 AND period=$3 ORDER BY work_number`, studentID, groupID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LabGrade
	for rows.Next() {
		var g LabGrade
		var gradedAt int64
		if err := rows.Scan(&g.StudentID, &g.GroupID, &g.Period, &g.WorkNumber, &g.Grade, &g.LessonID, &g.Comment, &g.GradedBy, &gradedAt); err != nil {
			return nil, err
		}
		g.GradedAt = time.Unix(gradedAt, 0)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddActivity(ctx context.Context, rec ActivityRecord) (ActivityRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.Active = true
	_, err := s.db.ExecContext(ctx, `INSERT INTO activity (id,student_id,group_id,period,points,description,active,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.StudentID, rec.GroupID, rec.Period, rec.Points, rec.Description, true, rec.CreatedAt.Unix())
	return rec, err
}

func (s *SQLStore) DeactivateActivity(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE activity SET active=$1 WHERE id=$2`, false, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("activity %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) ListActivity(ctx context.Context, studentID, groupID, period string) ([]ActivityRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,student_id,group_id,period,points,description,active,created_at
		FROM activity WHERE student_id=$1 AND group_id=$2 AND period=$3`, studentID, groupID, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ActivityRecord
	for rows.Next() {
		var r ActivityRecord
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.StudentID, &r.GroupID, &r.Period, &r.Points, &r.Description, &r.Active, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutSnapshot(ctx context.Context, snap TransferSnapshot) (TransferSnapshot, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	tallyJSON, err := json.Marshal(snap.Tally)
	if err != nil {
		return TransferSnapshot{}, err
	}
	labsJSON, err := json.Marshal(snap.Labs)
	if err != nil {
		return TransferSnapshot{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO transfer_snapshots
		(id,student_id,period,from_group,from_subgroup,to_group,to_subgroup,moved_at,tally_json,labs_json,activity_points)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		snap.ID, snap.StudentID, snap.Period, snap.FromGroup, snap.FromSubgroup,
		snap.ToGroup, snap.ToSubgroup, snap.MovedAt.Unix(), string(tallyJSON), string(labsJSON), snap.ActivityPoints)
	return snap, err
}

func (s *SQLStore) ListSnapshots(ctx context.Context, studentID, toGroup, period string) ([]TransferSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,student_id,period,from_group,from_subgroup,to_group,to_subgroup,moved_at,tally_json,labs_json,activity_points
		FROM transfer_snapshots WHERE student_id=$1 AND to_group=$2 AND period=$3 ORDER BY moved_at`, studentID, toGroup, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransferSnapshot
	for rows.Next() {
		var sn TransferSnapshot
		var movedAt int64
		var tallyJSON, labsJSON string
		if err := rows.Scan(&sn.ID, &sn.StudentID, &sn.Period, &sn.FromGroup, &sn.FromSubgroup,
			&sn.ToGroup, &sn.ToSubgroup, &movedAt, &tallyJSON, &labsJSON, &sn.ActivityPoints); err != nil {
			return nil, err
		}
		sn.MovedAt = time.Unix(movedAt, 0)
		if err := json.Unmarshal([]byte(tallyJSON), &sn.Tally); err != nil {
			return nil, fmt.Errorf("decode snapshot tally: %w", err)
		}
		if labsJSON != "" {
			if err := json.Unmarshal([]byte(labsJSON), &sn.Labs); err != nil {
				return nil, fmt.Errorf("decode snapshot labs: %w", err)
			}
		}
		out = append(out, sn)
	}
	return out, rows.Err()
}
