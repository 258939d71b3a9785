package journal

import (
	"time"

	"github.com/classtrack/journal/internal/scoring"
)

// AttendanceRecord is one attendance mark. Records are upserted on the
// (student, date, lesson slot) key; soft deletion is a storage concern and
// never required for scoring.
type AttendanceRecord struct {
	StudentID string         `json:"student_id"`
	GroupID   string         `json:"group_id"`
	Period    string         `json:"period"`
	Date      time.Time      `json:"date"`
	LessonID  string         `json:"lesson_id,omitempty"`
	Subgroup  string         `json:"subgroup,omitempty"`
	Status    scoring.Status `json:"status"`
}

// LabGrade is one graded work on the small ordinal scale. Upserted on the
// (period, student, work number) key.
type LabGrade struct {
	StudentID  string    `json:"student_id"`
	GroupID    string    `json:"group_id"`
	Period     string    `json:"period"`
	WorkNumber int       `json:"work_number"`
	Grade      int       `json:"grade"`
	LessonID   string    `json:"lesson_id,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	GradedBy   string    `json:"graded_by,omitempty"`
	GradedAt   time.Time `json:"graded_at"`
}

// DeadlineContext carries the assignment deadline at grading time. It is
// ephemeral: validated, never persisted with the grade.
type DeadlineContext struct {
	Deadline *time.Time
	Excused  bool
}

// ActivityRecord is a participation award. Deletion is logical: flipping
// Active off removes it from every future computation, everything else is
// immutable once created.
type ActivityRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	GroupID     string    `json:"group_id"`
	Period      string    `json:"period"`
	Points      float64   `json:"points"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransferSnapshot captures a student's scoring history at the moment of a
// group transfer. Created exactly once per transfer event, immutable, and
// merged into every later computation for the destination group and period.
type TransferSnapshot struct {
	ID             string                  `json:"id"`
	StudentID      string                  `json:"student_id"`
	Period         string                  `json:"period"`
	FromGroup      string                  `json:"from_group"`
	FromSubgroup   string                  `json:"from_subgroup,omitempty"`
	ToGroup        string                  `json:"to_group"`
	ToSubgroup     string                  `json:"to_subgroup,omitempty"`
	MovedAt        time.Time               `json:"moved_at"`
	Tally          scoring.AttendanceTally `json:"tally"`
	Labs           []scoring.LabEntry      `json:"labs,omitempty"`
	ActivityPoints float64                 `json:"activity_points"`
}

// Input converts the snapshot into the calculators' additive input shape.
func (s TransferSnapshot) Input() scoring.SnapshotInput {
	return scoring.SnapshotInput{
		Tally:          s.Tally,
		Labs:           s.Labs,
		ActivityPoints: s.ActivityPoints,
	}
}

// TallyAttendance reduces live records to the tally shape the calculator
// shares with transfer snapshots.
func TallyAttendance(recs []AttendanceRecord) scoring.AttendanceTally {
	var t scoring.AttendanceTally
	for _, r := range recs {
		t.Total++
		switch r.Status {
		case scoring.StatusPresent:
			t.Present++
		case scoring.StatusLate:
			t.Late++
		case scoring.StatusExcused:
			t.Excused++
		case scoring.StatusAbsent:
			t.Absent++
		}
	}
	return t
}

// LabEntries reduces live grades to calculator entries.
func LabEntries(grades []LabGrade) []scoring.LabEntry {
	out := make([]scoring.LabEntry, 0, len(grades))
	for _, g := range grades {
		out = append(out, scoring.LabEntry{
			WorkNumber: g.WorkNumber,
			Grade:      g.Grade,
			LessonID:   g.LessonID,
		})
	}
	return out
}

// ActivePoints extracts the point values of active participation records.
func ActivePoints(recs []ActivityRecord) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		if r.Active {
			out = append(out, r.Points)
		}
	}
	return out
}
