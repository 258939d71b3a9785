package journal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/classtrack/journal/internal/scoring"
)

// Auditor receives before/after snapshots of settings edits. nil pointers
// mark creation (no prior value).
type Auditor interface {
	RecordSettingsChange(ctx context.Context, actor, period string, before, after *scoring.PeriodSettings) error
}

// Service glues storage to the scoring engine. It gathers the record sets
// the engine needs, always under a single settings snapshot per call.
type Service struct {
	store Store
	audit Auditor
}

func NewService(store Store, audit Auditor) *Service {
	return &Service{store: store, audit: audit}
}

// StudentBreakdown computes the composite score of one student in one group
// for one attestation period, transfer history included.
func (s *Service) StudentBreakdown(ctx context.Context, studentID, groupID, period string) (scoring.Breakdown, error) {
	settings, err := s.store.GetSettings(ctx, period)
	if err != nil {
		return scoring.Breakdown{}, err
	}

	att, err := s.store.ListAttendance(ctx, studentID, groupID, period)
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("attendance: %w", err)
	}
	grades, err := s.store.ListLabGrades(ctx, studentID, groupID, period)
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("lab grades: %w", err)
	}
	acts, err := s.store.ListActivity(ctx, studentID, groupID, period)
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("activity: %w", err)
	}
	snaps, err := s.store.ListSnapshots(ctx, studentID, groupID, period)
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("snapshots: %w", err)
	}

	inputs := scoring.Inputs{
		Attendance:     TallyAttendance(att),
		Labs:           LabEntries(grades),
		ActivityPoints: ActivePoints(acts),
	}
	for _, sn := range snaps {
		inputs.Snapshots = append(inputs.Snapshots, sn.Input())
	}
	return scoring.Aggregate(settings, inputs)
}

// SubmitLabGrade validates a grade against the deadline cap and persists
// it. A missing settings record for the period lifts the cap: absence of
// policy cannot retroactively invalidate grades.
func (s *Service) SubmitLabGrade(ctx context.Context, g LabGrade, dc DeadlineContext) (LabGrade, error) {
	settings, err := s.store.GetSettings(ctx, g.Period)
	switch {
	case err == nil:
		checked := g.GradedAt
		if checked.IsZero() {
			checked = time.Now()
		}
		maxAllowed := settings.DeadlinePolicy().MaxGrade(dc.Deadline, checked, dc.Excused)
		if err := scoring.ValidateGrade(g.Grade, maxAllowed); err != nil {
			return LabGrade{}, err
		}
	case IsSettingsNotFound(err):
		log.Printf("journal: no settings for period %q, grading uncapped", g.Period)
	default:
		return LabGrade{}, err
	}
	return s.store.UpsertLabGrade(ctx, g)
}

// RecordAttendance upserts one attendance mark.
func (s *Service) RecordAttendance(ctx context.Context, rec AttendanceRecord) error {
	return s.store.UpsertAttendance(ctx, rec)
}

// AwardActivity creates one participation award; batch creation is a loop
// over this at the API layer.
func (s *Service) AwardActivity(ctx context.Context, rec ActivityRecord) (ActivityRecord, error) {
	return s.store.AddActivity(ctx, rec)
}

// RevokeActivity logically deletes a participation award.
func (s *Service) RevokeActivity(ctx context.Context, id string) error {
	return s.store.DeactivateActivity(ctx, id)
}

// RecordTransfer captures the student's live contributions in the source
// group as an immutable snapshot and persists it. From then on the
// destination group's computations merge the snapshot on top of whatever
// the student earns there, so nothing is lost or double-counted.
func (s *Service) RecordTransfer(ctx context.Context, studentID, period string, fromGroup, fromSubgroup, toGroup, toSubgroup string, movedAt time.Time) (TransferSnapshot, error) {
	att, err := s.store.ListAttendance(ctx, studentID, fromGroup, period)
	if err != nil {
		return TransferSnapshot{}, fmt.Errorf("attendance: %w", err)
	}
	grades, err := s.store.ListLabGrades(ctx, studentID, fromGroup, period)
	if err != nil {
		return TransferSnapshot{}, fmt.Errorf("lab grades: %w", err)
	}
	acts, err := s.store.ListActivity(ctx, studentID, fromGroup, period)
	if err != nil {
		return TransferSnapshot{}, fmt.Errorf("activity: %w", err)
	}

	// Earlier transfers into the source group travel along, otherwise their
	// contribution would be stranded there.
	prior, err := s.store.ListSnapshots(ctx, studentID, fromGroup, period)
	if err != nil {
		return TransferSnapshot{}, fmt.Errorf("snapshots: %w", err)
	}

	var activityTotal float64
	for _, p := range ActivePoints(acts) {
		activityTotal += p
	}
	snap := TransferSnapshot{
		StudentID:      studentID,
		Period:         period,
		FromGroup:      fromGroup,
		FromSubgroup:   fromSubgroup,
		ToGroup:        toGroup,
		ToSubgroup:     toSubgroup,
		MovedAt:        movedAt,
		Tally:          TallyAttendance(att),
		Labs:           LabEntries(grades),
		ActivityPoints: activityTotal,
	}
	for _, p := range prior {
		snap.Tally = snap.Tally.Add(p.Tally)
		snap.Labs = append(snap.Labs, p.Labs...)
		snap.ActivityPoints += p.ActivityPoints
	}
	return s.store.PutSnapshot(ctx, snap)
}

// UpdateSettings validates and persists a settings edit, emitting an audit
// record of the prior and new values. The edit path never deletes settings,
// it only supersedes them.
func (s *Service) UpdateSettings(ctx context.Context, next scoring.PeriodSettings, actor string) error {
	if err := next.Validate(); err != nil {
		return err
	}
	var before *scoring.PeriodSettings
	if prev, err := s.store.GetSettings(ctx, next.Period); err == nil {
		before = &prev
	} else if !IsSettingsNotFound(err) {
		return err
	}
	if err := s.store.PutSettings(ctx, next); err != nil {
		return err
	}
	if s.audit != nil {
		if err := s.audit.RecordSettingsChange(ctx, actor, next.Period, before, &next); err != nil {
			return fmt.Errorf("settings saved but audit failed: %w", err)
		}
	}
	return nil
}

// Settings returns the stored configuration for a period.
func (s *Service) Settings(ctx context.Context, period string) (scoring.PeriodSettings, error) {
	return s.store.GetSettings(ctx, period)
}
