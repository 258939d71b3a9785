package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/classtrack/journal/internal/scoring"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrSettingsNotFound = errors.New("settings not found")
)

// IsSettingsNotFound reports whether err means no settings exist for the
// period, as opposed to a storage failure.
func IsSettingsNotFound(err error) bool { return errors.Is(err, ErrSettingsNotFound) }

// Store is the persistence boundary of the journal. Implementations must
// uphold the upsert keys documented on the record types; everything the
// scoring engine reads is a read-only input.
type Store interface {
	GetSettings(ctx context.Context, period string) (scoring.PeriodSettings, error)
	PutSettings(ctx context.Context, s scoring.PeriodSettings) error

	UpsertAttendance(ctx context.Context, rec AttendanceRecord) error
	ListAttendance(ctx context.Context, studentID, groupID, period string) ([]AttendanceRecord, error)

	UpsertLabGrade(ctx context.Context, g LabGrade) (LabGrade, error)
	ListLabGrades(ctx context.Context, studentID, groupID, period string) ([]LabGrade, error)

	AddActivity(ctx context.Context, rec ActivityRecord) (ActivityRecord, error)
	DeactivateActivity(ctx context.Context, id string) error
	ListActivity(ctx context.Context, studentID, groupID, period string) ([]ActivityRecord, error)

	PutSnapshot(ctx context.Context, snap TransferSnapshot) (TransferSnapshot, error)
	ListSnapshots(ctx context.Context, studentID, toGroup, period string) ([]TransferSnapshot, error)
}

type memoryStore struct {
	mu         sync.RWMutex
	settings   map[string]scoring.PeriodSettings
	attendance map[string]AttendanceRecord // key: student|day|lesson
	labGrades  map[string]LabGrade         // key: period|student|work
	activity   map[string]ActivityRecord
	snapshots  map[string]TransferSnapshot
}

// NewMemoryStore returns an in-memory Store for tests and offline use.
func NewMemoryStore() Store {
	return &memoryStore{
		settings:   map[string]scoring.PeriodSettings{},
		attendance: map[string]AttendanceRecord{},
		labGrades:  map[string]LabGrade{},
		activity:   map[string]ActivityRecord{},
		snapshots:  map[string]TransferSnapshot{},
	}
}

func attendanceKey(r AttendanceRecord) string {
	return fmt.Sprintf("%s|%s|%s", r.StudentID, r.Date.Format("2006-01-02"), r.LessonID)
}

func labKey(g LabGrade) string {
	return fmt.Sprintf("%s|%s|%d", g.Period, g.StudentID, g.WorkNumber)
}

func (m *memoryStore) GetSettings(_ context.Context, period string) (scoring.PeriodSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.settings[period]
	if !ok {
		return scoring.PeriodSettings{}, fmt.Errorf("period %q: %w", period, ErrSettingsNotFound)
	}
	return s, nil
}

func (m *memoryStore) PutSettings(_ context.Context, s scoring.PeriodSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.Period] = s
	return nil
}

func (m *memoryStore) UpsertAttendance(_ context.Context, rec AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance[attendanceKey(rec)] = rec
	return nil
}

func (m *memoryStore) ListAttendance(_ context.Context, studentID, groupID, period string) ([]AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []AttendanceRecord
	for _, r := range m.attendance {
		if r.StudentID == studentID && r.GroupID == groupID && r.Period == period {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryStore) UpsertLabGrade(_ context.Context, g LabGrade) (LabGrade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.GradedAt.IsZero() {
		g.GradedAt = time.Now()
	}
	m.labGrades[labKey(g)] = g
	return g, nil
}

func (m *memoryStore) ListLabGrades(_ context.Context, studentID, groupID, period string) ([]LabGrade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LabGrade
	for _, g := range m.labGrades {
		if g.StudentID == studentID && g.GroupID == groupID && g.Period == period {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memoryStore) AddActivity(_ context.Context, rec ActivityRecord) (ActivityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.Active = true
	m.activity[rec.ID] = rec
	return rec, nil
}

func (m *memoryStore) DeactivateActivity(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.activity[id]
	if !ok {
		return fmt.Errorf("activity %q: %w", id, ErrNotFound)
	}
	rec.Active = false
	m.activity[id] = rec
	return nil
}

func (m *memoryStore) ListActivity(_ context.Context, studentID, groupID, period string) ([]ActivityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ActivityRecord
	for _, r := range m.activity {
		if r.StudentID == studentID && r.GroupID == groupID && r.Period == period {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryStore) PutSnapshot(_ context.Context, snap TransferSnapshot) (TransferSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	m.snapshots[snap.ID] = snap
	return snap, nil
}

func (m *memoryStore) ListSnapshots(_ context.Context, studentID, toGroup, period string) ([]TransferSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []TransferSnapshot
	for _, s := range m.snapshots {
		if s.StudentID == studentID && s.ToGroup == toGroup && s.Period == period {
			out = append(out, s)
		}
	}
	return out, nil
}
