package scoring_test

import (
	"errors"
	"testing"
	"time"

	"github.com/classtrack/journal/internal/scoring"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDeadlinePolicy_MaxGrade(t *testing.T) {
	pol := scoring.DeadlinePolicy{TopGrade: 5, SoftDays: 7, SoftMaxGrade: 4, HardMaxGrade: 3}
	due := day("2026-03-10")

	cases := []struct {
		name    string
		checked time.Time
		excused bool
		want    int
	}{
		{"before deadline", day("2026-03-01"), false, 5},
		{"exactly on deadline", day("2026-03-10"), false, 5},
		{"one day late", day("2026-03-11"), false, 4},
		{"last soft day", day("2026-03-17"), false, 4},
		{"past soft threshold", day("2026-03-18"), false, 3},
		{"months late", day("2026-06-01"), false, 3},
		{"excused overrides lateness", day("2026-06-01"), true, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pol.MaxGrade(&due, tc.checked, tc.excused); got != tc.want {
				t.Fatalf("expected max grade %d, got %d", tc.want, got)
			}
		})
	}
}

func TestDeadlinePolicy_NoDeadlineNoCap(t *testing.T) {
	pol := scoring.DeadlinePolicy{TopGrade: 5, SoftDays: 7, SoftMaxGrade: 4, HardMaxGrade: 3}
	if got := pol.MaxGrade(nil, day("2026-06-01"), false); got != 5 {
		t.Fatalf("no deadline should mean no cap, got %d", got)
	}
}

func TestDeadlinePolicy_TimeOfDayNormalized(t *testing.T) {
	pol := scoring.DeadlinePolicy{TopGrade: 5, SoftDays: 7, SoftMaxGrade: 4, HardMaxGrade: 3}
	// Deadline late in the evening, submission checked earlier the same day:
	// comparison happens at date granularity, so this is on time.
	due := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	checked := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if got := pol.MaxGrade(&due, checked, false); got != 5 {
		t.Fatalf("same-day submission should be on time, got %d", got)
	}
	// Next morning is one day late regardless of hours elapsed.
	checked = time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)
	if got := pol.MaxGrade(&due, checked, false); got != 4 {
		t.Fatalf("next-day submission should hit the soft cap, got %d", got)
	}
}

func TestUncappedPolicy(t *testing.T) {
	pol := scoring.Uncapped(5)
	due := day("2026-03-10")
	if got := pol.MaxGrade(&due, day("2026-09-01"), false); got != 5 {
		t.Fatalf("uncapped policy should always return the top grade, got %d", got)
	}
}

func TestValidateGrade(t *testing.T) {
	if err := scoring.ValidateGrade(4, 4); err != nil {
		t.Fatalf("grade at the cap should pass: %v", err)
	}
	err := scoring.ValidateGrade(5, 4)
	var gerr *scoring.GradeExceedsMaxError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GradeExceedsMaxError, got %v", err)
	}
	if gerr.Grade != 5 || gerr.MaxAllowed != 4 {
		t.Fatalf("unexpected error payload: %+v", gerr)
	}
}

func TestSettings_DeadlinePolicy(t *testing.T) {
	s := validSettings()
	pol := s.DeadlinePolicy()
	if pol.TopGrade != s.LabScaleMax || pol.SoftDays != s.SoftDeadlineDays {
		t.Fatalf("policy should mirror settings: %+v", pol)
	}
}
