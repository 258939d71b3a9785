package scoring

import "time"

// DeadlinePolicy caps the grade assignable to a late submission. Two tiers:
// up to SoftDays past the deadline the soft cap applies, after that the hard
// cap. An excuse or a missing deadline lifts the cap entirely.
type DeadlinePolicy struct {
	TopGrade     int // scale maximum, returned when no cap applies
	SoftDays     int
	SoftMaxGrade int
	HardMaxGrade int
}

// DeadlinePolicy derives the lateness policy from the period settings.
func (s PeriodSettings) DeadlinePolicy() DeadlinePolicy {
	return DeadlinePolicy{
		TopGrade:     s.LabScaleMax,
		SoftDays:     s.SoftDeadlineDays,
		SoftMaxGrade: s.SoftDeadlineMaxGrade,
		HardMaxGrade: s.HardDeadlineMaxGrade,
	}
}

// Uncapped is the policy applied when no settings exist for the period:
// absence of policy cannot retroactively invalidate grades.
func Uncapped(topGrade int) DeadlinePolicy {
	return DeadlinePolicy{TopGrade: topGrade, SoftMaxGrade: topGrade, HardMaxGrade: topGrade}
}

// MaxGrade returns the highest grade assignable for an item with the given
// deadline, checked at checkDate. Deadlines are compared at date
// granularity: a deadline carrying a time of day counts as the whole day.
func (p DeadlinePolicy) MaxGrade(deadline *time.Time, checkDate time.Time, excused bool) int {
	if excused || deadline == nil {
		return p.TopGrade
	}
	due := dateOnly(*deadline)
	checked := dateOnly(checkDate)
	if !checked.After(due) {
		return p.TopGrade
	}
	daysLate := int(checked.Sub(due).Hours() / 24)
	if daysLate <= p.SoftDays {
		return p.SoftMaxGrade
	}
	return p.HardMaxGrade
}

// ValidateGrade fails when a proposed grade exceeds the allowed maximum.
// Callers must invoke it before persisting any late grade.
func ValidateGrade(grade, maxAllowed int) error {
	if grade > maxAllowed {
		return &GradeExceedsMaxError{Grade: grade, MaxAllowed: maxAllowed}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
