package scoring

import (
	"fmt"
	"math"
	"time"
)

// Built-in component names. Anything else in the weight table is an
// auxiliary component handled through the aux registry.
const (
	ComponentLabs       = "labs"
	ComponentAttendance = "attendance"
	ComponentActivity   = "activity"
)

// Attestation period tags. Settings are singletons per tag, not per group.
const (
	PeriodFirst  = "first"
	PeriodSecond = "second"
)

const weightTolerance = 0.01

// Status of a single attendance record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// Component is one weighted contributor to the composite score.
type Component struct {
	Enabled bool    `json:"enabled"`
	Weight  float64 `json:"weight"` // percent of the composite, 0..100
}

// PeriodSettings is the complete scoring configuration for one attestation
// period. Calculators take it as an immutable snapshot parameter and never
// reach into ambient state; callers must not mutate it while a computation
// is in flight.
type PeriodSettings struct {
	Period     string               `json:"period"`
	GradeScale int                  `json:"grade_scale"` // composite ceiling, e.g. 100
	Components map[string]Component `json:"components"`

	// Lab grading. Grades live on a small ordinal scale; the coefficient
	// table must cover every value of that scale.
	LabScaleMin       int             `json:"lab_scale_min"`
	LabScaleMax       int             `json:"lab_scale_max"`
	GradeCoefficients map[int]float64 `json:"grade_coefficients"` // ordinal grade -> [0,1]
	RequiredLabs      int             `json:"required_labs"`
	BonusPerExtra     float64         `json:"bonus_per_extra"` // share of item value earned by extras

	// Deadline policy.
	SoftDeadlineDays     int `json:"soft_deadline_days"`
	SoftDeadlineMaxGrade int `json:"soft_deadline_max_grade"`
	HardDeadlineMaxGrade int `json:"hard_deadline_max_grade"`

	// Attendance.
	LateCoefficient float64            `json:"late_coefficient"` // [0,1] partial credit for "late"
	StatusPoints    map[Status]float64 `json:"status_points"`    // absence points may be negative

	// Activity.
	ActivityPoints float64 `json:"activity_points"` // points per participation entry

	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
}

// MaxPoints converts a component weight into its point ceiling on the
// configured scale. This is the single source of truth for how many points
// a component can contribute.
func (s PeriodSettings) MaxPoints(weight float64) float64 {
	return float64(s.GradeScale) * weight / 100
}

// ComponentMax returns the point ceiling of a named component, or 0 when
// the component is absent or disabled.
func (s PeriodSettings) ComponentMax(name string) float64 {
	c, ok := s.Components[name]
	if !ok || !c.Enabled {
		return 0
	}
	return s.MaxPoints(c.Weight)
}

// GradeCoefficient maps an ordinal lab grade to its [0,1] value share.
// Out-of-scale grades clamp to the nearest scale bound.
func (s PeriodSettings) GradeCoefficient(grade int) float64 {
	if grade < s.LabScaleMin {
		grade = s.LabScaleMin
	}
	if grade > s.LabScaleMax {
		grade = s.LabScaleMax
	}
	return s.GradeCoefficients[grade]
}

// Validate checks every invariant the calculators rely on. It must pass
// before any component calculator runs.
func (s PeriodSettings) Validate() error {
	var sum float64
	for name, c := range s.Components {
		if c.Weight < 0 || math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
			return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("component %q has invalid weight %v", name, c.Weight)}
		}
		if c.Enabled {
			sum += c.Weight
		}
	}
	if math.Abs(sum-100) > weightTolerance {
		return &ConfigError{Period: s.Period, Sum: sum}
	}
	if s.GradeScale <= 0 {
		return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("grade scale must be positive, got %d", s.GradeScale)}
	}
	if s.LateCoefficient < 0 || s.LateCoefficient > 1 {
		return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("late coefficient %.2f outside [0,1]", s.LateCoefficient)}
	}
	if s.BonusPerExtra < 0 || math.IsNaN(s.BonusPerExtra) || math.IsInf(s.BonusPerExtra, 0) {
		return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("bonus per extra %v must be a finite non-negative value", s.BonusPerExtra)}
	}
	if s.ActivityPoints < 0 || math.IsNaN(s.ActivityPoints) || math.IsInf(s.ActivityPoints, 0) {
		return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("activity points %v must be a finite non-negative value", s.ActivityPoints)}
	}
	for st, pts := range s.StatusPoints {
		if math.IsNaN(pts) || math.IsInf(pts, 0) {
			return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("status %q has non-finite point value", st)}
		}
	}
	if c, ok := s.Components[ComponentLabs]; ok && c.Enabled {
		if s.RequiredLabs <= 0 {
			return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("required lab count must be positive, got %d", s.RequiredLabs)}
		}
		if err := s.validateCoefficients(); err != nil {
			return err
		}
	}
	return nil
}

// validateCoefficients requires a total, monotonic grade->coefficient table:
// every scale value present, minimum grade at 0, maximum grade at 1. A
// partial table that silently defaults unknown grades is a configuration
// defect, not a runtime fallback.
func (s PeriodSettings) validateCoefficients() error {
	if s.LabScaleMin >= s.LabScaleMax {
		return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("lab scale [%d,%d] is empty", s.LabScaleMin, s.LabScaleMax)}
	}
	prev := -1.0
	for g := s.LabScaleMin; g <= s.LabScaleMax; g++ {
		coef, ok := s.GradeCoefficients[g]
		if !ok {
			return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("no coefficient for grade %d", g)}
		}
		if coef < 0 || coef > 1 {
			return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("coefficient %.2f for grade %d outside [0,1]", coef, g)}
		}
		if coef < prev {
			return &ConfigError{Period: s.Period, Reason: fmt.Sprintf("coefficient table not monotonic at grade %d", g)}
		}
		prev = coef
	}
	if s.GradeCoefficients[s.LabScaleMin] != 0 {
		return &ConfigError{Period: s.Period, Reason: "minimum grade must map to coefficient 0"}
	}
	if s.GradeCoefficients[s.LabScaleMax] != 1 {
		return &ConfigError{Period: s.Period, Reason: "maximum grade must map to coefficient 1"}
	}
	return nil
}

// DefaultSettings returns the stock configuration for a period: a 100-point
// composite split 60/20/20 between labs, attendance and activity, with labs
// graded on the five-point ordinal scale 2..5.
func DefaultSettings(period string) PeriodSettings {
	return PeriodSettings{
		Period:     period,
		GradeScale: 100,
		Components: map[string]Component{
			ComponentLabs:       {Enabled: true, Weight: 60},
			ComponentAttendance: {Enabled: true, Weight: 20},
			ComponentActivity:   {Enabled: true, Weight: 20},
		},
		LabScaleMin: 2,
		LabScaleMax: 5,
		GradeCoefficients: map[int]float64{
			2: 0,
			3: 0.5,
			4: 0.75,
			5: 1,
		},
		RequiredLabs:         5,
		BonusPerExtra:        0.25,
		SoftDeadlineDays:     7,
		SoftDeadlineMaxGrade: 4,
		HardDeadlineMaxGrade: 3,
		LateCoefficient:      0.5,
		StatusPoints: map[Status]float64{
			StatusPresent: 1,
			StatusLate:    0.5,
			StatusExcused: 0,
			StatusAbsent:  -0.5,
		},
		ActivityPoints: 2,
	}
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
