package scoring_test

import (
	"errors"
	"testing"

	"github.com/classtrack/journal/internal/scoring"
)

func validSettings() scoring.PeriodSettings {
	return scoring.DefaultSettings(scoring.PeriodFirst)
}

func TestValidate_DefaultSettings(t *testing.T) {
	if err := validSettings().Validate(); err != nil {
		t.Fatalf("default settings should validate: %v", err)
	}
}

func TestValidate_WeightSumViolations(t *testing.T) {
	cases := []struct {
		name    string
		weights map[string]scoring.Component
		wantSum float64
	}{
		{
			name: "under 100",
			weights: map[string]scoring.Component{
				scoring.ComponentLabs:       {Enabled: true, Weight: 60},
				scoring.ComponentAttendance: {Enabled: true, Weight: 30},
			},
			wantSum: 90,
		},
		{
			name: "over 100",
			weights: map[string]scoring.Component{
				scoring.ComponentLabs:       {Enabled: true, Weight: 60},
				scoring.ComponentAttendance: {Enabled: true, Weight: 30},
				scoring.ComponentActivity:   {Enabled: true, Weight: 30},
			},
			wantSum: 120,
		},
		{
			name: "disabled component not counted",
			weights: map[string]scoring.Component{
				scoring.ComponentLabs:       {Enabled: true, Weight: 60},
				scoring.ComponentAttendance: {Enabled: false, Weight: 20},
				scoring.ComponentActivity:   {Enabled: true, Weight: 20},
			},
			wantSum: 80,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSettings()
			s.Components = tc.weights
			err := s.Validate()
			var cfgErr *scoring.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Sum != tc.wantSum {
				t.Fatalf("expected reported sum %.2f, got %.2f", tc.wantSum, cfgErr.Sum)
			}
		})
	}
}

func TestValidate_WeightSumTolerance(t *testing.T) {
	s := validSettings()
	s.Components = map[string]scoring.Component{
		scoring.ComponentLabs:       {Enabled: true, Weight: 59.995},
		scoring.ComponentAttendance: {Enabled: true, Weight: 20},
		scoring.ComponentActivity:   {Enabled: true, Weight: 20},
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("sum within ±0.01 of 100 should pass: %v", err)
	}
}

func TestValidate_CoefficientTable(t *testing.T) {
	cases := []struct {
		name  string
		table map[int]float64
	}{
		{"missing grade", map[int]float64{2: 0, 3: 0.5, 5: 1}},
		{"not monotonic", map[int]float64{2: 0, 3: 0.8, 4: 0.5, 5: 1}},
		{"min not zero", map[int]float64{2: 0.1, 3: 0.5, 4: 0.75, 5: 1}},
		{"max not one", map[int]float64{2: 0, 3: 0.5, 4: 0.75, 5: 0.9}},
		{"out of range", map[int]float64{2: 0, 3: 0.5, 4: 1.5, 5: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSettings()
			s.GradeCoefficients = tc.table
			if err := s.Validate(); err == nil {
				t.Fatalf("expected validation error for table %v", tc.table)
			}
		})
	}
}

func TestMaxPoints(t *testing.T) {
	s := validSettings()
	if got := s.MaxPoints(60); got != 60 {
		t.Fatalf("60%% of a 100 scale should be 60 points, got %.2f", got)
	}
	s.GradeScale = 10
	if got := s.MaxPoints(50); got != 5 {
		t.Fatalf("50%% of a 10 scale should be 5 points, got %.2f", got)
	}
}

func TestComponentMax_DisabledIsZero(t *testing.T) {
	s := validSettings()
	c := s.Components[scoring.ComponentActivity]
	c.Enabled = false
	s.Components[scoring.ComponentActivity] = c
	if got := s.ComponentMax(scoring.ComponentActivity); got != 0 {
		t.Fatalf("disabled component max should be 0, got %.2f", got)
	}
	if got := s.ComponentMax("unknown"); got != 0 {
		t.Fatalf("unknown component max should be 0, got %.2f", got)
	}
}

func TestGradeCoefficient_ClampsToScale(t *testing.T) {
	s := validSettings()
	if got := s.GradeCoefficient(1); got != 0 {
		t.Fatalf("below-scale grade should clamp to min coefficient, got %.2f", got)
	}
	if got := s.GradeCoefficient(9); got != 1 {
		t.Fatalf("above-scale grade should clamp to max coefficient, got %.2f", got)
	}
}
