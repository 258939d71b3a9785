package scoring_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/classtrack/journal/internal/scoring"
)

func TestAggregate_EndToEnd(t *testing.T) {
	// labs 60 / attendance 20 / activity 20, required 5 labs.
	s := validSettings()
	in := scoring.Inputs{
		Attendance:     scoring.AttendanceTally{Total: 10, Present: 8, Late: 1, Absent: 1},
		Labs:           topGrades(5),
		ActivityPoints: []float64{2, 2, 2},
	}
	bd, err := scoring.Aggregate(s, in)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if bd.TotalMax != 100 {
		t.Fatalf("enabled maxima must sum to the scale, got %.2f", bd.TotalMax)
	}
	if got := bd.Components[scoring.ComponentLabs].Score; got != 60.0 {
		t.Fatalf("labs: expected 60.0, got %.2f", got)
	}
	if got := bd.Components[scoring.ComponentAttendance].Score; got != 17.0 {
		t.Fatalf("attendance: expected 17.0, got %.2f", got)
	}
	if got := bd.Components[scoring.ComponentActivity].Score; got != 6.0 {
		t.Fatalf("activity: expected 6.0, got %.2f", got)
	}
	if bd.Total != 83.0 {
		t.Fatalf("expected total 83.0, got %.2f", bd.Total)
	}
}

func TestAggregate_InvalidSettingsRejectedFirst(t *testing.T) {
	s := validSettings()
	s.Components[scoring.ComponentLabs] = scoring.Component{Enabled: true, Weight: 70}
	_, err := scoring.Aggregate(s, scoring.Inputs{Labs: topGrades(5)})
	var cfgErr *scoring.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError before any calculator ran, got %v", err)
	}
}

func TestAggregate_DisabledComponentSkipped(t *testing.T) {
	s := validSettings()
	s.Components = map[string]scoring.Component{
		scoring.ComponentLabs:       {Enabled: true, Weight: 70},
		scoring.ComponentAttendance: {Enabled: true, Weight: 30},
		scoring.ComponentActivity:   {Enabled: false, Weight: 20},
	}
	bd, err := scoring.Aggregate(s, scoring.Inputs{ActivityPoints: []float64{5}})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if _, ok := bd.Components[scoring.ComponentActivity]; ok {
		t.Fatalf("disabled component must not appear in the breakdown")
	}
	if bd.TotalMax != 100 {
		t.Fatalf("expected total max 100, got %.2f", bd.TotalMax)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	s := validSettings()
	in := scoring.Inputs{
		Attendance:     scoring.AttendanceTally{Total: 6, Present: 5, Late: 1},
		Labs:           topGrades(3),
		ActivityPoints: []float64{2},
		Snapshots: []scoring.SnapshotInput{{
			Tally: scoring.AttendanceTally{Total: 2, Present: 2},
			Labs:  []scoring.LabEntry{{WorkNumber: 9, Grade: 4}},
		}},
	}
	a, err := scoring.Aggregate(s, in)
	if err != nil {
		t.Fatalf("first aggregate: %v", err)
	}
	b, err := scoring.Aggregate(s, in)
	if err != nil {
		t.Fatalf("second aggregate: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs must yield identical breakdowns:\n%+v\n%+v", a, b)
	}
}

func TestAggregate_TotalNeverExceedsMax(t *testing.T) {
	s := validSettings()
	in := scoring.Inputs{
		Attendance:     scoring.AttendanceTally{Total: 30, Present: 30},
		Labs:           topGrades(30),
		ActivityPoints: []float64{10, 10, 10, 10},
		Snapshots: []scoring.SnapshotInput{{
			Tally:          scoring.AttendanceTally{Total: 10, Present: 10},
			Labs:           topGrades(10),
			ActivityPoints: 50,
		}},
	}
	bd, err := scoring.Aggregate(s, in)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if bd.Total > bd.TotalMax {
		t.Fatalf("total %.2f exceeds max %.2f", bd.Total, bd.TotalMax)
	}
}

func TestAggregate_AuxComponent(t *testing.T) {
	s := validSettings()
	s.Components = map[string]scoring.Component{
		scoring.ComponentLabs:       {Enabled: true, Weight: 50},
		scoring.ComponentAttendance: {Enabled: true, Weight: 20},
		scoring.ComponentActivity:   {Enabled: true, Weight: 20},
		"colloquium":                {Enabled: true, Weight: 10},
	}

	// Without a registered calculator the component contributes its max but
	// no score.
	bd, err := scoring.Aggregate(s, scoring.Inputs{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	aux := bd.Components["colloquium"]
	if aux.Score != 0 || aux.MaxScore != 10 {
		t.Fatalf("unregistered aux component: expected 0/10, got %.2f/%.2f", aux.Score, aux.MaxScore)
	}

	scoring.RegisterAux("colloquium", func(s scoring.PeriodSettings, name string, in scoring.Inputs) scoring.ComponentScore {
		return scoring.ComponentScore{Score: 7.5, MaxScore: s.ComponentMax(name)}
	})
	bd, err = scoring.Aggregate(s, scoring.Inputs{})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got := bd.Components["colloquium"].Score; got != 7.5 {
		t.Fatalf("registered aux component: expected 7.5, got %.2f", got)
	}
	if bd.TotalMax != 100 {
		t.Fatalf("expected total max 100, got %.2f", bd.TotalMax)
	}
}

func TestRegisterAux_ConcurrentWithAggregate(t *testing.T) {
	s := validSettings()
	s.Components = map[string]scoring.Component{
		scoring.ComponentLabs:       {Enabled: true, Weight: 50},
		scoring.ComponentAttendance: {Enabled: true, Weight: 20},
		scoring.ComponentActivity:   {Enabled: true, Weight: 20},
		"defense":                   {Enabled: true, Weight: 10},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			scoring.RegisterAux("defense", func(s scoring.PeriodSettings, name string, in scoring.Inputs) scoring.ComponentScore {
				return scoring.ComponentScore{MaxScore: s.ComponentMax(name)}
			})
		}()
		go func() {
			defer wg.Done()
			if _, err := scoring.Aggregate(s, scoring.Inputs{}); err != nil {
				t.Errorf("aggregate: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestScoreActivity_CapAndFloor(t *testing.T) {
	s := validSettings()
	r := scoring.ScoreActivity(s, []float64{10, 10, 10}, 5)
	if r.Score != 20 {
		t.Fatalf("activity must cap at max 20, got %.2f", r.Score)
	}
	if r.Points != 35 {
		t.Fatalf("raw points should be reported uncapped, got %.2f", r.Points)
	}
	r = scoring.ScoreActivity(s, []float64{-3}, 0)
	if r.Score != 0 {
		t.Fatalf("score floors at zero, got %.2f", r.Score)
	}
}
