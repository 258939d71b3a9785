package scoring

import (
	"log"
	"sync"
)

// Inputs is the full record set for one student and one period: live
// records plus any transfer snapshots. Aggregation never mutates it.
type Inputs struct {
	Attendance     AttendanceTally
	Labs           []LabEntry
	ActivityPoints []float64
	Snapshots      []SnapshotInput
}

// ComponentScore is one line of the composite breakdown. Detail carries the
// calculator-specific result so the breakdown is self-describing.
type ComponentScore struct {
	Score    float64     `json:"score"`
	MaxScore float64     `json:"max_score"`
	Detail   interface{} `json:"detail,omitempty"`
}

// Breakdown is the sole contract consumed by reporting layers.
type Breakdown struct {
	Period     string                    `json:"period"`
	Total      float64                   `json:"total_score"`
	TotalMax   float64                   `json:"total_max"`
	Components map[string]ComponentScore `json:"components"`
}

// AuxCalculator scores an auxiliary component the engine has no built-in
// calculator for.
type AuxCalculator func(s PeriodSettings, name string, in Inputs) ComponentScore

var (
	auxMu       sync.RWMutex
	auxRegistry = map[string]AuxCalculator{}
)

// RegisterAux binds a calculator to an auxiliary component name. Safe to
// call concurrently with Aggregate.
func RegisterAux(name string, fn AuxCalculator) {
	auxMu.Lock()
	defer auxMu.Unlock()
	auxRegistry[name] = fn
}

func lookupAux(name string) (AuxCalculator, bool) {
	auxMu.RLock()
	defer auxMu.RUnlock()
	fn, ok := auxRegistry[name]
	return fn, ok
}

const epsilon = 1e-6

// Aggregate computes the composite score for one student. It is a pure
// function of its arguments: identical inputs always produce identical
// output, so results are safe to cache and the call is safe to repeat or
// run concurrently for any number of students.
func Aggregate(s PeriodSettings, in Inputs) (Breakdown, error) {
	if err := s.Validate(); err != nil {
		return Breakdown{}, err
	}
	merged := MergeSnapshots(in.Snapshots)

	bd := Breakdown{Period: s.Period, Components: map[string]ComponentScore{}}
	for name, c := range s.Components {
		if !c.Enabled {
			continue
		}
		var cs ComponentScore
		switch name {
		case ComponentAttendance:
			r := ScoreAttendance(s, in.Attendance.Add(merged.Tally))
			cs = ComponentScore{Score: r.Score, MaxScore: r.MaxScore, Detail: r}
		case ComponentLabs:
			r := ScoreLabs(s, CombineLabs(in.Labs, merged.Labs))
			cs = ComponentScore{Score: r.Score, MaxScore: r.MaxScore, Detail: r}
		case ComponentActivity:
			r := ScoreActivity(s, in.ActivityPoints, merged.ActivityPoints)
			cs = ComponentScore{Score: r.Score, MaxScore: r.MaxScore, Detail: r}
		default:
			if fn, ok := lookupAux(name); ok {
				cs = fn(s, name, in)
			} else {
				cs = ComponentScore{MaxScore: s.MaxPoints(c.Weight), Detail: "no calculator registered"}
			}
		}
		bd.Components[name] = cs
		bd.Total += cs.Score
		bd.TotalMax += cs.MaxScore
	}
	bd.Total = round2(bd.Total)
	bd.TotalMax = round2(bd.TotalMax)

	// Each calculator already guarantees score <= max; a violation here is
	// an engine defect, not a user-facing error.
	if bd.Total > bd.TotalMax+epsilon {
		log.Printf("scoring: DEFECT: total %.4f exceeds max %.4f for period %q", bd.Total, bd.TotalMax, s.Period)
	}
	return bd, nil
}
