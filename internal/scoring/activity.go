package scoring

import "math"

// ActivityResult carries the participation component score.
type ActivityResult struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Entries  int     `json:"entries"`
	Points   float64 `json:"points"` // raw sum before the cap
}

// ScoreActivity sums the awarded points of active participation records
// plus any transfer-snapshot total, capped at the component maximum.
func ScoreActivity(s PeriodSettings, points []float64, snapshotPoints float64) ActivityResult {
	res := ActivityResult{MaxScore: s.ComponentMax(ComponentActivity)}
	total := snapshotPoints
	for _, p := range points {
		total += p
	}
	res.Entries = len(points)
	res.Points = round2(total)
	if total < 0 {
		total = 0
	}
	res.Score = round2(math.Min(total, res.MaxScore))
	return res
}
