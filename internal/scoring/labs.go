package scoring

import (
	"math"
	"sort"
)

// LabEntry is one graded work, either live or replayed from a transfer
// snapshot.
type LabEntry struct {
	WorkNumber   int    `json:"work_number"`
	Grade        int    `json:"grade"`
	LessonID     string `json:"lesson_id,omitempty"`
	FromSnapshot bool   `json:"from_snapshot,omitempty"`
}

// LabItem is the per-work line of the component breakdown.
type LabItem struct {
	WorkNumber   int     `json:"work_number"`
	Grade        int     `json:"grade"`
	Points       float64 `json:"points"`
	Extra        bool    `json:"extra,omitempty"`
	NeedsRework  bool    `json:"needs_rework,omitempty"`
	FromSnapshot bool    `json:"from_snapshot,omitempty"`
}

// LabsResult carries the lab component score with its full item breakdown.
type LabsResult struct {
	Score       float64   `json:"score"`
	MaxScore    float64   `json:"max_score"`
	Submitted   int       `json:"submitted"`
	NeedsRework int       `json:"needs_rework"`
	Items       []LabItem `json:"items,omitempty"`
}

// ScoreLabs applies the auto-balancing allocation: the component maximum is
// split evenly across the required work count, independent of how many
// works the student actually submitted. Works beyond the required count
// earn the bonus share of an item's value, so volume alone cannot max the
// component. Invariant: Score <= MaxScore.
func ScoreLabs(s PeriodSettings, entries []LabEntry) LabsResult {
	res := LabsResult{MaxScore: s.ComponentMax(ComponentLabs)}
	if s.RequiredLabs <= 0 || len(entries) == 0 {
		return res
	}
	pointsPerItem := res.MaxScore / float64(s.RequiredLabs)

	ordered := append([]LabEntry(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].WorkNumber < ordered[j].WorkNumber })

	var total float64
	for i, e := range ordered {
		coef := s.GradeCoefficient(e.Grade)
		points := pointsPerItem * coef
		extra := i >= s.RequiredLabs
		if extra {
			points *= s.BonusPerExtra
		}
		rework := e.Grade <= s.LabScaleMin
		if rework {
			res.NeedsRework++
		}
		total += points
		res.Items = append(res.Items, LabItem{
			WorkNumber:   e.WorkNumber,
			Grade:        e.Grade,
			Points:       round2(points),
			Extra:        extra,
			NeedsRework:  rework,
			FromSnapshot: e.FromSnapshot,
		})
	}
	res.Submitted = len(ordered)
	res.Score = round2(math.Min(total, res.MaxScore))
	return res
}
