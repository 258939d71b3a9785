package scoring

// AttendanceTally is the per-status count of attendance records. Live
// records and transfer snapshots reduce to the same shape, so one score
// path covers both.
type AttendanceTally struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
	Absent  int `json:"absent"`
}

// Add merges two tallies. Snapshot and live records cover disjoint time
// windows, so the merge is purely additive.
func (t AttendanceTally) Add(o AttendanceTally) AttendanceTally {
	return AttendanceTally{
		Total:   t.Total + o.Total,
		Present: t.Present + o.Present,
		Late:    t.Late + o.Late,
		Excused: t.Excused + o.Excused,
		Absent:  t.Absent + o.Absent,
	}
}

// Counted is the ratio denominator. Excused absences are excluded: for this
// student the lesson behaves as if it never happened.
func (t AttendanceTally) Counted() int {
	return t.Present + t.Late + t.Absent
}

// AttendanceResult carries everything reporting needs to show its work.
type AttendanceResult struct {
	Score    float64         `json:"score"`
	MaxScore float64         `json:"max_score"`
	Ratio    float64         `json:"ratio"`
	Tally    AttendanceTally `json:"tally"`
}

// ScoreAttendance converts a tally into the attendance component score.
// A student with no counted lessons scores zero rather than undefined.
// Invariant: 0 <= Score <= MaxScore.
func ScoreAttendance(s PeriodSettings, tally AttendanceTally) AttendanceResult {
	res := AttendanceResult{
		MaxScore: s.ComponentMax(ComponentAttendance),
		Tally:    tally,
	}
	counted := tally.Counted()
	if counted == 0 {
		return res
	}
	effective := float64(tally.Present) + float64(tally.Late)*s.LateCoefficient
	ratio := effective / float64(counted)
	res.Ratio = round4(ratio)
	res.Score = round2(ratio * res.MaxScore)
	return res
}
