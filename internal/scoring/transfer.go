package scoring

// SnapshotInput is the scoring history captured by one group transfer:
// attendance tallies, the list of graded works and the participation point
// total, all earned before the transfer. Snapshots are immutable and scoped
// to one destination group and period, so they are merged at most once per
// computation.
type SnapshotInput struct {
	Tally          AttendanceTally `json:"tally"`
	Labs           []LabEntry      `json:"labs,omitempty"`
	ActivityPoints float64         `json:"activity_points"`
}

// MergeSnapshots folds all of a student's snapshots for the period into one
// additive input set: tallies sum, grade lists concatenate, activity points
// add. Entries come out tagged as snapshot-origin for the item breakdown.
// A student who transferred twice within a period ends up with the same
// totals they would have earned without ever transferring.
func MergeSnapshots(snaps []SnapshotInput) SnapshotInput {
	var out SnapshotInput
	for _, sn := range snaps {
		out.Tally = out.Tally.Add(sn.Tally)
		for _, e := range sn.Labs {
			e.FromSnapshot = true
			out.Labs = append(out.Labs, e)
		}
		out.ActivityPoints += sn.ActivityPoints
	}
	return out
}

// CombineLabs joins live grades with merged snapshot entries. A work
// re-marked after a transfer appears in both lists under the same work
// number; the live grade supersedes the snapshot copy so no work is ever
// scored twice.
func CombineLabs(live, snapshot []LabEntry) []LabEntry {
	out := append([]LabEntry(nil), live...)
	seen := make(map[int]bool, len(live))
	for _, e := range live {
		seen[e.WorkNumber] = true
	}
	for _, e := range snapshot {
		if seen[e.WorkNumber] {
			continue
		}
		out = append(out, e)
	}
	return out
}
