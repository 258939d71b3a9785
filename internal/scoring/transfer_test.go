package scoring_test

import (
	"testing"

	"github.com/classtrack/journal/internal/scoring"
)

func TestMergeSnapshots_SumsAndConcatenates(t *testing.T) {
	snaps := []scoring.SnapshotInput{
		{
			Tally:          scoring.AttendanceTally{Total: 6, Present: 5, Absent: 1},
			Labs:           []scoring.LabEntry{{WorkNumber: 1, Grade: 5}},
			ActivityPoints: 4,
		},
		{
			Tally:          scoring.AttendanceTally{Total: 4, Present: 3, Late: 1},
			Labs:           []scoring.LabEntry{{WorkNumber: 2, Grade: 4}, {WorkNumber: 3, Grade: 5}},
			ActivityPoints: 2,
		},
	}
	m := scoring.MergeSnapshots(snaps)
	wantTally := scoring.AttendanceTally{Total: 10, Present: 8, Late: 1, Absent: 1}
	if m.Tally != wantTally {
		t.Fatalf("expected tally %+v, got %+v", wantTally, m.Tally)
	}
	if len(m.Labs) != 3 {
		t.Fatalf("expected 3 merged lab entries, got %d", len(m.Labs))
	}
	if m.ActivityPoints != 6 {
		t.Fatalf("expected 6 activity points, got %.2f", m.ActivityPoints)
	}
	for _, e := range m.Labs {
		if !e.FromSnapshot {
			t.Fatalf("merged entry must be tagged as snapshot-origin: %+v", e)
		}
	}
}

func TestMergeSnapshots_DoesNotMutateInput(t *testing.T) {
	labs := []scoring.LabEntry{{WorkNumber: 1, Grade: 5}}
	snaps := []scoring.SnapshotInput{{Labs: labs}}
	_ = scoring.MergeSnapshots(snaps)
	if labs[0].FromSnapshot {
		t.Fatalf("merge must not mutate the caller's entries")
	}
}

func TestMergeSnapshots_Empty(t *testing.T) {
	m := scoring.MergeSnapshots(nil)
	if m.Tally != (scoring.AttendanceTally{}) || len(m.Labs) != 0 || m.ActivityPoints != 0 {
		t.Fatalf("empty merge should be zero-valued, got %+v", m)
	}
}

// A student who transferred mid-period must end up with exactly the totals
// they would have had without the transfer.
func TestTransfer_EquivalentToNeverTransferring(t *testing.T) {
	s := validSettings()

	// Full history, as if recorded in one group.
	full := scoring.Inputs{
		Attendance: scoring.AttendanceTally{Total: 10, Present: 8, Late: 1, Absent: 1},
		Labs: []scoring.LabEntry{
			{WorkNumber: 1, Grade: 5},
			{WorkNumber: 2, Grade: 4},
			{WorkNumber: 3, Grade: 5},
		},
		ActivityPoints: []float64{2, 2},
	}

	// The same history split at a transfer: the first part captured in a
	// snapshot, the rest recorded live in the destination group.
	split := scoring.Inputs{
		Attendance:     scoring.AttendanceTally{Total: 4, Present: 3, Late: 1},
		Labs:           []scoring.LabEntry{{WorkNumber: 3, Grade: 5}},
		ActivityPoints: []float64{2},
		Snapshots: []scoring.SnapshotInput{{
			Tally:          scoring.AttendanceTally{Total: 6, Present: 5, Absent: 1},
			Labs:           []scoring.LabEntry{{WorkNumber: 1, Grade: 5}, {WorkNumber: 2, Grade: 4}},
			ActivityPoints: 2,
		}},
	}

	a, err := scoring.Aggregate(s, full)
	if err != nil {
		t.Fatalf("aggregate full: %v", err)
	}
	b, err := scoring.Aggregate(s, split)
	if err != nil {
		t.Fatalf("aggregate split: %v", err)
	}
	if a.Total != b.Total {
		t.Fatalf("transfer changed the total: %.2f vs %.2f", a.Total, b.Total)
	}
	for name, ca := range a.Components {
		if cb := b.Components[name]; ca.Score != cb.Score {
			t.Fatalf("component %q diverged: %.2f vs %.2f", name, ca.Score, cb.Score)
		}
	}
}

// A work graded before a transfer and re-marked afterwards lives in both
// the snapshot and the live list. It must score exactly once, at the
// re-marked grade.
func TestCombineLabs_ReMarkSupersedesSnapshotCopy(t *testing.T) {
	live := []scoring.LabEntry{{WorkNumber: 3, Grade: 3}}
	snapshot := []scoring.LabEntry{
		{WorkNumber: 1, Grade: 5, FromSnapshot: true},
		{WorkNumber: 2, Grade: 5, FromSnapshot: true},
		{WorkNumber: 3, Grade: 5, FromSnapshot: true},
	}
	combined := scoring.CombineLabs(live, snapshot)
	if len(combined) != 3 {
		t.Fatalf("expected 3 distinct works, got %d: %+v", len(combined), combined)
	}
	byWork := map[int]scoring.LabEntry{}
	for _, e := range combined {
		byWork[e.WorkNumber] = e
	}
	if got := byWork[3]; got.Grade != 3 || got.FromSnapshot {
		t.Fatalf("live re-mark must win over the snapshot copy: %+v", got)
	}
}

func TestAggregate_ReGradeAfterTransferNotDoubleCounted(t *testing.T) {
	s := validSettings()
	in := scoring.Inputs{
		// Work 3 re-marked in the destination group after the transfer.
		Labs: []scoring.LabEntry{{WorkNumber: 3, Grade: 3}},
		Snapshots: []scoring.SnapshotInput{{
			Labs: topGrades(5),
		}},
	}
	bd, err := scoring.Aggregate(s, in)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	labs, ok := bd.Components[scoring.ComponentLabs].Detail.(scoring.LabsResult)
	if !ok {
		t.Fatalf("expected LabsResult detail, got %T", bd.Components[scoring.ComponentLabs].Detail)
	}
	if labs.Submitted != 5 {
		t.Fatalf("5 works exist, got %d scored items", labs.Submitted)
	}
	// 4 works at full value (12 each) plus work 3 at coefficient 0.5.
	if labs.Score != 54.0 {
		t.Fatalf("expected 54.0, got %.2f", labs.Score)
	}
}

func TestTransfer_MultipleSnapshotsSamePeriod(t *testing.T) {
	s := validSettings()
	in := scoring.Inputs{
		Labs: []scoring.LabEntry{{WorkNumber: 5, Grade: 5}},
		Snapshots: []scoring.SnapshotInput{
			{Labs: []scoring.LabEntry{{WorkNumber: 1, Grade: 5}, {WorkNumber: 2, Grade: 5}}},
			{Labs: []scoring.LabEntry{{WorkNumber: 3, Grade: 5}, {WorkNumber: 4, Grade: 5}}},
		},
	}
	bd, err := scoring.Aggregate(s, in)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	labs := bd.Components[scoring.ComponentLabs]
	if labs.Score != 60.0 {
		t.Fatalf("5 works across two transfers should max the component, got %.2f", labs.Score)
	}
}
