package prove

import (
	"testing"
	"time"

	"wxpow.dev/engine/wxpow0"
)

// TestCancelReachesTerminalState drives a Manager through RxIniting and
// immediately cancels it; since this build has no linked libRandomX, the
// master is expected to land in RxFailed (construction error) rather than
// hang, and MasterFinished must become true within a bounded wait either
// way. This exercises the destruction-safety contract (state terminal AND
// MasterFinished) without requiring a real RandomX backend.
func TestCancelReachesTerminalState(t *testing.T) {
	content := wxpow0.ProofContent{Body: "x", UserID: "u", Context: "c"}
	m := New(content, []int{0}, []int{0, 1}, false)
	m.Cancel()

	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not reach a terminal state in time")
	}

	if !m.State().IsTerminal() {
		t.Fatalf("state %v is not terminal", m.State())
	}
	snap := m.MasterSnapshot()
	if !snap.MasterFinished {
		t.Fatal("MasterFinished should be true once Done() closes")
	}
}

func TestCancelIdempotent(t *testing.T) {
	content := wxpow0.ProofContent{Body: "x", UserID: "u", Context: "c"}
	m := New(content, []int{0}, []int{0}, false)
	m.Cancel()
	m.Cancel()
	m.Cancel()

	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not reach a terminal state in time")
	}
	if !m.IsCancelled() {
		t.Fatal("IsCancelled should be true")
	}
}

func TestThreadSnapshotMonotonicityShape(t *testing.T) {
	// Without a real RandomX backend the hashing phase never starts, so
	// this only checks that a snapshot taken before workers spawn is
	// all-zero and safely sized — full monotonicity is exercised by
	// integration tests run against a real libRandomX build.
	content := wxpow0.ProofContent{Body: "x", UserID: "u", Context: "c"}
	m := New(content, []int{0}, []int{0}, false)
	snap := m.ThreadSnapshot()
	if len(snap.BestDiff) != 0 || len(snap.Hashes) != 0 {
		t.Fatalf("expected empty snapshot before rx init completes, got %+v", snap)
	}
	m.Cancel()
	<-m.Done()
}
