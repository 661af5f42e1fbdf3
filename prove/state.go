package prove

import "time"

// State is the prove manager's lifecycle state, exposed verbatim to callers.
type State int32

const (
	RxIniting State = iota
	RxFailed
	RxCancelled
	Hashing
	HashCancelled
	Finished
)

func (s State) String() string {
	switch s {
	case RxIniting:
		return "RxIniting"
	case RxFailed:
		return "RxFailed"
	case RxCancelled:
		return "RxCancelled"
	case Hashing:
		return "Hashing"
	case HashCancelled:
		return "HashCancelled"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s is one of the states after which the master
// task no longer mutates MasterState.
func (s State) IsTerminal() bool {
	switch s {
	case RxFailed, RxCancelled, HashCancelled, Finished:
		return true
	default:
		return false
	}
}

// HashResult is a single candidate a worker produced: the full assembled
// proof string, its RandomX hash, and that hash's leading-zero-bit count.
type HashResult struct {
	Proof string
	Hash  [32]byte
	Diff  uint
}

// MasterState is the mutex-guarded snapshot of the master task's progress.
// Fields are only meaningful in combination with these invariants:
// ThreadsActive implies RxTime is set; HashStopTime implies HashStartTime is
// set.
type MasterState struct {
	ThreadsRunning uint
	ThreadsActive  bool
	MasterFinished bool
	ErrorStr       string
	Warnings       []string
	RxTime         time.Duration
	HashStartTime  time.Time
	HashStopTime   time.Time
	BestResults    []HashResult
}

// ThreadSnapshot is an unlocked, best-effort read of each worker's current
// progress. Readers tolerate staleness: two snapshots s1 before s2 always
// satisfy s2.BestDiff[t] >= s1.BestDiff[t] and s2.Hashes[t] >= s1.Hashes[t].
type ThreadSnapshot struct {
	BestDiff []uint32
	Hashes   []uint64
}
