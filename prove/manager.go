// Package prove implements the wxPoW v0 proving engine: a master goroutine
// that drives RandomX dataset initialization and then a cohort of hashing
// workers, publishing progress through lock-free atomics and terminal
// results through a mutex-guarded snapshot. This mirrors the hsm_monitor.go
// two-tier visibility idiom (atomic.Int32 state plus a parallel sync.Mutex
// for slow-path fields), generalized to a worker pool instead of a ticker.
package prove

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"wxpow.dev/engine/b64counter"
	"wxpow.dev/engine/randomx"
	"wxpow.dev/engine/wxpow0"
)

// Manager orchestrates one proving request end to end. Construct it with
// New; it starts its master goroutine immediately and returns without
// blocking. Call Wait to block until the master (and all workers) have
// exited, mirroring the destructor-joins-master-joins-workers lifecycle the
// source models with RAII.
type Manager struct {
	content       wxpow0.ProofContent
	initCores     []int
	hashCores     []int
	useLargePages bool
	diffTarget    *uint
	timeLimit     *time.Duration
	logger        *slog.Logger

	state     atomic.Int32
	running   atomic.Bool
	cancelled atomic.Bool

	mu     sync.Mutex
	cond   *sync.Cond
	master MasterState

	bestDiff []atomic.Uint32
	hashes   []atomic.Uint64

	done chan struct{}
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithDiffTarget sets the difficulty at which any worker reaching it stops
// the whole run.
func WithDiffTarget(target uint) Option {
	return func(m *Manager) { m.diffTarget = &target }
}

// WithTimeLimit bounds the hashing phase to d, after which the run stops as
// though cancelled by a deadline (distinct from external cancellation).
func WithTimeLimit(d time.Duration) Option {
	return func(m *Manager) { m.timeLimit = &d }
}

// WithLogger overrides the default slog logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New constructs a Manager and starts its master task. initCores names the
// OS cores the dataset-init threads are pinned to. len(hashCores) (or 1, if
// empty) determines the hashing worker count N; the hashing workers are not
// pinned to the cores hashCores names.
func New(content wxpow0.ProofContent, initCores, hashCores []int, useLargePages bool, opts ...Option) *Manager {
	m := &Manager{
		content:       content,
		initCores:     initCores,
		hashCores:     hashCores,
		useLargePages: useLargePages,
		logger:        slog.Default(),
		done:          make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	m.running.Store(true)
	m.state.Store(int32(RxIniting))
	for _, opt := range opts {
		opt(m)
	}

	go m.runMaster()
	return m
}

// State returns the current lifecycle state (lock-free).
func (m *Manager) State() State {
	return State(m.state.Load())
}

// IsCancelled reports whether external cancellation was requested.
func (m *Manager) IsCancelled() bool {
	return m.cancelled.Load()
}

// Cancel requests termination. Idempotent; safe to call from any goroutine
// at any time, including before the master has finished initializing.
func (m *Manager) Cancel() {
	m.cancelled.Store(true)
	m.running.Store(false)
	m.mu.Lock()
	m.cond.Broadcast()
	m.mu.Unlock()
}

// MasterSnapshot returns a coherent, mutex-serialized copy of the master's
// guarded state. Safe to call concurrently with the master and workers.
func (m *Manager) MasterSnapshot() MasterState {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.master
	snap.Warnings = append([]string(nil), m.master.Warnings...)
	snap.BestResults = append([]HashResult(nil), m.master.BestResults...)
	return snap
}

// ThreadSnapshot returns an unlocked, best-effort read of every worker's
// current progress. Never contends with workers publishing new values.
func (m *Manager) ThreadSnapshot() ThreadSnapshot {
	snap := ThreadSnapshot{
		BestDiff: make([]uint32, len(m.bestDiff)),
		Hashes:   make([]uint64, len(m.hashes)),
	}
	for i := range m.bestDiff {
		snap.BestDiff[i] = m.bestDiff[i].Load()
		snap.Hashes[i] = m.hashes[i].Load()
	}
	return snap
}

// Wait blocks until the master task (and, transitively, every worker it
// spawned) has exited.
func (m *Manager) Wait() {
	<-m.done
}

// Done returns a channel closed once the master task has exited, for
// select-based callers.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

func (m *Manager) runMaster() {
	defer close(m.done)

	metadata := wxpow0.EncodeMetadata(m.content)
	k := wxpow0.DeriveKey(metadata)

	rxMgr, err := randomx.NewProveManager(k, m.initCores, m.hashCores, m.useLargePages, m.IsCancelled)
	if err != nil {
		m.mu.Lock()
		m.master.ErrorStr = err.Error()
		m.master.MasterFinished = true
		m.mu.Unlock()
		m.state.Store(int32(RxFailed))
		m.logger.Error("prove: randomx init failed", "error", err)
		return
	}
	defer rxMgr.Close()

	if rxMgr.Cancelled() {
		m.mu.Lock()
		m.master.RxTime = rxMgr.InitElapsed()
		m.master.Warnings = append(m.master.Warnings, rxMgr.Warnings()...)
		m.master.MasterFinished = true
		m.mu.Unlock()
		m.state.Store(int32(RxCancelled))
		m.logger.Info("prove: rx init cancelled")
		return
	}

	vms := rxMgr.VMs()
	n := len(vms)

	m.bestDiff = make([]atomic.Uint32, n)
	m.hashes = make([]atomic.Uint64, n)

	m.mu.Lock()
	m.master.Warnings = append(m.master.Warnings, rxMgr.Warnings()...)
	m.master.RxTime = rxMgr.InitElapsed()
	m.master.HashStartTime = time.Now()
	m.master.BestResults = make([]HashResult, n)
	m.master.ThreadsRunning = uint(n)
	m.master.ThreadsActive = true
	m.mu.Unlock()
	m.state.Store(int32(Hashing))
	m.logger.Info("prove: hashing started", "workers", n)

	var wg sync.WaitGroup
	for t := 0; t < n; t++ {
		wg.Add(1)
		go func(t int, vm *randomx.VM) {
			defer wg.Done()
			m.runWorker(t, vm, metadata)
		}(t, vms[t])
	}

	var deadlineTimer *time.Timer
	if m.timeLimit != nil {
		deadlineTimer = time.AfterFunc(*m.timeLimit, func() {
			m.running.Store(false)
			m.mu.Lock()
			m.cond.Broadcast()
			m.mu.Unlock()
		})
	}

	m.mu.Lock()
	for m.running.Load() && m.master.ThreadsRunning > 0 {
		m.cond.Wait()
	}
	m.mu.Unlock()

	if deadlineTimer != nil {
		deadlineTimer.Stop()
	}

	wasCancelled := m.IsCancelled()

	wg.Wait()

	m.mu.Lock()
	m.master.HashStopTime = time.Now()
	m.master.MasterFinished = true
	m.mu.Unlock()

	if wasCancelled {
		m.state.Store(int32(HashCancelled))
		m.logger.Info("prove: hashing cancelled")
	} else {
		m.state.Store(int32(Finished))
		m.logger.Info("prove: hashing finished")
	}
}

func (m *Manager) runWorker(t int, vm *randomx.VM, metadata string) {
	var best HashResult
	var localHashes uint64

	threadSeed := b64counter.New(uint64(t)).String()
	ctrSeed := b64counter.New(0)

	prefix := m.content.Body + "|" + threadSeed + "|"
	metadataTail := "|" + metadata

	for {
		if localHashes&0xf == uint64(t&0xf) {
			m.hashes[t].Store(localHashes)
			if !m.running.Load() {
				break
			}
		}

		h := prefix + ctrSeed.String()
		hash := vm.CalculateHash([]byte(h))
		d := hash.LeadingZeroBits()

		if d > best.Diff {
			best = HashResult{Proof: h + metadataTail, Hash: hash, Diff: d}
			m.bestDiff[t].Store(uint32(d))
			if m.diffTarget != nil && d >= *m.diffTarget {
				m.running.Store(false)
				break
			}
		}

		ctrSeed.Incr()
		localHashes++
	}

	m.mu.Lock()
	m.master.BestResults[t] = best
	m.hashes[t].Store(localHashes)
	m.master.ThreadsRunning--
	m.cond.Broadcast()
	m.mu.Unlock()
}
