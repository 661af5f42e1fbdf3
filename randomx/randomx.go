// Package randomx owns the RandomX cache/dataset/VM lifecycle behind a cgo
// binding to libRandomX, treating the native library as an opaque primitive
// exposing dataset/cache/VM lifecycle and a hash function.
//
// Two build configurations exist, selected by the cgo build tag:
// manager_cgo.go links against a real libRandomX build carrying
// the protocol's RandomX configuration overrides; manager_stub.go satisfies
// the same API with a clean "not available" error for toolchains without a
// C compiler or the native library installed.
package randomx

import (
	"fmt"
	"time"
	"unsafe"
)

// Protocol-mandated RandomX configuration (wxPoW v0, §6). Any conforming
// implementation must build libRandomX with these exact overrides or proofs
// will not interoperate. All other RandomX parameters are the library
// defaults for version 1.2.1.
const (
	ArgonIterations  = 2
	ArgonSalt        = "wxPoWer\x03"
	CacheAccesses    = 10
	DatasetExtraSize = 33554304
	ProgramSize      = 192
)

// Mode selects whether a Manager is built for proving (full dataset, N VMs)
// or verifying (cache-only, one VM).
type Mode int

const (
	ModeProve Mode = iota
	ModeVerify
)

// AllocError reports a RandomX cache or dataset allocation failure. It is
// the typed-failure analogue of RxManager::Exception in the source this
// protocol derives from.
type AllocError struct {
	Code ErrorCode
	Msg  string
}

func (e *AllocError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

type ErrorCode string

const (
	ErrAllocCache     ErrorCode = "RX_ERR_ALLOC_CACHE"
	ErrAllocDataset   ErrorCode = "RX_ERR_ALLOC_DATASET"
	ErrConfigMismatch ErrorCode = "RX_ERR_CONFIG_MISMATCH"
)

func allocErr(code ErrorCode, largePages bool, detail string) error {
	msg := detail
	if largePages {
		msg += " (large pages were requested — verify hugepage availability with `cat /proc/meminfo | grep Huge`)"
	}
	return &AllocError{Code: code, Msg: msg}
}

// AffinityWarning records a best-effort thread-pinning failure: these never
// abort initialization, only get recorded for the caller to inspect.
type AffinityWarning struct {
	Thread int
	Core   int
}

func (w AffinityWarning) String() string {
	return fmt.Sprintf("failed to pin thread %d to core %d", w.Thread, w.Core)
}

// Manager owns a RandomX cache/dataset/VM set for either proving or
// verifying. In prove mode only the dataset is held at destruction (the
// cache is released once the dataset is built); in verify mode only the
// cache is held.
type Manager struct {
	mode        Mode
	vms         []*VM
	warnings    []string
	affinity    []AffinityWarning
	initElapsed time.Duration
	cancelled   bool

	// cacheHandle/datasetHandle hold the underlying C handles (as
	// unsafe.Pointer so this file stays buildable without cgo); the cgo
	// build casts them back to randomx_cache*/randomx_dataset* on use.
	cacheHandle   unsafe.Pointer
	datasetHandle unsafe.Pointer
}

// VMs returns the worker VMs. In verify mode this always has length 1.
func (m *Manager) VMs() []*VM {
	return m.vms
}

// InitElapsed reports how long cache/dataset initialization took.
func (m *Manager) InitElapsed() time.Duration {
	return m.initElapsed
}

// Warnings returns non-fatal diagnostics collected during construction
// (e.g. affinity-pin failures, a cancelled dataset init).
func (m *Manager) Warnings() []string {
	return append([]string(nil), m.warnings...)
}

// AffinityWarnings returns the structured (thread, core) pairs behind any
// affinity-pin failure, for callers that want to act on them programmatically
// rather than parse Warnings().
func (m *Manager) AffinityWarnings() []AffinityWarning {
	return append([]AffinityWarning(nil), m.affinity...)
}

// Cancelled reports whether dataset initialization observed cancellation
// before VM creation (prove mode only; verify mode is never cancellable).
func (m *Manager) Cancelled() bool {
	return m.cancelled
}
