//go:build cgo

package randomx

/*
#cgo LDFLAGS: -lrandomx -lstdc++
#include <randomx.h>
#include <configuration.h>
#include <stdlib.h>
#include <string.h>

// wxpower_rx_config_ok compares the libRandomX build this binary links
// against to the wxPoW v0 protocol's mandated configuration overrides. A
// mismatched build produces non-interoperable hashes, so this is checked
// once at package initialization rather than trusted silently.
static int wxpower_rx_config_ok(void) {
	return (RANDOMX_ARGON_ITERATIONS == 2) &&
	       (RANDOMX_CACHE_ACCESSES == 10) &&
	       (RANDOMX_DATASET_EXTRA_SIZE == 33554304) &&
	       (RANDOMX_PROGRAM_SIZE == 192) &&
	       (strcmp(RANDOMX_ARGON_SALT, "wxPoWer\x03") == 0);
}

static randomx_flags wxpower_rx_flags(int largePages) {
	randomx_flags flags = randomx_get_flags();
	flags |= RANDOMX_FLAG_FULL_MEM;
	if (largePages) {
		flags |= RANDOMX_FLAG_LARGE_PAGES;
	}
	return flags;
}

static randomx_flags wxpower_rx_flags_verify(int largePages) {
	randomx_flags flags = randomx_get_flags();
	if (largePages) {
		flags |= RANDOMX_FLAG_LARGE_PAGES;
	}
	return flags;
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
	"wxpow.dev/engine/bigint256"
)

// VM wraps a single randomx_vm bound either to a dataset (prove mode) or a
// cache alone (verify mode). Each VM is accessed by exactly one worker for
// its lifetime, so no internal locking is required.
type VM struct {
	vm *C.randomx_vm
	mu sync.Mutex // guards against accidental concurrent use from two goroutines
}

// CalculateHash computes RandomX(K, data) into a Bigint256.
func (v *VM) CalculateHash(data []byte) bigint256.Bigint256 {
	v.mu.Lock()
	defer v.mu.Unlock()

	var out bigint256.Bigint256
	if len(data) == 0 {
		C.randomx_calculate_hash(v.vm, unsafe.Pointer(nil), 0, unsafe.Pointer(&out[0]))
		return out
	}
	C.randomx_calculate_hash(v.vm, unsafe.Pointer(&data[0]), C.size_t(len(data)), unsafe.Pointer(&out[0]))
	return out
}

func init() {
	if C.wxpower_rx_config_ok() == 0 {
		panic(&AllocError{Code: ErrConfigMismatch, Msg: "linked libRandomX build does not carry the wxPoW v0 configuration overrides"})
	}
}

// NewProveManager allocates cache+dataset keyed by k, initializes the
// dataset across initCores in parallel (polling cancelled every 16 items
// per thread), and binds len(hashCores) VMs to the dataset.
func NewProveManager(k [32]byte, initCores []int, hashCores []int, useLargePages bool, cancelled func() bool) (*Manager, error) {
	start := time.Now()
	flags := C.wxpower_rx_flags(boolToC(useLargePages))

	cache := C.randomx_alloc_cache(flags)
	if cache == nil {
		return nil, allocErr(ErrAllocCache, useLargePages, "randomx_alloc_cache returned null")
	}
	C.randomx_init_cache(cache, unsafe.Pointer(&k[0]), C.size_t(len(k)))

	dataset := C.randomx_alloc_dataset(flags)
	if dataset == nil {
		C.randomx_release_cache(cache)
		return nil, allocErr(ErrAllocDataset, useLargePages, "randomx_alloc_dataset returned null")
	}

	itemCount := uint32(C.randomx_dataset_item_count())
	m := &Manager{mode: ModeProve}

	n := len(initCores)
	if n == 0 {
		n = 1
	}
	countPerThread := itemCount / uint32(n)

	var wg sync.WaitGroup
	var mu sync.Mutex
	for t := 0; t < n; t++ {
		startItem := uint32(t) * countPerThread
		count := countPerThread
		if t == n-1 {
			count = itemCount - countPerThread*uint32(n-1)
		}
		core := -1
		if t < len(initCores) {
			core = initCores[t]
		}

		wg.Add(1)
		go func(tid int, start, count uint32, core int) {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			if core >= 0 {
				if err := pinToCore(core); err != nil {
					mu.Lock()
					m.affinity = append(m.affinity, AffinityWarning{Thread: tid, Core: core})
					m.warnings = append(m.warnings, fmt.Sprintf("affinity: %v", err))
					mu.Unlock()
				}
			}

			for i := uint32(0); i < count; i++ {
				if (i&0xf) == uint32(tid&0xf) && cancelled != nil && cancelled() {
					return
				}
				C.randomx_init_dataset(dataset, cache, C.ulong(start+i), 1)
			}
		}(t, startItem, count, core)
	}
	wg.Wait()

	C.randomx_release_cache(cache)
	// dataset is now owned by m; Close releases it on every remaining exit path.
	m.datasetHandle = unsafe.Pointer(dataset)

	if cancelled != nil && cancelled() {
		m.warnings = append(m.warnings, "RX initialization was cancelled.")
		m.cancelled = true
		m.initElapsed = time.Since(start)
		return m, nil
	}

	hashCount := len(hashCores)
	if hashCount == 0 {
		hashCount = 1
	}
	for t := 0; t < hashCount; t++ {
		vmFlags := flags
		vm := C.randomx_create_vm(vmFlags, nil, dataset)
		if vm == nil {
			m.Close()
			return nil, allocErr(ErrAllocDataset, useLargePages, "randomx_create_vm returned null")
		}
		m.vms = append(m.vms, &VM{vm: vm})
	}
	m.initElapsed = time.Since(start)
	return m, nil
}

// NewVerifyManager allocates a cache-only manager with one VM.
func NewVerifyManager(k [32]byte, useLargePages bool) (*Manager, error) {
	start := time.Now()
	flags := C.wxpower_rx_flags_verify(boolToC(useLargePages))

	cache := C.randomx_alloc_cache(flags)
	if cache == nil {
		return nil, allocErr(ErrAllocCache, useLargePages, "randomx_alloc_cache returned null")
	}
	C.randomx_init_cache(cache, unsafe.Pointer(&k[0]), C.size_t(len(k)))

	vm := C.randomx_create_vm(flags, cache, nil)
	if vm == nil {
		C.randomx_release_cache(cache)
		return nil, allocErr(ErrAllocCache, useLargePages, "randomx_create_vm returned null")
	}

	m := &Manager{mode: ModeVerify}
	m.vms = []*VM{{vm: vm}}
	m.cacheHandle = unsafe.Pointer(cache)
	m.initElapsed = time.Since(start)
	return m, nil
}

// Close releases VMs, dataset (if any), and cache (if still held).
func (m *Manager) Close() error {
	for _, vm := range m.vms {
		if vm != nil && vm.vm != nil {
			C.randomx_destroy_vm(vm.vm)
			vm.vm = nil
		}
	}
	m.vms = nil
	if m.datasetHandle != nil {
		C.randomx_release_dataset((*C.randomx_dataset)(m.datasetHandle))
		m.datasetHandle = nil
	}
	if m.cacheHandle != nil {
		C.randomx_release_cache((*C.randomx_cache)(m.cacheHandle))
		m.cacheHandle = nil
	}
	return nil
}

func boolToC(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func pinToCore(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	return unix.SchedSetaffinity(0, &set)
}
