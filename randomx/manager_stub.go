//go:build !cgo

package randomx

import (
	"errors"

	"wxpow.dev/engine/bigint256"
)

// VM is the no-cgo stand-in; its CalculateHash is never reached because
// NewProveManager/NewVerifyManager always fail first.
type VM struct{}

// CalculateHash panics: there is no VM to compute with in a non-cgo build.
func (v *VM) CalculateHash(data []byte) bigint256.Bigint256 {
	panic("randomx: CalculateHash called on a !cgo stub VM")
}

var errNoCGO = errors.New("randomx: built without cgo — RandomX requires linking libRandomX via cgo")

// NewProveManager always fails in a !cgo build.
func NewProveManager(k [32]byte, initCores []int, hashCores []int, useLargePages bool, cancelled func() bool) (*Manager, error) {
	return nil, errNoCGO
}

// NewVerifyManager always fails in a !cgo build.
func NewVerifyManager(k [32]byte, useLargePages bool) (*Manager, error) {
	return nil, errNoCGO
}

// Close is a no-op on the stub Manager (it never holds live handles).
func (m *Manager) Close() error {
	return nil
}
