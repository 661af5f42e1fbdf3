// Package verify implements the wxPoW v0 single-shot verifier: reparse a
// candidate proof, reconstruct its metadata, re-derive the RandomX key, and
// report the leading-zero-bit difficulty of one hash.
package verify

import (
	"wxpow.dev/engine/randomx"
	"wxpow.dev/engine/wxpow0"
)

// Result is what a successful verification produces.
type Result struct {
	Proof string
	Hash  [32]byte
	Diff  uint
}

// Verify reparses proof, re-derives K, and computes one RandomX hash over
// the body alone (not the full prover concatenation — see the note below). res is nil if allocation failed but the proof still parsed;
// versionRecognized is false only when the magic sequence did not split
// cleanly.
//
// Note on the body-only hash: the original wxPoWer implementation that this
// protocol derives from hashes content.body alone in its verifier, not the
// full body|threadSeed|ctr the prover hashed — the thread/counter seeds
// recorded in a proof document what the prover tried, they are not inputs
// to the verifier's own hash. This is reproduced here exactly; it is not a
// bug to "fix".
func Verify(proof string, useLargePages bool) (res *Result, prettyMeta string, versionRecognized bool, err error) {
	content, ok := wxpow0.Split(proof)
	if !ok {
		return nil, "", false, nil
	}
	versionRecognized = true

	prettyMeta = wxpow0.PrettyMetadata(content)

	metadata := wxpow0.EncodeMetadata(content)
	k := wxpow0.DeriveKey(metadata)

	rxMgr, rxErr := randomx.NewVerifyManager(k, useLargePages)
	if rxErr != nil {
		return nil, prettyMeta, true, rxErr
	}
	defer rxMgr.Close()

	vm := rxMgr.VMs()[0]
	hash := vm.CalculateHash([]byte(content.Body))
	diff := hash.LeadingZeroBits()

	return &Result{
		Proof: content.Body + "|" + metadata,
		Hash:  hash,
		Diff:  diff,
	}, prettyMeta, true, nil
}
