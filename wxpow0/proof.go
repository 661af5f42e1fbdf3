// Package wxpow0 implements the v0 wxPoW proof codec: the magic-sequence
// splitter that recovers (body, userId, context) from a candidate proof
// string, the canonical metadata renderer, and RandomX key derivation.
package wxpow0

import (
	"crypto/sha256"
	"strings"

	"wxpow.dev/engine/canon"
)

// MagicSequence anchors the split between a proof's body and its metadata
// tail. It is deliberately rare so bodies that themselves embed earlier
// occurrences still parse unambiguously via "last occurrence" anchoring.
const MagicSequence = "|wxPoW0|"

// Version is the only proof-format version this package implements.
const Version = 0

// ProofContent is the triple a proof string decodes to. UserID and Context
// are free-form text; '\' escapes the following byte and '|' is reserved as
// a delimiter in encoded form.
type ProofContent struct {
	Body    string
	UserID  string
	Context string
}

// Split canonicalizes proof and locates the last occurrence of
// MagicSequence, splitting it into a ProofContent. ok is false if the magic
// sequence is absent, sits at position 0 (empty body), or has nothing
// following it.
func Split(proof string) (content ProofContent, ok bool) {
	trimmed := canon.TrimBody(proof)

	pos := strings.LastIndex(trimmed, MagicSequence)
	if pos <= 0 {
		return ProofContent{}, false
	}

	idx := pos + len(MagicSequence)
	if idx >= len(trimmed) {
		return ProofContent{}, false
	}

	content.Body = trimmed[:pos]

	var userID, context strings.Builder
	justSawBackslash := false
	consuming := true
	for consuming && idx < len(trimmed) {
		c := trimmed[idx]
		switch {
		case c == '\\' && !justSawBackslash:
			justSawBackslash = true
		case c == '|' && !justSawBackslash:
			consuming = false
		default:
			userID.WriteByte(c)
			justSawBackslash = false
		}
		idx++
	}

	justSawBackslash = false
	for idx < len(trimmed) {
		c := trimmed[idx]
		if c == '\\' && !justSawBackslash {
			justSawBackslash = true
		} else {
			context.WriteByte(c)
			justSawBackslash = false
		}
		idx++
	}

	content.UserID = userID.String()
	content.Context = context.String()
	return content, true
}

// EncodeMetadata renders the canonical metadata string that is the SHA-256
// preimage for key derivation. userId and context are inserted verbatim —
// escaping is a parse-side concern only.
func EncodeMetadata(content ProofContent) string {
	var sb strings.Builder
	sb.WriteString("wxPoW0|")
	sb.WriteString(content.UserID)
	sb.WriteByte('|')
	sb.WriteString(content.Context)
	return sb.String()
}

// DeriveKey computes the 32-byte RandomX key K = SHA-256(metadata).
func DeriveKey(metadata string) [32]byte {
	return sha256.Sum256([]byte(metadata))
}

// PrettyMetadata renders a human-readable dump of a proof's content, used by
// the verifier to report what it parsed.
func PrettyMetadata(content ProofContent) string {
	var sb strings.Builder
	sb.WriteString("---- BEGIN BODY ----\n")
	sb.WriteString(content.Body)
	sb.WriteString("\n----END BODY----\n")
	sb.WriteString("\nUser ID: ")
	sb.WriteString(content.UserID)
	sb.WriteString("\nContext: ")
	sb.WriteString(content.Context)
	return sb.String()
}
