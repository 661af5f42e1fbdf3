package verify

import "testing"

func TestVerifyUnparsableProof(t *testing.T) {
	res, _, versionRecognized, err := Verify("no magic sequence here", false)
	if versionRecognized {
		t.Fatal("expected versionRecognized=false for an unparsable proof")
	}
	if res != nil || err != nil {
		t.Fatalf("expected nil result and nil error, got res=%v err=%v", res, err)
	}
}

func TestVerifyParsesBeforeHashing(t *testing.T) {
	// Without a real RandomX backend, construction fails after parsing
	// succeeds; this still exercises the parse/pretty-metadata path.
	_, pretty, versionRecognized, err := Verify("Hello world!|wxPoW0|qwerty|uiop", false)
	if !versionRecognized {
		t.Fatal("expected versionRecognized=true: the proof parses cleanly")
	}
	if err == nil {
		t.Skip("a real RandomX backend is linked; full hash path exercised instead")
	}
	if pretty == "" {
		t.Fatal("expected non-empty pretty metadata even on a later rx error")
	}
}

func TestNewVerifierUnknownVersion(t *testing.T) {
	if _, err := NewVerifier(1); err == nil {
		t.Fatal("expected an error for an unrecognized version")
	}
}

func TestNewVerifierV0(t *testing.T) {
	v, err := NewVerifier(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil {
		t.Fatal("expected a non-nil verifier")
	}
}
