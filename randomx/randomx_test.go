package randomx

import "testing"

func TestAffinityWarningString(t *testing.T) {
	w := AffinityWarning{Thread: 2, Core: 5}
	want := "failed to pin thread 2 to core 5"
	if got := w.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAllocErrorMessageIncludesLargePagesHint(t *testing.T) {
	err := allocErr(ErrAllocDataset, true, "randomx_alloc_dataset returned null")
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	msg := err.Error()
	if !contains(msg, "large pages") {
		t.Fatalf("expected large-pages hint in %q", msg)
	}
}

func TestAllocErrorNoHintWithoutLargePages(t *testing.T) {
	err := allocErr(ErrAllocCache, false, "randomx_alloc_cache returned null")
	if contains(err.Error(), "large pages") {
		t.Fatalf("unexpected large-pages hint in %q", err.Error())
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
