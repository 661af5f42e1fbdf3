package diary

import (
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndList(t *testing.T) {
	dir := t.TempDir()
	d, err := Open(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	target := uint(8)
	id, err := d.Append(RunRecord{
		StartedAt:  time.Now(),
		BodyLen:    1,
		InitCores:  []int{0},
		HashCores:  []int{0, 1},
		DiffTarget: &target,
		FinalState: "Finished",
		BestDiff:   9,
		Elapsed:    2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero sequential id")
	}

	records, err := d.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].BestDiff != 9 || records[0].FinalState != "Finished" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
