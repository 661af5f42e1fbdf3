// Package diary is an optional local run journal for the wxpow-cli tool: one
// record per completed prove run (target difficulty, cores used, final
// state, best diff, elapsed time). It never stores proof bodies or hashes —
// persistence of proofs is explicitly out of scope for this protocol: this
// is operator tooling for reviewing past runs, not a protocol component.
package diary

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketRuns = []byte("runs_by_id")

// RunRecord summarizes one completed prove invocation. It deliberately omits
// the body, userId, and context that went into the proof: persistence of
// proofs is out of scope for this protocol, and this journal is operator
// tooling for reviewing past runs, not a place to reconstruct one.
type RunRecord struct {
	ID          uint64
	StartedAt   time.Time
	BodyLen     int
	InitCores   []int
	HashCores   []int
	DiffTarget  *uint
	FinalState  string
	BestDiff    uint
	Elapsed     time.Duration
	Cancelled   bool
	ErrorString string
}

// Diary wraps a bbolt-backed append log of RunRecords keyed by an
// auto-incrementing id, the way node/store/db.go wraps bbolt for chain data.
type Diary struct {
	db *bolt.DB
}

// Open creates (if needed) and opens the journal database at path.
func Open(path string) (*Diary, error) {
	if path == "" {
		return nil, fmt.Errorf("diary: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("diary: mkdir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("diary: open bbolt: %w", err)
	}
	d := &Diary{db: db}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("diary: create bucket: %w", err)
	}
	return d, nil
}

// Close releases the underlying bbolt handle.
func (d *Diary) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Append records r, assigning it the next sequential id, and returns that id.
func (d *Diary) Append(r RunRecord) (uint64, error) {
	var id uint64
	err := d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		id = seq
		r.ID = id
		val, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("diary: encode record: %w", err)
		}
		return b.Put(idKey(id), val)
	})
	return id, err
}

// List returns every recorded run in ascending id order.
func (d *Diary) List() ([]RunRecord, error) {
	var out []RunRecord
	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		return b.ForEach(func(k, v []byte) error {
			var r RunRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("diary: decode record %x: %w", k, err)
			}
			out = append(out, r)
			return nil
		})
	})
	return out, err
}

func idKey(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}
