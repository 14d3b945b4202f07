package cache

import (
	"sync"
	"time"
)

// Op identifies a cache operation recorded in the journal.
type Op string

// Journal operation types.
const (
	OpHit        Op = "HIT"
	OpMiss       Op = "MISS"
	OpSet        Op = "SET"
	OpInvalidate Op = "INVALIDATE"
	OpEvict      Op = "EVICT"
	OpCleanup    Op = "CLEANUP"
)

// Record describes a single cache operation. Records are read-only
// after creation.
type Record struct {
	Time       time.Time      `json:"time"`
	Op         Op             `json:"op"`
	Key        string         `json:"key,omitempty"`
	TTL        time.Duration  `json:"ttl,omitempty"`
	Size       int            `json:"size,omitempty"`
	Processing time.Duration  `json:"processing,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Observer receives every journal record as it is appended.
//
// Observers are strictly best-effort: a panicking observer is recovered
// and logged, and can never fail the cache operation that produced the
// record. Observe is called outside the store lock, so an observer may
// safely call back into the store.
type Observer interface {
	Observe(Record)
}

// journal is a bounded drop-oldest ring of records.
type journal struct {
	mu   sync.Mutex
	buf  []Record
	next int
	full bool
}

func newJournal(capacity int) *journal {
	if capacity <= 0 {
		capacity = 1
	}
	return &journal{buf: make([]Record, capacity)}
}

func (j *journal) append(r Record) {
	j.mu.Lock()
	j.buf[j.next] = r
	j.next++
	if j.next == len(j.buf) {
		j.next = 0
		j.full = true
	}
	j.mu.Unlock()
}

// snapshot returns the retained records, oldest first.
func (j *journal) snapshot() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.full {
		out := make([]Record, j.next)
		copy(out, j.buf[:j.next])
		return out
	}

	out := make([]Record, 0, len(j.buf))
	out = append(out, j.buf[j.next:]...)
	out = append(out, j.buf[:j.next]...)
	return out
}

func (j *journal) size() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.full {
		return len(j.buf)
	}
	return j.next
}
