package cache

import (
	"container/list"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// perEntryOverhead approximates the bookkeeping cost of a stored
	// entry (map bucket, list element, entry struct) in bytes.
	perEntryOverhead = 64

	// charWidth is the assumed byte width per character when estimating
	// the footprint of keys and serialized values.
	charWidth = 2
)

// entry holds one cached value together with its expiry and version tag.
type entry struct {
	storedAt time.Time
	data     any
	key      string
	ttl      time.Duration
	version  int
	size     int
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) >= e.ttl
}

// Store is an in-memory cache with TTL expiration, version gating,
// glob-pattern invalidation and size-bounded insertion-order eviction.
//
// It uses a hash map for O(1) lookups and a doubly-linked list ordered
// by insertion time for O(1) eviction of the oldest entry. Reads do not
// refresh an entry's position.
//
// All methods are safe for concurrent use. Close stops the background
// janitor and is idempotent; mutations after Close return ErrClosed.
type Store struct {
	items   map[string]*list.Element
	order   *list.List // front = most recently inserted
	freq    map[string]int64
	journal *journal
	opts    *options
	flights singleflight.Group
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
}

// New creates a Store and, unless the cleanup interval is zero, starts
// its background janitor.
func New(opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	s := &Store{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		freq:    make(map[string]int64),
		journal: newJournal(o.journalSize),
		opts:    o,
		done:    make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go s.janitor()
	}

	return s
}

// Set stores a value under the normalized key, overwriting any prior
// entry. A non-positive ttl falls back to the store default; a version
// below 1 is stored as 1. If the store is at capacity and the key is
// not already present, the oldest-inserted entry is evicted first.
//
// A blank key is ignored with a warning: cache misbehavior should cost
// extra fetches, not exceptions in unrelated code.
func (s *Store) Set(key string, data any, ttl time.Duration, version int) error {
	norm := Normalize(key)
	if norm == "" {
		s.opts.logger.Warn("cache: ignoring set with blank key")
		return nil
	}
	if ttl <= 0 {
		ttl = s.opts.defaultTTL
	}
	if version < 1 {
		version = 1
	}

	size := estimateSize(norm, data)
	now := time.Now()
	var recs []Record

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	if elem, ok := s.items[norm]; ok {
		e := elem.Value.(*entry)
		e.data, e.storedAt, e.ttl, e.version, e.size = data, now, ttl, version, size
		s.order.MoveToFront(elem)
	} else {
		if s.opts.maxEntries > 0 && len(s.items) >= s.opts.maxEntries {
			if rec, ok := s.evictOldest(now); ok {
				recs = append(recs, rec)
			}
		}
		elem := s.order.PushFront(&entry{
			key:      norm,
			data:     data,
			storedAt: now,
			ttl:      ttl,
			version:  version,
			size:     size,
		})
		s.items[norm] = elem
	}
	s.mu.Unlock()

	recs = append(recs, Record{Time: now, Op: OpSet, Key: norm, TTL: ttl, Size: size})
	s.emit(recs...)

	return nil
}

// Invalidate removes every entry whose normalized key matches one of
// the patterns and returns the number of removed entries. Patterns
// without '*' are exact matches; see Pattern for the glob semantics.
// Invalidating absent keys is a no-op.
func (s *Store) Invalidate(patterns ...string) int {
	now := time.Now()
	var recs []Record
	total := 0

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}

	for _, raw := range patterns {
		pat := CompilePattern(raw)
		if pat.String() == "" {
			continue
		}

		if !strings.Contains(pat.String(), "*") {
			if elem, ok := s.items[pat.String()]; ok {
				s.removeElement(elem)
				recs = append(recs, Record{Time: now, Op: OpInvalidate, Key: pat.String()})
				total++
			}
			continue
		}

		for key, elem := range s.items {
			if pat.Match(key) {
				s.removeElement(elem)
				recs = append(recs, Record{Time: now, Op: OpInvalidate, Key: key, Reason: pat.String()})
				total++
			}
		}
	}
	s.mu.Unlock()

	if total > 0 {
		recs = append(recs, Record{
			Time:   now,
			Op:     OpInvalidate,
			Key:    strings.Join(patterns, " "),
			Reason: "summary",
			Extra:  map[string]any{"removed": total, "patterns": len(patterns)},
		})
	}
	s.emit(recs...)

	return total
}

// Has reports whether a live (non-expired) entry exists for the key.
// It does not count as an access and is not journaled.
func (s *Store) Has(key string) bool {
	norm := Normalize(key)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[norm]
	if !ok {
		return false
	}
	return !elem.Value.(*entry).expired(now)
}

// Len returns the number of physically present entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear removes all entries.
func (s *Store) Clear() error {
	now := time.Now()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	removed := len(s.items)
	s.items = make(map[string]*list.Element)
	s.order.Init()
	s.mu.Unlock()

	if removed > 0 {
		s.emit(Record{Time: now, Op: OpCleanup, Reason: "clear", Extra: map[string]any{"removed": removed}})
	}

	return nil
}

// Journal returns the most recent n journal records, oldest first.
// n <= 0 returns everything retained.
func (s *Store) Journal(n int) []Record {
	recs := s.journal.snapshot()
	if n > 0 && len(recs) > n {
		recs = recs[len(recs)-n:]
	}
	return recs
}

// Close stops the janitor and marks the store closed. Close is
// idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)

	return nil
}

// lookup reports the live cached value for a normalized key, deleting
// entries that are stale by TTL or version, and journals the outcome.
// It also counts the access for the most-accessed statistic.
func (s *Store) lookup(key string, minVersion int, start time.Time) (any, bool) {
	now := time.Now()
	var recs []Record
	var data any
	hit := false

	s.mu.Lock()
	s.freq[key]++
	if elem, ok := s.items[key]; ok {
		e := elem.Value.(*entry)
		switch {
		case e.expired(now):
			s.removeElement(elem)
			recs = append(recs, Record{Time: now, Op: OpMiss, Key: key, Reason: "expired", Processing: time.Since(start)})
		case e.version < minVersion:
			s.removeElement(elem)
			recs = append(recs, Record{Time: now, Op: OpMiss, Key: key, Reason: "outdated_version", Processing: time.Since(start)})
		default:
			data, hit = e.data, true
			recs = append(recs, Record{
				Time:       now,
				Op:         OpHit,
				Key:        key,
				TTL:        e.ttl,
				Size:       e.size,
				Processing: time.Since(start),
				Extra:      map[string]any{"age_ms": now.Sub(e.storedAt).Milliseconds()},
			})
		}
	} else {
		recs = append(recs, Record{Time: now, Op: OpMiss, Key: key, Processing: time.Since(start)})
	}
	s.mu.Unlock()

	s.emit(recs...)

	return data, hit
}

// skipLookup counts a forced-refresh access and journals the miss.
func (s *Store) skipLookup(key string, start time.Time) {
	s.mu.Lock()
	s.freq[key]++
	s.mu.Unlock()

	s.emit(Record{Time: time.Now(), Op: OpMiss, Key: key, Reason: "force_refresh", Processing: time.Since(start)})
}

// janitor periodically sweeps expired entries until Close.
func (s *Store) janitor() {
	ticker := time.NewTicker(s.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

// removeExpired deletes every expired entry and journals a cleanup
// summary when any were removed.
func (s *Store) removeExpired() {
	now := time.Now()
	removed := 0

	s.mu.Lock()
	for elem := s.order.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).expired(now) {
			s.removeElement(elem)
			removed++
		}
		elem = prev
	}
	s.mu.Unlock()

	if removed > 0 {
		s.emit(Record{Time: now, Op: OpCleanup, Extra: map[string]any{"removed": removed}})
	}
}

// evictOldest removes the entry at the back of the insertion list.
// Caller must hold the mutex.
func (s *Store) evictOldest(now time.Time) (Record, bool) {
	elem := s.order.Back()
	if elem == nil {
		return Record{}, false
	}
	e := elem.Value.(*entry)
	s.removeElement(elem)

	return Record{Time: now, Op: OpEvict, Key: e.key, Size: e.size, Reason: "capacity"}, true
}

// removeElement removes a specific element from both indexes.
// Caller must hold the mutex.
func (s *Store) removeElement(elem *list.Element) {
	s.order.Remove(elem)
	delete(s.items, elem.Value.(*entry).key)
}

// emit appends records to the journal and forwards each to the
// configured observer. Called outside the store lock.
func (s *Store) emit(recs ...Record) {
	for _, rec := range recs {
		s.journal.append(rec)
		s.notify(rec)
	}
}

func (s *Store) notify(rec Record) {
	obs := s.opts.observer
	if obs == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.opts.logger.Warn("cache: observer panicked", slog.Any("panic", r))
		}
	}()
	obs.Observe(rec)
}

// estimateSize approximates the footprint of an entry: key length plus
// the length of the value's JSON encoding, both at charWidth bytes per
// character, plus fixed overhead. Unencodable values count only the key
// and overhead.
func estimateSize(key string, data any) int {
	size := len(key)*charWidth + perEntryOverhead
	if b, err := json.Marshal(data); err == nil {
		size += len(b) * charWidth
	}
	return size
}
