package cache

import (
	"sort"
	"time"
)

const (
	// mostAccessedLimit caps the most-accessed list in Stats.
	mostAccessedLimit = 5

	// metricsWindow bounds how far back Metrics looks in the journal.
	metricsWindow = time.Hour
)

// KeyCount pairs a key with its access count.
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Stats is a point-in-time snapshot of the store contents. Memory usage
// is an estimate; see estimateSize.
type Stats struct {
	TotalEntries   int        `json:"total_entries"`
	ValidEntries   int        `json:"valid_entries"`
	ExpiredEntries int        `json:"expired_entries"`
	MemoryUsage    int        `json:"memory_usage"`
	MostAccessed   []KeyCount `json:"most_accessed,omitempty"`
	OldestEntry    *time.Time `json:"oldest_entry,omitempty"`
	NewestEntry    *time.Time `json:"newest_entry,omitempty"`
}

// Metrics summarizes journal activity over the trailing hour alongside
// the current store size.
type Metrics struct {
	HitRate       float64       `json:"hit_rate"`
	Hits          int           `json:"hits"`
	Misses        int           `json:"misses"`
	AvgProcessing time.Duration `json:"avg_processing"`
	Entries       int           `json:"entries"`
	MemoryUsage   int           `json:"memory_usage"`
}

// Stats scans the live entry set. It never fails; an empty store yields
// zeros and nil timestamps.
func (s *Store) Stats() Stats {
	now := time.Now()
	var st Stats
	var oldest, newest time.Time

	s.mu.Lock()
	st.TotalEntries = len(s.items)
	for _, elem := range s.items {
		e := elem.Value.(*entry)
		st.MemoryUsage += e.size
		if e.expired(now) {
			st.ExpiredEntries++
		} else {
			st.ValidEntries++
		}
		if oldest.IsZero() || e.storedAt.Before(oldest) {
			oldest = e.storedAt
		}
		if e.storedAt.After(newest) {
			newest = e.storedAt
		}
	}
	top := make([]KeyCount, 0, len(s.freq))
	for k, c := range s.freq {
		top = append(top, KeyCount{Key: k, Count: c})
	}
	s.mu.Unlock()

	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Key < top[j].Key
	})
	if len(top) > mostAccessedLimit {
		top = top[:mostAccessedLimit]
	}
	if len(top) > 0 {
		st.MostAccessed = top
	}
	if !oldest.IsZero() {
		st.OldestEntry = &oldest
		st.NewestEntry = &newest
	}

	return st
}

// Metrics computes the trailing-hour hit rate as hits/(hits+misses)*100
// (zero when neither occurred) and the average processing time over
// records that carried one.
func (s *Store) Metrics() Metrics {
	cutoff := time.Now().Add(-metricsWindow)
	var m Metrics
	var procTotal time.Duration
	var procCount int

	for _, rec := range s.journal.snapshot() {
		if rec.Time.Before(cutoff) {
			continue
		}
		switch rec.Op {
		case OpHit:
			m.Hits++
		case OpMiss:
			m.Misses++
		}
		if rec.Processing > 0 {
			procTotal += rec.Processing
			procCount++
		}
	}
	if total := m.Hits + m.Misses; total > 0 {
		m.HitRate = float64(m.Hits) / float64(total) * 100
	}
	if procCount > 0 {
		m.AvgProcessing = procTotal / time.Duration(procCount)
	}

	s.mu.Lock()
	m.Entries = len(s.items)
	for _, elem := range s.items {
		m.MemoryUsage += elem.Value.(*entry).size
	}
	s.mu.Unlock()

	return m
}
