package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// seriesMarks tracks when each series last produced a notification, so bulk
// imports collapse into one notification per suppression window. Last
// writer wins under contention; only recency matters.
type seriesMarks struct {
	mu    sync.Mutex
	marks map[uuid.UUID]time.Time
}

func newSeriesMarks() *seriesMarks {
	return &seriesMarks{marks: make(map[uuid.UUID]time.Time)}
}

// recentlyNotified reports whether the series was marked within the window.
func (m *seriesMarks) recentlyNotified(seriesID uuid.UUID, window time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.marks[seriesID]
	if !ok {
		return false
	}
	return time.Since(last) < window
}

// mark records a notification for the series at the current time.
func (m *seriesMarks) mark(seriesID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks[seriesID] = time.Now()
}

// sweep drops entries older than the cutoff, bounding map growth. The
// cutoff is deliberately wider than the suppression window so bursts
// spanning slightly over the window still suppress correctly.
func (m *seriesMarks) sweep(cutoff time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, last := range m.marks {
		if last.Before(cutoff) {
			delete(m.marks, id)
		}
	}
}

// size is used by tests and the suppression sweep log line.
func (m *seriesMarks) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.marks)
}
