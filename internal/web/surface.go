package web

import (
	"sync"
	"time"
)

// Surface is the per-session output area. It implements advice.OutputSink.
type Surface struct {
	mu      sync.RWMutex
	html    string
	updated time.Time
}

// Show replaces the surface content.
func (s *Surface) Show(html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = html
	s.updated = time.Now()
}

// HTML returns the current content.
func (s *Surface) HTML() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.html
}

// UpdatedAt reports when the surface last changed.
func (s *Surface) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
