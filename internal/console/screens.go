package console

import (
	"sync"
	"time"
)

const defaultScreenTTL = 2 * time.Hour

type screenEntry struct {
	screen   *Screen
	lastSeen time.Time
}

// Screens keeps one Screen per browser session. Sessions idle for longer than
// the TTL are dropped on a later lookup.
type Screens struct {
	mu          sync.Mutex
	entries     map[string]*screenEntry
	submitLabel string
	ttl         time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

// NewScreens creates an empty registry. A non-positive ttl uses two hours.
func NewScreens(submitLabel string, ttl time.Duration) *Screens {
	if ttl <= 0 {
		ttl = defaultScreenTTL
	}
	return &Screens{
		entries:     make(map[string]*screenEntry),
		submitLabel: submitLabel,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Get returns the session's screen, creating it on first use.
func (s *Screens) Get(session string) *Screen {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
	}

	entry, ok := s.entries[session]
	if !ok {
		entry = &screenEntry{screen: NewScreen(s.submitLabel)}
		s.entries[session] = entry
	}
	entry.lastSeen = now
	return entry.screen
}

// Len reports the number of live sessions.
func (s *Screens) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Screens) sweep(now time.Time) {
	for id, entry := range s.entries {
		if now.Sub(entry.lastSeen) >= s.ttl {
			delete(s.entries, id)
		}
	}
	s.lastSweep = now
}
