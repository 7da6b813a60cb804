package journal

import (
	"context"
	"sync"
	"time"
)

// MemoryJournal is a bounded in-memory event log, used when no database is
// configured. Oldest events are evicted once the cap is reached.
type MemoryJournal struct {
	mu     sync.RWMutex
	events []Event
	max    int
}

// NewMemory creates a memory journal bounded at max events.
func NewMemory(max int) *MemoryJournal {
	if max <= 0 {
		max = 1024
	}
	return &MemoryJournal{
		events: make([]Event, 0, max),
		max:    max,
	}
}

func (m *MemoryJournal) LogEvent(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	m.events = append(m.events, event)
	if len(m.events) > m.max {
		m.events = m.events[len(m.events)-m.max:]
	}
	return nil
}

func (m *MemoryJournal) GetEvents(ctx context.Context, eventType string, start, end time.Time) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Event
	for _, e := range m.events {
		if eventType != "" && e.Type != eventType {
			continue
		}
		if !start.IsZero() && e.Time.Before(start) {
			continue
		}
		if !end.IsZero() && e.Time.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MemoryJournal) Close() error { return nil }
