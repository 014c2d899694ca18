package run

import (
	"strings"
	"sync"
	"time"

	"council/internal/council"
)

const completedRunRetention = 30 * time.Second

// Broker manages per-run event channels feeding the SSE and websocket
// streams.
type Broker struct {
	mu     sync.RWMutex
	events map[string]chan council.Event
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{events: make(map[string]chan council.Event)}
}

// Allocate creates and registers a new event channel for a run.
func (b *Broker) Allocate(runID string, size int) chan council.Event {
	if size <= 0 {
		size = 1
	}
	ch := make(chan council.Event, size)
	b.mu.Lock()
	b.events[strings.TrimSpace(runID)] = ch
	b.mu.Unlock()
	return ch
}

// Get returns the event channel for a run.
func (b *Broker) Get(runID string) (chan council.Event, bool) {
	b.mu.RLock()
	ch, ok := b.events[strings.TrimSpace(runID)]
	b.mu.RUnlock()
	return ch, ok
}

// ScheduleCleanup removes a run's event channel after a retention period,
// giving late subscribers a window to drain buffered events.
func (b *Broker) ScheduleCleanup(runID string) {
	time.AfterFunc(completedRunRetention, func() {
		b.mu.Lock()
		delete(b.events, strings.TrimSpace(runID))
		b.mu.Unlock()
	})
}

// Publisher returns a council.Publisher that feeds a run's channel. Sends
// never block; when no subscriber is draining and the buffer fills, events
// are dropped rather than stalling the engine.
func (b *Broker) Publisher(runID string) council.Publisher {
	return publisher{b: b, runID: strings.TrimSpace(runID)}
}

type publisher struct {
	b     *Broker
	runID string
}

func (p publisher) Publish(ev council.Event) {
	ch, ok := p.b.Get(p.runID)
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}

// IsTerminal reports whether a stage ends the event stream.
func IsTerminal(stage string) bool {
	return stage == "completed" || stage == "failed"
}
