package council

import "time"

// Event is one stage update emitted during a deliberation run. Events are
// fanned out to the browser over SSE/websocket by the gateway.
type Event struct {
	RunID  string         `json:"run_id"`
	Stage  string         `json:"stage"`
	At     time.Time      `json:"at"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Publisher receives stage events as a run progresses.
type Publisher interface {
	Publish(ev Event)
}

// NopPublisher discards events; used when no listener is attached.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

func (e *Engine) publish(runID, stage string, fields map[string]any) {
	pub := e.Events
	if pub == nil {
		pub = NopPublisher{}
	}
	pub.Publish(Event{RunID: runID, Stage: stage, At: time.Now(), Fields: fields})
}
