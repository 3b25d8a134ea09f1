package orchestrator

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ShayCichocki/appforge/pkg/models"
)

// Emitter is the single-consumer progress channel the planner and executor
// write to. Sends are a non-blocking handoff: a slow consumer never stalls
// task execution, it just starts losing events.
type Emitter struct {
	events       chan models.AgentEvent
	droppedCount atomic.Uint64
	closeOnce    sync.Once
}

// NewEmitter creates a new Emitter with the given buffer size.
func NewEmitter(bufferSize int) *Emitter {
	return &Emitter{
		events: make(chan models.AgentEvent, bufferSize),
	}
}

// Emit sends an event to the events channel, stamping ID and Timestamp when
// the caller left them zero. If the channel is full, it tries with a short
// timeout before dropping the event.
func (e *Emitter) Emit(event models.AgentEvent) {
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Try immediate send first
	select {
	case e.events <- event:
		return
	default:
		// Channel full, try with timeout
	}

	// Give the receiver 100ms to drain before dropping
	select {
	case e.events <- event:
		return
	case <-time.After(100 * time.Millisecond):
		count := e.droppedCount.Add(1)
		if count%10 == 1 { // Log every 10th drop to avoid spam
			log.Printf("[orchestrator] WARNING: event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
	}
}

// DroppedCount returns the total number of events that have been dropped.
func (e *Emitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Events returns the read-only event channel consumed by the transport
// layer (SSE handler, TUI).
func (e *Emitter) Events() <-chan models.AgentEvent {
	return e.events
}

// Close closes the events channel. Idempotent: the transport layer and a
// deferred cleanup may both call it.
func (e *Emitter) Close() {
	e.closeOnce.Do(func() {
		close(e.events)
	})
}
