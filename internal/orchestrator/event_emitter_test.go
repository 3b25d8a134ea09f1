package orchestrator

import (
	"testing"
	"time"

	"github.com/ShayCichocki/appforge/pkg/models"
)

func TestEmitter_StampsIDAndTimestamp(t *testing.T) {
	e := NewEmitter(4)
	defer e.Close()

	before := time.Now()
	e.Emit(models.AgentEvent{Type: models.EventAgentStarted, Message: "hello"})

	select {
	case got := <-e.Events():
		if got.ID == "" {
			t.Error("expected a stamped event ID")
		}
		if len(got.ID) != 26 {
			t.Errorf("ID length = %d, want 26 (ULID)", len(got.ID))
		}
		if got.Timestamp.Before(before) {
			t.Errorf("Timestamp = %v, want >= %v", got.Timestamp, before)
		}
	case <-time.After(time.Second):
		t.Fatal("expected to receive event")
	}
}

func TestEmitter_PreservesCallerFields(t *testing.T) {
	e := NewEmitter(4)
	defer e.Close()

	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e.Emit(models.AgentEvent{
		ID:        "caller-id",
		Type:      models.EventTaskStarted,
		Timestamp: stamp,
	})

	got := <-e.Events()
	if got.ID != "caller-id" {
		t.Errorf("ID = %q, want %q", got.ID, "caller-id")
	}
	if !got.Timestamp.Equal(stamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, stamp)
	}
}

func TestEmitter_DeliversInOrder(t *testing.T) {
	e := NewEmitter(8)
	defer e.Close()

	types := []models.EventType{
		models.EventAgentStarted,
		models.EventTaskStarted,
		models.EventTaskCompleted,
	}
	for _, typ := range types {
		e.Emit(models.AgentEvent{Type: typ})
	}

	for i, want := range types {
		got := <-e.Events()
		if got.Type != want {
			t.Errorf("event %d type = %q, want %q", i, got.Type, want)
		}
	}
}

func TestEmitter_DropsWhenFull(t *testing.T) {
	e := NewEmitter(1)
	defer e.Close()

	e.Emit(models.AgentEvent{Type: models.EventAgentStarted})
	// No consumer: the second emit times out and is dropped.
	e.Emit(models.AgentEvent{Type: models.EventAgentThinking})

	if got := e.DroppedCount(); got != 1 {
		t.Errorf("DroppedCount = %d, want 1", got)
	}

	got := <-e.Events()
	if got.Type != models.EventAgentStarted {
		t.Errorf("surviving event type = %q, want %q", got.Type, models.EventAgentStarted)
	}
}

func TestEmitter_CloseIsIdempotent(t *testing.T) {
	e := NewEmitter(1)
	e.Close()
	e.Close()

	if _, ok := <-e.Events(); ok {
		t.Error("expected events channel to be closed")
	}
}
