package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ShayCichocki/appforge/pkg/models"
)

// writeEventFrame writes one progress event as an SSE frame. The event ULID
// travels in the SSE id field; the data payload is the event's JSON form.
func writeEventFrame(w io.Writer, flusher http.Flusher, ev models.AgentEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "id: %s\nevent: event\ndata: %s\n\n", ev.ID, data)
	flusher.Flush()
}

// writeFrame writes a named SSE frame with a JSON payload.
func writeFrame(w io.Writer, flusher http.Flusher, name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	flusher.Flush()
}

// writeDoneFrame writes the sentinel frame that ends every generate stream.
func writeDoneFrame(w io.Writer, flusher http.Flusher) {
	fmt.Fprint(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}
