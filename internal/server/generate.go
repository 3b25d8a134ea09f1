package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ShayCichocki/appforge/internal/orchestrator"
	"github.com/ShayCichocki/appforge/internal/store"
	"github.com/ShayCichocki/appforge/pkg/models"
)

// maxProjectNameLen bounds the project name derived from a first message.
const maxProjectNameLen = 48

type generateOutcome struct {
	result *orchestrator.Result
	err    error
}

// handleGenerate runs one orchestration turn and streams its progress as
// server-sent events. The stream carries four frame kinds:
//
//	event: event   one agent/task/file transition, id set to the event ULID
//	event: files   the cumulative file snapshot after a task merged files
//	event: text    the closing summary, sent once before the stream ends
//	event: done    sentinel, always the final frame
//
// The connection context is threaded into the turn, so a client disconnect
// cancels generation after the in-flight task winds down.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		http.Error(w, "userMessage is required", http.StatusBadRequest)
		return
	}

	if req.ProjectID == "" {
		req.ProjectID = uuid.New().String()
	}
	if _, err := s.store.EnsureProject(req.ProjectID, deriveProjectName(req.UserMessage)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.loadProjectContext(&req); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	snapshots := make(chan []models.GeneratedFile, 1)
	orch, err := orchestrator.New(orchestrator.Config{
		Generator: s.generator,
		Agents:    s.agents,
		Logger:    s.logger,
		OnFilesChanged: func(files []models.GeneratedFile) {
			sendSnapshot(snapshots, files)
		},
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var usageIn, usageOut int64
	if s.usage != nil {
		usageIn, usageOut = s.usage.Total()
	}

	done := make(chan generateOutcome, 1)
	go func() {
		result, err := orch.ProcessRequest(r.Context(), req)
		// ProcessRequest has returned, so no more snapshot sends can happen.
		close(snapshots)
		orch.Close()
		done <- generateOutcome{result: result, err: err}
	}()

	// The handler goroutine is the only writer. Progress events and file
	// snapshots are forwarded as they arrive; both channels drain to closed
	// before the outcome is read. Snapshots coalesce to the latest when the
	// client is slow, events are never reordered.
	events := orch.Events()
	var snaps <-chan []models.GeneratedFile = snapshots
	for events != nil || snaps != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			writeEventFrame(w, flusher, ev)
		case snap, ok := <-snaps:
			if !ok {
				snaps = nil
				continue
			}
			writeFrame(w, flusher, "files", snap)
		}
	}

	outcome := <-done
	if outcome.err != nil {
		writeFrame(w, flusher, "error", map[string]string{"error": outcome.err.Error()})
		writeDoneFrame(w, flusher)
		return
	}

	s.persistOutcome(req, outcome.result, usageIn, usageOut)

	writeFrame(w, flusher, "text", map[string]string{
		"projectId": req.ProjectID,
		"text":      outcome.result.Response,
	})
	writeDoneFrame(w, flusher)
}

// sendSnapshot hands a cumulative file snapshot to the drain loop without
// ever blocking the executor. Each snapshot supersedes the one before it, so
// when the consumer is behind the stale snapshot is replaced rather than
// queued behind.
func sendSnapshot(ch chan []models.GeneratedFile, files []models.GeneratedFile) {
	for {
		select {
		case ch <- files:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// loadProjectContext fills in existing files and recent history from the
// store when the request does not carry its own. Requests that supply either
// field keep what they sent.
func (s *Server) loadProjectContext(req *orchestrator.Request) error {
	if len(req.ExistingFiles) == 0 {
		files, err := s.store.GetProjectFiles(req.ProjectID)
		if err != nil {
			return err
		}
		for _, f := range files {
			req.ExistingFiles = append(req.ExistingFiles, models.FileInput{
				Path:     f.Path,
				Content:  f.Content,
				Language: f.Language,
			})
		}
	}

	if len(req.RecentHistory) == 0 {
		msgs, err := s.store.RecentMessages(req.ProjectID, 12)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			req.RecentHistory = append(req.RecentHistory, models.ChatMessage{
				Role:    models.MessageRole(m.Role),
				Content: m.Content,
			})
		}
	}

	return nil
}

// persistOutcome writes the turn's files, conversation entries, and token
// usage to the store. Persistence failures are logged, not surfaced; the
// client already has the streamed result.
func (s *Server) persistOutcome(req orchestrator.Request, result *orchestrator.Result, usageIn, usageOut int64) {
	projectID := req.ProjectID

	if len(result.Files) > 0 {
		rows := make([]store.ProjectFile, 0, len(result.Files))
		for _, f := range result.Files {
			rows = append(rows, store.ProjectFile{
				ProjectID: projectID,
				Path:      f.Path,
				Content:   f.Content,
				Language:  f.Language,
			})
		}
		if err := s.store.UpsertFiles(rows); err != nil {
			log.Printf("server: persist files for %s: %v", projectID, err)
		}
	}

	if err := s.store.AppendMessage(&store.Message{
		ProjectID: projectID,
		Role:      string(models.MessageRoleUser),
		Content:   req.UserMessage,
	}); err != nil {
		log.Printf("server: persist user message for %s: %v", projectID, err)
	}
	if err := s.store.AppendMessage(&store.Message{
		ProjectID: projectID,
		Role:      string(models.MessageRoleAssistant),
		Content:   result.Response,
	}); err != nil {
		log.Printf("server: persist assistant message for %s: %v", projectID, err)
	}

	if s.usage != nil {
		// Totals are process-wide, so overlapping turns can shift tokens
		// between projects. The per-project numbers stay indicative and the
		// grand total stays exact.
		in, out := s.usage.Total()
		if din, dout := in-usageIn, out-usageOut; din > 0 || dout > 0 {
			err := s.store.RecordUsage(&store.UsageRecord{
				ProjectID:    projectID,
				InputTokens:  din,
				OutputTokens: dout,
			})
			if err != nil {
				log.Printf("server: persist usage for %s: %v", projectID, err)
			}
		}
	}

	if err := s.store.TouchProject(projectID); err != nil {
		log.Printf("server: touch project %s: %v", projectID, err)
	}
}

// deriveProjectName turns the first message of a project into a short
// display name.
func deriveProjectName(message string) string {
	name := strings.TrimSpace(message)
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	runes := []rune(name)
	if len(runes) > maxProjectNameLen {
		name = strings.TrimSpace(string(runes[:maxProjectNameLen])) + "..."
	}
	if name == "" {
		name = "Untitled project"
	}
	return name
}
