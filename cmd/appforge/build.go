package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/appforge/internal/config"
	"github.com/ShayCichocki/appforge/internal/orchestrator"
	"github.com/ShayCichocki/appforge/internal/store"
	"github.com/ShayCichocki/appforge/internal/tui"
	"github.com/ShayCichocki/appforge/pkg/models"
)

var (
	buildProject string
	buildOutput  string
	buildPlain   bool
)

var buildCmd = &cobra.Command{
	Use:   "build <request>",
	Short: "Generate an application from a natural-language request",
	Long: `Generate an application by orchestrating a team of specialist agents.

The request is planned into tasks (database, backend, ui, devops,
reviewer), each task is executed by its agent in order, and the
generated files are written to the output directory.

With --project, files and conversation history are persisted to the
local database, so a follow-up build on the same project modifies the
app instead of starting over:

  appforge build "a todo app with categories" --project todo
  appforge build "add user login" --project todo

By default progress renders in a terminal UI; --plain prints events as
plain text instead (useful for logs and CI).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildProject, "project", "", "Project ID to persist files and history under")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", ".", "Directory to write generated files into")
	buildCmd.Flags().BoolVar(&buildPlain, "plain", false, "Print progress as plain text instead of the TUI")
}

// buildOutcome pairs a run's result with its error so both can cross a
// channel from the goroutine that ran ProcessRequest.
type buildOutcome struct {
	result *orchestrator.Result
	err    error
}

func runBuild(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return fmt.Errorf("request is empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := newGenerationClient(cfg)
	if err != nil {
		return err
	}

	registry, _, err := loadAgentRegistry(cfg, "")
	if err != nil {
		return err
	}

	logger, err := orchestrator.NewDebugLogger(cfg.Debug.LogPath)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer logger.Close()

	req := orchestrator.Request{
		ProjectID:   buildProject,
		UserMessage: message,
	}

	var db *store.Store
	if buildProject != "" {
		db, err = openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := db.EnsureProject(buildProject, projectNameFromMessage(message)); err != nil {
			return fmt.Errorf("ensure project: %w", err)
		}
		if err := loadBuildContext(db, &req); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	orchCfg := orchestrator.Config{
		Generator: client,
		Agents:    registry,
		Logger:    logger,
	}

	inputBefore, outputBefore := client.Tracker().Total()

	var outcome buildOutcome
	if buildPlain {
		outcome = runBuildPlain(ctx, orchCfg, req)
	} else {
		outcome = runBuildTUI(ctx, cancel, orchCfg, req)
	}
	if outcome.err != nil {
		return outcome.err
	}
	result := outcome.result
	if result == nil {
		return fmt.Errorf("generation produced no result")
	}

	if db != nil {
		inputAfter, outputAfter := client.Tracker().Total()
		persistBuild(db, buildProject, message, result, inputAfter-inputBefore, outputAfter-outputBefore)
	}

	if err := writeGeneratedFiles(buildOutput, result.Files); err != nil {
		return err
	}

	// The TUI runs on the alt screen, so print the summary either way to
	// leave it in the scrollback.
	if result.Response != "" {
		fmt.Println()
		fmt.Println(result.Response)
	}

	if len(result.Files) > 0 {
		fmt.Printf("\n%s Wrote %d file(s) to %s\n", color.GreenString("✓"), len(result.Files), buildOutput)
	}
	return nil
}

// runBuildPlain runs the turn while printing each progress event as a line.
func runBuildPlain(ctx context.Context, cfg orchestrator.Config, req orchestrator.Request) buildOutcome {
	orch, err := orchestrator.New(cfg)
	if err != nil {
		return buildOutcome{err: fmt.Errorf("create orchestrator: %w", err)}
	}

	done := make(chan buildOutcome, 1)
	go func() {
		result, err := orch.ProcessRequest(ctx, req)
		orch.Close()
		done <- buildOutcome{result: result, err: err}
	}()

	for ev := range orch.Events() {
		printBuildEvent(ev)
	}
	return <-done
}

// runBuildTUI runs the turn behind the Bubble Tea progress view. Quitting the
// view before the run finishes cancels the run; the partial result is kept.
func runBuildTUI(ctx context.Context, cancel context.CancelFunc, cfg orchestrator.Config, req orchestrator.Request) buildOutcome {
	program, _ := tui.NewBuildProgram(req.UserMessage)

	cfg.OnFilesChanged = func(files []models.GeneratedFile) {
		program.Send(tui.BuildFilesMsg{Files: files})
	}

	orch, err := orchestrator.New(cfg)
	if err != nil {
		return buildOutcome{err: fmt.Errorf("create orchestrator: %w", err)}
	}

	done := make(chan buildOutcome, 1)
	go func() {
		for ev := range orch.Events() {
			program.Send(tui.BuildEventMsg{Event: ev})
		}
	}()
	go func() {
		result, err := orch.ProcessRequest(ctx, req)
		orch.Close()
		program.Send(tui.BuildDoneMsg{Result: result, Err: err})
		done <- buildOutcome{result: result, err: err}
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return buildOutcome{err: fmt.Errorf("run progress view: %w", err)}
	}

	// A no-op when the run already finished; stops it if the user quit early.
	cancel()
	return <-done
}

// printBuildEvent renders one progress event for plain mode.
func printBuildEvent(ev models.AgentEvent) {
	switch ev.Type {
	case models.EventAgentStarted, models.EventTaskStarted:
		printStatus("→", ev.Message, color.FgCyan)
	case models.EventAgentCompleted, models.EventTaskCompleted:
		printStatus("✓", ev.Message, color.FgGreen)
	case models.EventAgentError:
		printStatus("✗", ev.Message, color.FgRed)
	case models.EventTaskSkipped:
		printStatus("⚠", ev.Message, color.FgYellow)
	case models.EventFileCreated:
		printStatus("+", ev.Message, color.FgGreen)
	case models.EventFileModified:
		printStatus("~", ev.Message, color.FgYellow)
	default:
		fmt.Printf("  %s\n", ev.Message)
	}
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}

// loadBuildContext fills the request with the project's stored files and
// recent conversation history.
func loadBuildContext(db *store.Store, req *orchestrator.Request) error {
	files, err := db.GetProjectFiles(req.ProjectID)
	if err != nil {
		return fmt.Errorf("load project files: %w", err)
	}
	for _, f := range files {
		req.ExistingFiles = append(req.ExistingFiles, models.FileInput{
			Path:     f.Path,
			Content:  f.Content,
			Language: f.Language,
		})
	}

	messages, err := db.RecentMessages(req.ProjectID, 12)
	if err != nil {
		return fmt.Errorf("load recent messages: %w", err)
	}
	for _, m := range messages {
		req.RecentHistory = append(req.RecentHistory, models.ChatMessage{
			Role:    models.MessageRole(m.Role),
			Content: m.Content,
		})
	}
	return nil
}

// persistBuild stores the run's files, the conversation turn, and the token
// usage delta. Persistence failures are reported but do not fail the build;
// the files still land on disk.
func persistBuild(db *store.Store, projectID, message string, result *orchestrator.Result, inputTokens, outputTokens int64) {
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
		if err := db.UpsertFiles(rows); err != nil {
			fmt.Fprintf(os.Stderr, "warning: persist files: %v\n", err)
		}
	}

	if err := db.AppendMessage(&store.Message{
		ProjectID: projectID,
		Role:      string(models.MessageRoleUser),
		Content:   message,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: persist user message: %v\n", err)
	}
	if result.Response != "" {
		if err := db.AppendMessage(&store.Message{
			ProjectID: projectID,
			Role:      string(models.MessageRoleAssistant),
			Content:   result.Response,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "warning: persist assistant message: %v\n", err)
		}
	}

	if inputTokens > 0 || outputTokens > 0 {
		if err := db.RecordUsage(&store.UsageRecord{
			ProjectID:    projectID,
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			CreatedAt:    time.Now(),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "warning: record usage: %v\n", err)
		}
	}

	if err := db.TouchProject(projectID); err != nil {
		fmt.Fprintf(os.Stderr, "warning: touch project: %v\n", err)
	}
}

// writeGeneratedFiles writes the run's files under dir, creating parent
// directories as needed. Paths that escape dir are rejected.
func writeGeneratedFiles(dir string, files []models.GeneratedFile) error {
	if len(files) == 0 {
		return nil
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	for _, f := range files {
		target := filepath.Join(root, filepath.FromSlash(f.Path))
		rel, err := filepath.Rel(root, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("refusing to write outside output directory: %s", f.Path)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

// projectNameFromMessage derives a display name from the first line of the
// request, capped for list views.
func projectNameFromMessage(message string) string {
	name := message
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)

	const maxLen = 48
	if utf8.RuneCountInString(name) > maxLen {
		runes := []rune(name)
		name = string(runes[:maxLen]) + "..."
	}
	if name == "" {
		return "Untitled project"
	}
	return name
}
