// Package tui provides the terminal user interface for the build command.
//
// The build view is read-only: it renders the progress events of one
// generation turn as they stream in, then holds the final summary on screen
// until the user quits. Wiring:
//
//	program, _ := tui.NewBuildProgram("build me a todo app")
//
//	go func() {
//	    for ev := range orch.Events() {
//	        program.Send(tui.BuildEventMsg{Event: ev})
//	    }
//	}()
//	go func() {
//	    result, err := orch.ProcessRequest(ctx, req)
//	    orch.Close()
//	    program.Send(tui.BuildDoneMsg{Result: result, Err: err})
//	}()
//
//	program.Run()
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/appforge/internal/orchestrator"
	"github.com/ShayCichocki/appforge/pkg/models"
)

// maxLogEntries bounds the activity log held in memory.
const maxLogEntries = 200

// visibleLogEntries is how many log lines the view shows.
const visibleLogEntries = 10

// BuildEventMsg carries one progress event into the TUI.
type BuildEventMsg struct {
	Event models.AgentEvent
}

// BuildFilesMsg carries the cumulative file snapshot after a task merged
// files.
type BuildFilesMsg struct {
	Files []models.GeneratedFile
}

// BuildDoneMsg signals that the generation turn has finished.
type BuildDoneMsg struct {
	Result *orchestrator.Result
	Err    error
}

// BuildApp is the bubbletea model for the build command TUI.
type BuildApp struct {
	message string
	spinner spinner.Model

	status    string
	log       []models.AgentEvent
	files     []models.GeneratedFile
	completed int
	failed    int
	skipped   int

	done     bool
	err      error
	response string
	quitting bool
	width    int
	height   int

	headerStyle  lipgloss.Style
	labelStyle   lipgloss.Style
	statusStyle  lipgloss.Style
	okStyle      lipgloss.Style
	failStyle    lipgloss.Style
	skipStyle    lipgloss.Style
	createStyle  lipgloss.Style
	modifyStyle  lipgloss.Style
	logTimeStyle lipgloss.Style
	logStyle     lipgloss.Style
	footerStyle  lipgloss.Style
}

// NewBuildApp creates a BuildApp for the given user message.
func NewBuildApp(message string) *BuildApp {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &BuildApp{
		message: message,
		spinner: sp,
		status:  "Starting...",

		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),

		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(10),

		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		okStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		failStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		skipStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		createStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		modifyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		logTimeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		logStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		footerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// Init implements tea.Model.
func (a *BuildApp) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *BuildApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case spinner.TickMsg:
		if a.done {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case BuildEventMsg:
		a.applyEvent(msg.Event)

	case BuildFilesMsg:
		a.files = msg.Files

	case BuildDoneMsg:
		a.done = true
		a.err = msg.Err
		if msg.Result != nil {
			a.response = msg.Result.Response
			a.files = msg.Result.Files
		}
		// Keep the final state on screen until the user quits.
	}

	return a, nil
}

// applyEvent folds one progress event into the display state. Every failed
// task emits exactly one agent_error, so failures are counted there and
// subtracted from the task_completed total.
func (a *BuildApp) applyEvent(ev models.AgentEvent) {
	switch ev.Type {
	case models.EventAgentStarted, models.EventAgentThinking, models.EventAgentWriting:
		a.status = ev.Message
	case models.EventAgentError:
		a.failed++
		a.status = ev.Message
	case models.EventTaskCompleted:
		a.completed++
	case models.EventTaskSkipped:
		a.skipped++
	}

	a.log = append(a.log, ev)
	if len(a.log) > maxLogEntries {
		a.log = a.log[len(a.log)-maxLogEntries:]
	}
}

// View implements tea.Model.
func (a *BuildApp) View() string {
	if a.quitting {
		return "Build cancelled.\n"
	}

	var b strings.Builder

	b.WriteString(a.headerStyle.Render("AppForge"))
	b.WriteString("\n\n")
	b.WriteString(a.labelStyle.Render("Request:"))
	b.WriteString(a.statusStyle.Render(truncateLine(a.message, 70)))
	b.WriteString("\n")

	b.WriteString(a.labelStyle.Render("Status:"))
	if a.done {
		if a.err != nil {
			b.WriteString(a.failStyle.Render(fmt.Sprintf("Error: %v", a.err)))
		} else {
			b.WriteString(a.okStyle.Render("Done"))
		}
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(" ")
		b.WriteString(a.statusStyle.Render(truncateLine(a.status, 64)))
	}
	b.WriteString("\n")

	succeeded := a.completed - a.failed
	if succeeded < 0 {
		succeeded = 0
	}
	tasksStr := fmt.Sprintf("%s completed, %s failed, %s skipped",
		a.okStyle.Render(fmt.Sprintf("%d", succeeded)),
		a.failStyle.Render(fmt.Sprintf("%d", a.failed)),
		a.skipStyle.Render(fmt.Sprintf("%d", a.skipped)))
	b.WriteString(a.labelStyle.Render("Tasks:"))
	b.WriteString(tasksStr)
	b.WriteString("\n")

	if len(a.files) > 0 {
		b.WriteString("\n")
		b.WriteString(a.labelStyle.Render("Files:"))
		b.WriteString("\n")
		for _, f := range a.files {
			marker := a.createStyle.Render("+")
			if f.Action == models.FileActionModify {
				marker = a.modifyStyle.Render("~")
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", marker, f.Path))
		}
	}

	b.WriteString(a.renderLog())

	b.WriteString("\n")
	if a.done {
		b.WriteString(a.footerStyle.Render("Press q to exit"))
	} else {
		b.WriteString(a.footerStyle.Render("Press q to cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

// renderLog renders the most recent activity entries.
func (a *BuildApp) renderLog() string {
	if len(a.log) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(a.labelStyle.Render("Activity:"))
	b.WriteString("\n")

	start := 0
	if len(a.log) > visibleLogEntries {
		start = len(a.log) - visibleLogEntries
	}
	for _, ev := range a.log[start:] {
		ts := a.logTimeStyle.Render(ev.Timestamp.Format("15:04:05"))
		b.WriteString(fmt.Sprintf("  %s %s\n", ts, a.logStyle.Render(truncateLine(ev.Message, 70))))
	}
	return b.String()
}

// Done reports whether the turn has finished.
func (a *BuildApp) Done() bool {
	return a.done
}

// Err returns the terminal error, if any.
func (a *BuildApp) Err() error {
	return a.err
}

// Response returns the closing summary once the turn is done.
func (a *BuildApp) Response() string {
	return a.response
}

func truncateLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// NewBuildProgram creates a bubbletea program for the build TUI.
func NewBuildProgram(message string) (*tea.Program, *BuildApp) {
	app := NewBuildApp(message)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
