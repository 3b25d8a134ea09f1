package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/appforge/internal/agents"
	"github.com/ShayCichocki/appforge/internal/config"
	"github.com/ShayCichocki/appforge/internal/orchestrator"
	"github.com/ShayCichocki/appforge/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP generation server",
	Long: `Run the AppForge HTTP server.

POST /api/generate accepts a generation request and streams progress as
server-sent events; the remaining endpoints read projects, files, and
conversation history from the local database.

The server runs until interrupted and shuts down gracefully.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := newGenerationClient(cfg)
	if err != nil {
		return err
	}

	registry, overlayPath, err := loadAgentRegistry(cfg, "")
	if err != nil {
		return err
	}

	logger, err := orchestrator.NewDebugLogger(cfg.Debug.LogPath)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	defer logger.Close()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv, err := server.New(server.Config{
		Store:     db,
		Generator: client,
		Agents:    registry,
		Usage:     client.Tracker(),
		Addr:      addr,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
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

	// The registry is validated once and frozen for the process lifetime, so
	// an overlay edit needs a restart to take effect. Watch the file and say
	// so instead of silently serving stale prompts.
	if overlayPath != "" {
		watcher, err := agents.WatchFile(overlayPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: watch agents file: %v\n", err)
		} else {
			defer watcher.Close()
			go func() {
				for path := range watcher.Changes() {
					fmt.Printf("%s %s changed; restart the server to load the new agent definitions\n",
						color.YellowString("⚠"), path)
				}
			}()
		}
	}

	fmt.Printf("%s AppForge server listening on http://%s\n", color.GreenString("✓"), srv.Addr())
	fmt.Printf("  agents: %d registered", registry.Count())
	if overlayPath != "" {
		fmt.Printf(" (overrides from %s)", overlayPath)
	}
	fmt.Println()
	fmt.Printf("  store:  %s\n", db.Path())

	return srv.Serve(ctx)
}
