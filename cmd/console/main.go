package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neha-pm/npc-learn/internal/client"
	"github.com/neha-pm/npc-learn/internal/config"
)

func main() {
	cfg := config.LoadConsole()

	log := consoleLogger(cfg)

	api := client.NewAPI(cfg.WorldURL, cfg.Timeout, log)

	healthCtx, healthCancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer healthCancel()
	if err := api.Health(healthCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect to the world service at %s.\nPlease ensure worldd is running.\n", cfg.WorldURL)
		os.Exit(1)
	}

	dialCtx, dialCancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer dialCancel()
	stream, err := client.DialStream(dialCtx, cfg.StreamURL, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open the event stream at %s: %v\n", cfg.StreamURL, err)
		os.Exit(1)
	}
	defer func() {
		_ = stream.Close()
	}()

	p := tea.NewProgram(NewConsoleUI(cfg, api, stream, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// consoleLogger writes to CONSOLE_LOG_FILE when set; stdout belongs to
// the TUI, so without a file the logs are discarded.
func consoleLogger(cfg *config.ConsoleConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if path := os.Getenv("CONSOLE_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			return slog.New(slog.NewTextHandler(f, opts))
		}
		fmt.Fprintf(os.Stderr, "Could not open log file %s: %v\n", path, err)
	}
	return slog.New(slog.NewTextHandler(io.Discard, opts))
}
