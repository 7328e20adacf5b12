package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/postfeed/internal/app"
	"github.com/glabrego/postfeed/internal/config"
	"github.com/glabrego/postfeed/internal/feed"
	"github.com/glabrego/postfeed/internal/logging"
	"github.com/glabrego/postfeed/internal/postapi"
	"github.com/glabrego/postfeed/internal/tui"
	"github.com/glabrego/postfeed/internal/tui/actions"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "postfeed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// The terminal belongs to the TUI, so logs go to a file.
	logger, closer, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	client := postapi.NewClient(cfg.APIBaseURL, nil, postapi.WithAccessToken(cfg.AccessToken))

	var program *tea.Program
	controller, err := app.NewController(client, logger, cfg.RequestTimeout, cfg.PageSize,
		feed.WithDefaultFilter(cfg.DefaultFilter),
		feed.WithObserver(func(s feed.Snapshot) {
			if program != nil {
				program.Send(actions.SnapshotMsg{Snapshot: s})
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("feed init error: %w", err)
	}

	logger.Info("starting", "api", cfg.APIBaseURL, "filter", cfg.DefaultFilter, "page_size", cfg.PageSize)
	program = tea.NewProgram(tui.NewModel(controller), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("tui exited", "err", err)
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
