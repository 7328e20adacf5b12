// Command postfeed-devserver serves the post listing endpoint from a local
// SQLite database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glabrego/postfeed/internal/config"
	"github.com/glabrego/postfeed/internal/devserver"
	"github.com/glabrego/postfeed/internal/logging"
	"github.com/glabrego/postfeed/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "postfeed-devserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadDevServerFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := logging.Stderr(cfg.LogLevel)

	repo, err := storage.NewRepository(cfg.DBPath, cfg.SearchMode)
	if err != nil {
		return fmt.Errorf("storage init error: %w", err)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := repo.Init(initCtx); err != nil {
		return fmt.Errorf("storage schema error: %w", err)
	}
	if cfg.Seed {
		n, err := repo.Seed(initCtx, time.Now())
		if err != nil {
			return fmt.Errorf("seed error: %w", err)
		}
		logger.Info("seeded demo data", "posts", n, "db", cfg.DBPath)
	}

	srv, err := devserver.New(repo, devserver.Options{
		ViewerID: cfg.ViewerID,
		Latency:  cfg.Latency,
		Logger:   logger.WithPrefix("http"),
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return nil
	})
	return g.Wait()
}
