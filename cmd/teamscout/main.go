// Package main wires together the team statistics crawler service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vkozyrev/teamscout/internal/archive"
	"github.com/vkozyrev/teamscout/internal/backoff"
	"github.com/vkozyrev/teamscout/internal/clock/system"
	"github.com/vkozyrev/teamscout/internal/config"
	"github.com/vkozyrev/teamscout/internal/logging"
	"github.com/vkozyrev/teamscout/internal/ops"
	"github.com/vkozyrev/teamscout/internal/paginate"
	"github.com/vkozyrev/teamscout/internal/pipeline"
	"github.com/vkozyrev/teamscout/internal/politeness"
	"github.com/vkozyrev/teamscout/internal/render"
	"github.com/vkozyrev/teamscout/internal/scheduler"
	"github.com/vkozyrev/teamscout/internal/store/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:      cfg.DB.DSN,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		logger.Fatal("postgres init failed", zap.Error(err))
	}
	defer pool.Close()

	pageGov, err := politeness.New(cfg.Delay.NavigateMin, cfg.Delay.NavigateMax, cfg.Identity.UserAgents)
	if err != nil {
		logger.Fatal("navigation governor init failed", zap.Error(err))
	}
	entityGov, err := politeness.New(cfg.Delay.EntityMin, cfg.Delay.EntityMax, cfg.Identity.UserAgents)
	if err != nil {
		logger.Fatal("entity governor init failed", zap.Error(err))
	}

	navExec := backoff.New(cfg.Backoff.NavigateDelay, logger.Named("nav"))
	genExec := backoff.New(cfg.Backoff.BaseDelay, logger.Named("retry"))

	factory := render.NewChromeFactory(render.Config{
		Timeout:         cfg.Crawl.NavTimeout,
		DomainQPS:       cfg.Crawl.DomainQPS,
		BlockedPatterns: politeness.BlockedResources(),
		Headless:        true,
	}, logger.Named("render"))

	var sink pipeline.Archiver
	if cfg.Archive.Enabled {
		fsSink, err := archive.NewFileSink(cfg.Archive.Dir, cfg.Archive.MaxBytes, logger.Named("archive"))
		if err != nil {
			logger.Fatal("archive init failed", zap.Error(err))
		}
		sink = fsSink
	}

	pipe := pipeline.New(pipeline.Params{
		Config: pipeline.Config{
			BaseURL:  cfg.Site.BaseURL,
			MaxTeams: cfg.Crawl.MaxTeams,
		},
		Factory:     factory,
		Walker:      paginate.New(navExec, pageGov, cfg.Backoff.NavigateTries, cfg.Crawl.EmptyPageStop, logger.Named("walker")),
		NavExec:     navExec,
		NavTries:    cfg.Backoff.NavigateTries,
		Exec:        genExec,
		MaxAttempts: cfg.Backoff.MaxAttempts,
		PageGov:     pageGov,
		EntityGov:   entityGov,
		Stores: pipeline.Stores{
			Teams:   postgres.NewTeamStore(pool),
			Rosters: postgres.NewRosterStore(pool),
			Players: postgres.NewPlayerStore(pool),
			Matches: postgres.NewMatchStore(pool),
		},
		Archive: sink,
		Logger:  logger.Named("pipeline"),
	})

	sched := scheduler.New(
		pipe,
		postgres.NewCheckpointStore(pool),
		system.New(),
		cfg.Scheduler.Interval,
		logger.Named("scheduler"),
	)
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("scheduler start failed", zap.Error(err))
	}

	opsServer := ops.NewServer(pool, logger.Named("ops"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           opsServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("ops server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	if err := sched.Stop(); err != nil {
		logger.Error("scheduler shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
