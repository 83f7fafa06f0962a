package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	wfsqlite "github.com/cschleiden/go-workflows/backend/sqlite"
	"github.com/cschleiden/go-workflows/client"
	"github.com/cschleiden/go-workflows/worker"
	"github.com/dbos-inc/dbos-transact-golang/dbos"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/clusterstate"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/dbosworkflows"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/goworkflows"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/sqlite"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/telemetry"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Host the durable planning workflow and the metrics endpoint",
	Long: `Worker registers the planning workflow with the configured durable
engine and executes submitted passes until interrupted. Plan records
are written through the instrumented store, and prometheus metrics are
served on metrics_addr.`,
	RunE: runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	db, err := sqlite.Open(cfg.PlansDB)
	if err != nil {
		return err
	}
	defer db.Close()
	plans := &telemetry.InstrumentedPlans{Plans: &sqlite.PlanRepo{DB: db}}

	state := &clusterstate.Client{BaseURL: cfg.ClusterStateURL, Logger: logger}
	wf := newPlanningWorkflow(state, plans, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.WorkflowEngine {
	case "sqlite":
		return runSqliteWorker(ctx, cfg, logger, wf)
	case "dbos":
		return runDBOSWorker(ctx, cfg, logger, wf)
	default:
		return fmt.Errorf("unknown workflow engine %q", cfg.WorkflowEngine)
	}
}

func runSqliteWorker(ctx context.Context, cfg settings, logger *slog.Logger, wf *domain.PlanningWorkflow) error {
	backend := wfsqlite.NewSqliteBackend(cfg.WorkflowDB)
	w := worker.New(backend, nil)

	engine := &goworkflows.Engine{Worker: w, Client: client.New(backend)}
	if _, err := engine.PlanningRunner(wf); err != nil {
		return err
	}

	metrics := telemetry.NewServer(cfg.MetricsAddr)
	metrics.Start()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	logger.Info("planning worker started",
		"workflow", wf.Name(), "workflow_db", cfg.WorkflowDB, "metrics_addr", cfg.MetricsAddr)

	if err := metrics.Err(); err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return w.WaitForCompletion()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metrics.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	logger.Info("planning worker stopped")
	return err
}

func runDBOSWorker(ctx context.Context, cfg settings, logger *slog.Logger, wf *domain.PlanningWorkflow) error {
	if cfg.DBOSDatabaseURL == "" {
		return errors.New("workflow engine dbos requires dbos_database_url")
	}

	dbosCtx, err := dbos.NewDBOSContext(ctx, dbos.Config{
		AppName:     "stagecraft",
		DatabaseURL: cfg.DBOSDatabaseURL,
	})
	if err != nil {
		return fmt.Errorf("create DBOS context: %w", err)
	}

	engine := &dbosworkflows.Engine{DBOSCtx: dbosCtx}
	if _, err := engine.PlanningRunner(wf); err != nil {
		return err
	}

	metrics := telemetry.NewServer(cfg.MetricsAddr)
	metrics.Start()

	if err := dbos.Launch(dbosCtx); err != nil {
		return fmt.Errorf("launch DBOS: %w", err)
	}
	logger.Info("planning worker started",
		"workflow", wf.Name(), "engine", "dbos", "metrics_addr", cfg.MetricsAddr)

	if err := metrics.Err(); err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		dbos.Shutdown(dbosCtx, 5*time.Second)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metrics.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("planning worker stopped")
	return err
}
