package dbosworkflows_test

import (
	"context"
	"testing"
	"time"

	"github.com/dbos-inc/dbos-transact-golang/dbos"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stagecraft-cd/stagecraft/internal/application"
	"github.com/stagecraft-cd/stagecraft/internal/domain"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/clusterstate"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/dbosworkflows"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/sqlite"
)

func startPostgres(t *testing.T) string {
	t.Helper()

	// Ryuk (the reaper) requires a Docker bridge network that does not
	// exist on Podman. We handle cleanup via t.Cleanup instead.
	t.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("stagecraft_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get postgres connection string: %v", err)
	}
	return connStr
}

func TestPlanning_DBOS(t *testing.T) {
	connStr := startPostgres(t)

	ctx := context.Background()

	dbosCtx, err := dbos.NewDBOSContext(ctx, dbos.Config{
		AppName:     "stagecraft-dbos-test",
		DatabaseURL: connStr,
	})
	if err != nil {
		t.Fatalf("NewDBOSContext: %v", err)
	}

	db := sqlite.OpenTestDB(t)
	plans := &sqlite.PlanRepo{DB: db}

	state := &clusterstate.Static{Groups: []domain.ServerGroup{
		{Name: "orders-main-v001", Region: "us-east-1"},
		{Name: "orders-main-v002", Region: "us-east-1"},
	}}

	wf := &domain.PlanningWorkflow{
		Planner: &domain.DeployStagePlanner{
			Catalog: domain.DefaultStrategyCatalog(state, state, nil),
			BaseSteps: domain.BaseStepFunc(func(domain.DeployRequest) []domain.Step {
				return []domain.Step{{Name: "createServerGroup"}}
			}),
		},
		Plans: plans,
		Now:   func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) },
	}

	engine := &dbosworkflows.Engine{DBOSCtx: dbosCtx}
	runner, err := engine.PlanningRunner(wf)
	if err != nil {
		t.Fatalf("PlanningRunner: %v", err)
	}

	if err := dbos.Launch(dbosCtx); err != nil {
		t.Fatalf("dbos.Launch: %v", err)
	}
	t.Cleanup(func() { dbos.Shutdown(dbosCtx, 5*time.Second) })

	svc := &application.PlanningService{Workflow: runner, Plans: plans}

	out, err := svc.Plan(ctx, application.PlanDeploymentInput{
		StageID: "deploy-1",
		Config: map[string]any{
			"application": "orders",
			"stack":       "main",
			"account":     "prod",
			"strategy":    "rollingpush",
			"regions":     []any{"us-east-1"},
		},
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if out.Result.Strategy != domain.StrategyRollingPush {
		t.Errorf("Strategy = %q, want %q", out.Result.Strategy, domain.StrategyRollingPush)
	}
	if !out.Result.ReplacesBaseSteps {
		t.Error("ReplacesBaseSteps = false, want true for rolling push")
	}

	if len(out.Result.Injected) != 2 {
		t.Fatalf("Injected = %d stages, want modify plus push", len(out.Result.Injected))
	}
	modify, push := out.Result.Injected[0], out.Result.Injected[1]
	if modify.Type != domain.StageTypeModifyLaunchConfiguration {
		t.Errorf("Injected[0].Type = %q, want %q", modify.Type, domain.StageTypeModifyLaunchConfiguration)
	}
	if push.Type != domain.StageTypeRollingPush {
		t.Errorf("Injected[1].Type = %q, want %q", push.Type, domain.StageTypeRollingPush)
	}
	if got := push.Context["asgName"]; got != "orders-main-v002" {
		t.Errorf("push targets %v, want the newest group", got)
	}
	if got := push.Context["useSourceCapacity"]; got != true {
		t.Errorf("useSourceCapacity = %v, want true", got)
	}

	// Rolling push replaces the base deploy steps entirely.
	if len(out.Result.Steps) != 1 || out.Result.Steps[0].Name != domain.StepDetermineSourceServerGroup {
		t.Errorf("Steps = %v, want only determineSourceServerGroup", out.Result.Steps)
	}

	rec, err := svc.Get(ctx, out.RecordID)
	if err != nil {
		t.Fatalf("Get(%s): %v", out.RecordID, err)
	}
	if rec.Outcome != domain.PlanSucceeded {
		t.Errorf("Outcome = %q, want %q", rec.Outcome, domain.PlanSucceeded)
	}
	if rec.Strategy != domain.StrategyRollingPush {
		t.Errorf("recorded Strategy = %q, want %q", rec.Strategy, domain.StrategyRollingPush)
	}

	listed, err := svc.ListByCluster(ctx, "orders", "prod", "orders-main")
	if err != nil {
		t.Fatalf("ListByCluster: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != out.RecordID {
		t.Fatalf("ListByCluster = %+v, want just this pass", listed)
	}
}
