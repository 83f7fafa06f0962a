// Package planrepotest provides contract tests for
// [domain.PlanRepository] implementations.
package planrepotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

// Factory creates a fresh [domain.PlanRepository] for each test.
type Factory func(t *testing.T) domain.PlanRepository

// Run exercises the [domain.PlanRepository] contract.
func Run(t *testing.T, factory Factory) {
	samplePlan := func(id string) domain.PlanRecord {
		return domain.PlanRecord{
			ID:          id,
			Application: "orders",
			Account:     "prod",
			Cluster:     "orders-main",
			Strategy:    domain.StrategyRedBlack,
			Phase:       domain.PlanPhaseAssembled,
			Outcome:     domain.PlanSucceeded,
			Injected: []domain.StageSpec{
				{
					ID:      "deploy-1-disableServerGroup",
					After:   "deploy",
					Name:    "disableServerGroup",
					Type:    domain.StageTypeDisableServerGroup,
					Context: map[string]any{"asgName": "orders-main-v001", "regions": []any{"us-east-1"}},
				},
			},
			Steps: []domain.Step{
				{Name: domain.StepDetermineSourceServerGroup},
				{Name: "createServerGroup"},
			},
			CreatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		}
	}

	t.Run("PutAndGet", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		rec := samplePlan("p1")

		if err := repo.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}

		got, err := repo.Get(ctx, "p1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Strategy != domain.StrategyRedBlack || got.Outcome != domain.PlanSucceeded {
			t.Errorf("record = %+v", got)
		}
		if len(got.Injected) != 1 || got.Injected[0].Type != domain.StageTypeDisableServerGroup {
			t.Errorf("Injected = %+v, want one disable stage", got.Injected)
		}
		if got.Injected[0].Context["asgName"] != "orders-main-v001" {
			t.Errorf("injected context = %v", got.Injected[0].Context)
		}
		if len(got.Steps) != 2 || got.Steps[0].Name != domain.StepDetermineSourceServerGroup {
			t.Errorf("Steps = %+v", got.Steps)
		}
		if !got.CreatedAt.Equal(rec.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
		}
	})

	t.Run("PutDuplicate", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		_ = repo.Put(ctx, samplePlan("p1"))
		err := repo.Put(ctx, samplePlan("p1"))
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("second Put: got %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		repo := factory(t)
		_, err := repo.Get(context.Background(), "nonexistent")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Get: got %v, want ErrNotFound", err)
		}
	})

	t.Run("FailedPassRoundTrips", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		rec := samplePlan("p2")
		rec.Outcome = domain.PlanFailed
		rec.Phase = domain.PlanPhaseStrategyResolved
		rec.Error = "list server groups for prod/orders-main in us-east-1: boom"
		rec.Steps = nil

		if err := repo.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := repo.Get(ctx, "p2")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Outcome != domain.PlanFailed || got.Error != rec.Error {
			t.Errorf("record = %+v", got)
		}
		if len(got.Steps) != 0 {
			t.Errorf("Steps = %+v, want none", got.Steps)
		}
	})

	t.Run("ListByCluster", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		first := samplePlan("p1")
		second := samplePlan("p2")
		second.CreatedAt = first.CreatedAt.Add(time.Minute)
		other := samplePlan("p3")
		other.Cluster = "billing-main"

		for _, rec := range []domain.PlanRecord{second, first, other} {
			if err := repo.Put(ctx, rec); err != nil {
				t.Fatalf("Put(%s): %v", rec.ID, err)
			}
		}

		got, err := repo.ListByCluster(ctx, "orders", "prod", "orders-main")
		if err != nil {
			t.Fatalf("ListByCluster: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d records, want 2", len(got))
		}
		if got[0].ID != "p1" || got[1].ID != "p2" {
			t.Errorf("order = [%s, %s], want oldest first [p1, p2]", got[0].ID, got[1].ID)
		}
	})

	t.Run("ListByClusterEmpty", func(t *testing.T) {
		repo := factory(t)
		got, err := repo.ListByCluster(context.Background(), "orders", "prod", "never-deployed")
		if err != nil {
			t.Fatalf("ListByCluster: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d records, want none", len(got))
		}
	})
}
