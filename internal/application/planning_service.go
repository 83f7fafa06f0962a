package application

import (
	"context"
	"fmt"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

// PlanDeploymentInput is the caller-provided input for one planning pass.
type PlanDeploymentInput struct {
	StageID domain.NodeID
	Config  map[string]any

	// Graph is the host graph to compose into; nil plans against a fresh
	// single-node graph.
	Graph *domain.StageGraph
}

// PlanningService executes planning passes as durable workflows and
// exposes the resulting audit trail.
type PlanningService struct {
	Workflow domain.PlanRunner
	Plans    domain.PlanRepository
}

// Plan starts a planning workflow for the given submission and waits for
// it to complete.
func (s *PlanningService) Plan(ctx context.Context, in PlanDeploymentInput) (domain.PlanningOutput, error) {
	if in.StageID == "" {
		return domain.PlanningOutput{}, fmt.Errorf("%w: stage ID is required", domain.ErrInvalidArgument)
	}
	if len(in.Config) == 0 {
		return domain.PlanningOutput{}, fmt.Errorf("%w: stage configuration is required", domain.ErrInvalidArgument)
	}

	handle, err := s.Workflow.Run(ctx, domain.PlanningInput{
		StageID: in.StageID,
		Config:  in.Config,
		Graph:   in.Graph,
	})
	if err != nil {
		return domain.PlanningOutput{}, fmt.Errorf("start planning workflow: %w", err)
	}
	return handle.AwaitResult(ctx)
}

// Get retrieves one planning pass record by ID.
func (s *PlanningService) Get(ctx context.Context, id string) (domain.PlanRecord, error) {
	return s.Plans.Get(ctx, id)
}

// ListByCluster returns the planning history of one cluster, oldest
// first.
func (s *PlanningService) ListByCluster(ctx context.Context, application, account, cluster string) ([]domain.PlanRecord, error) {
	return s.Plans.ListByCluster(ctx, application, account, cluster)
}
