package domain

import (
	"context"
	"time"
)

// PlanOutcome classifies a finished planning pass.
type PlanOutcome string

const (
	PlanSucceeded PlanOutcome = "succeeded"
	PlanFailed    PlanOutcome = "failed"
)

// PlanRecord is the audit trail of one planning pass: what was asked,
// which strategy answered, what was spliced into the graph, and how far
// the pass got. Failed passes are recorded too, since their partial
// injections stay in the graph and operators need to see them.
type PlanRecord struct {
	ID          string
	Application string
	Account     string
	Cluster     string
	Strategy    string
	Phase       PlanPhase
	Outcome     PlanOutcome
	Error       string
	Injected    []StageSpec
	Steps       []Step
	CreatedAt   time.Time
}

// PlanRepository persists planning-pass audit records.
type PlanRepository interface {
	Put(ctx context.Context, rec PlanRecord) error
	Get(ctx context.Context, id string) (PlanRecord, error)
	ListByCluster(ctx context.Context, application, account, cluster string) ([]PlanRecord, error)
}
