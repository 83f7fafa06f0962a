package domain

import (
	"context"
	"errors"
	"time"
)

// PlanningInput is the serializable input of one planning pass.
type PlanningInput struct {
	StageID NodeID
	Config  map[string]any

	// Graph is the host graph snapshot to compose into. Nil seeds a
	// fresh graph holding only the deployment node.
	Graph *StageGraph
}

// PlanningOutput is the result of a durable planning pass. Graph carries
// the mutated snapshot back to the caller, including partial injections
// from a failed pass.
type PlanningOutput struct {
	RecordID string
	Result   PlanResult
	Graph    *StageGraph
}

// ComposeCleanupInput feeds the compose-cleanup activity.
type ComposeCleanupInput struct {
	Request DeployRequest
	StageID NodeID
	Graph   *StageGraph
}

// ComposeCleanupOutput reports composition results. A compose failure is
// a planning outcome rather than an activity failure: it comes back in
// Failed/Error with the partial graph intact, so the engine records it
// instead of retrying it.
type ComposeCleanupOutput struct {
	Graph  *StageGraph
	Result ComposeResult
	Failed bool
	Error  string
}

// AssembleStepsInput feeds the assemble-steps activity.
type AssembleStepsInput struct {
	Request           DeployRequest
	ReplacesBaseSteps bool
}

// PlanningWorkflow runs one planning pass as a durable workflow. Each
// phase is an activity, so a crashed pass resumes from its last completed
// phase instead of re-querying cluster state from the top. The workflow
// body itself is deterministic; all I/O and clock reads happen inside
// activities.
type PlanningWorkflow struct {
	Planner *DeployStagePlanner
	Plans   PlanRepository

	// Now stamps audit records. Nil means time.Now.
	Now func() time.Time
}

// Name identifies the workflow type to the engines.
func (w *PlanningWorkflow) Name() string { return "deploy-strategy-planning" }

// NormalizeRequest parses the stage configuration into a request.
func (w *PlanningWorkflow) NormalizeRequest() Activity[map[string]any, DeployRequest] {
	return NewActivity("normalize-request", func(ctx context.Context, config map[string]any) (DeployRequest, error) {
		return w.Planner.Normalize(config)
	})
}

// ComposeCleanup resolves the strategy and splices its stages into the
// graph snapshot.
func (w *PlanningWorkflow) ComposeCleanup() Activity[ComposeCleanupInput, ComposeCleanupOutput] {
	return NewActivity("compose-cleanup", func(ctx context.Context, in ComposeCleanupInput) (ComposeCleanupOutput, error) {
		out := ComposeCleanupOutput{Graph: in.Graph}
		result, err := w.Planner.Compose(ctx, in.Request, in.StageID, in.Graph)
		out.Result = result
		if err != nil {
			out.Failed = true
			out.Error = err.Error()
		}
		return out, nil
	})
}

// AssembleSteps builds the stage's step list.
func (w *PlanningWorkflow) AssembleSteps() Activity[AssembleStepsInput, []Step] {
	return NewActivity("assemble-steps", func(ctx context.Context, in AssembleStepsInput) ([]Step, error) {
		return w.Planner.Assemble(in.Request, in.ReplacesBaseSteps), nil
	})
}

// RecordPlan persists the audit record. Re-delivery of an already
// recorded ID is treated as success so the activity stays idempotent
// under at-least-once execution.
func (w *PlanningWorkflow) RecordPlan() Activity[PlanRecord, struct{}] {
	return NewActivity("record-plan", func(ctx context.Context, rec PlanRecord) (struct{}, error) {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = w.now()
		}
		err := w.Plans.Put(ctx, rec)
		if err != nil && !errors.Is(err, ErrAlreadyExists) {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
}

// Run executes one planning pass. Both outcomes are recorded; a failed
// pass returns its partial output alongside the error.
func (w *PlanningWorkflow) Run(runner DurableRunner, in PlanningInput) (PlanningOutput, error) {
	graph := in.Graph
	if graph == nil {
		graph = NewStageGraph(Node{ID: in.StageID, Name: "deploy", Type: "deploy"})
	}

	out := PlanningOutput{RecordID: runner.ID(), Graph: graph}
	out.Result.Phase = PlanPhaseNormalizing

	req, err := RunActivity(runner, w.NormalizeRequest(), in.Config)
	if err != nil {
		w.recordFailure(runner, in, &out, err)
		return out, err
	}
	out.Result.Request = req

	comp, err := RunActivity(runner, w.ComposeCleanup(), ComposeCleanupInput{
		Request: req,
		StageID: in.StageID,
		Graph:   graph,
	})
	if err != nil {
		w.recordFailure(runner, in, &out, err)
		return out, err
	}
	out.Graph = comp.Graph
	out.Result.Strategy = comp.Result.Strategy
	out.Result.ReplacesBaseSteps = comp.Result.ReplacesBaseSteps
	out.Result.Injected = comp.Result.Injected
	if comp.Failed {
		composeErr := errors.New(comp.Error)
		out.Result.Phase = PlanPhaseStrategyResolved
		w.recordFailure(runner, in, &out, composeErr)
		return out, composeErr
	}
	out.Result.Phase = PlanPhaseComposed

	steps, err := RunActivity(runner, w.AssembleSteps(), AssembleStepsInput{
		Request:           req,
		ReplacesBaseSteps: comp.Result.ReplacesBaseSteps,
	})
	if err != nil {
		w.recordFailure(runner, in, &out, err)
		return out, err
	}
	out.Result.Steps = steps
	out.Result.Phase = PlanPhaseAssembled

	if _, err := RunActivity(runner, w.RecordPlan(), w.planRecord(in, out, PlanSucceeded, "")); err != nil {
		return out, err
	}
	return out, nil
}

// recordFailure persists a failed pass best-effort; the pass already
// failed, so a recording error is not allowed to mask the cause.
func (w *PlanningWorkflow) recordFailure(runner DurableRunner, in PlanningInput, out *PlanningOutput, cause error) {
	_, _ = RunActivity(runner, w.RecordPlan(), w.planRecord(in, *out, PlanFailed, cause.Error()))
}

func (w *PlanningWorkflow) planRecord(in PlanningInput, out PlanningOutput, outcome PlanOutcome, errMsg string) PlanRecord {
	req := out.Result.Request
	application := req.Application
	if application == "" {
		application = stringValue(NormalizeStageConfig(in.Config), "application")
	}
	return PlanRecord{
		ID:          out.RecordID,
		Application: application,
		Account:     req.Account,
		Cluster:     req.Cluster,
		Strategy:    out.Result.Strategy,
		Phase:       out.Result.Phase,
		Outcome:     outcome,
		Error:       errMsg,
		Injected:    out.Result.Injected,
		Steps:       out.Result.Steps,
	}
}

func (w *PlanningWorkflow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now().UTC()
}
