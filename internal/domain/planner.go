package domain

import "context"

// PlanPhase is the furthest state a planning pass reached.
type PlanPhase string

const (
	PlanPhaseNormalizing      PlanPhase = "normalizing"
	PlanPhaseStrategyResolved PlanPhase = "strategyResolved"
	PlanPhaseComposed         PlanPhase = "composed"
	PlanPhaseAssembled        PlanPhase = "assembled"
)

// PlanInput carries one deployment submission into a planning pass.
type PlanInput struct {
	StageID NodeID
	Config  map[string]any
}

// ComposeResult is what strategy resolution and flow composition
// produced. Injected is filled even when composition fails partway, so
// callers can see what already landed in the graph.
type ComposeResult struct {
	Strategy          string
	ReplacesBaseSteps bool
	Injected          []StageSpec
}

// PlanResult is the outcome of one planning pass.
type PlanResult struct {
	Phase             PlanPhase
	Request           DeployRequest
	Strategy          string
	ReplacesBaseSteps bool
	Injected          []StageSpec
	Steps             []Step
}

// DeployStagePlanner is the facade a host engine calls when it
// materializes a deployment stage. One pass normalizes the stage
// configuration, resolves the strategy, composes the clean-up flow into
// the graph, and assembles the stage's own step list. A pass runs
// single-threaded; only the activities it calls out to may block.
type DeployStagePlanner struct {
	Catalog *StrategyCatalog

	// BaseSteps contributes the concrete deployment steps. Nil means the
	// stage has no base steps beyond source determination.
	BaseSteps BaseStepProvider
}

// Normalize parses the stage configuration into a request. It is the
// only place configuration is read; later phases work from the request
// alone.
func (p *DeployStagePlanner) Normalize(config map[string]any) (DeployRequest, error) {
	return ParseDeployRequest(config)
}

// Compose resolves the request's strategy and lets it splice stages into
// the graph after stageID. The returned result carries whatever was
// injected before any error.
func (p *DeployStagePlanner) Compose(ctx context.Context, req DeployRequest, stageID NodeID, graph *StageGraph) (ComposeResult, error) {
	strategy := p.catalog().Resolve(req.Strategy)
	result := ComposeResult{
		Strategy:          strategy.Name(),
		ReplacesBaseSteps: strategy.ReplacesBaseSteps(),
	}

	before := len(graph.Injected)
	err := strategy.ComposeFlow(ctx, req, Flow{Stage: stageID, Graph: graph})
	result.Injected = graph.Injected[before:]
	return result, err
}

// Assemble builds the stage's ordered step list. Source determination
// always runs first; base steps follow unless the strategy replaced
// them.
func (p *DeployStagePlanner) Assemble(req DeployRequest, replacesBaseSteps bool) []Step {
	steps := []Step{{Name: StepDetermineSourceServerGroup}}
	if replacesBaseSteps || p.BaseSteps == nil {
		return steps
	}
	return append(steps, p.BaseSteps.BaseSteps(req)...)
}

// BuildSteps runs one full planning pass synchronously against the given
// graph. The graph is mutated in place; on error it retains any stages
// injected before the failure.
func (p *DeployStagePlanner) BuildSteps(ctx context.Context, in PlanInput, graph *StageGraph) (PlanResult, error) {
	result := PlanResult{Phase: PlanPhaseNormalizing}

	req, err := p.Normalize(in.Config)
	if err != nil {
		return result, err
	}
	result.Request = req

	comp, err := p.Compose(ctx, req, in.StageID, graph)
	result.Strategy = comp.Strategy
	result.ReplacesBaseSteps = comp.ReplacesBaseSteps
	result.Injected = comp.Injected
	if err != nil {
		result.Phase = PlanPhaseStrategyResolved
		return result, err
	}
	result.Phase = PlanPhaseComposed

	result.Steps = p.Assemble(req, comp.ReplacesBaseSteps)
	result.Phase = PlanPhaseAssembled
	return result, nil
}

func (p *DeployStagePlanner) catalog() *StrategyCatalog {
	if p.Catalog != nil {
		return p.Catalog
	}
	return NewStrategyCatalog()
}
