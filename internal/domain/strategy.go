package domain

import "context"

// Strategy names accepted in stage configuration. Matching is
// case-insensitive; anything unrecognized falls back to [NoneStrategy].
const (
	StrategyRedBlack    = "redblack"
	StrategyHighlander  = "highlander"
	StrategyRollingPush = "rollingpush"
	StrategyNone        = ""
)

// Strategy composes the clean-up and transition flow for one deployment
// strategy variant. ComposeFlow is invoked from workflow activities so
// implementations may query live cluster state; pure variants simply
// ignore that freedom.
type Strategy interface {
	// Name returns the configuration name the strategy answers to.
	Name() string

	// ComposeFlow splices strategy-specific stages into the graph after
	// the flow's deployment node. Composition is not transactional: on
	// error, stages already injected stay in place for inspection.
	ComposeFlow(ctx context.Context, req DeployRequest, flow Flow) error

	// ReplacesBaseSteps reports whether the strategy substitutes the
	// stage's base deployment steps entirely.
	ReplacesBaseSteps() bool
}

// NoneStrategy deploys without touching existing server groups: nothing
// is injected and the base deployment steps run as-is.
type NoneStrategy struct{}

func (NoneStrategy) Name() string { return StrategyNone }

func (NoneStrategy) ComposeFlow(ctx context.Context, req DeployRequest, flow Flow) error {
	return nil
}

func (NoneStrategy) ReplacesBaseSteps() bool { return false }
