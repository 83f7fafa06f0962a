package domain

// Stage types understood by the host workflow engine. Clean-up flows are
// composed entirely from these.
const (
	StageTypeResizeServerGroup         = "resizeServerGroup"
	StageTypeDisableServerGroup        = "disableServerGroup"
	StageTypeDestroyServerGroup        = "destroyServerGroup"
	StageTypeModifyLaunchConfiguration = "modifyLaunchConfiguration"
	StageTypeRollingPush               = "rollingPush"
)

// StepDetermineSourceServerGroup is the mandatory first step of every
// deployment stage. It runs before any strategy-specific work so later
// steps and injected stages can rely on a resolved source.
const StepDetermineSourceServerGroup = "determineSourceServerGroup"

// Step is one named unit of executable work in a stage's step list. The
// host engine binds names to task implementations when it materializes
// the stage.
type Step struct {
	Name string `json:"name"`
}

// BaseStepProvider contributes the deployment steps a concrete stage runs
// after source determination. Strategies that replace base steps suppress
// the provider's contribution.
type BaseStepProvider interface {
	BaseSteps(req DeployRequest) []Step
}

// BaseStepFunc adapts a function to [BaseStepProvider].
type BaseStepFunc func(req DeployRequest) []Step

func (f BaseStepFunc) BaseSteps(req DeployRequest) []Step { return f(req) }

// Capacity is the min/max/desired size triple applied by resize stages.
type Capacity struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Desired int `json:"desired"`
}

// cleanupContext builds the context payload shared by all clean-up stages:
// which group is acted on, where it lives, and which credentials apply.
func cleanupContext(scope CleanupScope, cloudProvider, serverGroup, region string) map[string]any {
	return map[string]any{
		"cluster":         scope.Cluster,
		"credentials":     scope.Account,
		"cloudProvider":   cloudProvider,
		"asgName":         serverGroup,
		"serverGroupName": serverGroup,
		"regions":         []string{region},
	}
}

// cloneContext shallow-copies a stage context so stages never share a
// mutable map.
func cloneContext(ctx map[string]any) map[string]any {
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
