package domain

import (
	"context"
	"fmt"
)

// RollingPushStrategy updates an existing server group in place, one
// batch of instances at a time, instead of creating a new group. It
// replaces the base deployment steps entirely: the only work is a launch
// configuration update followed by the rolling instance push.
type RollingPushStrategy struct {
	Sources SourceResolver
}

func (s *RollingPushStrategy) Name() string { return StrategyRollingPush }

func (s *RollingPushStrategy) ReplacesBaseSteps() bool { return true }

func (s *RollingPushStrategy) ComposeFlow(ctx context.Context, req DeployRequest, flow Flow) error {
	source, err := s.Sources.ResolveSource(ctx, req)
	if err != nil {
		return fmt.Errorf("resolve source for rolling push of %s: %w", req.Cluster, err)
	}

	// Both injected stages act on the source group, so the deployment
	// context is rewritten to point at it.
	merged := cloneContext(req.Context)
	merged["region"] = source.Region
	merged["regions"] = []string{source.Region}
	merged["asgName"] = source.ServerGroupName
	merged["useSourceCapacity"] = true
	merged["credentials"] = source.Account
	merged["source"] = map[string]any{
		"asgName":           source.ServerGroupName,
		"account":           source.Account,
		"region":            source.Region,
		"useSourceCapacity": true,
	}
	merged["deploy.server.groups"] = map[string][]string{
		source.Region: {source.ServerGroupName},
	}

	if _, err := flow.InjectAfter("modifyLaunchConfiguration", StageTypeModifyLaunchConfiguration, merged); err != nil {
		return err
	}
	if _, err := flow.InjectAfter("rollingPush", StageTypeRollingPush, cloneContext(merged)); err != nil {
		return err
	}
	return nil
}
