package domain

import (
	"context"
	"fmt"
)

// HighlanderStrategy leaves only the incoming deployment alive: every
// existing server group in scope is destroyed, oldest first, as soon as
// the new group is up. There can be only one.
type HighlanderStrategy struct {
	Gateway     ClusterGateway
	Diagnostics DiagnosticSink
}

func (s *HighlanderStrategy) Name() string { return StrategyHighlander }

func (s *HighlanderStrategy) ReplacesBaseSteps() bool { return false }

func (s *HighlanderStrategy) ComposeFlow(ctx context.Context, req DeployRequest, flow Flow) error {
	if len(req.Regions) > 1 {
		diagnostics(s.Diagnostics).Record(DiagMultiRegionHighlander, req.Application)
	}

	scope := req.CleanupScope()
	guard := OwnershipGuard{Diagnostics: s.Diagnostics}

	for _, region := range scope.Intersect(req.Regions) {
		existing, err := s.Gateway.ListServerGroups(ctx, req.Application, scope.Account, scope.Cluster, req.CloudProvider)
		if err != nil {
			return fmt.Errorf("list server groups for %s/%s in %s: %w", scope.Account, scope.Cluster, region, err)
		}

		for _, g := range SortServerGroupsAscending(GroupsInRegion(existing, region)) {
			if !guard.Owns(req, g.Name) {
				continue
			}
			destroy := cleanupContext(scope, req.CloudProvider, g.Name, g.Region)
			if _, err := flow.InjectAfter("destroyServerGroup", StageTypeDestroyServerGroup, destroy); err != nil {
				return err
			}
		}
	}
	return nil
}
