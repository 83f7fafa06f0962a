package domain

import (
	"context"
	"fmt"
)

// RedBlackStrategy keeps the previous server group around for rollback:
// per region it scales the newest existing group down (optional), then
// disables it, then retires the oldest groups beyond the retention limit.
// The incoming deployment's base steps still run; injected stages execute
// after them.
type RedBlackStrategy struct {
	Gateway     ClusterGateway
	Diagnostics DiagnosticSink
}

func (s *RedBlackStrategy) Name() string { return StrategyRedBlack }

func (s *RedBlackStrategy) ReplacesBaseSteps() bool { return false }

func (s *RedBlackStrategy) ComposeFlow(ctx context.Context, req DeployRequest, flow Flow) error {
	if len(req.Regions) > 1 {
		diagnostics(s.Diagnostics).Record(DiagMultiRegionRedBlack, req.Application)
	}

	scope := req.CleanupScope()
	guard := OwnershipGuard{Diagnostics: s.Diagnostics}

	for _, region := range scope.Intersect(req.Regions) {
		existing, err := s.Gateway.ListServerGroups(ctx, req.Application, scope.Account, scope.Cluster, req.CloudProvider)
		if err != nil {
			return fmt.Errorf("list server groups for %s/%s in %s: %w", scope.Account, scope.Cluster, region, err)
		}

		inRegion := GroupsInRegion(existing, region)
		latest, ok := LatestServerGroup(inRegion)
		if !ok {
			continue
		}
		if !guard.Owns(req, latest.Name) {
			continue
		}

		target := cleanupContext(scope, req.CloudProvider, latest.Name, region)
		if req.ScaleDownOldGroups {
			scaleDown := cloneContext(target)
			scaleDown["capacity"] = Capacity{}
			if _, err := flow.InjectAfter("scaleDown", StageTypeResizeServerGroup, scaleDown); err != nil {
				return err
			}
		}
		if _, err := flow.InjectAfter("disableServerGroup", StageTypeDisableServerGroup, target); err != nil {
			return err
		}

		for _, g := range DestroyCandidates(inRegion, req.MaxRemainingServerGroups) {
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
