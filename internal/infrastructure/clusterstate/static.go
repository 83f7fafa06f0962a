package clusterstate

import (
	"context"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

// Static serves a fixed set of server groups. It backs offline planning
// runs and tests where no cluster-state service is reachable. Listing is
// scoped by cluster name, so one fixture can describe several clusters.
type Static struct {
	Groups []domain.ServerGroup
}

func (s *Static) ListServerGroups(_ context.Context, _, _, cluster, _ string) ([]domain.ServerGroup, error) {
	var out []domain.ServerGroup
	for _, g := range s.Groups {
		if g.Names().Cluster() == cluster {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Static) ResolveSource(ctx context.Context, req domain.DeployRequest) (domain.SourceServerGroup, error) {
	if req.Source != nil && req.Source.ServerGroupName != "" {
		return domain.ResolveSourceFromGroups(req, nil)
	}
	groups, err := s.ListServerGroups(ctx, req.Application, req.Account, req.Cluster, req.CloudProvider)
	if err != nil {
		return domain.SourceServerGroup{}, err
	}
	return domain.ResolveSourceFromGroups(req, groups)
}
