package domain

import (
	"context"
	"fmt"
)

// ServerGroup describes one existing server group as reported by the
// cluster-state service.
type ServerGroup struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Names returns the parsed parts of the group's name.
func (g ServerGroup) Names() Names { return ParseServerGroupName(g.Name) }

// Sequence returns the group's push sequence, or -1 for unversioned
// names.
func (g ServerGroup) Sequence() int { return g.Names().Sequence }

// SourceServerGroup identifies the single pre-existing group an in-place
// strategy updates instead of replacing.
type SourceServerGroup struct {
	ServerGroupName string `json:"asgName"`
	Account         string `json:"account"`
	Region          string `json:"region"`
}

// ClusterGateway queries the cluster-state service for existing server
// groups. Implementations collapse a remote "cluster not found" into an
// empty slice: absence is the normal first-deployment case, not an
// error. Errors are reserved for infrastructure failures.
type ClusterGateway interface {
	ListServerGroups(ctx context.Context, application, account, cluster, cloudProvider string) ([]ServerGroup, error)
}

// SourceResolver resolves the source server group for strategies that
// update capacity in place rather than replacing it.
type SourceResolver interface {
	ResolveSource(ctx context.Context, req DeployRequest) (SourceServerGroup, error)
}

// ResolveSourceFromGroups picks the source group out of a known set. An
// explicit override on the request wins, with the request's account and
// first region filled in where the override leaves them blank. Otherwise
// the newest group belonging to the request's application in the first
// deployment region is the source. No eligible group yields
// [ErrNoSourceFound].
func ResolveSourceFromGroups(req DeployRequest, groups []ServerGroup) (SourceServerGroup, error) {
	if req.Source != nil && req.Source.ServerGroupName != "" {
		src := SourceServerGroup{
			ServerGroupName: req.Source.ServerGroupName,
			Account:         req.Source.Account,
			Region:          req.Source.Region,
		}
		if src.Account == "" {
			src.Account = req.Account
		}
		if src.Region == "" && len(req.Regions) > 0 {
			src.Region = req.Regions[0]
		}
		return src, nil
	}

	candidates := groups
	if len(req.Regions) > 0 {
		candidates = GroupsInRegion(groups, req.Regions[0])
	}
	var owned []ServerGroup
	for _, g := range candidates {
		if g.Names().Application == req.Application {
			owned = append(owned, g)
		}
	}
	latest, ok := LatestServerGroup(owned)
	if !ok {
		return SourceServerGroup{}, fmt.Errorf("cluster %s in account %s: %w", req.Cluster, req.Account, ErrNoSourceFound)
	}
	return SourceServerGroup{ServerGroupName: latest.Name, Account: req.Account, Region: latest.Region}, nil
}

// Diagnostic codes emitted during planning. None of them block a pass.
const (
	// DiagMultiRegionRedBlack marks a red/black deployment spanning more
	// than one region, a shape slated for removal.
	DiagMultiRegionRedBlack = "deprecation.multiRegionRedBlack"

	// DiagMultiRegionHighlander marks a highlander deployment spanning
	// more than one region.
	DiagMultiRegionHighlander = "deprecation.multiRegionHighlander"

	// DiagForeignServerGroup marks a clean-up candidate skipped because
	// its name parses to a different application.
	DiagForeignServerGroup = "ownership.foreignServerGroup"
)

// DiagnosticSink receives non-blocking diagnostic signals raised while a
// flow is composed.
type DiagnosticSink interface {
	Record(code, application string)
}

// NopDiagnostics discards all diagnostics. It stands in wherever no sink
// is wired.
type NopDiagnostics struct{}

func (NopDiagnostics) Record(code, application string) {}

// diagnostics returns sink, or the no-op sink when none is wired.
func diagnostics(sink DiagnosticSink) DiagnosticSink {
	if sink == nil {
		return NopDiagnostics{}
	}
	return sink
}
