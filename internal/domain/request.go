package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// DeployRequest is the immutable snapshot of one deployment submission,
// parsed from the stage configuration after normalization. Planning never
// mutates it; composers read it and write stage contexts derived from it.
type DeployRequest struct {
	Application              string
	Account                  string
	Cluster                  string
	CloudProvider            string
	Regions                  []string
	Strategy                 string
	ScaleDownOldGroups       bool
	MaxRemainingServerGroups int
	CleanupRegions           []string
	Source                   *SourceOverride

	// Context is the normalized stage configuration the request was
	// parsed from. In-place strategies merge it into the contexts of the
	// stages they inject.
	Context map[string]any
}

// SourceOverride pins the source server group for in-place strategies
// instead of resolving it from live cluster state.
type SourceOverride struct {
	ServerGroupName string
	Account         string
	Region          string
}

// CleanupScope is the blast radius of one planning pass: clean-up stages
// may only target this account, cluster, and region set.
type CleanupScope struct {
	Account string
	Cluster string
	Regions []string
}

// CleanupScope derives the scope for this request. An explicit
// cleanupRegions list restricts clean-up to a subset of the deployment
// regions; otherwise the deployment regions bound it.
func (r DeployRequest) CleanupScope() CleanupScope {
	regions := r.CleanupRegions
	if len(regions) == 0 {
		regions = r.Regions
	}
	return CleanupScope{Account: r.Account, Cluster: r.Cluster, Regions: regions}
}

// Intersect filters regions to those inside the scope, preserving the
// order of the input.
func (s CleanupScope) Intersect(regions []string) []string {
	in := make(map[string]bool, len(s.Regions))
	for _, region := range s.Regions {
		in[region] = true
	}
	var out []string
	for _, region := range regions {
		if in[region] {
			out = append(out, region)
		}
	}
	return out
}

// NormalizeStageConfig merges deployment parameters nested under a legacy
// "cluster" key into the top level, nested values winning, and removes the
// nested key. Configurations without the nested form pass through
// unchanged, so repeating normalization is harmless. The input map is
// never modified.
func NormalizeStageConfig(config map[string]any) map[string]any {
	out := make(map[string]any, len(config))
	for k, v := range config {
		out[k] = v
	}
	nested, ok := out["cluster"].(map[string]any)
	if !ok {
		return out
	}
	delete(out, "cluster")
	for k, v := range nested {
		out[k] = v
	}
	return out
}

// ParseDeployRequest normalizes a stage configuration and reads it into a
// [DeployRequest]. Only the application name is mandatory; everything else
// defaults to its zero value, with the cluster name derived from
// application, stack, and detail when not given explicitly.
func ParseDeployRequest(config map[string]any) (DeployRequest, error) {
	cfg := NormalizeStageConfig(config)

	app := stringValue(cfg, "application")
	if app == "" {
		return DeployRequest{}, fmt.Errorf("%w: application is required", ErrInvalidArgument)
	}

	req := DeployRequest{
		Application:              app,
		Account:                  stringValue(cfg, "account", "credentials"),
		CloudProvider:            stringValue(cfg, "cloudProvider"),
		Strategy:                 stringValue(cfg, "strategy"),
		ScaleDownOldGroups:       boolValue(cfg, "scaleDown"),
		MaxRemainingServerGroups: intValue(cfg, "maxRemainingServerGroups", "maxRemainingAsgs"),
		CleanupRegions:           stringSlice(cfg["cleanupRegions"]),
		Regions:                  regionsFromConfig(cfg),
		Context:                  cfg,
	}

	req.Cluster = stringValue(cfg, "cluster")
	if req.Cluster == "" {
		stack := stringValue(cfg, "stack")
		detail := stringValue(cfg, "detail", "freeFormDetails")
		req.Cluster = ClusterName(app, stack, detail)
	}

	if src, ok := cfg["source"].(map[string]any); ok {
		req.Source = &SourceOverride{
			ServerGroupName: stringValue(src, "asgName", "serverGroupName"),
			Account:         stringValue(src, "account"),
			Region:          stringValue(src, "region"),
		}
	}

	return req, nil
}

// regionsFromConfig reads the deployment regions: an explicit regions list
// wins, else the keys of an availabilityZones map. List order is kept with
// duplicates dropped; map keys are sorted for determinism.
func regionsFromConfig(config map[string]any) []string {
	if regions := stringSlice(config["regions"]); len(regions) > 0 {
		seen := make(map[string]bool, len(regions))
		out := make([]string, 0, len(regions))
		for _, region := range regions {
			if region == "" || seen[region] {
				continue
			}
			seen[region] = true
			out = append(out, region)
		}
		return out
	}
	zones, ok := config["availabilityZones"].(map[string]any)
	if !ok || len(zones) == 0 {
		return nil
	}
	out := make([]string, 0, len(zones))
	for region := range zones {
		out = append(out, region)
	}
	sort.Strings(out)
	return out
}

func stringValue(config map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := config[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func boolValue(config map[string]any, keys ...string) bool {
	for _, key := range keys {
		switch v := config[key].(type) {
		case bool:
			return v
		case string:
			b, err := strconv.ParseBool(v)
			if err == nil {
				return b
			}
		}
	}
	return false
}

func intValue(config map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := config[key].(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		case string:
			n, err := strconv.Atoi(v)
			if err == nil {
				return n
			}
		}
	}
	return 0
}

func stringSlice(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
