package domain

import "sort"

// GroupsInRegion filters server groups to one region, keeping input
// order.
func GroupsInRegion(groups []ServerGroup, region string) []ServerGroup {
	var out []ServerGroup
	for _, g := range groups {
		if g.Region == region {
			out = append(out, g)
		}
	}
	return out
}

// SortServerGroupsAscending returns the groups ordered oldest first by
// push sequence, ties broken by name. Unversioned groups sort before
// versioned ones. The input slice is not modified.
func SortServerGroupsAscending(groups []ServerGroup) []ServerGroup {
	out := make([]ServerGroup, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Sequence(), out[j].Sequence()
		if si != sj {
			return si < sj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// LatestServerGroup returns the newest group by push sequence, and false
// when the slice is empty.
func LatestServerGroup(groups []ServerGroup) (ServerGroup, bool) {
	if len(groups) == 0 {
		return ServerGroup{}, false
	}
	sorted := SortServerGroupsAscending(groups)
	return sorted[len(sorted)-1], true
}

// DestroyCandidates selects which groups a retention limit retires, oldest
// first. With N existing groups and a limit of K, N-K+1 groups are
// retired so that after the incoming deployment lands at most K remain.
// The newest existing group is never a candidate: it is the disable
// target kept around for rollback. A limit of zero or less disables
// retention entirely.
func DestroyCandidates(groups []ServerGroup, maxRemaining int) []ServerGroup {
	n := len(groups)
	if maxRemaining <= 0 || n == 0 {
		return nil
	}
	count := n - maxRemaining + 1
	if count > n-1 {
		count = n - 1
	}
	if count <= 0 {
		return nil
	}
	return SortServerGroupsAscending(groups)[:count]
}
