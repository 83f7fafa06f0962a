package domain_test

import (
	"reflect"
	"testing"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

func groupNames(groups []domain.ServerGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}

func TestSortServerGroupsAscending(t *testing.T) {
	groups := []domain.ServerGroup{
		{Name: "orders-v010", Region: "us-east-1"},
		{Name: "orders-v002", Region: "us-east-1"},
		{Name: "orders", Region: "us-east-1"},
		{Name: "orders-v009", Region: "us-east-1"},
	}
	got := groupNames(domain.SortServerGroupsAscending(groups))
	want := []string{"orders", "orders-v002", "orders-v009", "orders-v010"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	// Input untouched.
	if groups[0].Name != "orders-v010" {
		t.Error("input slice was reordered")
	}
}

func TestLatestServerGroup(t *testing.T) {
	groups := []domain.ServerGroup{
		{Name: "orders-v002"},
		{Name: "orders-v010"},
		{Name: "orders-v009"},
	}
	latest, ok := domain.LatestServerGroup(groups)
	if !ok || latest.Name != "orders-v010" {
		t.Errorf("latest = %v ok = %v, want orders-v010", latest, ok)
	}

	if _, ok := domain.LatestServerGroup(nil); ok {
		t.Error("LatestServerGroup(nil) reported ok")
	}
}

func TestDestroyCandidates(t *testing.T) {
	mk := func(names ...string) []domain.ServerGroup {
		out := make([]domain.ServerGroup, len(names))
		for i, n := range names {
			out[i] = domain.ServerGroup{Name: n, Region: "us-east-1"}
		}
		return out
	}

	tests := []struct {
		name         string
		groups       []domain.ServerGroup
		maxRemaining int
		want         []string
	}{
		{"retention disabled", mk("orders-v001", "orders-v002"), 0, nil},
		{"negative limit disabled", mk("orders-v001"), -1, nil},
		{"no groups", nil, 2, nil},
		{"under limit", mk("orders-v001"), 3, nil},
		{"limit one keeps newest", mk("orders-v001", "orders-v002"), 1, []string{"orders-v001"}},
		{"limit reached", mk("orders-v001", "orders-v002", "orders-v003"), 3, []string{"orders-v001"}},
		{"over limit", mk("orders-v001", "orders-v002", "orders-v003"), 2, []string{"orders-v001", "orders-v002"}},
		{"single group never destroyed", mk("orders-v001"), 1, nil},
		{"oldest first", mk("orders-v003", "orders-v001", "orders-v002"), 2, []string{"orders-v001", "orders-v002"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DestroyCandidates(tt.groups, tt.maxRemaining)
			if gotNames := groupNames(got); !reflect.DeepEqual(gotNames, tt.want) {
				if len(gotNames) == 0 && len(tt.want) == 0 {
					return
				}
				t.Errorf("DestroyCandidates(%v, %d) = %v, want %v",
					groupNames(tt.groups), tt.maxRemaining, gotNames, tt.want)
			}
		})
	}
}

func TestGroupsInRegion(t *testing.T) {
	groups := []domain.ServerGroup{
		{Name: "orders-v001", Region: "us-east-1"},
		{Name: "orders-v002", Region: "us-west-2"},
		{Name: "orders-v003", Region: "us-east-1"},
	}
	got := groupNames(domain.GroupsInRegion(groups, "us-east-1"))
	want := []string{"orders-v001", "orders-v003"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
