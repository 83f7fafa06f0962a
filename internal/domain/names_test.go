package domain_test

import (
	"testing"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

func TestParseServerGroupName(t *testing.T) {
	tests := []struct {
		name string
		want domain.Names
	}{
		{"orders", domain.Names{Application: "orders", Sequence: -1}},
		{"orders-v003", domain.Names{Application: "orders", Sequence: 3}},
		{"orders-main-v012", domain.Names{Application: "orders", Stack: "main", Sequence: 12}},
		{"orders-main-canary-v001", domain.Names{Application: "orders", Stack: "main", Detail: "canary", Sequence: 1}},
		{"orders-main-free-form-detail-v120", domain.Names{Application: "orders", Stack: "main", Detail: "free-form-detail", Sequence: 120}},
		{"orders--canary-v002", domain.Names{Application: "orders", Stack: "", Detail: "canary", Sequence: 2}},
		{"orders-main", domain.Names{Application: "orders", Stack: "main", Sequence: -1}},
		{"", domain.Names{Sequence: -1}},
	}
	for _, tt := range tests {
		got := domain.ParseServerGroupName(tt.name)
		if got != tt.want {
			t.Errorf("ParseServerGroupName(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseServerGroupName_SequenceNeverPartOfDetail(t *testing.T) {
	// A version-like token in the middle of the name is detail text, not a
	// sequence.
	got := domain.ParseServerGroupName("orders-main-v2beta-v007")
	if got.Detail != "v2beta" || got.Sequence != 7 {
		t.Errorf("got %+v, want Detail=v2beta Sequence=7", got)
	}
}

func TestClusterName_RoundTrips(t *testing.T) {
	tests := []struct {
		app, stack, detail string
		want               string
	}{
		{"orders", "", "", "orders"},
		{"orders", "main", "", "orders-main"},
		{"orders", "main", "canary", "orders-main-canary"},
		{"orders", "", "canary", "orders--canary"},
	}
	for _, tt := range tests {
		got := domain.ClusterName(tt.app, tt.stack, tt.detail)
		if got != tt.want {
			t.Errorf("ClusterName(%q, %q, %q) = %q, want %q", tt.app, tt.stack, tt.detail, got, tt.want)
		}
		parsed := domain.ParseServerGroupName(got)
		if parsed.Cluster() != got {
			t.Errorf("Cluster() round trip: %q -> %+v -> %q", got, parsed, parsed.Cluster())
		}
	}
}
