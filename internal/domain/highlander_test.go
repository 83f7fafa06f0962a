package domain_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

func TestHighlander_DestroysAllOldestFirst(t *testing.T) {
	gateway := &stubGateway{groups: []domain.ServerGroup{
		{Name: "orders-v002", Region: "us-east-1"},
		{Name: "orders-v001", Region: "us-east-1"},
	}}
	strategy := &domain.HighlanderStrategy{Gateway: gateway}
	req := domain.DeployRequest{
		Application: "orders",
		Account:     "prod",
		Cluster:     "orders",
		Regions:     []string{"us-east-1"},
	}

	g, flow := newDeployFlow()
	if err := strategy.ComposeFlow(context.Background(), req, flow); err != nil {
		t.Fatalf("ComposeFlow: %v", err)
	}
	want := []string{
		"destroyServerGroup(orders-v001)",
		"destroyServerGroup(orders-v002)",
	}
	if got := injectedSummary(g); !reflect.DeepEqual(got, want) {
		t.Errorf("injected = %v, want %v", got, want)
	}
}

func TestHighlander_SkipsForeignGroupsOnly(t *testing.T) {
	sink := &recordingSink{}
	gateway := &stubGateway{groups: []domain.ServerGroup{
		{Name: "orders-v001", Region: "us-east-1"},
		{Name: "billing-v005", Region: "us-east-1"},
		{Name: "orders-v003", Region: "us-east-1"},
	}}
	strategy := &domain.HighlanderStrategy{Gateway: gateway, Diagnostics: sink}
	req := domain.DeployRequest{
		Application: "orders",
		Cluster:     "orders",
		Regions:     []string{"us-east-1"},
	}

	g, flow := newDeployFlow()
	if err := strategy.ComposeFlow(context.Background(), req, flow); err != nil {
		t.Fatalf("ComposeFlow: %v", err)
	}
	want := []string{
		"destroyServerGroup(orders-v001)",
		"destroyServerGroup(orders-v003)",
	}
	if got := injectedSummary(g); !reflect.DeepEqual(got, want) {
		t.Errorf("injected = %v, want foreign group skipped: %v", got, want)
	}
	if len(sink.codes) != 1 || sink.codes[0] != domain.DiagForeignServerGroup {
		t.Errorf("diagnostics = %v, want one ownership skip", sink.codes)
	}
}

func TestHighlander_EmptyRegionInjectsNothing(t *testing.T) {
	strategy := &domain.HighlanderStrategy{Gateway: &stubGateway{}}
	req := domain.DeployRequest{
		Application: "orders",
		Cluster:     "orders",
		Regions:     []string{"us-east-1"},
	}

	g, flow := newDeployFlow()
	if err := strategy.ComposeFlow(context.Background(), req, flow); err != nil {
		t.Fatalf("ComposeFlow: %v", err)
	}
	if len(g.Injected) != 0 {
		t.Errorf("injected = %v, want none", injectedSummary(g))
	}
}

func TestHighlander_MultiRegionDeprecation(t *testing.T) {
	sink := &recordingSink{}
	strategy := &domain.HighlanderStrategy{Gateway: &stubGateway{}, Diagnostics: sink}
	req := domain.DeployRequest{
		Application: "orders",
		Cluster:     "orders",
		Regions:     []string{"us-east-1", "eu-west-1"},
	}

	_, flow := newDeployFlow()
	if err := strategy.ComposeFlow(context.Background(), req, flow); err != nil {
		t.Fatalf("ComposeFlow: %v", err)
	}
	if len(sink.codes) != 1 || sink.codes[0] != domain.DiagMultiRegionHighlander {
		t.Errorf("diagnostics = %v, want one %s", sink.codes, domain.DiagMultiRegionHighlander)
	}
}
