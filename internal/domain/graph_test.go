package domain_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

func TestInjectAfter_SplicesBetweenNodeAndSuccessor(t *testing.T) {
	g := domain.NewStageGraph(
		domain.Node{ID: "deploy", Name: "deploy", Type: "deploy"},
		domain.Node{ID: "verify", Name: "verify", Type: "manualJudgment"},
	)

	id, err := g.InjectAfter("deploy", "disableServerGroup", domain.StageTypeDisableServerGroup, nil)
	if err != nil {
		t.Fatalf("InjectAfter: %v", err)
	}

	want := []domain.NodeID{id, "verify"}
	if got := g.Chain("deploy"); !reflect.DeepEqual(got, want) {
		t.Errorf("Chain(deploy) = %v, want %v", got, want)
	}
}

func TestInjectAfter_RepeatedCallsKeepInvocationOrder(t *testing.T) {
	g := domain.NewStageGraph(
		domain.Node{ID: "deploy", Name: "deploy", Type: "deploy"},
		domain.Node{ID: "verify", Name: "verify", Type: "manualJudgment"},
	)

	a, _ := g.InjectAfter("deploy", "scaleDown", domain.StageTypeResizeServerGroup, nil)
	b, _ := g.InjectAfter("deploy", "disableServerGroup", domain.StageTypeDisableServerGroup, nil)
	c, _ := g.InjectAfter("deploy", "destroyServerGroup", domain.StageTypeDestroyServerGroup, nil)

	want := []domain.NodeID{a, b, c, "verify"}
	if got := g.Chain("deploy"); !reflect.DeepEqual(got, want) {
		t.Errorf("Chain(deploy) = %v, want %v", got, want)
	}
}

func TestInjectAfter_UnknownReference(t *testing.T) {
	g := domain.NewStageGraph(domain.Node{ID: "deploy"})
	_, err := g.InjectAfter("missing", "disableServerGroup", domain.StageTypeDisableServerGroup, nil)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestInjectAfter_RecordsSpecs(t *testing.T) {
	g := domain.NewStageGraph(domain.Node{ID: "deploy"})
	ctx := map[string]any{"asgName": "orders-v001"}
	id, err := g.InjectAfter("deploy", "destroyServerGroup", domain.StageTypeDestroyServerGroup, ctx)
	if err != nil {
		t.Fatalf("InjectAfter: %v", err)
	}
	if len(g.Injected) != 1 {
		t.Fatalf("len(Injected) = %d, want 1", len(g.Injected))
	}
	spec := g.Injected[0]
	if spec.ID != id || spec.After != "deploy" || spec.Type != domain.StageTypeDestroyServerGroup {
		t.Errorf("spec = %+v", spec)
	}
	if spec.Context["asgName"] != "orders-v001" {
		t.Errorf("spec.Context = %v", spec.Context)
	}
}

func TestStageGraph_SurvivesSerialization(t *testing.T) {
	g := domain.NewStageGraph(
		domain.Node{ID: "deploy"},
		domain.Node{ID: "verify"},
	)
	if _, err := g.InjectAfter("deploy", "scaleDown", domain.StageTypeResizeServerGroup, nil); err != nil {
		t.Fatalf("InjectAfter: %v", err)
	}

	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded domain.StageGraph
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Injection continues after a round trip without losing order.
	id, err := decoded.InjectAfter("deploy", "disableServerGroup", domain.StageTypeDisableServerGroup, nil)
	if err != nil {
		t.Fatalf("InjectAfter after round trip: %v", err)
	}
	chain := decoded.Chain("deploy")
	if len(chain) != 3 || chain[1] != id {
		t.Errorf("Chain = %v, want scaleDown then %s then verify", chain, id)
	}
}
