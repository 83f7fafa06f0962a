package telemetry

import (
	"context"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

// InstrumentedPlans decorates a plan repository and counts every pass
// that reaches storage. Failed writes are not counted, so retried
// idempotent writes stay at one.
type InstrumentedPlans struct {
	Plans domain.PlanRepository
}

func (p *InstrumentedPlans) Put(ctx context.Context, rec domain.PlanRecord) error {
	if err := p.Plans.Put(ctx, rec); err != nil {
		return err
	}
	PlansRecordedTotal.WithLabelValues(strategyLabel(rec.Strategy), string(rec.Outcome)).Inc()
	for _, spec := range rec.Injected {
		StagesInjectedTotal.WithLabelValues(spec.Type).Inc()
	}
	return nil
}

func (p *InstrumentedPlans) Get(ctx context.Context, id string) (domain.PlanRecord, error) {
	return p.Plans.Get(ctx, id)
}

func (p *InstrumentedPlans) ListByCluster(ctx context.Context, application, account, cluster string) ([]domain.PlanRecord, error) {
	return p.Plans.ListByCluster(ctx, application, account, cluster)
}

// strategyLabel keeps the fallback strategy distinguishable from a
// missing label value.
func strategyLabel(name string) string {
	if name == "" {
		return "none"
	}
	return name
}
