// Package telemetry exposes planner metrics and the diagnostic sink that
// feeds them.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DiagnosticsTotal counts non-blocking diagnostics raised while composing
// clean-up stages.
var DiagnosticsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stagecraft_planner_diagnostics_total",
		Help: "Diagnostics raised during planning, by code",
	},
	[]string{"code", "application"},
)

// PlansRecordedTotal counts planning passes that made it into storage.
var PlansRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stagecraft_planner_plans_recorded_total",
		Help: "Planning passes recorded, by strategy and outcome",
	},
	[]string{"strategy", "outcome"},
)

// StagesInjectedTotal counts stages spliced into workflow graphs.
var StagesInjectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stagecraft_planner_stages_injected_total",
		Help: "Clean-up stages spliced into workflow graphs, by stage type",
	},
	[]string{"type"},
)
