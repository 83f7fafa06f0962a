package telemetry

import "log/slog"

// Sink records planner diagnostics as Prometheus counters and structured
// log lines. It never blocks a planning pass.
type Sink struct {
	Logger *slog.Logger
}

func (s *Sink) Record(code, application string) {
	DiagnosticsTotal.WithLabelValues(code, application).Inc()
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("planner diagnostic", "code", code, "application", application)
}
