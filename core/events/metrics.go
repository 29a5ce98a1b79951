package events

import "github.com/lucasolinas/agents/core/metrics"

// KindMetricsCollected identifies a completed measurement.
const KindMetricsCollected Kind = "metrics_collected"

// MetricsCollected carries a measurement from a provider or the session.
type MetricsCollected struct {
	Base
	Metrics metrics.AgentMetrics
}

// NewMetricsCollected creates a metrics collected event.
func NewMetricsCollected(m metrics.AgentMetrics) MetricsCollected {
	return MetricsCollected{Base: NewBase(KindMetricsCollected), Metrics: m}
}
