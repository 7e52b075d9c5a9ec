package observability

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type eventMetrics struct {
	engineEvents *prometheus.CounterVec
}

var (
	eventMetricsOnce sync.Once
	eventRegistry    *eventMetrics
)

// Events returns the metrics registry tracking checkout engine events.
func Events() *eventMetrics {
	eventMetricsOnce.Do(func() {
		eventRegistry = &eventMetrics{
			engineEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "dingles",
				Subsystem: "events",
				Name:      "engine_events_total",
				Help:      "Count of checkout engine events segmented by type.",
			}, []string{"type"}),
		}
		prometheus.MustRegister(eventRegistry.engineEvents)
	})
	return eventRegistry
}

// RecordEngineEvent increments the counter for the supplied engine event type.
func (m *eventMetrics) RecordEngineEvent(eventType string) {
	if m == nil {
		return
	}
	normalized := strings.TrimSpace(eventType)
	if normalized == "" {
		normalized = "unknown"
	}
	m.engineEvents.WithLabelValues(normalized).Inc()
}
