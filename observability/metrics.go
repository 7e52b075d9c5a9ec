package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// TerminalMetrics records checkout lane activity.
type TerminalMetrics struct {
	Scans               *prometheus.CounterVec
	MemberLookups       *prometheus.CounterVec
	CheckoutsConfirmed  prometheus.Counter
	CheckoutsCancelled  prometheus.Counter
	FuelPointsAwarded   prometheus.Counter
	NotifyFailures      prometheus.Counter
	StaleResultsDropped prometheus.Counter
}

var (
	terminalOnce sync.Once
	terminalReg  *TerminalMetrics
)

// Terminal returns the lazily-initialised terminal metrics registry.
func Terminal() *TerminalMetrics {
	terminalOnce.Do(func() {
		terminalReg = &TerminalMetrics{
			Scans: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "dingles",
				Subsystem: "terminal",
				Name:      "scans_total",
				Help:      "Item scans segmented by outcome (added, not_found, age_rejected).",
			}, []string{"outcome"}),
			MemberLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "dingles",
				Subsystem: "terminal",
				Name:      "member_lookups_total",
				Help:      "Member card lookups segmented by outcome (inserted, not_found).",
			}, []string{"outcome"}),
			CheckoutsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "dingles",
				Subsystem: "terminal",
				Name:      "checkouts_confirmed_total",
				Help:      "Transactions confirmed on this lane.",
			}),
			CheckoutsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "dingles",
				Subsystem: "terminal",
				Name:      "checkouts_cancelled_total",
				Help:      "Checkout requests cancelled before confirmation.",
			}),
			FuelPointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "dingles",
				Subsystem: "terminal",
				Name:      "fuel_points_awarded_total",
				Help:      "Fuel points accrued to members at confirmation.",
			}),
			NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "dingles",
				Subsystem: "terminal",
				Name:      "notify_failures_total",
				Help:      "Best-effort point notifications that failed to reach the backend.",
			}),
			StaleResultsDropped: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "dingles",
				Subsystem: "terminal",
				Name:      "stale_results_dropped_total",
				Help:      "Backend responses discarded because the order moved on first.",
			}),
		}
		prometheus.MustRegister(
			terminalReg.Scans,
			terminalReg.MemberLookups,
			terminalReg.CheckoutsConfirmed,
			terminalReg.CheckoutsCancelled,
			terminalReg.FuelPointsAwarded,
			terminalReg.NotifyFailures,
			terminalReg.StaleResultsDropped,
		)
	})
	return terminalReg
}
