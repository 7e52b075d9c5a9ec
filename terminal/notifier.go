package terminal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dinglespos/checkout"
	"dinglespos/observability"
)

// asyncNotifier delivers fuel point awards to the backend without holding up
// the confirmation. Failures are logged and counted; the engine's local
// accrual is authoritative either way.
type asyncNotifier struct {
	store   Store
	logger  *slog.Logger
	metrics *observability.TerminalMetrics
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ checkout.PointsNotifier = (*asyncNotifier)(nil)

func (n *asyncNotifier) GivePoints(_ context.Context, memberID string, points int64) error {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.store.GivePoints(ctx, memberID, points); err != nil {
			n.logger.Warn("fuel point notification failed",
				"memberId", memberID, "points", points, "error", err)
			n.metrics.NotifyFailures.Inc()
		}
	}()
	return nil
}

// flush waits for in-flight notifications, bounded by the given timeout.
func (n *asyncNotifier) flush(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
