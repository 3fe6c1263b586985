package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
	"github.com/lipa-nganya/test-two-sub001/internal/services"
	"github.com/lipa-nganya/test-two-sub001/internal/utils"
)

// OrderLister provides the poller's work queue.
type OrderLister interface {
	ListForReconciliation(limit int) ([]models.Order, error)
}

// Reconciler periodically re-runs delivery-fee settlement over paid orders
// whose driver pay has not been credited yet. It is just another trigger:
// safe to overlap with webhooks and manual repairs because the engine is
// idempotent.
type Reconciler struct {
	Orders     OrderLister
	Settlement services.SettlementService
	Interval   time.Duration
	BatchSize  int
}

// Run blocks until the context is cancelled, ticking at the configured
// interval. A tick failure is logged and the next tick retries.
func (r Reconciler) Run(ctx context.Context) {
	interval := r.Interval
	if interval <= 0 {
		interval = 2 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	utils.LogEvent("", "reconciler", "start", fmt.Sprintf("interval=%s", interval))
	for {
		select {
		case <-ctx.Done():
			utils.LogEvent("", "reconciler", "stop", "context cancelled")
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r Reconciler) tick() {
	orders, err := r.Orders.ListForReconciliation(r.BatchSize)
	if err != nil {
		utils.LogEvent("", "reconciler", "tick", "list failed: "+err.Error())
		return
	}

	for _, o := range orders {
		res, err := r.Settlement.EnsureDeliveryFeeSplit(o.ID, services.DefaultSettleOptions("poller"))
		if err != nil {
			utils.LogEvent("", "reconciler", "tick", fmt.Sprintf("order_id=%d failed: %v", o.ID, err))
			continue
		}
		if res.Skipped {
			utils.LogEvent("", "reconciler", "tick", fmt.Sprintf("order_id=%d skipped: %s", o.ID, res.Reason))
		}
	}
}
