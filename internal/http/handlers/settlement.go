package handlers

import (
	"net/http"

	"github.com/lipa-nganya/test-two-sub001/internal/http/middleware"
	"github.com/lipa-nganya/test-two-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/payments/webhook
// Upstream gateway reports a completed payment with a receipt identifier.
// Replays are safe: the receipt is recorded once, settlement is idempotent.
func PaymentWebhook(c *gin.Context) {
	var notice services.PaymentNotice
	if !BindJSONOrError(c, &notice) {
		return
	}

	svc := newPaymentService(middleware.GetRequestID(c))
	res, err := svc.ConfirmPayment(notice)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": notice.OrderID, "settlement": res})
}

// POST /api/orders/:id/settlement/repair
// Manual repair tooling: re-runs reconciliation for one order. With ?force=1
// the payment gate is dropped, matching the one-off repair scripts that fix
// ledgers for orders whose payment state is known out-of-band.
func RepairSettlement(c *gin.Context) {
	id, ok := OrderIDParam(c)
	if !ok {
		return
	}

	opts := services.DefaultSettleOptions("manual_repair")
	if c.Query("force") == "1" {
		opts.RequirePayment = false
	}

	svc := newSettlementService(middleware.GetRequestID(c))
	res, err := svc.EnsureDeliveryFeeSplit(id, opts)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "settlement": res})
}
