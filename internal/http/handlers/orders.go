package handlers

import (
	"net/http"

	"github.com/lipa-nganya/test-two-sub001/internal/http/middleware"
	"github.com/lipa-nganya/test-two-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/orders
// Order creation is a settlement trigger: the pending merchant entry is
// pre-created without the payment gate.
func CreateOrder(c *gin.Context) {
	var in services.CreateOrderInput
	if !BindJSONOrError(c, &in) {
		return
	}

	svc := newOrderService(middleware.GetRequestID(c))
	order, res, err := svc.CreateOrder(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "settlement": res})
}

// GET /api/orders/:id
func GetOrder(c *gin.Context) {
	id, ok := OrderIDParam(c)
	if !ok {
		return
	}
	svc := newOrderService(middleware.GetRequestID(c))
	order, err := svc.GetOrder(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GET /api/orders/:id/breakdown
func GetOrderBreakdown(c *gin.Context) {
	id, ok := OrderIDParam(c)
	if !ok {
		return
	}
	breakdown, err := newBreakdownService().OrderFinancialBreakdown(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "breakdown": breakdown})
}

// POST /api/orders/:id/delivered
// Delivery completion: settle first so the driver pay amount is current,
// then credit the driver's wallet exactly once.
func MarkOrderDelivered(c *gin.Context) {
	id, ok := OrderIDParam(c)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(c)

	settlement := newSettlementService(reqID)
	res, err := settlement.EnsureDeliveryFeeSplit(id, services.DefaultSettleOptions("delivery_completion"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if err := newWalletService(reqID).CreditDriverForDelivery(id); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": id, "settlement": res})
}

// GET /api/orders/:id/settlement-statement
func GetSettlementStatement(c *gin.Context) {
	id, ok := OrderIDParam(c)
	if !ok {
		return
	}
	pdf, filename, err := newStatementService(middleware.GetRequestID(c)).GenerateStatement(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
