package services

import (
	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

// BreakdownService derives the canonical financial decomposition of an order
// from its persisted total and line items.
type BreakdownService struct {
	Orders OrderStore
}

// OrderFinancialBreakdown loads an order and computes its breakdown.
// Returns NotFoundError when the order does not exist.
func (s BreakdownService) OrderFinancialBreakdown(orderID int64) (models.FinancialBreakdown, error) {
	if orderID <= 0 {
		return models.FinancialBreakdown{}, domain.ValidationError{Field: "order_id", Msg: "missing order reference"}
	}
	order, err := s.Orders.GetByID(orderID)
	if err != nil {
		return models.FinancialBreakdown{}, err
	}
	items, err := s.Orders.ListItems(orderID)
	if err != nil {
		return models.FinancialBreakdown{}, err
	}
	return computeBreakdown(order, items), nil
}

// computeBreakdown is pure. The delivery fee is derived, never stored:
// whatever remains of the recorded total after tip and items. A negative
// remainder clamps to zero because the recorded total is trusted over
// line-item arithmetic; upstream discounts and rounding can otherwise
// produce a spurious negative fee.
func computeBreakdown(order models.Order, items []models.OrderItem) models.FinancialBreakdown {
	var itemsTotal float64
	for _, it := range items {
		itemsTotal += it.Price * float64(it.Quantity)
	}
	itemsTotal = domain.Round2(itemsTotal)

	tip := domain.Round2(order.TipAmount)
	fee := domain.ClampNonNegative(domain.Round2(order.TotalAmount - tip - itemsTotal))

	return models.FinancialBreakdown{
		ItemsTotal:  itemsTotal,
		DeliveryFee: fee,
		TipAmount:   tip,
		TotalAmount: domain.Round2(order.TotalAmount),
	}
}
