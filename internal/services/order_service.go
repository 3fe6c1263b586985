package services

import (
	"fmt"

	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
	"github.com/lipa-nganya/test-two-sub001/internal/utils"
)

// OrderItemInput carries one line item at creation time.
type OrderItemInput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CreateOrderInput is the minimal creation payload; this service is a
// settlement trigger boundary, not a full order lifecycle API.
type CreateOrderInput struct {
	CustomerPhone string           `json:"customer_phone"`
	TotalAmount   float64          `json:"total_amount"`
	TipAmount     float64          `json:"tip_amount"`
	PaymentType   string           `json:"payment_type"`
	DeliveryKind  string           `json:"delivery_kind"`
	DriverID      *int64           `json:"driver_id"`
	Items         []OrderItemInput `json:"items"`
}

// OrderService creates orders and runs the order-creation settlement hook.
type OrderService struct {
	Orders     OrderStore
	Settlement SettlementService
	RequestID  string
}

// CreateOrder persists the order and pre-reconciles the delivery-fee split
// without the payment gate, so a pending merchant entry exists from the
// start. A failed hook run does not fail creation; the poller converges it.
func (s OrderService) CreateOrder(in CreateOrderInput) (models.Order, SettlementResult, error) {
	if in.TotalAmount <= 0 {
		return models.Order{}, SettlementResult{}, domain.ValidationError{Field: "total_amount", Msg: "must be positive"}
	}
	switch in.PaymentType {
	case models.PaymentTypePayNow, models.PaymentTypePayOnDelivery:
	case "":
		in.PaymentType = models.PaymentTypePayNow
	default:
		return models.Order{}, SettlementResult{}, domain.ValidationError{Field: "payment_type", Msg: "unknown payment type"}
	}
	switch in.DeliveryKind {
	case models.DeliveryKindNormal, models.DeliveryKindInStore:
	case "":
		in.DeliveryKind = models.DeliveryKindNormal
	default:
		return models.Order{}, SettlementResult{}, domain.ValidationError{Field: "delivery_kind", Msg: "unknown delivery kind"}
	}

	order := models.Order{
		CustomerPhone: in.CustomerPhone,
		TotalAmount:   domain.Round2(in.TotalAmount),
		TipAmount:     domain.Round2(in.TipAmount),
		DriverID:      in.DriverID,
		PaymentType:   in.PaymentType,
		PaymentStatus: models.OrderPaymentPending,
		DeliveryKind:  in.DeliveryKind,
	}
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Price < 0 || it.Quantity <= 0 {
			return models.Order{}, SettlementResult{}, domain.ValidationError{Field: "items", Msg: "invalid line item"}
		}
		items = append(items, models.OrderItem{Name: it.Name, Price: domain.Round2(it.Price), Quantity: it.Quantity})
	}

	if err := s.Orders.Create(&order, items); err != nil {
		return models.Order{}, SettlementResult{}, err
	}

	opts := DefaultSettleOptions("order_create")
	opts.RequirePayment = false
	opts.ReloadOrder = false
	res, err := s.Settlement.EnsureDeliveryFeeSplitForOrder(&order, opts)
	if err != nil {
		// The order exists; settlement is idempotent and retried elsewhere.
		utils.LogEvent(s.RequestID, "order", "create", fmt.Sprintf("order_id=%d settlement hook failed: %v", order.ID, err))
		return order, SettlementResult{}, nil
	}
	return order, res, nil
}

// GetOrder fetches an order by id.
func (s OrderService) GetOrder(id int64) (models.Order, error) {
	return s.Orders.GetByID(id)
}
