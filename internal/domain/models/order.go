package models

import "time"

// Payment types supported on an order.
const (
	PaymentTypePayNow        = "pay_now"
	PaymentTypePayOnDelivery = "pay_on_delivery"
)

// Order-level payment status.
const (
	OrderPaymentPending = "pending"
	OrderPaymentPaid    = "paid"
)

// Delivery kinds. In-store (POS) purchases never carry a delivery fee.
const (
	DeliveryKindNormal  = "delivery"
	DeliveryKindInStore = "in_store"
)

// Order captures the fields the settlement engine reads and the money fields
// it owns (driver_pay_amount plus the credited latch). Lifecycle status fields
// live with the order service and are never touched here.
type Order struct {
	ID                  int64      `json:"id"`
	CustomerPhone       string     `json:"customer_phone"`
	TotalAmount         float64    `json:"total_amount"`
	TipAmount           float64    `json:"tip_amount"`
	DriverID            *int64     `json:"driver_id"`
	PaymentType         string     `json:"payment_type"`
	PaymentStatus       string     `json:"payment_status"`
	DeliveryKind        string     `json:"delivery_kind"`
	DriverPayAmount     float64    `json:"driver_pay_amount"`
	DriverPayCredited   bool       `json:"driver_pay_credited"`
	DriverPayCreditedAt *time.Time `json:"driver_pay_credited_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsInStore reports whether the order is a POS purchase.
func (o Order) IsInStore() bool {
	return o.DeliveryKind == DeliveryKindInStore
}

// IsPaid reports whether the order itself is marked paid.
func (o Order) IsPaid() bool {
	return o.PaymentStatus == OrderPaymentPaid
}

// OrderItem is a line item snapshot, immutable once the order is placed.
type OrderItem struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// FinancialBreakdown is the canonical fee decomposition of an order.
type FinancialBreakdown struct {
	ItemsTotal  float64 `json:"items_total"`
	DeliveryFee float64 `json:"delivery_fee"`
	TipAmount   float64 `json:"tip_amount"`
	TotalAmount float64 `json:"total_amount"`
}
