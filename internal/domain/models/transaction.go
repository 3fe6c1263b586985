package models

import "time"

// Transaction types.
const (
	TransactionTypePayment     = "payment"
	TransactionTypeDeliveryPay = "delivery_pay"
)

// Transaction statuses. Entries are cancelled, never hard-deleted.
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionCancelled = "cancelled"
)

// Transaction is one ledger entry: a single money movement tied to an order.
// A delivery_pay entry with nil DriverID and nil DriverWalletID is the
// merchant share; a delivery_pay entry carrying a DriverID is the driver
// share. Per order there is at most one active entry of each.
type Transaction struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"order_id"`
	Type           string    `json:"transaction_type"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	DriverID       *int64    `json:"driver_id,omitempty"`
	DriverWalletID *int64    `json:"driver_wallet_id,omitempty"`
	ReceiptNumber  string    `json:"receipt_number,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsActive reports whether the entry still counts toward the ledger.
func (t Transaction) IsActive() bool {
	return t.Status != TransactionCancelled
}

// IsCompleted reports whether the entry has been finalized.
func (t Transaction) IsCompleted() bool {
	return t.Status == TransactionCompleted
}

// IsMerchantShare reports whether the entry is the merchant-side share.
func (t Transaction) IsMerchantShare() bool {
	return t.DriverID == nil && t.DriverWalletID == nil
}

// TransactionUpdate supports PATCH-style updates via field presence.
type TransactionUpdate struct {
	Amount         *float64
	Status         *string
	PaymentStatus  *string
	DriverWalletID *int64
	ReceiptNumber  *string
	Notes          *string
}
