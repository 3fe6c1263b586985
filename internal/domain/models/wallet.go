package models

import "time"

// DriverWallet is one row per driver: running balance plus lifetime totals.
// Created lazily on first credit and mutated only additively by the
// delivery-completion crediting step.
type DriverWallet struct {
	ID                    int64     `json:"id"`
	DriverID              int64     `json:"driver_id"`
	Balance               float64   `json:"balance"`
	TotalDeliveryPay      float64   `json:"total_delivery_pay"`
	TotalDeliveryPayCount int       `json:"total_delivery_pay_count"`
	TotalTipsReceived     float64   `json:"total_tips_received"`
	TotalTipsCount        int       `json:"total_tips_count"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// WalletCredit is one additive wallet mutation for a completed delivery.
type WalletCredit struct {
	DeliveryPay float64
	Tip         float64
}
