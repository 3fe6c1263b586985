package services

import (
	"fmt"
	"strings"

	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
	"github.com/lipa-nganya/test-two-sub001/internal/utils"
)

// PaymentNotice is the upstream gateway's "payment completed" report. The
// gateway protocol itself is opaque here; only the receipt matters.
type PaymentNotice struct {
	OrderID       int64   `json:"order_id"`
	ReceiptNumber string  `json:"receipt_number"`
	Amount        float64 `json:"amount"`
}

// PaymentService records confirmed payments and kicks off settlement.
type PaymentService struct {
	Orders       OrderStore
	Transactions TransactionStore
	Settlement   SettlementService
	RequestID    string
}

// ConfirmPayment persists the payment ledger entry for a gateway receipt,
// marks the order paid, and reconciles the delivery-fee split. Replayed
// webhooks are absorbed: the same receipt never produces a second entry.
func (s PaymentService) ConfirmPayment(n PaymentNotice) (SettlementResult, error) {
	if n.OrderID <= 0 {
		return SettlementResult{}, domain.ValidationError{Field: "order_id", Msg: "missing order reference"}
	}
	receipt := strings.TrimSpace(n.ReceiptNumber)
	if receipt == "" {
		return SettlementResult{}, domain.ValidationError{Field: "receipt_number", Msg: "missing receipt number"}
	}

	order, err := s.Orders.GetByID(n.OrderID)
	if err != nil {
		return SettlementResult{}, err
	}

	payments, err := s.Transactions.ListByOrderAndType(order.ID, models.TransactionTypePayment)
	if err != nil {
		return SettlementResult{}, err
	}

	var existing *models.Transaction
	for i := range payments {
		if payments[i].ReceiptNumber == receipt {
			existing = &payments[i]
			break
		}
	}

	completed := models.TransactionCompleted
	switch {
	case existing == nil:
		amount := domain.Round2(n.Amount)
		if amount < domain.AmountEpsilon {
			amount = domain.Round2(order.TotalAmount)
		}
		t := models.Transaction{
			OrderID:       order.ID,
			Type:          models.TransactionTypePayment,
			Amount:        amount,
			Status:        completed,
			PaymentStatus: completed,
			ReceiptNumber: receipt,
			Notes:         "payment confirmed by gateway",
		}
		if err := s.Transactions.Create(&t); err != nil {
			return SettlementResult{}, err
		}
	case !existing.IsCompleted():
		if err := s.Transactions.Update(existing.ID, models.TransactionUpdate{
			Status:        &completed,
			PaymentStatus: &completed,
		}); err != nil {
			return SettlementResult{}, err
		}
	default:
		utils.LogEvent(s.RequestID, "payment", "confirm", fmt.Sprintf("order_id=%d receipt=%s replayed", order.ID, receipt))
	}

	if !order.IsPaid() {
		if err := s.Orders.UpdatePaymentStatus(order.ID, models.OrderPaymentPaid); err != nil {
			return SettlementResult{}, err
		}
	}

	utils.LogEvent(s.RequestID, "payment", "confirm", fmt.Sprintf("order_id=%d receipt=%s", order.ID, receipt))
	return s.Settlement.EnsureDeliveryFeeSplit(order.ID, DefaultSettleOptions("payment_webhook"))
}
