package services

import (
	"fmt"
	"time"

	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
	"github.com/lipa-nganya/test-two-sub001/internal/utils"
)

// WalletService credits a driver exactly once per completed delivery. It is
// the only code allowed to mutate wallet balances and the only code that
// creates driver-side delivery_pay entries.
type WalletService struct {
	Orders       OrderStore
	Transactions TransactionStore
	Wallets      WalletStore
	RequestID    string
	Now          func() time.Time
}

func (s WalletService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreditDriverForDelivery applies the driver's delivery pay (plus any tip) to
// their wallet when an order transitions to delivered.
//
// Idempotency is two-layered: the order's one-way driverPayCredited latch
// short-circuits repeat calls, and because the latch row and the wallet row
// are separate, a crash between the wallet write and the latch write is
// detected on the next attempt by checking for an already-completed driver
// ledger entry before crediting again. The latch is set only after the
// wallet mutation has succeeded.
func (s WalletService) CreditDriverForDelivery(orderID int64) error {
	if orderID <= 0 {
		return domain.ValidationError{Field: "order_id", Msg: "missing order reference"}
	}

	settleLocks.lock(orderID)
	defer settleLocks.unlock(orderID)

	order, err := s.Orders.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.DriverPayCredited {
		return nil
	}
	if order.DriverID == nil {
		utils.LogEvent(s.RequestID, "wallet", "credit_skip", fmt.Sprintf("order_id=%d no driver assigned", orderID))
		return nil
	}

	amount := domain.Round2(order.DriverPayAmount)
	tip := domain.Round2(order.TipAmount)
	if amount < domain.AmountEpsilon {
		// Nothing to move; the latch stays open so a later repair run that
		// sets a driver pay amount can still credit.
		utils.LogEvent(s.RequestID, "wallet", "credit_skip", fmt.Sprintf("order_id=%d no driver pay amount", orderID))
		return nil
	}

	wallet, err := s.Wallets.GetByDriverID(*order.DriverID)
	if err != nil {
		return err
	}
	if wallet == nil {
		wallet, err = s.Wallets.Create(*order.DriverID)
		if err != nil {
			return err
		}
	}

	entries, err := s.Transactions.ListByOrderAndType(orderID, models.TransactionTypeDeliveryPay)
	if err != nil {
		return err
	}
	_, driverEntry, _ := partitionDeliveryPay(entries, order.DriverID)

	alreadyCredited := driverEntry != nil && driverEntry.IsCompleted() && driverEntry.DriverWalletID != nil
	if alreadyCredited {
		// Wallet write landed on a previous attempt; only the latch is
		// missing. Repair it without crediting again.
		utils.LogEvent(s.RequestID, "wallet", "credit_recovered", fmt.Sprintf("order_id=%d transaction_id=%d", orderID, driverEntry.ID))
		return s.Orders.MarkDriverPayCredited(orderID, s.now())
	}

	completed := models.TransactionCompleted
	if driverEntry == nil {
		t := models.Transaction{
			OrderID:        orderID,
			Type:           models.TransactionTypeDeliveryPay,
			Amount:         amount,
			Status:         completed,
			PaymentStatus:  completed,
			DriverID:       order.DriverID,
			DriverWalletID: &wallet.ID,
			ReceiptNumber:  fmt.Sprintf("DRV-%d-%d", orderID, *order.DriverID),
			Notes:          "driver delivery pay (delivery_completion)",
		}
		if err := s.Transactions.Create(&t); err != nil {
			return err
		}
	} else {
		notes := appendNote(driverEntry.Notes, "finalized on delivery completion")
		upd := models.TransactionUpdate{
			Amount:         &amount,
			Status:         &completed,
			PaymentStatus:  &completed,
			DriverWalletID: &wallet.ID,
			Notes:          &notes,
		}
		if err := s.Transactions.Update(driverEntry.ID, upd); err != nil {
			return err
		}
	}

	if err := s.Wallets.Credit(wallet.ID, models.WalletCredit{DeliveryPay: amount, Tip: tip}); err != nil {
		return err
	}

	utils.LogEvent(s.RequestID, "wallet", "credited",
		fmt.Sprintf("order_id=%d driver_id=%d amount=%.2f tip=%.2f", orderID, *order.DriverID, amount, tip))
	return s.Orders.MarkDriverPayCredited(orderID, s.now())
}
