package services

import (
	"fmt"
	"sync"

	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
	"github.com/lipa-nganya/test-two-sub001/internal/utils"
)

// Skip reasons returned when reconciliation has nothing to do yet. These are
// expected, retryable states, not errors; callers recover by calling again.
const (
	SkipReasonPOSOrder          = "pos_order_no_delivery_fee"
	SkipReasonNoDeliveryFee     = "no_delivery_fee"
	SkipReasonPaymentIncomplete = "payment_not_completed"
)

// SettleOptions controls one reconciliation pass. Context is a free-text
// audit tag embedded in ledger notes.
type SettleOptions struct {
	Context        string
	RequirePayment bool
	ReloadOrder    bool
}

// DefaultSettleOptions returns the options every trigger starts from:
// payment required, order reloaded.
func DefaultSettleOptions(context string) SettleOptions {
	return SettleOptions{Context: context, RequirePayment: true, ReloadOrder: true}
}

// SettlementResult reports the outcome of one reconciliation pass.
type SettlementResult struct {
	Skipped               bool    `json:"skipped"`
	Reason                string  `json:"reason,omitempty"`
	DeliveryFee           float64 `json:"delivery_fee"`
	DriverPayAmount       float64 `json:"driver_pay_amount"`
	MerchantAmount        float64 `json:"merchant_amount"`
	DriverTransactionID   *int64  `json:"driver_transaction_id"`
	MerchantTransactionID *int64  `json:"merchant_transaction_id"`
	DriverWalletID        *int64  `json:"driver_wallet_id"`
}

// SettlementService reconciles the merchant/driver split of an order's
// delivery fee. EnsureDeliveryFeeSplit is idempotent: any trigger (order
// creation, payment webhook, poller, delivery completion, manual repair) may
// call it any number of times, in any order, and the ledger converges to the
// same state. It never credits a driver wallet; that belongs exclusively to
// WalletService on delivery completion.
type SettlementService struct {
	Orders       OrderStore
	Transactions TransactionStore
	Wallets      WalletStore
	Settings     SettingsStore
	RequestID    string
}

// EnsureDeliveryFeeSplit reconciles by order id.
func (s SettlementService) EnsureDeliveryFeeSplit(orderID int64, opts SettleOptions) (SettlementResult, error) {
	if orderID <= 0 {
		return SettlementResult{}, domain.ValidationError{Field: "order_id", Msg: "missing order reference"}
	}

	settleLocks.lock(orderID)
	defer settleLocks.unlock(orderID)

	order, err := s.Orders.GetByID(orderID)
	if err != nil {
		return SettlementResult{}, err
	}
	return s.reconcile(order, opts)
}

// EnsureDeliveryFeeSplitForOrder reconciles an already-loaded order,
// reloading it first unless the options opt out. The caller's copy is
// refreshed with the computed driver pay.
func (s SettlementService) EnsureDeliveryFeeSplitForOrder(order *models.Order, opts SettleOptions) (SettlementResult, error) {
	if order == nil || order.ID <= 0 {
		return SettlementResult{}, domain.ValidationError{Field: "order", Msg: "missing order reference"}
	}

	settleLocks.lock(order.ID)
	defer settleLocks.unlock(order.ID)

	cur := *order
	if opts.ReloadOrder {
		reloaded, err := s.Orders.GetByID(order.ID)
		if err != nil {
			return SettlementResult{}, err
		}
		cur = reloaded
	}

	res, err := s.reconcile(cur, opts)
	if err == nil && !res.Skipped {
		order.DriverPayAmount = res.DriverPayAmount
	}
	return res, err
}

func (s SettlementService) reconcile(order models.Order, opts SettleOptions) (SettlementResult, error) {
	// POS purchases never carry a delivery fee, regardless of history.
	if order.IsInStore() {
		if err := s.cancelAllDeliveryPay(order.ID, "pos order has no delivery fee ("+opts.Context+")"); err != nil {
			return SettlementResult{}, err
		}
		return SettlementResult{Skipped: true, Reason: SkipReasonPOSOrder}, nil
	}

	items, err := s.Orders.ListItems(order.ID)
	if err != nil {
		return SettlementResult{}, err
	}
	breakdown := computeBreakdown(order, items)

	// An order genuinely without a delivery fee must not fabricate
	// zero-amount ledger entries.
	if breakdown.DeliveryFee < domain.AmountEpsilon {
		return SettlementResult{Skipped: true, Reason: SkipReasonNoDeliveryFee}, nil
	}

	payments, err := s.Transactions.ListByOrderAndType(order.ID, models.TransactionTypePayment)
	if err != nil {
		return SettlementResult{}, err
	}
	paymentCompleted := hasCompletedPayment(payments) || order.IsPaid()

	// Delivery-fee money is never created or finalized before money has
	// actually arrived.
	if opts.RequirePayment && !paymentCompleted {
		return SettlementResult{Skipped: true, Reason: SkipReasonPaymentIncomplete, DeliveryFee: breakdown.DeliveryFee}, nil
	}

	settings, err := s.Settings.DriverPaySettings()
	if err != nil {
		return SettlementResult{}, err
	}
	split := DecideSplit(breakdown.DeliveryFee, settings, order.DriverPayAmount)

	entries, err := s.Transactions.ListByOrderAndType(order.ID, models.TransactionTypeDeliveryPay)
	if err != nil {
		return SettlementResult{}, err
	}
	merchantEntry, driverEntry, duplicates := partitionDeliveryPay(entries, order.DriverID)

	// Overlapping triggers used to race and both create a merchant entry.
	// Keep the oldest, cancel the rest. Recovered silently; logged for audit.
	for _, dup := range duplicates {
		utils.LogEvent(s.RequestID, "settlement", "duplicate_cleanup",
			fmt.Sprintf("order_id=%d transaction_id=%d", order.ID, dup.ID))
		if err := s.cancelEntry(dup, "duplicate merchant delivery pay entry ("+opts.Context+")"); err != nil {
			return SettlementResult{}, err
		}
	}

	result := SettlementResult{
		DeliveryFee:     breakdown.DeliveryFee,
		DriverPayAmount: split.DriverAmount,
		MerchantAmount:  split.MerchantAmount,
	}

	if err := s.reconcileMerchant(order, merchantEntry, split.MerchantAmount, paymentCompleted, opts, &result); err != nil {
		return SettlementResult{}, err
	}
	if err := s.reconcileDriver(order, driverEntry, split.DriverAmount, paymentCompleted, opts, &result); err != nil {
		return SettlementResult{}, err
	}

	if !domain.AmountsEqual(order.DriverPayAmount, split.DriverAmount) {
		if err := s.Orders.UpdateDriverPayAmount(order.ID, split.DriverAmount); err != nil {
			return SettlementResult{}, err
		}
	}

	utils.LogEvent(s.RequestID, "settlement", "reconciled",
		fmt.Sprintf("order_id=%d context=%s fee=%.2f driver=%.2f merchant=%.2f",
			order.ID, opts.Context, breakdown.DeliveryFee, split.DriverAmount, split.MerchantAmount))
	return result, nil
}

// entryAction is the reconciliation decision for one ledger entry.
type entryAction int

const (
	actionNone entryAction = iota
	actionCreate
	actionUpdate
	actionCancel
)

// merchantAction decides the merchant-side transition in one place so the
// never-regress-a-completed-entry rule lives in a single guard.
func merchantAction(existing *models.Transaction, amount float64, paymentCompleted bool) entryAction {
	if amount >= domain.AmountEpsilon {
		if existing == nil {
			return actionCreate
		}
		if existing.IsCompleted() && domain.AmountsEqual(existing.Amount, amount) {
			return actionNone
		}
		// A pending entry that already carries the right amount only moves
		// when payment completion promotes its status.
		if !existing.IsCompleted() && domain.AmountsEqual(existing.Amount, amount) && !paymentCompleted {
			return actionNone
		}
		return actionUpdate
	}
	// The whole fee went to the driver. Retracting is only safe while no
	// money has moved; a paid record is never un-created.
	if existing != nil && !paymentCompleted {
		return actionCancel
	}
	return actionNone
}

func (s SettlementService) reconcileMerchant(order models.Order, existing *models.Transaction, amount float64, paymentCompleted bool, opts SettleOptions, result *SettlementResult) error {
	targetStatus := models.TransactionPending
	if paymentCompleted {
		targetStatus = models.TransactionCompleted
	}

	switch merchantAction(existing, amount, paymentCompleted) {
	case actionCreate:
		t := models.Transaction{
			OrderID:       order.ID,
			Type:          models.TransactionTypeDeliveryPay,
			Amount:        amount,
			Status:        targetStatus,
			PaymentStatus: targetStatus,
			Notes:         "delivery fee merchant share (" + opts.Context + ")",
		}
		if err := s.Transactions.Create(&t); err != nil {
			return err
		}
		result.MerchantTransactionID = &t.ID

	case actionUpdate:
		// Never downgrade a completed entry back to pending.
		status := targetStatus
		if existing.IsCompleted() {
			status = models.TransactionCompleted
		}
		notes := appendNote(existing.Notes, "amount reconciled ("+opts.Context+")")
		upd := models.TransactionUpdate{
			Amount:        &amount,
			Status:        &status,
			PaymentStatus: &status,
			Notes:         &notes,
		}
		if err := s.Transactions.Update(existing.ID, upd); err != nil {
			return err
		}
		result.MerchantTransactionID = &existing.ID

	case actionCancel:
		if err := s.cancelEntry(*existing, "delivery fee reassigned to driver ("+opts.Context+")"); err != nil {
			return err
		}

	case actionNone:
		if existing != nil {
			result.MerchantTransactionID = &existing.ID
		}
	}
	return nil
}

// reconcileDriver only ever adjusts an existing driver entry or cancels it.
// It never creates one and never credits a wallet: driver ledger entries are
// born in the delivery-completion credit step, so a driver cannot be paid
// before the delivery happens.
func (s SettlementService) reconcileDriver(order models.Order, existing *models.Transaction, amount float64, paymentCompleted bool, opts SettleOptions, result *SettlementResult) error {
	switch {
	case order.DriverID != nil && amount >= domain.AmountEpsilon && paymentCompleted:
		wallet, err := s.ensureWallet(*order.DriverID)
		if err != nil {
			return err
		}
		result.DriverWalletID = &wallet.ID

		if existing == nil {
			return nil
		}
		result.DriverTransactionID = &existing.ID
		if existing.IsCompleted() {
			// Finalized by the crediting step; leave it untouched.
			return nil
		}
		if domain.AmountsEqual(existing.Amount, amount) && existing.DriverWalletID != nil && *existing.DriverWalletID == wallet.ID {
			return nil
		}
		notes := appendNote(existing.Notes, "amount reconciled ("+opts.Context+")")
		upd := models.TransactionUpdate{
			Amount:         &amount,
			DriverWalletID: &wallet.ID,
			Notes:          &notes,
		}
		return s.Transactions.Update(existing.ID, upd)

	case order.DriverID != nil && amount >= domain.AmountEpsilon:
		// Payment not in yet: only an existing pending entry's amount may
		// move, completed entries stay as they are.
		if existing == nil || existing.IsCompleted() {
			if existing != nil {
				result.DriverTransactionID = &existing.ID
			}
			return nil
		}
		result.DriverTransactionID = &existing.ID
		if domain.AmountsEqual(existing.Amount, amount) {
			return nil
		}
		notes := appendNote(existing.Notes, "amount reconciled ("+opts.Context+")")
		upd := models.TransactionUpdate{Amount: &amount, Notes: &notes}
		return s.Transactions.Update(existing.ID, upd)

	case order.PaymentType == models.PaymentTypePayNow && order.DriverID == nil:
		// No driver assigned yet; cancelling now would destroy information
		// needed once one is.
		return nil

	default:
		if existing != nil && existing.IsActive() {
			return s.cancelEntry(*existing, "driver pay not applicable ("+opts.Context+")")
		}
		return nil
	}
}

// ensureWallet guarantees a wallet row exists for the driver without
// crediting it.
func (s SettlementService) ensureWallet(driverID int64) (*models.DriverWallet, error) {
	wallet, err := s.Wallets.GetByDriverID(driverID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}
	return s.Wallets.Create(driverID)
}

func (s SettlementService) cancelAllDeliveryPay(orderID int64, note string) error {
	entries, err := s.Transactions.ListByOrderAndType(orderID, models.TransactionTypeDeliveryPay)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsActive() {
			continue
		}
		if err := s.cancelEntry(e, note); err != nil {
			return err
		}
	}
	return nil
}

// cancelEntry retires a ledger entry: amount forced to zero, status
// cancelled, note preserved for audit. Entries are never hard-deleted.
func (s SettlementService) cancelEntry(t models.Transaction, note string) error {
	zero := 0.0
	cancelled := models.TransactionCancelled
	notes := appendNote(t.Notes, note)
	return s.Transactions.Update(t.ID, models.TransactionUpdate{
		Amount:        &zero,
		Status:        &cancelled,
		PaymentStatus: &cancelled,
		Notes:         &notes,
	})
}

// partitionDeliveryPay splits the active delivery_pay entries into the single
// merchant entry (oldest wins), the driver entry matching the order's current
// driver, and surplus merchant duplicates.
func partitionDeliveryPay(entries []models.Transaction, driverID *int64) (merchant, driver *models.Transaction, duplicates []models.Transaction) {
	for i := range entries {
		e := &entries[i]
		if !e.IsActive() {
			continue
		}
		if e.IsMerchantShare() {
			if merchant == nil {
				merchant = e
			} else {
				duplicates = append(duplicates, *e)
			}
			continue
		}
		if driverID != nil && e.DriverID != nil && *e.DriverID == *driverID && driver == nil {
			driver = e
		}
	}
	return merchant, driver, duplicates
}

func hasCompletedPayment(payments []models.Transaction) bool {
	// Newest evidence first.
	for i := len(payments) - 1; i >= 0; i-- {
		if payments[i].IsCompleted() {
			return true
		}
	}
	return false
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}

// settleLocks serializes reconciliation per order within this process,
// collapsing overlapping triggers into a deterministic sequence. Across
// processes the engine still relies on read-then-write idempotency.
var settleLocks = &orderLockSet{held: map[int64]*orderLock{}}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

type orderLockSet struct {
	mu   sync.Mutex
	held map[int64]*orderLock
}

func (s *orderLockSet) lock(orderID int64) {
	s.mu.Lock()
	l := s.held[orderID]
	if l == nil {
		l = &orderLock{}
		s.held[orderID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
}

func (s *orderLockSet) unlock(orderID int64) {
	s.mu.Lock()
	l := s.held[orderID]
	if l == nil {
		s.mu.Unlock()
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(s.held, orderID)
	}
	s.mu.Unlock()

	l.mu.Unlock()
}
