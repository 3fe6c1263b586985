package services

import (
	"time"

	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

// In-memory stores backing the engine tests. They mirror the repository
// behavior closely enough to exercise every reconciliation branch without a
// database.

type fakeOrderStore struct {
	seq    int64
	orders map[int64]models.Order
	items  map[int64][]models.OrderItem
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int64]models.Order{}, items: map[int64][]models.OrderItem{}}
}

func (f *fakeOrderStore) put(o models.Order, items ...models.OrderItem) models.Order {
	if o.ID == 0 {
		f.seq++
		o.ID = f.seq
	} else if o.ID > f.seq {
		f.seq = o.ID
	}
	f.orders[o.ID] = o
	f.items[o.ID] = items
	return o
}

func (f *fakeOrderStore) GetByID(id int64) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, domain.NotFoundError{Resource: "order"}
	}
	return o, nil
}

func (f *fakeOrderStore) ListItems(orderID int64) ([]models.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderStore) Create(o *models.Order, items []models.OrderItem) error {
	*o = f.put(*o, items...)
	return nil
}

func (f *fakeOrderStore) UpdateDriverPayAmount(id int64, amount float64) error {
	o := f.orders[id]
	o.DriverPayAmount = amount
	f.orders[id] = o
	return nil
}

func (f *fakeOrderStore) UpdatePaymentStatus(id int64, status string) error {
	o := f.orders[id]
	o.PaymentStatus = status
	f.orders[id] = o
	return nil
}

func (f *fakeOrderStore) MarkDriverPayCredited(id int64, at time.Time) error {
	o := f.orders[id]
	if !o.DriverPayCredited {
		o.DriverPayCredited = true
		o.DriverPayCreditedAt = &at
		f.orders[id] = o
	}
	return nil
}

type fakeTransactionStore struct {
	seq     int64
	entries []models.Transaction
	creates int
	updates int
}

func (f *fakeTransactionStore) seed(t models.Transaction) models.Transaction {
	f.seq++
	t.ID = f.seq
	f.entries = append(f.entries, t)
	return t
}

func (f *fakeTransactionStore) ListByOrderAndType(orderID int64, txType string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, e := range f.entries {
		if e.OrderID == orderID && e.Type == txType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTransactionStore) Create(t *models.Transaction) error {
	f.creates++
	*t = f.seed(*t)
	return nil
}

func (f *fakeTransactionStore) Update(id int64, upd models.TransactionUpdate) error {
	f.updates++
	for i := range f.entries {
		if f.entries[i].ID != id {
			continue
		}
		if upd.Amount != nil {
			f.entries[i].Amount = *upd.Amount
		}
		if upd.Status != nil {
			f.entries[i].Status = *upd.Status
		}
		if upd.PaymentStatus != nil {
			f.entries[i].PaymentStatus = *upd.PaymentStatus
		}
		if upd.DriverWalletID != nil {
			f.entries[i].DriverWalletID = upd.DriverWalletID
		}
		if upd.ReceiptNumber != nil {
			f.entries[i].ReceiptNumber = *upd.ReceiptNumber
		}
		if upd.Notes != nil {
			f.entries[i].Notes = *upd.Notes
		}
		return nil
	}
	return domain.NotFoundError{Resource: "transaction"}
}

func (f *fakeTransactionStore) get(id int64) models.Transaction {
	for _, e := range f.entries {
		if e.ID == id {
			return e
		}
	}
	return models.Transaction{}
}

func (f *fakeTransactionStore) active(orderID int64, txType string) []models.Transaction {
	var out []models.Transaction
	for _, e := range f.entries {
		if e.OrderID == orderID && e.Type == txType && e.IsActive() {
			out = append(out, e)
		}
	}
	return out
}

type fakeWalletStore struct {
	seq     int64
	wallets map[int64]*models.DriverWallet
	credits int
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{wallets: map[int64]*models.DriverWallet{}}
}

func (f *fakeWalletStore) GetByDriverID(driverID int64) (*models.DriverWallet, error) {
	w, ok := f.wallets[driverID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWalletStore) Create(driverID int64) (*models.DriverWallet, error) {
	f.seq++
	w := &models.DriverWallet{ID: f.seq, DriverID: driverID}
	f.wallets[driverID] = w
	cp := *w
	return &cp, nil
}

func (f *fakeWalletStore) Credit(walletID int64, c models.WalletCredit) error {
	f.credits++
	for _, w := range f.wallets {
		if w.ID != walletID {
			continue
		}
		w.Balance += c.DeliveryPay + c.Tip
		w.TotalDeliveryPay += c.DeliveryPay
		w.TotalDeliveryPayCount++
		w.TotalTipsReceived += c.Tip
		if c.Tip > 0 {
			w.TotalTipsCount++
		}
		return nil
	}
	return domain.NotFoundError{Resource: "wallet"}
}

type fakeSettingsStore struct {
	settings models.DriverPaySettings
}

func (f *fakeSettingsStore) DriverPaySettings() (models.DriverPaySettings, error) {
	return f.settings, nil
}

// settlementFixture wires a SettlementService over fresh fakes.
type settlementFixture struct {
	orders   *fakeOrderStore
	txs      *fakeTransactionStore
	wallets  *fakeWalletStore
	settings *fakeSettingsStore
	svc      SettlementService
}

func newSettlementFixture(settings models.DriverPaySettings) *settlementFixture {
	f := &settlementFixture{
		orders:   newFakeOrderStore(),
		txs:      &fakeTransactionStore{},
		wallets:  newFakeWalletStore(),
		settings: &fakeSettingsStore{settings: settings},
	}
	f.svc = SettlementService{
		Orders:       f.orders,
		Transactions: f.txs,
		Wallets:      f.wallets,
		Settings:     f.settings,
	}
	return f
}

func int64Ptr(v int64) *int64 { return &v }
