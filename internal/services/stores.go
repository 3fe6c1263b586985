package services

import (
	"time"

	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

// Narrow persistence contracts the settlement services depend on. The
// concrete implementations live in internal/repositories; tests substitute
// in-memory fakes.

type OrderStore interface {
	GetByID(id int64) (models.Order, error)
	ListItems(orderID int64) ([]models.OrderItem, error)
	Create(o *models.Order, items []models.OrderItem) error
	UpdateDriverPayAmount(id int64, amount float64) error
	UpdatePaymentStatus(id int64, status string) error
	MarkDriverPayCredited(id int64, at time.Time) error
}

type TransactionStore interface {
	ListByOrderAndType(orderID int64, txType string) ([]models.Transaction, error)
	Create(t *models.Transaction) error
	Update(id int64, upd models.TransactionUpdate) error
}

type WalletStore interface {
	GetByDriverID(driverID int64) (*models.DriverWallet, error)
	Create(driverID int64) (*models.DriverWallet, error)
	Credit(walletID int64, c models.WalletCredit) error
}

type SettingsStore interface {
	DriverPaySettings() (models.DriverPaySettings, error)
}
