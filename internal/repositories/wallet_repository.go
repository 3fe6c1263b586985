package repositories

import (
	"database/sql"
	"errors"

	intconfig "github.com/lipa-nganya/test-two-sub001/internal/config"
	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

type WalletRepository struct {
	DB *sql.DB
}

func (r WalletRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const walletColumns = `
	id,
	driver_id,
	COALESCE(balance,0),
	COALESCE(total_delivery_pay,0),
	COALESCE(total_delivery_pay_count,0),
	COALESCE(total_tips_received,0),
	COALESCE(total_tips_count,0),
	created_at,
	updated_at`

// GetByDriverID returns the driver's wallet, or nil when none exists yet.
func (r WalletRepository) GetByDriverID(driverID int64) (*models.DriverWallet, error) {
	if driverID <= 0 {
		return nil, domain.ValidationError{Field: "driver_id", Msg: "missing driver reference"}
	}
	row := r.db().QueryRow(`
		SELECT `+walletColumns+`
		FROM driver_wallets
		WHERE driver_id=? LIMIT 1`, driverID)

	var w models.DriverWallet
	err := row.Scan(
		&w.ID,
		&w.DriverID,
		&w.Balance,
		&w.TotalDeliveryPay,
		&w.TotalDeliveryPayCount,
		&w.TotalTipsReceived,
		&w.TotalTipsCount,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// Create inserts a zero-balance wallet for a driver.
func (r WalletRepository) Create(driverID int64) (*models.DriverWallet, error) {
	if driverID <= 0 {
		return nil, domain.ValidationError{Field: "driver_id", Msg: "missing driver reference"}
	}
	res, err := r.db().Exec(`
		INSERT INTO driver_wallets (
			driver_id, balance, total_delivery_pay, total_delivery_pay_count,
			total_tips_received, total_tips_count, created_at, updated_at
		) VALUES (?, 0, 0, 0, 0, 0, NOW(), NOW())`, driverID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.DriverWallet{ID: id, DriverID: driverID}, nil
}

// Credit applies one additive delivery credit: balance, delivery-pay totals
// and tip totals move together in a single statement.
func (r WalletRepository) Credit(walletID int64, c models.WalletCredit) error {
	if walletID <= 0 {
		return domain.ValidationError{Field: "wallet_id", Msg: "missing wallet reference"}
	}
	tipCount := 0
	if c.Tip > 0 {
		tipCount = 1
	}
	_, err := r.db().Exec(`
		UPDATE driver_wallets
		SET balance = balance + ? + ?,
		    total_delivery_pay = total_delivery_pay + ?,
		    total_delivery_pay_count = total_delivery_pay_count + 1,
		    total_tips_received = total_tips_received + ?,
		    total_tips_count = total_tips_count + ?,
		    updated_at = NOW()
		WHERE id=?`,
		c.DeliveryPay, c.Tip, c.DeliveryPay, c.Tip, tipCount, walletID)
	return err
}
