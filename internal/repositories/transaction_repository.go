package repositories

import (
	"database/sql"
	"strings"

	intconfig "github.com/lipa-nganya/test-two-sub001/internal/config"
	intdb "github.com/lipa-nganya/test-two-sub001/internal/db"
	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

type TransactionRepository struct {
	DB *sql.DB
}

func (r TransactionRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const transactionColumns = `
	id,
	order_id,
	COALESCE(transaction_type,''),
	COALESCE(amount,0),
	COALESCE(status,'pending'),
	COALESCE(payment_status,''),
	driver_id,
	driver_wallet_id,
	COALESCE(receipt_number,''),
	COALESCE(notes,''),
	created_at,
	updated_at`

func scanTransaction(row interface{ Scan(dest ...any) error }) (models.Transaction, error) {
	var t models.Transaction
	var driverID, walletID sql.NullInt64
	err := row.Scan(
		&t.ID,
		&t.OrderID,
		&t.Type,
		&t.Amount,
		&t.Status,
		&t.PaymentStatus,
		&driverID,
		&walletID,
		&t.ReceiptNumber,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}
	if driverID.Valid {
		t.DriverID = &driverID.Int64
	}
	if walletID.Valid {
		t.DriverWalletID = &walletID.Int64
	}
	return t, nil
}

// ListByOrderAndType returns all ledger entries of one type for an order,
// oldest first so duplicate cleanup keeps the original entry.
func (r TransactionRepository) ListByOrderAndType(orderID int64, txType string) ([]models.Transaction, error) {
	rows, err := r.db().Query(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE order_id=? AND transaction_type=?
		ORDER BY id`, orderID, txType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create appends a ledger entry and fills in its id.
func (r TransactionRepository) Create(t *models.Transaction) error {
	if t.OrderID <= 0 {
		return domain.ValidationError{Field: "order_id", Msg: "missing order reference"}
	}
	res, err := r.db().Exec(`
		INSERT INTO transactions (
			order_id, transaction_type, amount, status, payment_status,
			driver_id, driver_wallet_id, receipt_number, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		t.OrderID,
		t.Type,
		t.Amount,
		t.Status,
		t.PaymentStatus,
		intdb.NullInt64(t.DriverID),
		intdb.NullInt64(t.DriverWalletID),
		intdb.NullIfEmpty(t.ReceiptNumber),
		intdb.NullIfEmpty(t.Notes),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// Update performs PATCH-style updates based on field presence.
func (r TransactionRepository) Update(id int64, upd models.TransactionUpdate) error {
	if id <= 0 {
		return domain.ValidationError{Field: "transaction_id", Msg: "missing transaction reference"}
	}
	sets := []string{}
	args := []any{}

	if upd.Amount != nil {
		sets = append(sets, "amount=?")
		args = append(args, *upd.Amount)
	}
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *upd.Status)
	}
	if upd.PaymentStatus != nil {
		sets = append(sets, "payment_status=?")
		args = append(args, *upd.PaymentStatus)
	}
	if upd.DriverWalletID != nil {
		sets = append(sets, "driver_wallet_id=?")
		args = append(args, *upd.DriverWalletID)
	}
	if upd.ReceiptNumber != nil {
		sets = append(sets, "receipt_number=?")
		args = append(args, *upd.ReceiptNumber)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes=?")
		args = append(args, *upd.Notes)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)

	_, err := r.db().Exec(`UPDATE transactions SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	return err
}
