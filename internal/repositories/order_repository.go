package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "github.com/lipa-nganya/test-two-sub001/internal/config"
	intdb "github.com/lipa-nganya/test-two-sub001/internal/db"
	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

type OrderRepository struct {
	DB *sql.DB
}

func (r OrderRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const orderColumns = `
	id,
	COALESCE(customer_phone,''),
	COALESCE(total_amount,0),
	COALESCE(tip_amount,0),
	driver_id,
	COALESCE(payment_type,'pay_now'),
	COALESCE(payment_status,'pending'),
	COALESCE(delivery_kind,'delivery'),
	COALESCE(driver_pay_amount,0),
	COALESCE(driver_pay_credited,0),
	driver_pay_credited_at,
	created_at,
	updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (models.Order, error) {
	var o models.Order
	var driverID sql.NullInt64
	var creditedAt sql.NullTime
	err := row.Scan(
		&o.ID,
		&o.CustomerPhone,
		&o.TotalAmount,
		&o.TipAmount,
		&driverID,
		&o.PaymentType,
		&o.PaymentStatus,
		&o.DeliveryKind,
		&o.DriverPayAmount,
		&o.DriverPayCredited,
		&creditedAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return models.Order{}, err
	}
	if driverID.Valid {
		o.DriverID = &driverID.Int64
	}
	if creditedAt.Valid {
		o.DriverPayCreditedAt = &creditedAt.Time
	}
	return o, nil
}

// GetByID fetches an order by primary key.
func (r OrderRepository) GetByID(id int64) (models.Order, error) {
	if id <= 0 {
		return models.Order{}, domain.ValidationError{Field: "order_id", Msg: "missing order reference"}
	}
	row := r.db().QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id=? LIMIT 1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Order{}, domain.NotFoundError{Resource: "order"}
		}
		return models.Order{}, err
	}
	return o, nil
}

// ListItems returns the line-item snapshots of an order.
func (r OrderRepository) ListItems(orderID int64) ([]models.OrderItem, error) {
	rows, err := r.db().Query(`
		SELECT id, order_id, COALESCE(name,''), COALESCE(price,0), COALESCE(quantity,0)
		FROM order_items
		WHERE order_id=?
		ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Name, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts an order with its line items.
func (r OrderRepository) Create(o *models.Order, items []models.OrderItem) error {
	db := r.db()
	res, err := db.Exec(`
		INSERT INTO orders (
			customer_phone, total_amount, tip_amount, driver_id,
			payment_type, payment_status, delivery_kind,
			driver_pay_amount, driver_pay_credited, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, 0, 0, NOW(), NOW())`,
		o.CustomerPhone,
		o.TotalAmount,
		o.TipAmount,
		intdb.NullInt64(o.DriverID),
		o.PaymentType,
		o.PaymentStatus,
		o.DeliveryKind,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = id

	for i := range items {
		items[i].OrderID = id
		res, err := db.Exec(`
			INSERT INTO order_items (order_id, name, price, quantity)
			VALUES (?, ?, ?, ?)`,
			id, items[i].Name, items[i].Price, items[i].Quantity)
		if err != nil {
			return err
		}
		if itemID, err := res.LastInsertId(); err == nil {
			items[i].ID = itemID
		}
	}
	return nil
}

// UpdateDriverPayAmount records the computed driver share on the order row.
func (r OrderRepository) UpdateDriverPayAmount(id int64, amount float64) error {
	_, err := r.db().Exec(`
		UPDATE orders SET driver_pay_amount=?, updated_at=NOW() WHERE id=?`,
		amount, id)
	return err
}

// UpdatePaymentStatus marks the order's payment state.
func (r OrderRepository) UpdatePaymentStatus(id int64, status string) error {
	_, err := r.db().Exec(`
		UPDATE orders SET payment_status=?, updated_at=NOW() WHERE id=?`,
		status, id)
	return err
}

// AssignDriver sets the delivering driver on the order.
func (r OrderRepository) AssignDriver(id, driverID int64) error {
	_, err := r.db().Exec(`
		UPDATE orders SET driver_id=?, updated_at=NOW() WHERE id=?`,
		driverID, id)
	return err
}

// MarkDriverPayCredited flips the one-way credited latch. The WHERE guard
// keeps the flip from ever reapplying.
func (r OrderRepository) MarkDriverPayCredited(id int64, at time.Time) error {
	_, err := r.db().Exec(`
		UPDATE orders
		SET driver_pay_credited=1, driver_pay_credited_at=?, updated_at=NOW()
		WHERE id=? AND driver_pay_credited=0`,
		at, id)
	return err
}

// ListForReconciliation returns recent paid orders whose driver pay has not
// been credited yet; the background poller re-runs settlement over these.
func (r OrderRepository) ListForReconciliation(limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db().Query(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE payment_status='paid'
		  AND driver_pay_credited=0
		  AND delivery_kind<>'in_store'
		ORDER BY updated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
