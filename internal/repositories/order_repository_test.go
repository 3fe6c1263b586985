package repositories

import (
	"testing"
	"time"

	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_phone", "total_amount", "tip_amount", "driver_id",
		"payment_type", "payment_status", "delivery_kind",
		"driver_pay_amount", "driver_pay_credited", "driver_pay_credited_at",
		"created_at", "updated_at",
	})
}

func TestOrderGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
		WithArgs(int64(5)).
		WillReturnRows(orderRows().
			AddRow(5, "+254700000001", 1050.0, 0.0, 7, "pay_now", "paid", "delivery", 50.0, false, nil, now, now))

	repo := OrderRepository{DB: db}
	o, err := repo.GetByID(5)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if o.ID != 5 || !o.IsPaid() || o.DriverID == nil || *o.DriverID != 7 {
		t.Fatalf("order = %+v", o)
	}
	if o.DriverPayCredited || o.DriverPayCreditedAt != nil {
		t.Fatalf("latch fields = %v/%v", o.DriverPayCredited, o.DriverPayCreditedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
		WithArgs(int64(404)).
		WillReturnRows(orderRows())

	repo := OrderRepository{DB: db}
	if _, err := repo.GetByID(404); !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestOrderGetByIDInvalid(t *testing.T) {
	repo := OrderRepository{}
	if _, err := repo.GetByID(0); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestOrderCreateWritesItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(int64(11), "goods", 1000.0, 1).
		WillReturnResult(sqlmock.NewResult(21, 1))

	repo := OrderRepository{DB: db}
	o := models.Order{TotalAmount: 1050, PaymentType: "pay_now", PaymentStatus: "pending", DeliveryKind: "delivery"}
	items := []models.OrderItem{{Name: "goods", Price: 1000, Quantity: 1}}
	if err := repo.Create(&o, items); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.ID != 11 || items[0].OrderID != 11 || items[0].ID != 21 {
		t.Fatalf("ids not filled: order=%d item=%+v", o.ID, items[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderMarkDriverPayCreditedGuarded(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE orders").
		WithArgs(at, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := OrderRepository{DB: db}
	if err := repo.MarkDriverPayCredited(5, at); err != nil {
		t.Fatalf("MarkDriverPayCredited: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderListForReconciliation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(25).
		WillReturnRows(orderRows().
			AddRow(5, "", 1050.0, 0.0, nil, "pay_now", "paid", "delivery", 0.0, false, nil, now, now))

	repo := OrderRepository{DB: db}
	out, err := repo.ListForReconciliation(25)
	if err != nil {
		t.Fatalf("ListForReconciliation: %v", err)
	}
	if len(out) != 1 || out[0].ID != 5 {
		t.Fatalf("orders = %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
