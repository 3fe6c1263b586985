package services

import (
	"testing"

	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

func newOrderFixture() (*settlementFixture, OrderService) {
	f := newSettlementFixture(enabledSettings(50))
	return f, OrderService{Orders: f.orders, Settlement: f.svc}
}

func TestCreateOrderRunsSettlementHook(t *testing.T) {
	f, svc := newOrderFixture()

	order, res, err := svc.CreateOrder(CreateOrderInput{
		CustomerPhone: "+254700000001",
		TotalAmount:   1150,
		DriverID:      int64Ptr(7),
		Items:         []OrderItemInput{{Name: "goods", Price: 1000, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID == 0 {
		t.Fatal("order id not assigned")
	}
	if order.PaymentType != models.PaymentTypePayNow || order.DeliveryKind != models.DeliveryKindNormal {
		t.Fatalf("defaults not applied: %+v", order)
	}
	// Fee 150, driver 50, merchant 100: the hook runs without the payment
	// gate so the pending merchant entry exists from the start.
	if res.Skipped || res.MerchantAmount != 100 {
		t.Fatalf("hook result = %+v", res)
	}
	active := f.txs.active(order.ID, models.TransactionTypeDeliveryPay)
	if len(active) != 1 || active[0].Status != models.TransactionPending {
		t.Fatalf("entries = %+v", active)
	}
	if order.DriverPayAmount != 50 {
		t.Fatalf("returned order driver pay = %.2f", order.DriverPayAmount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	_, svc := newOrderFixture()

	cases := []struct {
		name string
		in   CreateOrderInput
	}{
		{"zero total", CreateOrderInput{}},
		{"bad payment type", CreateOrderInput{TotalAmount: 100, PaymentType: "credit"}},
		{"bad delivery kind", CreateOrderInput{TotalAmount: 100, DeliveryKind: "teleport"}},
		{"bad line item", CreateOrderInput{TotalAmount: 100, Items: []OrderItemInput{{Price: 10, Quantity: 0}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.CreateOrder(tc.in); !domain.IsValidation(err) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreateOrderPOSSkipsSettlement(t *testing.T) {
	f, svc := newOrderFixture()

	_, res, err := svc.CreateOrder(CreateOrderInput{
		TotalAmount:  500,
		DeliveryKind: models.DeliveryKindInStore,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !res.Skipped || res.Reason != SkipReasonPOSOrder {
		t.Fatalf("result = %+v, want POS skip", res)
	}
	if len(f.txs.entries) != 0 {
		t.Fatal("POS order must not gain ledger entries")
	}
}
