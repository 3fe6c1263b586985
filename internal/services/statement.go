package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
	"github.com/lipa-nganya/test-two-sub001/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// StatementService renders a settlement statement PDF per order.
type StatementService struct {
	Orders       OrderStore
	Transactions TransactionStore
	RequestID    string
	Loader       func(int64) (statementData, error)
}

type statementData struct {
	OrderID       int64
	CustomerPhone string
	Breakdown     models.FinancialBreakdown
	DriverPay     float64
	MerchantShare float64
	Entries       []models.Transaction
}

func (s StatementService) GenerateStatement(orderID int64) ([]byte, string, error) {
	data, err := s.loadStatementData(orderID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "statement", "generate", fmt.Sprintf("order_id=%d", orderID))
	return buildStatementPDF(data)
}

func (s StatementService) loadStatementData(orderID int64) (statementData, error) {
	if s.Loader != nil {
		return s.Loader(orderID)
	}

	var out statementData
	order, err := s.Orders.GetByID(orderID)
	if err != nil {
		return out, err
	}
	items, err := s.Orders.ListItems(orderID)
	if err != nil {
		return out, err
	}
	breakdown := computeBreakdown(order, items)

	entries, err := s.Transactions.ListByOrderAndType(orderID, models.TransactionTypeDeliveryPay)
	if err != nil {
		return out, err
	}

	out.OrderID = orderID
	out.CustomerPhone = order.CustomerPhone
	out.Breakdown = breakdown
	out.DriverPay = order.DriverPayAmount
	out.MerchantShare = breakdown.DeliveryFee - order.DriverPayAmount
	if out.MerchantShare < 0 {
		out.MerchantShare = 0
	}
	out.Entries = entries
	return out, nil
}

func buildStatementPDF(d statementData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Settlement Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SETTLEMENT STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Order          : #%d", d.OrderID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Customer       : "+safe(d.CustomerPhone, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated      : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Fee breakdown:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Order total    : " + utils.FormatKES(d.Breakdown.TotalAmount),
		"Items total    : " + utils.FormatKES(d.Breakdown.ItemsTotal),
		"Tip            : " + utils.FormatKES(d.Breakdown.TipAmount),
		"Delivery fee   : " + utils.FormatKES(d.Breakdown.DeliveryFee),
		"Driver share   : " + utils.FormatKES(d.DriverPay),
		"Merchant share : " + utils.FormatKES(d.MerchantShare),
	}
	for _, l := range lines {
		pdf.Cell(0, 6, l)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Ledger entries:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	if len(d.Entries) == 0 {
		pdf.Cell(0, 6, "(none)")
		pdf.Ln(6)
	}
	for _, e := range d.Entries {
		side := "merchant"
		if e.DriverID != nil {
			side = fmt.Sprintf("driver #%d", *e.DriverID)
		}
		pdf.Cell(0, 6, fmt.Sprintf("#%d %s %s %s", e.ID, side, utils.FormatKES(e.Amount), e.Status))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Cancelled entries are retained at zero amount for audit.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("SETTLEMENT_%d.pdf", d.OrderID)
	return buf.Bytes(), filename, nil
}

func safe(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
