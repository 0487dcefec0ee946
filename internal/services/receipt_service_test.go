package services

import (
	"bytes"
	"testing"
	"time"

	"rentalgw/internal/domain/models"
)

func TestGenerateReceiptProducesPDF(t *testing.T) {
	data := ReceiptData{
		Summary: ReceiptSummary{
			BookingCode:   "HRE-2025-000001",
			ReservationID: "res-42",
			RenterName:    "John Doe",
			Amount:        "150.00",
			Currency:      "USD",
			PaidAt:        time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC),
		},
		Driver: models.DriverSnapshot{
			FullName: "John Doe",
			Phone:    "+26377000000",
			Email:    "john@example.com",
		},
		Pickup:  models.StopPoint{BranchID: "branch-hq", At: "2025-01-01"},
		Dropoff: models.StopPoint{BranchID: "branch-hq", At: "2025-01-03"},
		Quote: models.Quote{
			Currency: "USD",
			Breakdown: []models.BreakdownLine{
				{Label: "Vehicle rental", Quantity: 2, UnitAmount: "50.00", Total: "100.00"},
			},
			Taxes:      []models.TaxLine{{Code: "vat", Rate: "15.00", Amount: "15.00"}},
			Fees:       []models.FeeLine{{Code: "service", Amount: "5.00"}},
			GrandTotal: "150.00",
		},
	}

	pdf, filename, err := ReceiptService{}.GenerateReceipt(data)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", pdf[:min(8, len(pdf))])
	}
	if filename != "RECEIPT_HRE-2025-000001.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}
