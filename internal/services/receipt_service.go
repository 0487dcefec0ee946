package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"rentalgw/internal/domain/models"
	"rentalgw/internal/utils"
)

// ReceiptService renders a payment receipt PDF for a finished run.
type ReceiptService struct {
	RequestID string
}

// ReceiptData is everything the PDF needs, already resolved.
type ReceiptData struct {
	Summary ReceiptSummary
	Driver  models.DriverSnapshot
	Pickup  models.StopPoint
	Dropoff models.StopPoint
	Quote   models.Quote
}

func (s ReceiptService) GenerateReceipt(d ReceiptData) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "receipt", "generate", "code="+d.Summary.BookingCode)
	return buildReceiptPDF(d)
}

func buildReceiptPDF(d ReceiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking code   : %s", safe(d.Summary.BookingCode, "-")),
		fmt.Sprintf("Reservation    : %s", safe(d.Summary.ReservationID, "-")),
		fmt.Sprintf("Renter         : %s", safe(d.Driver.FullName, "-")),
		fmt.Sprintf("Phone          : %s", safe(d.Driver.Phone, "-")),
		fmt.Sprintf("Email          : %s", safe(d.Driver.Email, "-")),
		fmt.Sprintf("Pickup         : %s (%s)", safe(d.Pickup.BranchID, "-"), safe(d.Pickup.At, "-")),
		fmt.Sprintf("Dropoff        : %s (%s)", safe(d.Dropoff.BranchID, "-"), safe(d.Dropoff.At, "-")),
		fmt.Sprintf("Paid at        : %s", d.Summary.PaidAt.Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, b := range d.Quote.Breakdown {
		pdf.Cell(0, 6, fmt.Sprintf("%s x%d @ %s = %s %s", b.Label, b.Quantity, b.UnitAmount, b.Total, d.Quote.Currency))
		pdf.Ln(6)
	}
	for _, t := range d.Quote.Taxes {
		pdf.Cell(0, 6, fmt.Sprintf("Tax %s (%s%%) = %s %s", t.Code, t.Rate, t.Amount, d.Quote.Currency))
		pdf.Ln(6)
	}
	for _, f := range d.Quote.Fees {
		pdf.Cell(0, 6, fmt.Sprintf("Fee %s = %s %s", f.Code, f.Amount, d.Quote.Currency))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total paid: %s %s", d.Summary.Amount, d.Summary.Currency))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This receipt confirms a settled payment. Generated "+time.Now().Format("2006-01-02 15:04")+".", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(d.Summary.BookingCode))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
