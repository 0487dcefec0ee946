package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"rentalgw/internal/domain"
	"rentalgw/internal/domain/models"
)

func validForm() models.BookingForm {
	return models.BookingForm{
		FullName:        "John Doe",
		Phone:           "+26377000000",
		Email:           "john@example.com",
		LicenseNumber:   "DL-99881",
		LicenseCountry:  "ZW",
		LicenseClass:    "4",
		LicenseExpiry:   "2027-06-30",
		VehicleID:       "veh-1",
		VehicleModelID:  "model-1",
		PickupBranchID:  "branch-hq",
		DropoffBranchID: "branch-hq",
		StartDate:       "2025-01-01",
		EndDate:         "2025-01-03",
		Currency:        "usd",
		DailyRate:       "50.00",
		InsuranceTier:   "basic",
		TaxRates:        []models.TaxRateInput{{Code: "vat", Rate: "15"}},
		FlatFees:        []models.FlatFeeInput{{Code: "service", Amount: "5.00"}},
	}
}

func TestBuildComputesDocumentedScenario(t *testing.T) {
	// 2 days x 50.00 base + 2 x 15.00 insurance + 15% tax on base + 5.00 fee = 150.00
	req, err := ReservationBuilder{}.Build(validForm())
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	if req.Pricing.GrandTotal != "150.00" {
		t.Fatalf("grand total = %s, want 150.00", req.Pricing.GrandTotal)
	}
	if req.Pricing.Currency != "USD" {
		t.Fatalf("currency = %s", req.Pricing.Currency)
	}
	if err := req.Pricing.Verify(); err != nil {
		t.Fatalf("quote invariant broken: %v", err)
	}
	if len(req.Pricing.Breakdown) != 2 || req.Pricing.Breakdown[0].Total != "100.00" || req.Pricing.Breakdown[1].Total != "30.00" {
		t.Fatalf("unexpected breakdown: %+v", req.Pricing.Breakdown)
	}
	if len(req.Pricing.Taxes) != 1 || req.Pricing.Taxes[0].Amount != "15.00" {
		t.Fatalf("unexpected taxes: %+v", req.Pricing.Taxes)
	}
	if req.PaymentSummary.Status != "unpaid" || req.PaymentSummary.Outstanding != "150.00" {
		t.Fatalf("unexpected payment summary: %+v", req.PaymentSummary)
	}
}

func TestBuildGeneratesBookingCode(t *testing.T) {
	req, err := ReservationBuilder{Now: func() time.Time {
		return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	}}.Build(validForm())
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !strings.HasPrefix(req.Code, "HRE-2025-") || len(req.Code) != len("HRE-2025-000000") {
		t.Fatalf("booking code %q does not match HRE-{year}-{6 digits}", req.Code)
	}
}

func TestBuildRejectsMissingFields(t *testing.T) {
	form := validForm()
	form.FullName = ""
	form.LicenseNumber = " "

	_, err := ReservationBuilder{}.Build(form)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "full_name") || !strings.Contains(msg, "license_number") {
		t.Fatalf("missing fields not listed: %s", msg)
	}
}

func TestBuildRejectsInvalidEmail(t *testing.T) {
	form := validForm()
	form.Email = "john example.com"

	_, err := ReservationBuilder{}.Build(form)
	if !domain.IsValidation(err) || err.Error() != "invalid_email" {
		t.Fatalf("expected invalid_email, got %v", err)
	}
}

func TestBuildRejectsReversedDates(t *testing.T) {
	form := validForm()
	form.StartDate = "2025-01-05"
	form.EndDate = "2025-01-03"

	if _, err := (ReservationBuilder{}).Build(form); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReservationRequestRoundTrip(t *testing.T) {
	req, err := ReservationBuilder{}.Build(validForm())
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	// mock server echo: serialize, parse back, compare the audit-critical parts
	buf, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var echoed models.ReservationRequest
	if err := json.Unmarshal(buf, &echoed); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if echoed.DriverSnapshot != req.DriverSnapshot {
		t.Fatalf("driver snapshot changed: %+v vs %+v", echoed.DriverSnapshot, req.DriverSnapshot)
	}
	if echoed.Pricing.GrandTotal != req.Pricing.GrandTotal {
		t.Fatalf("grand total changed: %s vs %s", echoed.Pricing.GrandTotal, req.Pricing.GrandTotal)
	}
}
