package services

import (
	"strings"
	"time"

	"rentalgw/internal/domain"
	"rentalgw/internal/domain/models"
	"rentalgw/internal/utils"
)

// Insurance flat fees per rental day, keyed by tier.
var insuranceDailyFee = map[string]utils.Amount{
	"none":    0,
	"basic":   1500,
	"premium": 2500,
}

// ReservationBuilder turns raw dashboard form state into a normalized
// ReservationRequest with a fresh booking code and an optimistic quote. The
// quote mirrors the server-side computation for display only; the server's
// total is authoritative once it answers. No side effects.
type ReservationBuilder struct {
	RequestID string
	Now       func() time.Time
}

func (b ReservationBuilder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b ReservationBuilder) Build(form models.BookingForm) (models.ReservationRequest, error) {
	if err := validateForm(form); err != nil {
		return models.ReservationRequest{}, err
	}

	start, err := utils.ParseDate(form.StartDate)
	if err != nil {
		return models.ReservationRequest{}, domain.ValidationError{Msg: "start date must be YYYY-MM-DD", Err: err}
	}
	end, err := utils.ParseDate(form.EndDate)
	if err != nil {
		return models.ReservationRequest{}, domain.ValidationError{Msg: "end date must be YYYY-MM-DD", Err: err}
	}
	if end.Before(start) {
		return models.ReservationRequest{}, domain.ValidationError{Msg: "end date before start date"}
	}

	quote, err := b.buildQuote(form, start, end)
	if err != nil {
		return models.ReservationRequest{}, err
	}

	total, err := quote.TotalAmount()
	if err != nil {
		return models.ReservationRequest{}, domain.InternalError{Msg: "quote total unparsable", Err: err}
	}

	return models.ReservationRequest{
		Code:           utils.GenerateBookingCode(b.now()),
		VehicleID:      utils.TrimOrEmpty(form.VehicleID),
		VehicleModelID: utils.TrimOrEmpty(form.VehicleModelID),
		Pickup: models.StopPoint{
			BranchID: utils.TrimOrEmpty(form.PickupBranchID),
			At:       utils.FormatDate(start),
		},
		Dropoff: models.StopPoint{
			BranchID: utils.TrimOrEmpty(form.DropoffBranchID),
			At:       utils.FormatDate(end),
		},
		Pricing: quote,
		PaymentSummary: models.PaymentSummary{
			Status:      "unpaid",
			PaidTotal:   utils.Amount(0).String(),
			Outstanding: total.String(),
		},
		DriverSnapshot: models.DriverSnapshot{
			FullName: utils.NormalizeSpace(form.FullName),
			Phone:    utils.TrimOrEmpty(form.Phone),
			Email:    utils.TrimOrEmpty(form.Email),
			DriverLicense: models.DriverLicense{
				Number:    utils.TrimOrEmpty(form.LicenseNumber),
				Country:   utils.TrimOrEmpty(form.LicenseCountry),
				Class:     utils.TrimOrEmpty(form.LicenseClass),
				ExpiresAt: utils.TrimOrEmpty(form.LicenseExpiry),
			},
		},
		Notes:  utils.TrimOrEmpty(form.Notes),
		UserID: utils.TrimOrEmpty(form.UserID),
	}, nil
}

func validateForm(form models.BookingForm) error {
	required := []struct {
		name  string
		value string
	}{
		{"full_name", form.FullName},
		{"phone", form.Phone},
		{"email", form.Email},
		{"license_number", form.LicenseNumber},
		{"license_expiry", form.LicenseExpiry},
		{"start_date", form.StartDate},
		{"end_date", form.EndDate},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return domain.ValidationError{Fields: missing}
	}

	if !utils.IsEmail(form.Email) {
		return domain.ValidationError{Msg: "invalid_email"}
	}
	return nil
}

// buildQuote sums daily_rate × days plus a per-day insurance fee, applies
// proportional tax rates to the rental base, then flat fees.
func (b ReservationBuilder) buildQuote(form models.BookingForm, start, end time.Time) (models.Quote, error) {
	rate, err := utils.ParseAmount(form.DailyRate)
	if err != nil {
		return models.Quote{}, domain.ValidationError{Msg: "daily rate must be a decimal amount", Err: err}
	}

	days := utils.RentalDays(start, end)
	base := rate.Times(days)

	currency := strings.ToUpper(utils.TrimOrEmpty(form.Currency))
	if currency == "" {
		currency = "USD"
	}

	breakdown := []models.BreakdownLine{{
		Label:      "Vehicle rental",
		Quantity:   days,
		UnitAmount: rate.String(),
		Total:      base.String(),
	}}

	total := base

	tier := strings.ToLower(utils.TrimOrEmpty(form.InsuranceTier))
	if tier == "" {
		tier = "none"
	}
	daily, ok := insuranceDailyFee[tier]
	if !ok {
		return models.Quote{}, domain.ValidationError{Msg: "unknown insurance tier: " + tier}
	}
	if daily > 0 {
		ins := daily.Times(days)
		breakdown = append(breakdown, models.BreakdownLine{
			Label:      "Insurance (" + tier + ")",
			Quantity:   days,
			UnitAmount: daily.String(),
			Total:      ins.String(),
		})
		total += ins
	}

	var taxes []models.TaxLine
	for _, t := range form.TaxRates {
		bp, err := utils.RateBPFromPercent(t.Rate)
		if err != nil {
			return models.Quote{}, domain.ValidationError{Msg: "tax rate must be a percent value", Err: err}
		}
		amount := utils.ApplyRate(base, bp)
		taxes = append(taxes, models.TaxLine{
			Code:   t.Code,
			Rate:   utils.Amount(bp).String(),
			Amount: amount.String(),
		})
		total += amount
	}

	var fees []models.FeeLine
	for _, f := range form.FlatFees {
		amount, err := utils.ParseAmount(f.Amount)
		if err != nil {
			return models.Quote{}, domain.ValidationError{Msg: "fee amount must be a decimal amount", Err: err}
		}
		fees = append(fees, models.FeeLine{Code: f.Code, Amount: amount.String()})
		total += amount
	}

	return models.Quote{
		Currency:   currency,
		Breakdown:  breakdown,
		Taxes:      taxes,
		Fees:       fees,
		GrandTotal: total.String(),
		ComputedAt: b.now().UTC(),
	}, nil
}
