package models

import (
	"fmt"
	"time"

	"rentalgw/internal/utils"
)

// BreakdownLine is one priced component of a quote (rental base, insurance).
type BreakdownLine struct {
	Label      string `json:"label"`
	Quantity   int    `json:"quantity"`
	UnitAmount string `json:"unit_amount"`
	Total      string `json:"total"`
}

// TaxLine carries a rate in percent form ("15.00") alongside the computed amount.
type TaxLine struct {
	Code   string `json:"code"`
	Rate   string `json:"rate"`
	Amount string `json:"amount"`
}

type FeeLine struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
}

// Quote is the computed price breakdown for a reservation. It is built
// optimistically for display; the server's own total is authoritative once
// the reservation response carries one.
type Quote struct {
	Currency   string          `json:"currency"`
	Breakdown  []BreakdownLine `json:"breakdown"`
	Taxes      []TaxLine       `json:"taxes"`
	Fees       []FeeLine       `json:"fees"`
	GrandTotal string          `json:"grand_total"`
	ComputedAt time.Time       `json:"computed_at"`
}

// Verify recomputes the grand total from the parts and compares to the cent.
func (q Quote) Verify() error {
	var sum utils.Amount
	for _, b := range q.Breakdown {
		a, err := utils.ParseAmount(b.Total)
		if err != nil {
			return fmt.Errorf("breakdown %q: %w", b.Label, err)
		}
		sum += a
	}
	for _, t := range q.Taxes {
		a, err := utils.ParseAmount(t.Amount)
		if err != nil {
			return fmt.Errorf("tax %q: %w", t.Code, err)
		}
		sum += a
	}
	for _, f := range q.Fees {
		a, err := utils.ParseAmount(f.Amount)
		if err != nil {
			return fmt.Errorf("fee %q: %w", f.Code, err)
		}
		sum += a
	}
	total, err := utils.ParseAmount(q.GrandTotal)
	if err != nil {
		return fmt.Errorf("grand total: %w", err)
	}
	if sum != total {
		return fmt.Errorf("grand total %s does not match parts sum %s", total, sum)
	}
	return nil
}

// TotalAmount parses the grand total into minor units.
func (q Quote) TotalAmount() (utils.Amount, error) {
	return utils.ParseAmount(q.GrandTotal)
}
