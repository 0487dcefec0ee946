package models

import "time"

// PaymentStatus values. pending is the only non-terminal state; abandoned is
// reached by explicit stop, timed_out when the poll cap is exceeded.
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
	PaymentAbandoned = "abandoned"
	PaymentTimedOut  = "timed_out"
)

// IsTerminalPaymentStatus reports whether no further automatic transition occurs.
func IsTerminalPaymentStatus(s string) bool {
	switch s {
	case PaymentPaid, PaymentFailed, PaymentCancelled, PaymentAbandoned, PaymentTimedOut:
		return true
	}
	return false
}

// PaymentMethod variants supported by the payment collaborator.
const (
	MethodRedirect = "redirect"
	MethodMobile   = "mobile"
)

// PaymentSession is the mutable state of one payment attempt. It lives for
// the duration of the workflow run and references the reservation by id only.
type PaymentSession struct {
	ReservationID string    `json:"reservation_id"`
	BookingCode   string    `json:"booking_code"`
	Method        string    `json:"method"`
	PollToken     string    `json:"poll_token"`
	Status        string    `json:"status"`
	RedirectURL   string    `json:"redirect_url,omitempty"`
	Instructions  string    `json:"instructions,omitempty"`
	AttemptsMade  int       `json:"attempts_made"`
	StartedAt     time.Time `json:"started_at"`
}
