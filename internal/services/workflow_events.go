package services

import (
	"time"

	"rentalgw/internal/domain"
)

// Event kinds emitted over a workflow run, in the order they can occur.
const (
	EventValidated            = "validated"
	EventReservationCreated   = "reservation_created"
	EventPaymentInitiated     = "payment_initiated"
	EventPaymentStatusChanged = "payment_status_changed"
	EventWorkflowSucceeded    = "workflow_succeeded"
	EventWorkflowFailed       = "workflow_failed"
)

// WorkflowEvent is one entry of a run's event log. Failures carry the stage
// they happened in so the dashboard can word the message accordingly.
type WorkflowEvent struct {
	Kind          string       `json:"kind"`
	Stage         domain.Stage `json:"stage,omitempty"`
	Status        string       `json:"status,omitempty"`
	ReservationID string       `json:"reservation_id,omitempty"`
	BookingCode   string       `json:"booking_code,omitempty"`
	Message       string       `json:"message,omitempty"`
	At            time.Time    `json:"at"`
}

// ReceiptSummary is handed to the dashboard when a run succeeds.
type ReceiptSummary struct {
	BookingCode   string    `json:"booking_code"`
	ReservationID string    `json:"reservation_id"`
	RenterName    string    `json:"renter_name"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	PaidAt        time.Time `json:"paid_at"`
}
