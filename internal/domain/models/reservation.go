package models

import "time"

// DriverLicense holds the license fields captured at booking time.
type DriverLicense struct {
	Number    string `json:"number"`
	Country   string `json:"country"`
	Class     string `json:"class"`
	ExpiresAt string `json:"expires_at"`
	Verified  bool   `json:"verified"`
}

// DriverSnapshot is a point-in-time copy of the renter's identity kept for
// audit. It is a snapshot, not a live reference: once the reservation is
// submitted it never changes, even if the user record does.
type DriverSnapshot struct {
	FullName      string        `json:"full_name"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	DriverLicense DriverLicense `json:"driver_license"`
}

// StopPoint is a branch plus a time, used for pickup and dropoff.
type StopPoint struct {
	BranchID string `json:"branch_id"`
	At       string `json:"at"`
}

// PaymentSummary mirrors what the dashboard shows in the booking table.
type PaymentSummary struct {
	Status        string `json:"status"` // unpaid | partial | paid
	PaidTotal     string `json:"paid_total"`
	Outstanding   string `json:"outstanding"`
	LastPaymentAt string `json:"last_payment_at,omitempty"`
}

// ReservationRequest is the normalized payload handed to the reservation
// collaborator. Immutable once submitted; the server assigns the persistent
// reservation id on acceptance.
type ReservationRequest struct {
	Code           string         `json:"code"`
	VehicleID      string         `json:"vehicle_id"`
	VehicleModelID string         `json:"vehicle_model_id"`
	Pickup         StopPoint      `json:"pickup"`
	Dropoff        StopPoint      `json:"dropoff"`
	Pricing        Quote          `json:"pricing"`
	PaymentSummary PaymentSummary `json:"payment_summary"`
	DriverSnapshot DriverSnapshot `json:"driver_snapshot"`
	Notes          string         `json:"notes,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
}

// BookingForm is the raw dashboard form state the builder validates.
type BookingForm struct {
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	LicenseNumber  string `json:"license_number"`
	LicenseCountry string `json:"license_country"`
	LicenseClass   string `json:"license_class"`
	LicenseExpiry  string `json:"license_expiry"`

	VehicleID       string `json:"vehicle_id"`
	VehicleModelID  string `json:"vehicle_model_id"`
	PickupBranchID  string `json:"pickup_branch_id"`
	DropoffBranchID string `json:"dropoff_branch_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`

	Currency      string `json:"currency"`
	DailyRate     string `json:"daily_rate"`
	InsuranceTier string `json:"insurance_tier"`

	TaxRates []TaxRateInput `json:"tax_rates"`
	FlatFees []FlatFeeInput `json:"flat_fees"`

	PaymentMethod string `json:"payment_method"` // redirect | mobile
	Notes         string `json:"notes"`
	UserID        string `json:"user_id"`
}

type TaxRateInput struct {
	Code string `json:"code"`
	Rate string `json:"rate"` // percent, e.g. "15"
}

type FlatFeeInput struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
}

// RenterCandidate is a row from the user collaborator used to prefill the
// driver snapshot.
type RenterCandidate struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// WorkflowRecord is the audit row persisted for every run.
type WorkflowRecord struct {
	WorkflowID    string    `json:"workflow_id"`
	BookingCode   string    `json:"booking_code"`
	ReservationID string    `json:"reservation_id"`
	Stage         string    `json:"stage"`
	Status        string    `json:"status"`
	Method        string    `json:"method"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	RenterName    string    `json:"renter_name"`
	RenterEmail   string    `json:"renter_email"`
	FailureReason string    `json:"failure_reason,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at,omitempty"`
}
