package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rentalgw/internal/clients"
	"rentalgw/internal/domain"
	"rentalgw/internal/domain/models"
	"rentalgw/internal/utils"
)

// ReservationSubmitter is the slice of the reservation client the
// orchestrator needs.
type ReservationSubmitter interface {
	Submit(ctx context.Context, req models.ReservationRequest) (clients.ReservationResult, error)
}

// PaymentInitiator starts a payment attempt for a reservation.
type PaymentInitiator interface {
	Initiate(ctx context.Context, args clients.InitiateArgs) (models.PaymentSession, error)
}

// WorkflowStore persists the audit trail. Nil-safe at the call sites so the
// orchestrator also runs without a database (tests, dry runs).
type WorkflowStore interface {
	Insert(rec models.WorkflowRecord) error
	Update(rec models.WorkflowRecord) error
}

// WorkflowService sequences build → submit reservation → initiate payment →
// poll → resolve. One run per booking attempt; runs share nothing. A payment
// is never initiated before the reservation id is known; the sequencing
// itself enforces that, no locking involved.
type WorkflowService struct {
	Reservations ReservationSubmitter
	Payments     PaymentInitiator
	Statuses     StatusFetcher
	Store        WorkflowStore
	Registry     *WorkflowRegistry
	Poller       PollerConfig
	RequestID    string
}

// WorkflowSnapshot is the externally visible state of a run.
type WorkflowSnapshot struct {
	WorkflowID string                 `json:"workflow_id"`
	Record     models.WorkflowRecord  `json:"record"`
	Session    *models.PaymentSession `json:"session,omitempty"`
	Quote      models.Quote           `json:"quote"`
	Receipt    *ReceiptSummary        `json:"receipt,omitempty"`
	Done       bool                   `json:"done"`
}

// WorkflowRun owns the lifecycle of one booking attempt. All mutation goes
// through the run goroutine; readers get copies.
type WorkflowRun struct {
	ID string

	mu      sync.Mutex
	record  models.WorkflowRecord
	request models.ReservationRequest
	session *models.PaymentSession
	receipt *ReceiptSummary
	events  []WorkflowEvent
	done    bool

	cancel context.CancelFunc
	poll   *Poll
}

// Snapshot returns a copy of the current run state.
func (w *WorkflowRun) Snapshot() WorkflowSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := WorkflowSnapshot{
		WorkflowID: w.ID,
		Record:     w.record,
		Quote:      w.request.Pricing,
		Done:       w.done,
	}
	if w.session != nil {
		s := *w.session
		snap.Session = &s
	}
	if w.receipt != nil {
		r := *w.receipt
		snap.Receipt = &r
	}
	return snap
}

// Events returns the ordered event log so far.
func (w *WorkflowRun) Events() []WorkflowEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]WorkflowEvent, len(w.events))
	copy(out, w.events)
	return out
}

// Request returns the immutable reservation request of this run.
func (w *WorkflowRun) Request() models.ReservationRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.request
}

// Receipt returns the success summary when the run has one.
func (w *WorkflowRun) Receipt() (ReceiptSummary, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.receipt == nil {
		return ReceiptSummary{}, false
	}
	return *w.receipt, true
}

// Abandon stops polling and cancels in-flight calls. Safe to call repeatedly;
// a run that already reached a terminal state is left as is.
func (w *WorkflowRun) Abandon() {
	w.mu.Lock()
	if w.done || (w.session != nil && models.IsTerminalPaymentStatus(w.session.Status)) {
		w.mu.Unlock()
		return
	}
	poll := w.poll
	cancel := w.cancel
	w.mu.Unlock()

	if poll != nil {
		poll.Stop()
	}
	if cancel != nil {
		cancel()
	}
}

func (w *WorkflowRun) appendEvent(ev WorkflowEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ev.At = time.Now().UTC()
	w.events = append(w.events, ev)
}

// Start validates the form synchronously and launches the rest of the
// workflow in the background. Validation failures come back as
// domain.ValidationError before any run exists; everything after that is
// reported through the run's event log.
func (s WorkflowService) Start(ctx context.Context, form models.BookingForm) (*WorkflowRun, error) {
	builder := ReservationBuilder{RequestID: s.RequestID}
	request, err := builder.Build(form)
	if err != nil {
		return nil, err
	}

	method := form.PaymentMethod
	if method != models.MethodMobile {
		method = models.MethodRedirect
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run := &WorkflowRun{
		ID:      uuid.NewString(),
		request: request,
		cancel:  cancel,
		record: models.WorkflowRecord{
			BookingCode: request.Code,
			Stage:       string(domain.StageReserve),
			Status:      "running",
			Method:      method,
			Amount:      request.Pricing.GrandTotal,
			Currency:    request.Pricing.Currency,
			RenterName:  request.DriverSnapshot.FullName,
			RenterEmail: request.DriverSnapshot.Email,
			StartedAt:   time.Now().UTC(),
		},
	}
	run.record.WorkflowID = run.ID

	run.appendEvent(WorkflowEvent{Kind: EventValidated, Stage: domain.StageValidate, BookingCode: request.Code})
	s.persistInsert(run)

	if s.Registry != nil {
		s.Registry.Put(run)
	}

	go s.execute(runCtx, run, method)
	return run, nil
}

func (s WorkflowService) execute(ctx context.Context, run *WorkflowRun, method string) {
	request := run.Request()

	result, err := s.Reservations.Submit(ctx, request)
	if err != nil {
		s.fail(run, domain.StageReserve, err)
		return
	}

	run.mu.Lock()
	run.record.ReservationID = result.ReservationID
	run.record.Stage = string(domain.StageInitiate)
	if result.ServerTotal != "" {
		// server total is authoritative over the optimistic quote
		run.record.Amount = result.ServerTotal
		run.request.Pricing.GrandTotal = result.ServerTotal
	}
	amountStr := run.record.Amount
	currency := run.record.Currency
	run.mu.Unlock()

	run.appendEvent(WorkflowEvent{
		Kind:          EventReservationCreated,
		Stage:         domain.StageReserve,
		ReservationID: result.ReservationID,
		BookingCode:   request.Code,
	})
	s.persistUpdate(run)

	amount, err := utils.ParseAmount(amountStr)
	if err != nil {
		s.fail(run, domain.StageInitiate, domain.InternalError{Msg: "unparsable amount " + amountStr, Err: err})
		return
	}

	session, err := s.Payments.Initiate(ctx, clients.InitiateArgs{
		ReservationID: result.ReservationID,
		BookingCode:   request.Code,
		Amount:        amount,
		Currency:      currency,
		Method:        method,
		Customer: clients.Customer{
			Email: request.DriverSnapshot.Email,
			Phone: request.DriverSnapshot.Phone,
			Name:  request.DriverSnapshot.FullName,
		},
	})
	if err != nil {
		s.fail(run, domain.StageInitiate, err)
		return
	}

	poller := PaymentPoller{Fetcher: s.Statuses, Config: s.Poller, RequestID: s.RequestID}
	poll := poller.Start(ctx, session.PollToken)

	run.mu.Lock()
	run.session = &session
	run.record.Stage = string(domain.StagePoll)
	run.poll = poll
	run.mu.Unlock()

	run.appendEvent(WorkflowEvent{
		Kind:          EventPaymentInitiated,
		Stage:         domain.StageInitiate,
		Status:        session.Status,
		ReservationID: session.ReservationID,
		BookingCode:   session.BookingCode,
	})
	s.persistUpdate(run)

	for tr := range poll.Transitions() {
		run.mu.Lock()
		run.session.Status = tr.Status
		run.session.AttemptsMade = tr.Attempts
		run.mu.Unlock()

		run.appendEvent(WorkflowEvent{
			Kind:          EventPaymentStatusChanged,
			Stage:         domain.StagePoll,
			Status:        tr.Status,
			ReservationID: session.ReservationID,
			BookingCode:   session.BookingCode,
			Message:       tr.Reason,
		})

		switch tr.Status {
		case models.PaymentPaid:
			s.succeed(run, session)
			return
		case models.PaymentFailed:
			s.fail(run, domain.StagePoll, domain.PaymentFailed{Reason: tr.Reason})
			return
		case models.PaymentCancelled:
			s.fail(run, domain.StagePoll, domain.PaymentCancelled{Reason: tr.Reason})
			return
		case models.PaymentTimedOut:
			s.finishQuiet(run, models.PaymentTimedOut, tr.Reason)
			run.appendEvent(WorkflowEvent{
				Kind:        EventWorkflowFailed,
				Stage:       domain.StagePoll,
				Status:      models.PaymentTimedOut,
				BookingCode: session.BookingCode,
				Message:     "could not confirm payment status",
			})
			s.persistUpdate(run)
			return
		case models.PaymentAbandoned:
			// explicit stop; not declared a failure
			s.finishQuiet(run, models.PaymentAbandoned, "")
			s.persistUpdate(run)
			return
		}
	}
}

func (s WorkflowService) succeed(run *WorkflowRun, session models.PaymentSession) {
	now := time.Now().UTC()

	run.mu.Lock()
	run.record.Status = "succeeded"
	run.record.FinishedAt = now
	run.done = true
	receipt := ReceiptSummary{
		BookingCode:   run.record.BookingCode,
		ReservationID: run.record.ReservationID,
		RenterName:    run.record.RenterName,
		Amount:        run.record.Amount,
		Currency:      run.record.Currency,
		PaidAt:        now,
	}
	run.receipt = &receipt
	run.mu.Unlock()

	run.appendEvent(WorkflowEvent{
		Kind:          EventWorkflowSucceeded,
		Stage:         domain.StagePoll,
		Status:        models.PaymentPaid,
		ReservationID: session.ReservationID,
		BookingCode:   session.BookingCode,
	})
	utils.LogEvent(s.RequestID, "workflow", "succeeded", "code="+session.BookingCode)
	s.persistUpdate(run)
	if s.Registry != nil {
		s.Registry.Expire(run.ID)
	}
}

func (s WorkflowService) fail(run *WorkflowRun, stage domain.Stage, err error) {
	run.mu.Lock()
	run.record.Status = "failed"
	run.record.Stage = string(stage)
	run.record.FailureReason = err.Error()
	run.record.FinishedAt = time.Now().UTC()
	run.done = true
	code := run.record.BookingCode
	run.mu.Unlock()

	run.appendEvent(WorkflowEvent{
		Kind:        EventWorkflowFailed,
		Stage:       stage,
		BookingCode: code,
		Message:     err.Error(),
	})
	utils.LogEvent(s.RequestID, "workflow", "failed", "stage="+string(stage)+" code="+code+" err="+err.Error())
	s.persistUpdate(run)
	if s.Registry != nil {
		s.Registry.Expire(run.ID)
	}
}

func (s WorkflowService) finishQuiet(run *WorkflowRun, status, reason string) {
	run.mu.Lock()
	run.record.Status = status
	run.record.FailureReason = reason
	run.record.FinishedAt = time.Now().UTC()
	run.done = true
	run.mu.Unlock()

	if s.Registry != nil {
		s.Registry.Expire(run.ID)
	}
}

func (s WorkflowService) persistInsert(run *WorkflowRun) {
	if s.Store == nil {
		return
	}
	run.mu.Lock()
	rec := run.record
	run.mu.Unlock()
	if err := s.Store.Insert(rec); err != nil {
		utils.LogEvent(s.RequestID, "workflow", "audit", "insert warning: "+err.Error())
	}
}

func (s WorkflowService) persistUpdate(run *WorkflowRun) {
	if s.Store == nil {
		return
	}
	run.mu.Lock()
	rec := run.record
	run.mu.Unlock()
	if err := s.Store.Update(rec); err != nil {
		utils.LogEvent(s.RequestID, "workflow", "audit", "update warning: "+err.Error())
	}
}
