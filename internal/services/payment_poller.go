package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"rentalgw/internal/domain/models"
	"rentalgw/internal/utils"
)

// StatusFetcher is the slice of the payment client the poller needs.
type StatusFetcher interface {
	PaymentStatus(ctx context.Context, token string) (string, error)
}

// PollerConfig bounds the polling loop. Unbounded polling is a resource
// leak, so both an attempt cap and a wall-clock cap apply; exceeding either
// is the distinct terminal state timed_out, not failed.
type PollerConfig struct {
	Interval     time.Duration
	MaxAttempts  int
	MaxDuration  time.Duration
	ConfirmDelay time.Duration
}

func (c PollerConfig) withDefaults() PollerConfig {
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 60
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = 5 * time.Minute
	}
	// zero means "use default"; pass a negative value to skip the delay
	if c.ConfirmDelay == 0 {
		c.ConfirmDelay = 2 * time.Second
	}
	if c.ConfirmDelay < 0 {
		c.ConfirmDelay = 0
	}
	return c
}

// Transition is one observed state change of the payment.
type Transition struct {
	Status   string
	Attempts int
	Reason   string
}

// PaymentPoller repeatedly queries payment status until a terminal state,
// the caps, or an explicit Stop.
type PaymentPoller struct {
	Fetcher   StatusFetcher
	Config    PollerConfig
	RequestID string
}

// Poll is a handle on one running loop. Stop is safe to call any number of
// times and from any goroutine.
type Poll struct {
	transitions chan Transition
	stopOnce    sync.Once
	stopCh      chan struct{}
}

// Transitions delivers state changes in order and closes when the loop ends.
func (p *Poll) Transitions() <-chan Transition {
	return p.transitions
}

// Stop halts polling without declaring the payment failed. The loop emits a
// final abandoned transition unless a terminal state was already reached.
func (p *Poll) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// Start launches the loop for the session's poll token.
func (pp PaymentPoller) Start(ctx context.Context, token string) *Poll {
	cfg := pp.Config.withDefaults()
	poll := &Poll{
		transitions: make(chan Transition, 8),
		stopCh:      make(chan struct{}),
	}
	go pp.run(ctx, cfg, token, poll)
	return poll
}

func (pp PaymentPoller) run(ctx context.Context, cfg PollerConfig, token string, poll *Poll) {
	defer close(poll.transitions)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	deadline := time.NewTimer(cfg.MaxDuration)
	defer deadline.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			pp.emit(poll, Transition{Status: models.PaymentAbandoned, Attempts: attempts})
			return
		case <-poll.stopCh:
			pp.emit(poll, Transition{Status: models.PaymentAbandoned, Attempts: attempts})
			return
		case <-deadline.C:
			utils.LogEvent(pp.RequestID, "poller", "timeout", "max duration reached after "+strconv.Itoa(attempts)+" attempts")
			pp.emit(poll, Transition{Status: models.PaymentTimedOut, Attempts: attempts, Reason: "poll window exceeded"})
			return
		case <-ticker.C:
		}

		attempts++
		status, err := pp.Fetcher.PaymentStatus(ctx, token)
		if err != nil {
			// transient-error tolerance: a failed query is not a failed payment
			utils.LogEvent(pp.RequestID, "poller", "query", "attempt "+strconv.Itoa(attempts)+" error: "+err.Error())
			if attempts >= cfg.MaxAttempts {
				pp.emit(poll, Transition{Status: models.PaymentTimedOut, Attempts: attempts, Reason: "attempt cap reached"})
				return
			}
			continue
		}

		switch strings.ToLower(strings.TrimSpace(status)) {
		case models.PaymentPaid:
			if cfg.ConfirmDelay > 0 {
				// brief hold so the dashboard can show its confirmation state
				select {
				case <-ctx.Done():
				case <-time.After(cfg.ConfirmDelay):
				}
			}
			pp.emit(poll, Transition{Status: models.PaymentPaid, Attempts: attempts})
			return
		case models.PaymentFailed:
			pp.emit(poll, Transition{Status: models.PaymentFailed, Attempts: attempts, Reason: "payment reported failed"})
			return
		case models.PaymentCancelled:
			pp.emit(poll, Transition{Status: models.PaymentCancelled, Attempts: attempts, Reason: "payment reported cancelled"})
			return
		default:
			// pending and anything unrecognized: keep waiting
		}

		if attempts >= cfg.MaxAttempts {
			utils.LogEvent(pp.RequestID, "poller", "timeout", "attempt cap reached")
			pp.emit(poll, Transition{Status: models.PaymentTimedOut, Attempts: attempts, Reason: "attempt cap reached"})
			return
		}
	}
}

func (pp PaymentPoller) emit(poll *Poll, t Transition) {
	select {
	case poll.transitions <- t:
	default:
		// consumer gone; nothing left to notify
	}
}
