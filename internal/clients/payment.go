package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rentalgw/internal/domain"
	"rentalgw/internal/domain/models"
	"rentalgw/internal/utils"
)

// PaymentClient drives the payment collaborator: initiation and status polls.
type PaymentClient struct {
	Base
	RequestID string
}

// Customer identifies the payer on an initiation request.
type Customer struct {
	Email string
	Phone string
	Name  string
}

// InitiateArgs collects everything one initiation needs.
type InitiateArgs struct {
	ReservationID string
	BookingCode   string
	Amount        utils.Amount
	Currency      string
	Method        string // models.MethodRedirect | models.MethodMobile
	Customer      Customer
}

type initiateResponse struct {
	Success      *bool  `json:"success"`
	PollURL      string `json:"pollUrl"`
	RedirectURL  string `json:"redirectUrl"`
	Status       string `json:"status"`
	Instructions string `json:"instructions"`
	Message      string `json:"message"`
	Error        string `json:"error"`
}

// Initiate starts a payment for a reservation and returns a pending session.
func (c PaymentClient) Initiate(ctx context.Context, args InitiateArgs) (models.PaymentSession, error) {
	if !utils.IsStrictEmail(args.Customer.Email) {
		return models.PaymentSession{}, domain.InvalidCustomerEmail{Email: strings.TrimSpace(args.Customer.Email)}
	}
	if strings.TrimSpace(args.Customer.Phone) == "" {
		return models.PaymentSession{}, domain.PaymentInitiationFailed{Msg: "customer phone is required"}
	}
	if strings.TrimSpace(args.ReservationID) == "" {
		return models.PaymentSession{}, domain.PaymentInitiationFailed{Msg: "reservation id is required"}
	}

	path, body := c.buildRequest(args)
	status, raw, err := c.doJSON(ctx, http.MethodPost, path, body)
	if err != nil {
		return models.PaymentSession{}, domain.PaymentInitiationFailed{Msg: "payment service unreachable", Err: err}
	}
	if status < 200 || status >= 300 {
		return models.PaymentSession{}, domain.PaymentInitiationFailed{Msg: upstreamMessage(raw)}
	}

	var resp initiateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return models.PaymentSession{}, domain.PaymentInitiationFailed{Msg: "unparsable initiation response", Err: err}
	}
	if resp.Success != nil && !*resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = resp.Error
		}
		if msg == "" {
			msg = "payment initiation declined"
		}
		return models.PaymentSession{}, domain.PaymentInitiationFailed{Msg: msg}
	}

	token := extractPollToken(resp.PollURL)
	if token == "" {
		return models.PaymentSession{}, domain.PaymentInitiationFailed{Msg: "initiation response has no poll token"}
	}

	utils.LogEvent(c.RequestID, "payment", "initiate",
		fmt.Sprintf("reservation_id=%s method=%s amount=%s %s", args.ReservationID, args.Method, args.Amount, args.Currency))

	return models.PaymentSession{
		ReservationID: args.ReservationID,
		BookingCode:   args.BookingCode,
		Method:        args.Method,
		PollToken:     token,
		Status:        models.PaymentPending,
		RedirectURL:   resp.RedirectURL,
		Instructions:  resp.Instructions,
		StartedAt:     time.Now(),
	}, nil
}

// buildRequest shapes the body per method. The redirect flow wants identity
// fields flat at the top level; the mobile flow historically needs them both
// flat and customer_*-prefixed, so we send every variant it ever accepted.
func (c PaymentClient) buildRequest(args InitiateArgs) (string, map[string]any) {
	body := map[string]any{
		"reservation_id": args.ReservationID,
		"booking_code":   args.BookingCode,
		"amount":         args.Amount.String(),
		"currency":       args.Currency,
		"payment_method": args.Method,
		"customer": map[string]any{
			"email": args.Customer.Email,
			"phone": args.Customer.Phone,
			"name":  args.Customer.Name,
		},
		"email": args.Customer.Email,
		"phone": args.Customer.Phone,
		"name":  args.Customer.Name,
		"metadata": map[string]any{
			"booking_code": args.BookingCode,
			"source":       "admin-dashboard",
		},
	}

	if args.Method == models.MethodMobile {
		body["customer_email"] = args.Customer.Email
		body["customer_phone"] = args.Customer.Phone
		body["customer_name"] = args.Customer.Name
		return "/payments/mobile", body
	}
	return "/payments/initiate", body
}

// extractPollToken pulls the guid query parameter out of the poll URL.
func extractPollToken(pollURL string) string {
	pollURL = strings.TrimSpace(pollURL)
	if pollURL == "" {
		return ""
	}
	u, err := url.Parse(pollURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("guid"))
}

type statusResponse struct {
	Status string `json:"status"`
}

// PaymentStatus queries the collaborator for the payment state behind token.
// GET status and POST poll are interchangeable upstream; the POST form is
// kept as a fallback for deployments that never exposed the GET route.
func (c PaymentClient) PaymentStatus(ctx context.Context, token string) (string, error) {
	code, raw, err := c.doJSON(ctx, http.MethodGet, "/payments/"+url.PathEscape(token)+"/status", nil)
	if err == nil && code >= 200 && code < 300 {
		return decodeStatus(raw)
	}
	if err != nil {
		utils.LogEvent(c.RequestID, "payment", "status", "GET failed, trying poll: "+err.Error())
	}

	code, raw, err = c.doJSON(ctx, http.MethodPost, "/payments/"+url.PathEscape(token)+"/poll", map[string]any{})
	if err != nil {
		return "", err
	}
	if code < 200 || code >= 300 {
		return "", fmt.Errorf("status query returned %d: %s", code, upstreamMessage(raw))
	}
	return decodeStatus(raw)
}

func decodeStatus(raw []byte) (string, error) {
	var resp statusResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("unparsable status response: %w", err)
	}
	return strings.TrimSpace(resp.Status), nil
}
