package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"rentalgw/internal/domain"
	"rentalgw/internal/domain/models"
)

func initiateArgs(method string) InitiateArgs {
	return InitiateArgs{
		ReservationID: "res-42",
		BookingCode:   "HRE-2025-000001",
		Amount:        15000,
		Currency:      "USD",
		Method:        method,
		Customer: Customer{
			Email: "john@example.com",
			Phone: "+26377000000",
			Name:  "John Doe",
		},
	}
}

func TestInitiateRejectsBadEmails(t *testing.T) {
	for _, email := range []string{"john@", "john example.com", ""} {
		args := initiateArgs(models.MethodRedirect)
		args.Customer.Email = email

		_, err := PaymentClient{}.Initiate(context.Background(), args)
		require.Truef(t, domain.IsInvalidCustomerEmail(err), "email %q: got %v", email, err)
	}
}

func TestInitiateRedirectFlow(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/initiate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"success":true,"pollUrl":"https://pay.example.com/poll?guid=tok-abc123","redirectUrl":"https://pay.example.com/checkout/1"}`))
	}))
	defer srv.Close()

	client := PaymentClient{Base: Base{BaseURL: srv.URL}}
	session, err := client.Initiate(context.Background(), initiateArgs(models.MethodRedirect))
	require.NoError(t, err)

	require.Equal(t, models.PaymentPending, session.Status)
	require.Equal(t, "tok-abc123", session.PollToken)
	require.Equal(t, "https://pay.example.com/checkout/1", session.RedirectURL)

	// redirect flow wants identity flat at top level
	require.Equal(t, "john@example.com", body["email"])
	require.Equal(t, "150.00", body["amount"])
	_, hasPrefixed := body["customer_email"]
	require.False(t, hasPrefixed)
}

func TestInitiateMobileDuplicatesIdentityKeys(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/mobile", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"success":true,"pollUrl":"https://pay.example.com/poll?guid=tok-mob1","instructions":"Dial *151# to approve"}`))
	}))
	defer srv.Close()

	client := PaymentClient{Base: Base{BaseURL: srv.URL}}
	session, err := client.Initiate(context.Background(), initiateArgs(models.MethodMobile))
	require.NoError(t, err)
	require.Equal(t, "Dial *151# to approve", session.Instructions)

	// both flat and customer_* variants for the collaborator's older schema
	require.Equal(t, "john@example.com", body["email"])
	require.Equal(t, "john@example.com", body["customer_email"])
	require.Equal(t, "+26377000000", body["customer_phone"])
	require.Equal(t, "John Doe", body["customer_name"])
}

func TestInitiateFailsOnDecline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"insufficient merchant balance"}`))
	}))
	defer srv.Close()

	client := PaymentClient{Base: Base{BaseURL: srv.URL}}
	_, err := client.Initiate(context.Background(), initiateArgs(models.MethodRedirect))
	require.True(t, domain.IsPaymentInitiationFailed(err))
	require.EqualError(t, err, "insufficient merchant balance")
}

func TestInitiateFailsWithoutPollToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"pollUrl":"https://pay.example.com/poll"}`))
	}))
	defer srv.Close()

	client := PaymentClient{Base: Base{BaseURL: srv.URL}}
	_, err := client.Initiate(context.Background(), initiateArgs(models.MethodRedirect))
	require.True(t, domain.IsPaymentInitiationFailed(err))
}

func TestPaymentStatusFallsBackToPoll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		require.Equal(t, "/payments/tok-1/poll", r.URL.Path)
		w.Write([]byte(`{"status":"Paid"}`))
	}))
	defer srv.Close()

	client := PaymentClient{Base: Base{BaseURL: srv.URL}}
	status, err := client.PaymentStatus(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, "Paid", status)
}
