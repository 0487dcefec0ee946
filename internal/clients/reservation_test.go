package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"rentalgw/internal/domain"
	"rentalgw/internal/domain/models"
)

func TestExtractReservationIDKnownShapes(t *testing.T) {
	cases := []string{
		`{"data":{"_id":"abc123"}}`,
		`{"reservation":{"id":"abc123"}}`,
		`{"_id":"abc123"}`,
		`{"reservation_id":"abc123"}`,
	}
	for _, body := range cases {
		id, ok := ExtractReservationID([]byte(body))
		require.True(t, ok, "body %s", body)
		require.Equal(t, "abc123", id, "body %s", body)
	}
}

func TestExtractReservationIDDeepAndNumeric(t *testing.T) {
	id, ok := ExtractReservationID([]byte(`{"result":{"booking":{"reservation_id":"deep-1"}}}`))
	require.True(t, ok)
	require.Equal(t, "deep-1", id)

	id, ok = ExtractReservationID([]byte(`{"data":{"id":4481}}`))
	require.True(t, ok)
	require.Equal(t, "4481", id)
}

func TestExtractReservationIDRegexFallback(t *testing.T) {
	// no id-named field anywhere, but a long identifier token in a string
	id, ok := ExtractReservationID([]byte(`{"ref":"created 65f1c2ab9de0447abb12cc34ef under review"}`))
	require.True(t, ok)
	require.Equal(t, "65f1c2ab9de0447abb12cc34ef", id)
}

func TestExtractReservationIDExhausted(t *testing.T) {
	_, ok := ExtractReservationID([]byte(`{"ok":true,"note":"short"}`))
	require.False(t, ok)
}

func TestSubmitExtractsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reservations", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"_id":"res-42","grand_total":"180.00"}}`))
	}))
	defer srv.Close()

	client := ReservationClient{Base: Base{BaseURL: srv.URL, Token: "tok"}}
	result, err := client.Submit(context.Background(), models.ReservationRequest{Code: "HRE-2025-000001"})
	require.NoError(t, err)
	require.Equal(t, "res-42", result.ReservationID)
	require.Equal(t, "180.00", result.ServerTotal)
}

func TestSubmitReservationNotFoundIsLoud(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := ReservationClient{Base: Base{BaseURL: srv.URL}}
	_, err := client.Submit(context.Background(), models.ReservationRequest{})
	require.True(t, domain.IsReservationNotFound(err), "got %v", err)
}

func TestSubmitPreservesRejectionMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"vehicle not available for those dates"}`))
	}))
	defer srv.Close()

	client := ReservationClient{Base: Base{BaseURL: srv.URL}}
	_, err := client.Submit(context.Background(), models.ReservationRequest{})
	require.True(t, domain.IsReservationRejected(err))
	require.EqualError(t, err, "vehicle not available for those dates")
}
