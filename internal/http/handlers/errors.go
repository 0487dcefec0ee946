package handlers

import (
	"net/http"

	"rentalgw/internal/domain"
	"rentalgw/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps workflow errors to HTTP responses. The upstream
// message is preserved for diagnostic display.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsInvalidCustomerEmail(err):
		respondError(c, http.StatusBadRequest, "invalid_customer_email", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsReservationNotFound(err):
		respondError(c, http.StatusBadGateway, "reservation_id_missing", err.Error(), nil)
	case domain.IsReservationRejected(err):
		respondError(c, http.StatusBadGateway, "reservation_rejected", err.Error(), nil)
	case domain.IsPaymentInitiationFailed(err):
		respondError(c, http.StatusBadGateway, "payment_initiation_failed", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
