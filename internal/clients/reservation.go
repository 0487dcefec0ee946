package clients

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"rentalgw/internal/domain"
	"rentalgw/internal/domain/models"
	"rentalgw/internal/utils"
)

// ReservationClient submits reservations to the reservation collaborator.
type ReservationClient struct {
	Base
	RequestID string
}

// ReservationResult is what later stages need from the submit response.
type ReservationResult struct {
	ReservationID string
	// ServerTotal is the collaborator's own grand total when present; it
	// overrides the optimistic client quote.
	ServerTotal string
}

// Submit sends the reservation and extracts the assigned id. The response
// shape varies between deployments (top-level object, {data:{...}},
// {reservation:{...}}), so extraction is defensive rather than schema-bound.
func (c ReservationClient) Submit(ctx context.Context, req models.ReservationRequest) (ReservationResult, error) {
	status, raw, err := c.doJSON(ctx, http.MethodPost, "/reservations", req)
	if err != nil {
		return ReservationResult{}, domain.ReservationRejected{Msg: "reservation service unreachable", Err: err}
	}
	if status < 200 || status >= 300 {
		return ReservationResult{}, domain.ReservationRejected{Msg: upstreamMessage(raw)}
	}

	id, ok := ExtractReservationID(raw)
	if !ok {
		utils.LogEvent(c.RequestID, "reservation", "submit", "no id in accepted response code="+req.Code)
		return ReservationResult{}, domain.ReservationNotFound{}
	}

	utils.LogEvent(c.RequestID, "reservation", "submit", "code="+req.Code+" reservation_id="+id)
	return ReservationResult{
		ReservationID: id,
		ServerTotal:   extractServerTotal(raw),
	}, nil
}

var idFieldNames = []string{"_id", "id", "reservation_id"}

// ExtractReservationID locates the reservation id inside a loosely shaped
// response. The documented shapes (top-level object, {data:{...}},
// {reservation:{...}}) are probed explicitly; anything else falls through to
// a depth-first walk, and finally to a regex scan of the serialized body for
// an identifier-safe token of length >= 20. The scan is a compatibility shim
// for deployments that wrap the reservation in shapes we have not seen yet,
// not core logic.
func ExtractReservationID(raw []byte) (string, bool) {
	var root any
	if err := json.Unmarshal(raw, &root); err == nil {
		if obj, ok := root.(map[string]any); ok {
			if id := directID(obj); id != "" {
				return id, true
			}
			for _, wrapper := range []string{"data", "reservation"} {
				if inner, ok := obj[wrapper].(map[string]any); ok {
					if id := directID(inner); id != "" {
						return id, true
					}
				}
			}
		}
		if id, ok := searchID(root); ok {
			return id, true
		}
	}

	return scanIDToken(string(raw))
}

func directID(obj map[string]any) string {
	for _, name := range idFieldNames {
		if val, ok := obj[name]; ok {
			if s := idString(val); s != "" {
				return s
			}
		}
	}
	return ""
}

func searchID(node any) (string, bool) {
	switch v := node.(type) {
	case map[string]any:
		if id := directID(v); id != "" {
			return id, true
		}
		for _, child := range v {
			if id, ok := searchID(child); ok {
				return id, true
			}
		}
	case []any:
		for _, child := range v {
			if id, ok := searchID(child); ok {
				return id, true
			}
		}
	}
	return "", false
}

func idString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		// numeric ids arrive as float64 from encoding/json
		if s == float64(int64(s)) && s > 0 {
			return strconv.FormatInt(int64(s), 10)
		}
	}
	return ""
}

var idTokenRe = regexp.MustCompile(`[A-Za-z0-9_-]{20,}`)

func scanIDToken(body string) (string, bool) {
	tok := idTokenRe.FindString(body)
	if tok == "" {
		return "", false
	}
	return tok, true
}

// extractServerTotal probes common total field spellings; empty when absent.
func extractServerTotal(raw []byte) string {
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return ""
	}
	return searchTotal(root)
}

func searchTotal(node any) string {
	switch v := node.(type) {
	case map[string]any:
		for _, name := range []string{"grand_total", "grandTotal", "total_amount"} {
			if val, ok := v[name]; ok {
				switch t := val.(type) {
				case string:
					if _, err := utils.ParseAmount(t); err == nil {
						return strings.TrimSpace(t)
					}
				case float64:
					return utils.Amount(math.Round(t * 100)).String()
				}
			}
		}
		for _, child := range v {
			if s := searchTotal(child); s != "" {
				return s
			}
		}
	case []any:
		for _, child := range v {
			if s := searchTotal(child); s != "" {
				return s
			}
		}
	}
	return ""
}
