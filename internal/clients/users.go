package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"rentalgw/internal/domain/models"
)

// UserClient fetches renter candidates from the user collaborator. The
// dashboard uses them to prefill driver snapshots; nothing here is owned
// locally.
type UserClient struct {
	Base
	RequestID string
}

// ListRenters tolerates both a flat array and a {data:[...]} wrapper.
func (c UserClient) ListRenters(ctx context.Context) ([]models.RenterCandidate, error) {
	status, raw, err := c.doJSON(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("user service returned %d: %s", status, upstreamMessage(raw))
	}

	var flat []models.RenterCandidate
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	var wrapped struct {
		Data []models.RenterCandidate `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	return nil, fmt.Errorf("unrecognized user list shape")
}
