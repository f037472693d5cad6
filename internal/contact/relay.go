// Package contact relays validated contact-form submissions to the upstream
// support endpoint.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jannatulferdou/cybersheild/internal/apperr"
	"github.com/jannatulferdou/cybersheild/internal/models"
)

// Receipt is the upstream response.
type Receipt struct {
	OK       bool   `json:"ok"`
	TicketID string `json:"ticketId,omitempty"`
}

// Relay forwards contact messages as a single request-response exchange.
// There is no retry policy; a failure is reported as retryable to the user
// and nothing is queued.
type Relay struct {
	endpoint string
	client   *http.Client
}

// NewRelay creates a relay for the given endpoint. timeout bounds the whole
// exchange; zero falls back to 10 seconds.
func NewRelay(endpoint string, timeout time.Duration) *Relay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Relay{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// wirePayload is the upstream request shape. The honeypot field never
// leaves this process.
type wirePayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Send posts the message upstream and returns the receipt. Transport
// failures and non-2xx responses surface as apperr.ErrUpstream.
func (r *Relay) Send(ctx context.Context, msg models.ContactMessage) (*Receipt, error) {
	body, err := json.Marshal(wirePayload{
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Message: msg.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("contact: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("contact: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contact: send: %w: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("contact: upstream status %d: %w", resp.StatusCode, apperr.ErrUpstream)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("contact: decode receipt: %w", apperr.ErrUpstream)
	}
	return &receipt, nil
}
