// Package dispatch is a minimal HTTP client for the fleet auto-dispatch service.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/config"
)

var (
	ErrDisabled           = errors.New("dispatch: auto-dispatch is disabled")
	ErrRejected           = errors.New("dispatch: request rejected")
	ErrUnexpectedResponse = errors.New("dispatch: unexpected response from dispatch service")
)

// Request describes the trip the dispatcher should assign.
type Request struct {
	BookingID      uuid.UUID `json:"booking_id"`
	Reference      string    `json:"reference"`
	PickupLocation string    `json:"pickup_location"`
	Dropoff        string    `json:"dropoff_location"`
	PickupDatetime time.Time `json:"pickup_datetime"`
	VehicleType    string    `json:"vehicle_type"`
	Passengers     int       `json:"passengers"`
}

// Result is the dispatcher's answer.
type Result struct {
	Assigned     bool   `json:"assigned"`
	AssignmentID string `json:"assignment_id,omitempty"`
	Message      string `json:"message,omitempty"`
}

type Client struct {
	enabled    bool
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(cfg config.DispatchConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		enabled:    cfg.Enabled,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AutoDispatch asks the dispatcher to assign a vehicle to the booking.
func (c *Client) AutoDispatch(ctx context.Context, req Request) (*Result, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Result
	}
	status, err := c.post(ctx, "/auto-dispatch", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("auto dispatch: %w", err)
	}

	switch {
	case status >= 500:
		return nil, fmt.Errorf("%w (status=%d)", ErrUnexpectedResponse, status)
	case status >= 400 || !resp.Success:
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
	return &resp.Result, nil
}

// post sends a JSON POST request to baseURL+path and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, body any, out any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if res.StatusCode >= 500 {
			return res.StatusCode, nil
		}
		return res.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return res.StatusCode, nil
}
