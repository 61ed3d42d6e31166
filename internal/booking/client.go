package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aperture-backend/internal/reservations"
	"aperture-backend/internal/transport"
)

// CreatePayload is the wire body for POST /api/reservations. Status is
// always "pending" on creation.
type CreatePayload struct {
	ServiceType string                   `json:"serviceType"`
	EventDate   time.Time                `json:"eventDate"`
	Contact     reservations.ContactInfo `json:"contactInfo"`
	Message     string                   `json:"message"`
	Status      string                   `json:"status"`
}

type Client struct {
	baseURL    string
	adminKey   string
	httpClient *http.Client
}

func NewClient(baseURL, adminKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminKey:   adminKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListReservations(ctx context.Context, page, limit int64) ([]reservations.Reservation, transport.Meta, error) {
	q := url.Values{}
	q.Set("page", strconv.FormatInt(page, 10))
	q.Set("limit", strconv.FormatInt(limit, 10))

	var out struct {
		Data []reservations.Reservation `json:"data"`
		Meta transport.Meta             `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/reservations?"+q.Encode(), nil, &out); err != nil {
		return nil, transport.Meta{}, err
	}
	return out.Data, out.Meta, nil
}

func (c *Client) CreateReservation(ctx context.Context, payload CreatePayload) (reservations.Reservation, error) {
	var out struct {
		Data reservations.Reservation `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/reservations", payload, &out); err != nil {
		return reservations.Reservation{}, err
	}
	return out.Data, nil
}

func (c *Client) UpdateReservationStatus(ctx context.Context, id, status string) (reservations.Reservation, error) {
	var out struct {
		Data reservations.Reservation `json:"data"`
	}
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, "/api/reservations/"+url.PathEscape(id), body, &out); err != nil {
		return reservations.Reservation{}, err
	}
	return out.Data, nil
}

func (c *Client) DeleteReservation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/reservations/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminKey != "" {
		req.Header.Set("X-Admin-Key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var failure transport.ErrorResponse
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&failure); decodeErr == nil && failure.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, failure.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
