package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"mindhaven/models"
)

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Logger  *zap.Logger
}

// NewHTTPClient builds a client with a bounded per-request timeout.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

func (c *HTTPClient) FetchAvailabilityTemplate(ctx context.Context) (*models.AvailabilityTemplate, error) {
	var tpl models.AvailabilityTemplate
	if err := c.doJSON(ctx, http.MethodGet, "/api/scheduling/template", nil, &tpl, "fetch template"); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (c *HTTPClient) FetchDateAvailability(ctx context.Context, date, serverTimezone string) (*models.DateAvailability, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("timezone", serverTimezone)
	var da models.DateAvailability
	if err := c.doJSON(ctx, http.MethodGet, "/api/scheduling/availability?"+q.Encode(), nil, &da, "fetch availability"); err != nil {
		return nil, err
	}
	if da.Date == "" {
		da.Date = date
	}
	return &da, nil
}

func (c *HTTPClient) SubmitBooking(ctx context.Context, req SubmitRequest) (*models.BookingRecord, error) {
	var rec models.BookingRecord
	if err := c.doJSON(ctx, http.MethodPost, "/api/scheduling/bookings", req, &rec, "submit booking"); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) FetchBookingDetails(ctx context.Context, viewerID string) (*models.BookingRecord, error) {
	var rec models.BookingRecord
	path := "/api/scheduling/bookings/current?viewerId=" + url.QueryEscape(viewerID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &rec, "fetch booking"); err != nil {
		return nil, err
	}
	return &rec, nil
}

// doJSON performs one round trip and decodes the response into out.
// 409 maps to ErrSlotTaken, 404 to ErrNoBooking; transport failures wrap
// into NetworkError so callers can distinguish retryable conditions.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any, op string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s: %w", op, ErrSlotTaken)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNoBooking)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.Logger.Warn("upstream request failed",
			zap.String("op", op), zap.Int("status", resp.StatusCode))
		return &StatusError{Op: op, Status: resp.StatusCode, Message: string(msg)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
