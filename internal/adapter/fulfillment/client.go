package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
)

// Result is what the remote delivery function reports on success.
type Result struct {
	AccountID string
	Password  string
	Method    model.DeliveryMethod
}

// Client exposes the optional out-of-process delivery endpoint. When it is
// not configured every call fails with ErrNotConfigured and callers fall
// through to their local strategies.
type Client interface {
	Deliver(ctx context.Context, orderID string) (*Result, error)
	Moderate(ctx context.Context, orderID, action string) error
}

// HTTPClient implements Client against the serverless function host.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates the client. An empty base URL yields a client whose
// calls report ErrNotConfigured.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	client := &HTTPClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	if baseURL == "" {
		return client, nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse delivery endpoint url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("delivery endpoint url must be absolute")
	}
	client.baseURL = parsed
	return client, nil
}

type envelope struct {
	Success   bool   `json:"success"`
	AccountID string `json:"accountId"`
	Password  string `json:"password"`
	Method    string `json:"method"`
	Error     string `json:"error"`
}

// Deliver delegates the whole delivery operation to the remote function.
func (c *HTTPClient) Deliver(ctx context.Context, orderID string) (*Result, error) {
	resp, err := c.post(ctx, "/deliver-account", map[string]string{"orderId": orderID})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("remote delivery failed: %s", resp.Error)
	}
	if resp.AccountID == "" || resp.Password == "" {
		return nil, fmt.Errorf("remote delivery returned empty credentials")
	}

	method := model.DeliveryMethod(resp.Method)
	if method == "" {
		method = model.DeliveryMethodServerless
	}
	return &Result{AccountID: resp.AccountID, Password: resp.Password, Method: method}, nil
}

// Moderate asks the remote function to apply an approve/reject transition.
// Used as the secondary path when the direct status write fails.
func (c *HTTPClient) Moderate(ctx context.Context, orderID, action string) error {
	resp, err := c.post(ctx, "/moderate-order", map[string]string{"orderId": orderID, "action": action})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("remote moderation failed: %s", resp.Error)
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) (*envelope, error) {
	if c.baseURL == nil {
		return nil, domainErrors.ErrNotConfigured
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("delivery endpoint request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("delivery endpoint error: %s", resp.Status)
	}

	var parsed envelope
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}
