package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
)

// RateLimitedError represents a rate limiting signal from the Discord API.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("discord rate limited, retry after %s", e.RetryAfter)
}

// ThreadBinding is the result of creating an order support thread.
type ThreadBinding struct {
	ThreadID   string
	WebhookURL string
}

// Client exposes the single-operation Discord actions the storefront needs.
// Every call is one request/response pair against the REST API; there is no
// persistent gateway session.
type Client interface {
	SendChannelMessage(ctx context.Context, channelID, content string) error
	ExecuteWebhook(ctx context.Context, webhookURL, content string) error
	CreateOrderThread(ctx context.Context, name string) (*ThreadBinding, error)
	SendDM(ctx context.Context, discordUserID, content string) error
	InviteToGuild(ctx context.Context, discordUserID string) error
}

// HTTPClient implements Client via the Discord REST API using a bot token.
type HTTPClient struct {
	baseURL       *url.URL
	token         string
	guildID       string
	ordersChannel string
	httpClient    *http.Client
	logger        *slog.Logger
}

// Options configures the HTTPClient.
type Options struct {
	BaseURL       string
	BotToken      string
	GuildID       string
	OrdersChannel string
}

// NewHTTPClient creates a Discord client with an explicit request timeout,
// since the chat API is the most failure-prone external dependency.
func NewHTTPClient(opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse discord url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("discord url must be absolute")
	}
	return &HTTPClient{
		baseURL:       parsed,
		token:         opts.BotToken,
		guildID:       opts.GuildID,
		ordersChannel: opts.OrdersChannel,
		logger:        logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// SendChannelMessage posts a message to the given channel.
func (c *HTTPClient) SendChannelMessage(ctx context.Context, channelID, content string) error {
	if channelID == "" {
		return domainErrors.ErrNotConfigured
	}
	path := fmt.Sprintf("/channels/%s/messages", channelID)
	return c.do(ctx, http.MethodPost, path, map[string]any{"content": content}, nil)
}

// ExecuteWebhook relays a message through a webhook URL outside the API base.
func (c *HTTPClient) ExecuteWebhook(ctx context.Context, webhookURL, content string) error {
	if c.token == "" {
		return domainErrors.ErrNotConfigured
	}
	body, err := json.Marshal(map[string]any{"content": content})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp, nil)
}

// CreateOrderThread creates a public thread on the orders channel together
// with a webhook scoped to it, so later notifications need no bot session.
func (c *HTTPClient) CreateOrderThread(ctx context.Context, name string) (*ThreadBinding, error) {
	if c.ordersChannel == "" {
		return nil, domainErrors.ErrNotConfigured
	}

	var thread struct {
		ID string `json:"id"`
	}
	threadPath := fmt.Sprintf("/channels/%s/threads", c.ordersChannel)
	err := c.do(ctx, http.MethodPost, threadPath, map[string]any{
		"name": name,
		"type": 11, // public thread
	}, &thread)
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}

	var webhook struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	webhookPath := fmt.Sprintf("/channels/%s/webhooks", c.ordersChannel)
	err = c.do(ctx, http.MethodPost, webhookPath, map[string]any{"name": name}, &webhook)
	if err != nil {
		return nil, fmt.Errorf("create webhook: %w", err)
	}

	webhookURL := fmt.Sprintf("%s/webhooks/%s/%s?thread_id=%s",
		c.baseURL.String(), webhook.ID, webhook.Token, thread.ID)

	return &ThreadBinding{ThreadID: thread.ID, WebhookURL: webhookURL}, nil
}

// SendDM opens a DM channel with the user and posts a message to it.
func (c *HTTPClient) SendDM(ctx context.Context, discordUserID, content string) error {
	var dm struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/users/@me/channels", map[string]any{
		"recipient_id": discordUserID,
	}, &dm)
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	return c.SendChannelMessage(ctx, dm.ID, content)
}

// InviteToGuild creates a single-use invite on the orders channel and DMs it
// to the user.
func (c *HTTPClient) InviteToGuild(ctx context.Context, discordUserID string) error {
	if c.guildID == "" || c.ordersChannel == "" {
		return domainErrors.ErrNotConfigured
	}

	var invite struct {
		Code string `json:"code"`
	}
	invitePath := fmt.Sprintf("/channels/%s/invites", c.ordersChannel)
	err := c.do(ctx, http.MethodPost, invitePath, map[string]any{
		"max_uses": 1,
		"unique":   true,
	}, &invite)
	if err != nil {
		return fmt.Errorf("create invite: %w", err)
	}

	return c.SendDM(ctx, discordUserID, "https://discord.gg/"+invite.Code)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, out any) error {
	if c.token == "" {
		return domainErrors.ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, out)
}

func (c *HTTPClient) checkStatus(resp *http.Response, out any) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return RateLimitedError{RetryAfter: parseRetryAfter(resp)}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	default:
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("discord request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(data)),
		)
		return fmt.Errorf("discord error: %s", resp.Status)
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.ParseFloat(header, 64); err == nil {
			return time.Duration(seconds * float64(time.Second))
		}
	}

	var body struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if data, err := io.ReadAll(resp.Body); err == nil {
		if err := json.Unmarshal(data, &body); err == nil && body.RetryAfter > 0 {
			return time.Duration(body.RetryAfter * float64(time.Second))
		}
	}
	return 5 * time.Second
}

// IsNotConfigured reports whether the error only signals a missing integration.
func IsNotConfigured(err error) bool {
	return errors.Is(err, domainErrors.ErrNotConfigured)
}
