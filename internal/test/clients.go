package test

import (
	"context"
	"sync"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/adapter/fulfillment"
	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/storage/schemacap"
)

// DiscordClientStub records outbound Discord calls.
type DiscordClientStub struct {
	mu sync.Mutex

	ChannelMessages []string
	WebhookPosts    []string
	DMs             []string
	Invited         []string
	ThreadsCreated  []string

	Binding *discord.ThreadBinding
	Err     error
}

func (s *DiscordClientStub) SendChannelMessage(ctx context.Context, channelID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.ChannelMessages = append(s.ChannelMessages, content)
	return nil
}

func (s *DiscordClientStub) ExecuteWebhook(ctx context.Context, webhookURL, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.WebhookPosts = append(s.WebhookPosts, content)
	return nil
}

func (s *DiscordClientStub) CreateOrderThread(ctx context.Context, name string) (*discord.ThreadBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.ThreadsCreated = append(s.ThreadsCreated, name)
	if s.Binding != nil {
		return s.Binding, nil
	}
	return &discord.ThreadBinding{ThreadID: "thread-1", WebhookURL: "https://hooks.example/1"}, nil
}

func (s *DiscordClientStub) SendDM(ctx context.Context, discordUserID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.DMs = append(s.DMs, content)
	return nil
}

func (s *DiscordClientStub) InviteToGuild(ctx context.Context, discordUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Invited = append(s.Invited, discordUserID)
	return nil
}

// WebhookCount returns the number of webhook posts sent so far.
func (s *DiscordClientStub) WebhookCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.WebhookPosts)
}

// ChannelCount returns the number of channel messages sent so far.
func (s *DiscordClientStub) ChannelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ChannelMessages)
}

// FulfillmentClientStub scripts the remote delivery endpoint. The zero value
// behaves like an unconfigured client.
type FulfillmentClientStub struct {
	DeliverFn  func(context.Context, string) (*fulfillment.Result, error)
	ModerateFn func(context.Context, string, string) error

	DeliverCalls  []string
	ModerateCalls []string
}

func (s *FulfillmentClientStub) Deliver(ctx context.Context, orderID string) (*fulfillment.Result, error) {
	s.DeliverCalls = append(s.DeliverCalls, orderID)
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, orderID)
	}
	return nil, domainErrors.ErrNotConfigured
}

func (s *FulfillmentClientStub) Moderate(ctx context.Context, orderID, action string) error {
	s.ModerateCalls = append(s.ModerateCalls, action+":"+orderID)
	if s.ModerateFn != nil {
		return s.ModerateFn(ctx, orderID, action)
	}
	return domainErrors.ErrNotConfigured
}

// CapabilitySourceStub reports fixed schema capabilities.
type CapabilitySourceStub struct {
	Caps schemacap.Capabilities
}

func (s *CapabilitySourceStub) Capabilities(ctx context.Context) schemacap.Capabilities {
	return s.Caps
}
