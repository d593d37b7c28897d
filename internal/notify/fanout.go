package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
)

// Event names the lifecycle change being announced.
type Event string

const (
	EventOrderCreated   Event = "order_created"
	EventOrderApproved  Event = "order_approved"
	EventOrderRejected  Event = "order_rejected"
	EventOrderDelivered Event = "order_delivered"
	EventNewMessage     Event = "new_message"
)

// Job is one pending notification.
type Job struct {
	Order *model.Order
	Event Event
	// Text overrides the rendered announcement when set.
	Text string
}

// Fanout pushes one announcement to every configured sink. Sinks are
// independent: a Discord outage never suppresses the inbox message and vice
// versa. Failures are logged and swallowed.
type Fanout struct {
	messages      repository.MessageRepository
	discord       discord.Client
	ordersChannel string
	logger        *slog.Logger
}

// NewFanout constructs the fan-out over the given sinks. ordersChannel may be
// empty, in which case channel announcements are skipped for orders with no
// webhook binding.
func NewFanout(messages repository.MessageRepository, discordClient discord.Client, ordersChannel string, logger *slog.Logger) *Fanout {
	return &Fanout{
		messages:      messages,
		discord:       discordClient,
		ordersChannel: ordersChannel,
		logger:        logger,
	}
}

// Notify delivers the job to all sinks.
func (f *Fanout) Notify(ctx context.Context, job Job) {
	if job.Order == nil {
		return
	}
	content := job.Text
	if content == "" {
		content = renderAnnouncement(job)
	}

	f.notifyInbox(ctx, job.Order, content)
	f.notifyDiscord(ctx, job.Order, content)
}

func (f *Fanout) notifyInbox(ctx context.Context, order *model.Order, content string) {
	msg := &model.Message{
		OrderID: order.ID,
		Content: content,
		IsAdmin: true,
	}
	if _, err := f.messages.Create(ctx, msg); err != nil {
		f.logger.Error("inbox notification failed",
			slog.String("order", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (f *Fanout) notifyDiscord(ctx context.Context, order *model.Order, content string) {
	var err error
	switch {
	case order.WebhookURL != nil && *order.WebhookURL != "":
		err = f.discord.ExecuteWebhook(ctx, *order.WebhookURL, content)
	case f.ordersChannel != "":
		err = f.discord.SendChannelMessage(ctx, f.ordersChannel, content)
	default:
		return
	}
	if err == nil {
		return
	}
	if discord.IsNotConfigured(err) {
		f.logger.Debug("discord sink not configured, skipping announcement",
			slog.String("order", order.ID),
		)
		return
	}
	var rateLimited discord.RateLimitedError
	if errors.As(err, &rateLimited) {
		f.logger.Warn("discord rate limited, dropping notification",
			slog.String("order", order.ID),
			slog.Duration("retry_after", rateLimited.RetryAfter),
		)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	f.logger.Error("discord notification failed",
		slog.String("order", order.ID),
		slog.String("error", err.Error()),
	)
}

func renderAnnouncement(job Job) string {
	switch job.Event {
	case EventOrderCreated:
		return fmt.Sprintf("New order %s from %s is awaiting review.", job.Order.ID, job.Order.FullName)
	case EventOrderApproved:
		return fmt.Sprintf("Order %s has been approved. Your account is being prepared.", job.Order.ID)
	case EventOrderRejected:
		return fmt.Sprintf("Order %s has been rejected. Contact support for details.", job.Order.ID)
	case EventOrderDelivered:
		return fmt.Sprintf("Order %s has been delivered. Check your account details.", job.Order.ID)
	case EventNewMessage:
		return fmt.Sprintf("Order %s has a new message.", job.Order.ID)
	default:
		return fmt.Sprintf("Order %s was updated.", job.Order.ID)
	}
}
