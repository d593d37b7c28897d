package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playvault/storefront/internal/adapter/discord"
	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	. "github.com/playvault/storefront/internal/notify"
	"github.com/playvault/storefront/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func orderWithWebhook(id string) *model.Order {
	webhook := "https://hooks.example/" + id
	return &model.Order{ID: id, FullName: "Jane Doe", Status: model.OrderStatusPending, WebhookURL: &webhook}
}

func TestFanoutWritesInboxAndWebhook(t *testing.T) {
	messages := &test.MessageRepositoryStub{}
	discordStub := &test.DiscordClientStub{}
	fanout := NewFanout(messages, discordStub, "chan-1", discardLogger())

	fanout.Notify(context.Background(), Job{Order: orderWithWebhook("ord-1"), Event: EventOrderApproved})

	if messages.Count("ord-1") != 1 {
		t.Fatalf("expected 1 inbox message, got %d", messages.Count("ord-1"))
	}
	if discordStub.WebhookCount() != 1 {
		t.Fatalf("expected 1 webhook post, got %d", discordStub.WebhookCount())
	}
	if discordStub.ChannelCount() != 0 {
		t.Fatal("channel message sent despite webhook binding")
	}
	if !strings.Contains(discordStub.WebhookPosts[0], "ord-1") {
		t.Fatalf("announcement does not mention the order: %q", discordStub.WebhookPosts[0])
	}
}

func TestFanoutFallsBackToOrdersChannel(t *testing.T) {
	messages := &test.MessageRepositoryStub{}
	discordStub := &test.DiscordClientStub{}
	fanout := NewFanout(messages, discordStub, "chan-1", discardLogger())

	order := &model.Order{ID: "ord-2", Status: model.OrderStatusPending}
	fanout.Notify(context.Background(), Job{Order: order, Event: EventOrderCreated})

	if discordStub.ChannelCount() != 1 {
		t.Fatalf("expected 1 channel message, got %d", discordStub.ChannelCount())
	}
}

func TestFanoutSkipsDiscordWithoutBindingOrChannel(t *testing.T) {
	messages := &test.MessageRepositoryStub{}
	discordStub := &test.DiscordClientStub{}
	fanout := NewFanout(messages, discordStub, "", discardLogger())

	order := &model.Order{ID: "ord-3", Status: model.OrderStatusPending}
	fanout.Notify(context.Background(), Job{Order: order, Event: EventOrderCreated})

	if messages.Count("ord-3") != 1 {
		t.Fatal("inbox message missing")
	}
	if discordStub.ChannelCount() != 0 || discordStub.WebhookCount() != 0 {
		t.Fatal("discord was contacted without a destination")
	}
}

func TestFanoutSinksAreIndependent(t *testing.T) {
	messages := &test.MessageRepositoryStub{Err: errors.New("inbox down")}
	discordStub := &test.DiscordClientStub{}
	fanout := NewFanout(messages, discordStub, "chan-1", discardLogger())

	fanout.Notify(context.Background(), Job{Order: orderWithWebhook("ord-4"), Event: EventOrderRejected})

	if discordStub.WebhookCount() != 1 {
		t.Fatal("inbox failure suppressed the discord post")
	}

	messages = &test.MessageRepositoryStub{}
	discordStub = &test.DiscordClientStub{Err: errors.New("discord down")}
	fanout = NewFanout(messages, discordStub, "chan-1", discardLogger())

	fanout.Notify(context.Background(), Job{Order: orderWithWebhook("ord-5"), Event: EventOrderRejected})

	if messages.Count("ord-5") != 1 {
		t.Fatal("discord failure suppressed the inbox message")
	}
}

func TestFanoutSwallowsRateLimit(t *testing.T) {
	messages := &test.MessageRepositoryStub{}
	discordStub := &test.DiscordClientStub{Err: discord.RateLimitedError{RetryAfter: 3 * time.Second}}
	fanout := NewFanout(messages, discordStub, "chan-1", discardLogger())

	// Must not panic, block, or fail the inbox write.
	fanout.Notify(context.Background(), Job{Order: orderWithWebhook("ord-6"), Event: EventOrderApproved})

	if messages.Count("ord-6") != 1 {
		t.Fatal("rate limit suppressed the inbox message")
	}
}

func TestFanoutQuietWhenDiscordNotConfigured(t *testing.T) {
	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	messages := &test.MessageRepositoryStub{}
	discordStub := &test.DiscordClientStub{Err: domainErrors.ErrNotConfigured}
	fanout := NewFanout(messages, discordStub, "chan-1", logger)

	fanout.Notify(context.Background(), Job{Order: orderWithWebhook("ord-8"), Event: EventOrderDelivered})

	if messages.Count("ord-8") != 1 {
		t.Fatal("missing integration suppressed the inbox message")
	}
	if strings.Contains(logs.String(), "level=ERROR") {
		t.Fatalf("missing integration logged as an error: %s", logs.String())
	}
}

func TestFanoutUsesTextOverride(t *testing.T) {
	messages := &test.MessageRepositoryStub{}
	discordStub := &test.DiscordClientStub{}
	fanout := NewFanout(messages, discordStub, "chan-1", discardLogger())

	fanout.Notify(context.Background(), Job{Order: orderWithWebhook("ord-7"), Event: EventNewMessage, Text: "custom text"})

	if discordStub.WebhookPosts[0] != "custom text" {
		t.Fatalf("text override ignored: %q", discordStub.WebhookPosts[0])
	}
}

type recordingSink struct {
	mu   sync.Mutex
	jobs []Job
	done chan struct{}
}

func (s *recordingSink) Notify(ctx context.Context, job Job) {
	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()
	if s.done != nil {
		select {
		case s.done <- struct{}{}:
		default:
		}
	}
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func TestDispatcherDeliversEnqueuedJobs(t *testing.T) {
	sink := &recordingSink{done: make(chan struct{}, 8)}
	dispatcher := NewDispatcher(sink, 2, 8, discardLogger())
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	order := &model.Order{ID: "ord-8"}
	dispatcher.Enqueue(Job{Order: order, Event: EventOrderApproved})

	select {
	case <-sink.done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not delivered")
	}
	if sink.count() != 1 {
		t.Fatalf("expected 1 delivered job, got %d", sink.count())
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sink := &recordingSink{}
	dispatcher := NewDispatcher(sink, 1, 1, discardLogger())
	// Not started: nothing drains the queue.

	dispatcher.Enqueue(Job{Order: &model.Order{ID: "a"}})
	dispatcher.Enqueue(Job{Order: &model.Order{ID: "b"}}) // dropped, must not block

	dispatcher.Start(context.Background())
	dispatcher.Stop()

	if sink.count() != 1 {
		t.Fatalf("expected exactly the queued job, got %d", sink.count())
	}
}

func TestDispatcherStopDrainsQueue(t *testing.T) {
	sink := &recordingSink{}
	dispatcher := NewDispatcher(sink, 1, 4, discardLogger())

	dispatcher.Enqueue(Job{Order: &model.Order{ID: "a"}})
	dispatcher.Enqueue(Job{Order: &model.Order{ID: "b"}})

	dispatcher.Start(context.Background())
	dispatcher.Stop()

	if sink.count() != 2 {
		t.Fatalf("expected queued jobs drained on stop, got %d", sink.count())
	}
}
