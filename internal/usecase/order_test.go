package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/notify"
	"github.com/playvault/storefront/internal/test"
	. "github.com/playvault/storefront/internal/usecase"
)

type notifierStub struct {
	jobs []notify.Job
}

func (n *notifierStub) Enqueue(job notify.Job) {
	n.jobs = append(n.jobs, job)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newOrderFixture() (*OrderUseCase, *test.OrderRepositoryStub, *test.DiscordClientStub, *notifierStub) {
	orders := test.NewOrderRepositoryStub()
	discordStub := &test.DiscordClientStub{}
	notifier := &notifierStub{}
	return NewOrderUseCase(orders, discordStub, notifier, discardLogger()), orders, discordStub, notifier
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	uc, orders, discordStub, notifier := newOrderFixture()

	order, err := uc.Checkout(context.Background(), CheckoutInput{FullName: " Jane Doe ", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.ID == "" {
		t.Fatal("expected generated order id")
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if order.FullName != "Jane Doe" {
		t.Fatalf("expected trimmed name, got %q", order.FullName)
	}
	if _, ok := orders.Orders[order.ID]; !ok {
		t.Fatal("order was not persisted")
	}
	if len(discordStub.ThreadsCreated) != 1 {
		t.Fatal("discord thread was not created")
	}
	if order.ThreadID == nil || order.WebhookURL == nil {
		t.Fatal("discord binding missing on order")
	}
	if len(notifier.jobs) != 1 || notifier.jobs[0].Event != notify.EventOrderCreated {
		t.Fatalf("expected creation announcement, got %+v", notifier.jobs)
	}
}

func TestCheckoutGeneratesUniqueIDs(t *testing.T) {
	uc, _, _, _ := newOrderFixture()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		order, err := uc.Checkout(context.Background(), CheckoutInput{FullName: "Jane", Email: "jane@example.com"})
		if err != nil {
			t.Fatalf("checkout failed: %v", err)
		}
		if seen[order.ID] {
			t.Fatalf("duplicate order id %s", order.ID)
		}
		seen[order.ID] = true
	}
}

func TestCheckoutValidation(t *testing.T) {
	uc, orders, _, _ := newOrderFixture()

	if _, err := uc.Checkout(context.Background(), CheckoutInput{FullName: "", Email: "jane@example.com"}); !errors.Is(err, domainErrors.ErrInvalidFullName) {
		t.Fatalf("expected ErrInvalidFullName, got %v", err)
	}
	if _, err := uc.Checkout(context.Background(), CheckoutInput{FullName: "Jane", Email: "not-an-email"}); !errors.Is(err, domainErrors.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if len(orders.Orders) != 0 {
		t.Fatal("invalid checkout persisted an order")
	}
}

func TestCheckoutSurvivesDiscordOutage(t *testing.T) {
	orders := test.NewOrderRepositoryStub()
	discordStub := &test.DiscordClientStub{Err: errors.New("discord down")}
	notifier := &notifierStub{}
	uc := NewOrderUseCase(orders, discordStub, notifier, discardLogger())

	order, err := uc.Checkout(context.Background(), CheckoutInput{FullName: "Jane", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("checkout must succeed without discord: %v", err)
	}
	if order.ThreadID != nil {
		t.Fatal("binding set despite discord failure")
	}
	if len(notifier.jobs) != 1 {
		t.Fatal("creation announcement missing")
	}
}

func TestCheckoutSkipsUnconfiguredDiscord(t *testing.T) {
	orders := test.NewOrderRepositoryStub()
	discordStub := &test.DiscordClientStub{Err: domainErrors.ErrNotConfigured}
	uc := NewOrderUseCase(orders, discordStub, &notifierStub{}, discardLogger())

	if _, err := uc.Checkout(context.Background(), CheckoutInput{FullName: "Jane", Email: "jane@example.com"}); err != nil {
		t.Fatalf("checkout must succeed without discord configuration: %v", err)
	}
}

func TestGetOwned(t *testing.T) {
	userID := int64(5)
	otherID := int64(6)
	order := &model.Order{ID: "ord-1", UserID: &userID, Status: model.OrderStatusPending}
	orders := test.NewOrderRepositoryStub(order)
	uc := NewOrderUseCase(orders, &test.DiscordClientStub{}, nil, discardLogger())

	if _, err := uc.GetOwned(context.Background(), "ord-1", userID); err != nil {
		t.Fatalf("owner must see the order: %v", err)
	}
	if _, err := uc.GetOwned(context.Background(), "ord-1", otherID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("foreign order must read as missing, got %v", err)
	}
}

func TestListByStatus(t *testing.T) {
	pending := &model.Order{ID: "a", Status: model.OrderStatusPending}
	active := &model.Order{ID: "b", Status: model.OrderStatusActive}
	orders := test.NewOrderRepositoryStub(pending, active)
	uc := NewOrderUseCase(orders, &test.DiscordClientStub{}, nil, discardLogger())

	got, err := uc.ListByStatus(context.Background(), model.OrderStatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
