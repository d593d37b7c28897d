package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/notify"
	"github.com/playvault/storefront/internal/test"
	. "github.com/playvault/storefront/internal/usecase"
)

func newMessageFixture() (*MessageUseCase, *test.MessageRepositoryStub, *notifierStub) {
	orders := test.NewOrderRepositoryStub(&model.Order{ID: "ord-1", Status: model.OrderStatusActive})
	messages := &test.MessageRepositoryStub{}
	notifier := &notifierStub{}
	return NewMessageUseCase(messages, orders, notifier), messages, notifier
}

func TestPostCustomerMessage(t *testing.T) {
	uc, messages, notifier := newMessageFixture()

	userID := int64(5)
	msg, err := uc.Post(context.Background(), "ord-1", &userID, "  is it ready?  ", false)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if msg.Content != "is it ready?" {
		t.Fatalf("expected trimmed content, got %q", msg.Content)
	}
	if msg.IsAdmin {
		t.Fatal("customer message flagged as admin")
	}
	if messages.Count("ord-1") != 1 {
		t.Fatal("message was not persisted")
	}
	if len(notifier.jobs) != 0 {
		t.Fatal("customer message triggered a notification")
	}
}

func TestPostAdminMessageNotifies(t *testing.T) {
	uc, _, notifier := newMessageFixture()

	if _, err := uc.Post(context.Background(), "ord-1", nil, "account ready", true); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if len(notifier.jobs) != 1 || notifier.jobs[0].Event != notify.EventNewMessage {
		t.Fatalf("expected new-message announcement, got %+v", notifier.jobs)
	}
}

func TestPostMessageValidation(t *testing.T) {
	uc, _, _ := newMessageFixture()

	for _, content := range []string{"", "   ", strings.Repeat("x", MaxMessageLength+1)} {
		if _, err := uc.Post(context.Background(), "ord-1", nil, content, false); !errors.Is(err, domainErrors.ErrInvalidMessage) {
			t.Fatalf("content %q: expected ErrInvalidMessage, got %v", content[:min(len(content), 10)], err)
		}
	}
}

func TestPostMessageUnknownOrder(t *testing.T) {
	uc, _, _ := newMessageFixture()

	if _, err := uc.Post(context.Background(), "missing", nil, "hello", false); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	uc, _, _ := newMessageFixture()

	if _, err := uc.Post(context.Background(), "ord-1", nil, "ready", true); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if err := uc.MarkRead(context.Background(), "ord-1", true); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	list, err := uc.ListByOrder(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || !list[0].IsRead {
		t.Fatalf("expected read message, got %+v", list)
	}
}
