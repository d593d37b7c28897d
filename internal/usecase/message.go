package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/notify"
)

const maxMessageLength = 4000

// MessageUseCase handles the per-order chat thread.
type MessageUseCase struct {
	messages repository.MessageRepository
	orders   repository.OrderRepository
	notifier Notifier
}

// NewMessageUseCase constructs MessageUseCase.
func NewMessageUseCase(messages repository.MessageRepository, orders repository.OrderRepository, notifier Notifier) *MessageUseCase {
	return &MessageUseCase{messages: messages, orders: orders, notifier: notifier}
}

// Post appends a message to the order's thread. Admin messages notify the
// customer-facing sinks; customer messages only land in the thread.
func (u *MessageUseCase) Post(ctx context.Context, orderID string, userID *int64, content string, fromAdmin bool) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > maxMessageLength {
		return nil, domainErrors.ErrInvalidMessage
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		OrderID: orderID,
		UserID:  userID,
		Content: content,
		IsAdmin: fromAdmin,
	}
	msg, err = u.messages.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	if fromAdmin && u.notifier != nil {
		u.notifier.Enqueue(notify.Job{Order: order, Event: notify.EventNewMessage})
	}
	return msg, nil
}

// ListByOrder returns the order's thread in insertion order.
func (u *MessageUseCase) ListByOrder(ctx context.Context, orderID string) ([]model.Message, error) {
	return u.messages.ListByOrder(ctx, orderID)
}

// MarkRead marks the counterparty's messages as read.
func (u *MessageUseCase) MarkRead(ctx context.Context, orderID string, fromAdmin bool) error {
	return u.messages.MarkRead(ctx, orderID, fromAdmin)
}
