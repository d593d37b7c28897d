package repository

import (
	"context"

	"github.com/playvault/storefront/internal/domain/model"
)

// MessageRepository describes persistence operations with order chat threads.
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) (*model.Message, error)
	ListByOrder(ctx context.Context, orderID string) ([]model.Message, error)
	MarkRead(ctx context.Context, orderID string, fromAdmin bool) error
}
