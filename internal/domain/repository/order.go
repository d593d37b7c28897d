package repository

import (
	"context"
	"time"

	"github.com/playvault/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// The credential-bearing methods (SetCredentials, GetCredentials,
// GetMetadata, SetMetadata) touch optional columns that are not guaranteed to
// exist in every deployment; callers gate them behind the schema capability
// table.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	SetDiscordBinding(ctx context.Context, id, threadID, webhookURL string) error

	SetCredentials(ctx context.Context, id string, creds model.Credentials, deliveredAt time.Time) error
	GetCredentials(ctx context.Context, id string) (*model.Credentials, error)
	GetMetadata(ctx context.Context, id string) (*string, error)
	SetMetadata(ctx context.Context, id string, metadata string, status model.OrderStatus) error
}
