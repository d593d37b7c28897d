package repository

import (
	"context"

	"github.com/playvault/storefront/internal/domain/model"
)

// ProofRepository describes persistence operations with payment proofs.
type ProofRepository interface {
	Create(ctx context.Context, orderID, imageURL string) (*model.PaymentProof, error)
	GetByID(ctx context.Context, id int64) (*model.PaymentProof, error)
	ListByOrder(ctx context.Context, orderID string) ([]model.PaymentProof, error)
	UpdateStatus(ctx context.Context, id int64, status model.ProofStatus) error
}
