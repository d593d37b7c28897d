package usecase

import (
	"context"
	"net/url"
	"strings"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
)

// ProofUseCase handles payment proof submission and review.
type ProofUseCase struct {
	proofs repository.ProofRepository
	orders repository.OrderRepository
}

// NewProofUseCase constructs ProofUseCase.
func NewProofUseCase(proofs repository.ProofRepository, orders repository.OrderRepository) *ProofUseCase {
	return &ProofUseCase{proofs: proofs, orders: orders}
}

// Submit attaches a payment proof image to an existing order.
func (u *ProofUseCase) Submit(ctx context.Context, orderID, imageURL string) (*model.PaymentProof, error) {
	imageURL = strings.TrimSpace(imageURL)
	if !validImageURL(imageURL) {
		return nil, domainErrors.ErrInvalidProofURL
	}
	if _, err := u.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return u.proofs.Create(ctx, orderID, imageURL)
}

// ListByOrder returns proofs attached to the order.
func (u *ProofUseCase) ListByOrder(ctx context.Context, orderID string) ([]model.PaymentProof, error) {
	return u.proofs.ListByOrder(ctx, orderID)
}

// Review records the admin verdict on one proof.
func (u *ProofUseCase) Review(ctx context.Context, proofID int64, approved bool) (*model.PaymentProof, error) {
	proof, err := u.proofs.GetByID(ctx, proofID)
	if err != nil {
		return nil, err
	}
	status := model.ProofStatusRejected
	if approved {
		status = model.ProofStatusApproved
	}
	if proof.Status == status {
		return proof, nil
	}
	if err := u.proofs.UpdateStatus(ctx, proofID, status); err != nil {
		return nil, err
	}
	proof.Status = status
	return proof, nil
}

func validImageURL(raw string) bool {
	if raw == "" || len(raw) > 2048 {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
