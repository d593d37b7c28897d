package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/test"
	. "github.com/playvault/storefront/internal/usecase"
)

func newProofFixture() (*ProofUseCase, *test.ProofRepositoryStub) {
	orders := test.NewOrderRepositoryStub(&model.Order{ID: "ord-1", Status: model.OrderStatusPending})
	proofs := test.NewProofRepositoryStub()
	return NewProofUseCase(proofs, orders), proofs
}

func TestSubmitProof(t *testing.T) {
	uc, proofs := newProofFixture()

	proof, err := uc.Submit(context.Background(), "ord-1", "https://img.example/p.png")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if proof.Status != model.ProofStatusPending {
		t.Fatalf("expected pending proof, got %s", proof.Status)
	}
	if len(proofs.Proofs) != 1 {
		t.Fatal("proof was not persisted")
	}
}

func TestSubmitProofValidation(t *testing.T) {
	uc, _ := newProofFixture()

	for _, raw := range []string{"", "not-a-url", "ftp://img.example/p.png", "https://"} {
		if _, err := uc.Submit(context.Background(), "ord-1", raw); !errors.Is(err, domainErrors.ErrInvalidProofURL) {
			t.Fatalf("url %q: expected ErrInvalidProofURL, got %v", raw, err)
		}
	}
}

func TestSubmitProofUnknownOrder(t *testing.T) {
	uc, _ := newProofFixture()

	if _, err := uc.Submit(context.Background(), "missing", "https://img.example/p.png"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReviewProof(t *testing.T) {
	uc, proofs := newProofFixture()

	proof, err := uc.Submit(context.Background(), "ord-1", "https://img.example/p.png")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reviewed, err := uc.Review(context.Background(), proof.ID, true)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != model.ProofStatusApproved {
		t.Fatalf("expected approved, got %s", reviewed.Status)
	}
	if proofs.Proofs[proof.ID].Status != model.ProofStatusApproved {
		t.Fatal("verdict was not persisted")
	}

	// Repeating the verdict is a no-op.
	again, err := uc.Review(context.Background(), proof.ID, true)
	if err != nil {
		t.Fatalf("repeat review failed: %v", err)
	}
	if again.Status != model.ProofStatusApproved {
		t.Fatalf("expected approved, got %s", again.Status)
	}
}

func TestReviewUnknownProof(t *testing.T) {
	uc, _ := newProofFixture()

	if _, err := uc.Review(context.Background(), 42, false); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
