package model

import "time"

// ProofStatus describes the review state of a payment proof.
type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "pending"
	ProofStatusApproved ProofStatus = "approved"
	ProofStatusRejected ProofStatus = "rejected"
)

// PaymentProof is an uploaded image attesting payment for an order.
type PaymentProof struct {
	ID        int64
	OrderID   string
	ImageURL  string
	Status    ProofStatus
	CreatedAt time.Time
}
