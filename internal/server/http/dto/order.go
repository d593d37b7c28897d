package dto

import (
	"time"

	"github.com/playvault/storefront/internal/domain/model"
)

// CheckoutRequest describes the storefront checkout payload.
type CheckoutRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// OrderResponse is the customer-facing order view. Credentials appear only
// once the order is delivered.
type OrderResponse struct {
	ID          string     `json:"id"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	AccountID   *string    `json:"accountId,omitempty"`
	Password    *string    `json:"password,omitempty"`
	FileURL     *string    `json:"fileUrl,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewOrderResponse maps a domain order to its wire form.
func NewOrderResponse(order *model.Order) OrderResponse {
	return OrderResponse{
		ID:          order.ID,
		FullName:    order.FullName,
		Email:       order.Email,
		Status:      string(order.Status),
		AccountID:   order.AccountID,
		Password:    order.AccountPassword,
		FileURL:     order.AccountFileURL,
		DeliveredAt: order.DeliveryDate,
		CreatedAt:   order.CreatedAt,
	}
}

// NewOrderResponses maps a slice of domain orders.
func NewOrderResponses(orders []model.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, NewOrderResponse(&orders[i]))
	}
	return result
}

// ProofRequest attaches a payment proof image to an order.
type ProofRequest struct {
	ImageURL string `json:"imageUrl"`
}

// ProofResponse is the wire form of a payment proof.
type ProofResponse struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"orderId"`
	ImageURL  string    `json:"imageUrl"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewProofResponse maps a domain proof to its wire form.
func NewProofResponse(proof *model.PaymentProof) ProofResponse {
	return ProofResponse{
		ID:        proof.ID,
		OrderID:   proof.OrderID,
		ImageURL:  proof.ImageURL,
		Status:    string(proof.Status),
		CreatedAt: proof.CreatedAt,
	}
}

// ProofReviewRequest records an admin verdict on a proof.
type ProofReviewRequest struct {
	Approved bool `json:"approved"`
}

// ModerationRequest carries the explicit confirmation required before an
// order verdict mutates state.
type ModerationRequest struct {
	Confirmed bool `json:"confirmed"`
}

// MessageRequest posts one chat message to an order thread.
type MessageRequest struct {
	Content string `json:"content"`
}

// MessageResponse is the wire form of a chat message.
type MessageResponse struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"orderId"`
	Content   string    `json:"content"`
	IsAdmin   bool      `json:"isAdmin"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessageResponse maps a domain message to its wire form.
func NewMessageResponse(msg *model.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		OrderID:   msg.OrderID,
		Content:   msg.Content,
		IsAdmin:   msg.IsAdmin,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
	}
}
