package model

import "time"

// OrderStatus describes the moderation/delivery lifecycle of a purchase.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusActive   OrderStatus = "active"
	OrderStatusRejected OrderStatus = "rejected"
	// OrderStatusDelivered is a derived status: some deployments collapse it
	// into "active" with credential fields populated. Accepted on read.
	OrderStatusDelivered OrderStatus = "delivered"
)

// Order describes one purchase of a pre-made game account.
type Order struct {
	ID       string
	UserID   *int64
	FullName string
	Email    string
	Status   OrderStatus

	// Discord support-channel binding, empty until a channel is created.
	ThreadID   *string
	WebhookURL *string

	// Optional delivery fields. Their backing columns are not guaranteed to
	// exist in every deployment; populated only when the schema allows.
	AccountID       *string
	AccountPassword *string
	AccountFileURL  *string
	DeliveryDate    *time.Time
	Metadata        *string

	CreatedAt time.Time
}

// Deliverable reports whether the order left the pending state and may
// receive account credentials.
func (o *Order) Deliverable() bool {
	return o.Status == OrderStatusActive || o.Status == OrderStatusDelivered
}
