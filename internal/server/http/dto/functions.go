package dto

import (
	"time"

	"github.com/playvault/storefront/internal/domain/model"
)

// AdminCheckRequest asks whether a user holds admin rights.
type AdminCheckRequest struct {
	UserID int64 `json:"userId"`
}

// AdminCheckResponse is the verdict.
type AdminCheckResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// DeliverAccountRequest triggers the delivery chain for one order.
type DeliverAccountRequest struct {
	OrderID string `json:"orderId"`
}

// DeliverAccountResponse reports the generated credentials and which
// strategy persisted them.
type DeliverAccountResponse struct {
	Success   bool   `json:"success"`
	AccountID string `json:"accountId"`
	Password  string `json:"password"`
	Method    string `json:"method"`
	Persisted bool   `json:"persisted"`
}

// UserManagerRequest drives the Discord membership helper.
type UserManagerRequest struct {
	Action    string `json:"action"`
	DiscordID string `json:"discordId"`
	Message   string `json:"message"`
}

// CreateChannelRequest binds a Discord support thread to an order.
type CreateChannelRequest struct {
	OrderID         string `json:"orderId"`
	CustomerName    string `json:"customerName"`
	PaymentProofURL string `json:"paymentProofUrl"`
	UserID          int64  `json:"userId"`
}

// CreateChannelResponse reports the created binding. ChannelID mirrors
// ThreadID for clients that still expect the older field name.
type CreateChannelResponse struct {
	ThreadID   string `json:"threadId"`
	ChannelID  string `json:"channelId"`
	WebhookURL string `json:"webhookUrl"`
}

// WebhookRequest relays one message through a Discord webhook.
type WebhookRequest struct {
	WebhookURL string `json:"webhookUrl"`
	Message    string `json:"message"`
}

// GrantRequest grants or revokes an admin.
type GrantRequest struct {
	UserID int64 `json:"userId"`
}

// GrantResponse is the wire form of an admin grant.
type GrantResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	GrantedAt time.Time `json:"grantedAt"`
	GrantedBy int64     `json:"grantedBy"`
}

// NewGrantResponse maps a domain grant to its wire form.
func NewGrantResponse(grant *model.AdminGrant) GrantResponse {
	return GrantResponse{
		ID:        grant.ID,
		UserID:    grant.UserID,
		GrantedAt: grant.GrantedAt,
		GrantedBy: grant.GrantedBy,
	}
}

// CredentialsResponse returns vault-recovered credentials.
type CredentialsResponse struct {
	AccountID string `json:"accountId"`
	Password  string `json:"password"`
}
