package handlers

import (
	"context"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/delivery"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// CustomerFacade covers the storefront operations available to customers.
type CustomerFacade interface {
	Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	Order(ctx context.Context, orderID string, userID int64) (*model.Order, error)
	SubmitProof(ctx context.Context, orderID, imageURL string) (*model.PaymentProof, error)
	OrderProofs(ctx context.Context, orderID string) ([]model.PaymentProof, error)
	PostMessage(ctx context.Context, orderID string, userID *int64, content string, fromAdmin bool) (*model.Message, error)
	Messages(ctx context.Context, orderID string) ([]model.Message, error)
	MarkMessagesRead(ctx context.Context, orderID string, fromAdmin bool) error
}

// AdminFacade covers the moderation console operations.
type AdminFacade interface {
	RequireAdmin(ctx context.Context, userID int64) error
	OrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	ApproveOrder(ctx context.Context, orderID string) (*model.Order, error)
	RejectOrder(ctx context.Context, orderID string) (*model.Order, error)
	ReviewProof(ctx context.Context, proofID int64, approved bool) (*model.PaymentProof, error)
	GrantAdmin(ctx context.Context, userID, grantedBy int64) (*model.AdminGrant, error)
	RevokeAdmin(ctx context.Context, userID, revokedBy int64) error
	Admins(ctx context.Context) ([]model.AdminGrant, error)
}

// FunctionsFacade covers the POST JSON function endpoints.
type FunctionsFacade interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	DeliverAccount(ctx context.Context, orderID string) (*delivery.Result, error)
	RecoverCredentials(orderID string) (model.Credentials, bool)
	InviteToGuild(ctx context.Context, discordUserID string) error
	SendDM(ctx context.Context, discordUserID, content string) error
	BindOrderThread(ctx context.Context, orderID, customerName, paymentProofURL string) (*discord.ThreadBinding, error)
	RelayWebhook(ctx context.Context, webhookURL, content string) error
	FixOrdersSchema(ctx context.Context) error
}

// HealthFacade reports backing store connectivity.
type HealthFacade interface {
	Ping(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CustomerFacade
	AdminFacade
	FunctionsFacade
	HealthFacade
}
