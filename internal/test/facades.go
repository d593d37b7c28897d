package test

import (
	"context"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/delivery"
	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// CustomerFacadeStub simulates the customer-facing order surface.
type CustomerFacadeStub struct {
	CheckoutFn     func(context.Context, usecase.CheckoutInput) (*model.Order, error)
	OrdersFn       func(context.Context, int64) ([]model.Order, error)
	OrderFn        func(context.Context, string, int64) (*model.Order, error)
	SubmitProofFn  func(context.Context, string, string) (*model.PaymentProof, error)
	OrderProofsFn  func(context.Context, string) ([]model.PaymentProof, error)
	PostMessageFn  func(context.Context, string, *int64, string, bool) (*model.Message, error)
	MessagesFn     func(context.Context, string) ([]model.Message, error)
	MarkReadFn     func(context.Context, string, bool) error
	MarkReadCalled int
}

func (s *CustomerFacadeStub) Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, in)
	}
	return &model.Order{ID: "ord-1", FullName: in.FullName, Email: in.Email, Status: model.OrderStatusPending}, nil
}

func (s *CustomerFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return nil, nil
}

func (s *CustomerFacadeStub) Order(ctx context.Context, orderID string, userID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, userID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending}, nil
}

func (s *CustomerFacadeStub) SubmitProof(ctx context.Context, orderID, imageURL string) (*model.PaymentProof, error) {
	if s.SubmitProofFn != nil {
		return s.SubmitProofFn(ctx, orderID, imageURL)
	}
	return &model.PaymentProof{ID: 1, OrderID: orderID, ImageURL: imageURL, Status: model.ProofStatusPending}, nil
}

func (s *CustomerFacadeStub) OrderProofs(ctx context.Context, orderID string) ([]model.PaymentProof, error) {
	if s.OrderProofsFn != nil {
		return s.OrderProofsFn(ctx, orderID)
	}
	return nil, nil
}

func (s *CustomerFacadeStub) PostMessage(ctx context.Context, orderID string, userID *int64, content string, fromAdmin bool) (*model.Message, error) {
	if s.PostMessageFn != nil {
		return s.PostMessageFn(ctx, orderID, userID, content, fromAdmin)
	}
	return &model.Message{ID: 1, OrderID: orderID, UserID: userID, Content: content, IsAdmin: fromAdmin}, nil
}

func (s *CustomerFacadeStub) Messages(ctx context.Context, orderID string) ([]model.Message, error) {
	if s.MessagesFn != nil {
		return s.MessagesFn(ctx, orderID)
	}
	return nil, nil
}

func (s *CustomerFacadeStub) MarkMessagesRead(ctx context.Context, orderID string, fromAdmin bool) error {
	s.MarkReadCalled++
	if s.MarkReadFn != nil {
		return s.MarkReadFn(ctx, orderID, fromAdmin)
	}
	return nil
}

// AdminFacadeStub simulates the moderation console surface. The admin gate
// denies by default; tests opt in with RequireAdminFn.
type AdminFacadeStub struct {
	RequireAdminFn   func(context.Context, int64) error
	OrdersByStatusFn func(context.Context, model.OrderStatus) ([]model.Order, error)
	ApproveFn        func(context.Context, string) (*model.Order, error)
	RejectFn         func(context.Context, string) (*model.Order, error)
	ReviewProofFn    func(context.Context, int64, bool) (*model.PaymentProof, error)
	GrantFn          func(context.Context, int64, int64) (*model.AdminGrant, error)
	RevokeFn         func(context.Context, int64, int64) error
	AdminsFn         func(context.Context) ([]model.AdminGrant, error)
}

func (s *AdminFacadeStub) RequireAdmin(ctx context.Context, userID int64) error {
	if s.RequireAdminFn != nil {
		return s.RequireAdminFn(ctx, userID)
	}
	return domainErrors.ErrNotAdmin
}

func (s *AdminFacadeStub) OrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if s.OrdersByStatusFn != nil {
		return s.OrdersByStatusFn(ctx, status)
	}
	return nil, nil
}

func (s *AdminFacadeStub) ApproveOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusActive}, nil
}

func (s *AdminFacadeStub) RejectOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusRejected}, nil
}

func (s *AdminFacadeStub) ReviewProof(ctx context.Context, proofID int64, approved bool) (*model.PaymentProof, error) {
	if s.ReviewProofFn != nil {
		return s.ReviewProofFn(ctx, proofID, approved)
	}
	status := model.ProofStatusRejected
	if approved {
		status = model.ProofStatusApproved
	}
	return &model.PaymentProof{ID: proofID, Status: status}, nil
}

func (s *AdminFacadeStub) GrantAdmin(ctx context.Context, userID, grantedBy int64) (*model.AdminGrant, error) {
	if s.GrantFn != nil {
		return s.GrantFn(ctx, userID, grantedBy)
	}
	return &model.AdminGrant{ID: 1, UserID: userID, GrantedBy: grantedBy}, nil
}

func (s *AdminFacadeStub) RevokeAdmin(ctx context.Context, userID, revokedBy int64) error {
	if s.RevokeFn != nil {
		return s.RevokeFn(ctx, userID, revokedBy)
	}
	return nil
}

func (s *AdminFacadeStub) Admins(ctx context.Context) ([]model.AdminGrant, error) {
	if s.AdminsFn != nil {
		return s.AdminsFn(ctx)
	}
	return nil, nil
}

// FunctionsFacadeStub simulates the function endpoint surface.
type FunctionsFacadeStub struct {
	IsAdminFn         func(context.Context, int64) (bool, error)
	DeliverFn         func(context.Context, string) (*delivery.Result, error)
	RecoverFn         func(string) (model.Credentials, bool)
	InviteFn          func(context.Context, string) error
	SendDMFn          func(context.Context, string, string) error
	BindThreadFn      func(context.Context, string, string, string) (*discord.ThreadBinding, error)
	RelayWebhookFn    func(context.Context, string, string) error
	FixSchemaFn       func(context.Context) error
	FixSchemaRequests int
}

func (s *FunctionsFacadeStub) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if s.IsAdminFn != nil {
		return s.IsAdminFn(ctx, userID)
	}
	return false, nil
}

func (s *FunctionsFacadeStub) DeliverAccount(ctx context.Context, orderID string) (*delivery.Result, error) {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, orderID)
	}
	return &delivery.Result{
		OrderID:   orderID,
		AccountID: "ACC0001",
		Password:  "abcd1234",
		Method:    model.DeliveryMethodDirect,
		Persisted: true,
	}, nil
}

func (s *FunctionsFacadeStub) RecoverCredentials(orderID string) (model.Credentials, bool) {
	if s.RecoverFn != nil {
		return s.RecoverFn(orderID)
	}
	return model.Credentials{}, false
}

func (s *FunctionsFacadeStub) InviteToGuild(ctx context.Context, discordUserID string) error {
	if s.InviteFn != nil {
		return s.InviteFn(ctx, discordUserID)
	}
	return nil
}

func (s *FunctionsFacadeStub) SendDM(ctx context.Context, discordUserID, content string) error {
	if s.SendDMFn != nil {
		return s.SendDMFn(ctx, discordUserID, content)
	}
	return nil
}

func (s *FunctionsFacadeStub) BindOrderThread(ctx context.Context, orderID, customerName, paymentProofURL string) (*discord.ThreadBinding, error) {
	if s.BindThreadFn != nil {
		return s.BindThreadFn(ctx, orderID, customerName, paymentProofURL)
	}
	return &discord.ThreadBinding{ThreadID: "thread-1", WebhookURL: "https://hooks.example/1"}, nil
}

func (s *FunctionsFacadeStub) RelayWebhook(ctx context.Context, webhookURL, content string) error {
	if s.RelayWebhookFn != nil {
		return s.RelayWebhookFn(ctx, webhookURL, content)
	}
	return nil
}

func (s *FunctionsFacadeStub) FixOrdersSchema(ctx context.Context) error {
	s.FixSchemaRequests++
	if s.FixSchemaFn != nil {
		return s.FixSchemaFn(ctx)
	}
	return nil
}

// StorefrontFacadeStub aggregates facade stubs for HTTP layer tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	CustomerFacadeStub
	AdminFacadeStub
	FunctionsFacadeStub

	PingFn func(context.Context) error
}

func (s *StorefrontFacadeStub) Ping(ctx context.Context) error {
	if s.PingFn != nil {
		return s.PingFn(ctx)
	}
	return nil
}

// NotFoundOrder is a convenience override returning ErrNotFound.
func NotFoundOrder(context.Context, string, int64) (*model.Order, error) {
	return nil, domainErrors.ErrNotFound
}
