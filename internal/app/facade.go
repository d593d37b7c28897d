package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/admincheck"
	"github.com/playvault/storefront/internal/delivery"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/moderation"
	"github.com/playvault/storefront/internal/notify"
	"github.com/playvault/storefront/internal/storage/schemacap"
	"github.com/playvault/storefront/internal/usecase"
)

// SchemaFixer applies the optional delivery columns to the order store.
type SchemaFixer interface {
	EnsureDeliveryColumns(ctx context.Context) error
}

// HealthChecker reports order store connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates every operation the HTTP layer exposes.
type StorefrontFacade struct {
	auth       *usecase.AuthUseCase
	orders     *usecase.OrderUseCase
	proofs     *usecase.ProofUseCase
	messages   *usecase.MessageUseCase
	moderation *moderation.Service
	reconciler *delivery.Reconciler
	admins     *admincheck.Service
	discord    discord.Client
	orderRepo  repository.OrderRepository
	notifier   usecase.Notifier
	schema     SchemaFixer
	health     HealthChecker
	caps       *schemacap.Detector
}

// NewStorefrontFacade constructs the facade.
func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	proofs *usecase.ProofUseCase,
	messages *usecase.MessageUseCase,
	moderationSvc *moderation.Service,
	reconciler *delivery.Reconciler,
	admins *admincheck.Service,
	discordClient discord.Client,
	orderRepo repository.OrderRepository,
	notifier usecase.Notifier,
	schema SchemaFixer,
	health HealthChecker,
	caps *schemacap.Detector,
) *StorefrontFacade {
	return &StorefrontFacade{
		auth:       auth,
		orders:     orders,
		proofs:     proofs,
		messages:   messages,
		moderation: moderationSvc,
		reconciler: reconciler,
		admins:     admins,
		discord:    discordClient,
		orderRepo:  orderRepo,
		notifier:   notifier,
		schema:     schema,
		health:     health,
		caps:       caps,
	}
}

func (f *StorefrontFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StorefrontFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, in usecase.CheckoutInput) (*model.Order, error) {
	return f.orders.Checkout(ctx, in)
}

func (f *StorefrontFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *StorefrontFacade) Order(ctx context.Context, orderID string, userID int64) (*model.Order, error) {
	return f.orders.GetOwned(ctx, orderID, userID)
}

func (f *StorefrontFacade) OrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return f.orders.ListByStatus(ctx, status)
}

func (f *StorefrontFacade) SubmitProof(ctx context.Context, orderID, imageURL string) (*model.PaymentProof, error) {
	return f.proofs.Submit(ctx, orderID, imageURL)
}

func (f *StorefrontFacade) OrderProofs(ctx context.Context, orderID string) ([]model.PaymentProof, error) {
	return f.proofs.ListByOrder(ctx, orderID)
}

func (f *StorefrontFacade) ReviewProof(ctx context.Context, proofID int64, approved bool) (*model.PaymentProof, error) {
	return f.proofs.Review(ctx, proofID, approved)
}

func (f *StorefrontFacade) PostMessage(ctx context.Context, orderID string, userID *int64, content string, fromAdmin bool) (*model.Message, error) {
	return f.messages.Post(ctx, orderID, userID, content, fromAdmin)
}

func (f *StorefrontFacade) Messages(ctx context.Context, orderID string) ([]model.Message, error) {
	return f.messages.ListByOrder(ctx, orderID)
}

func (f *StorefrontFacade) MarkMessagesRead(ctx context.Context, orderID string, fromAdmin bool) error {
	return f.messages.MarkRead(ctx, orderID, fromAdmin)
}

func (f *StorefrontFacade) ApproveOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return f.moderation.Approve(ctx, orderID)
}

func (f *StorefrontFacade) RejectOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return f.moderation.Reject(ctx, orderID)
}

// DeliverAccount runs the delivery chain and, once credentials are persisted,
// announces the delivery to the customer through the fan-out.
func (f *StorefrontFacade) DeliverAccount(ctx context.Context, orderID string) (*delivery.Result, error) {
	result, err := f.reconciler.Deliver(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if result.Persisted {
		if order, fetchErr := f.orderRepo.GetByID(ctx, orderID); fetchErr == nil {
			f.notifier.Enqueue(notify.Job{Order: order, Event: notify.EventOrderDelivered})
		}
	}
	return result, nil
}

func (f *StorefrontFacade) RecoverCredentials(orderID string) (model.Credentials, bool) {
	return f.reconciler.Recover(orderID)
}

func (f *StorefrontFacade) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return f.admins.IsAdmin(ctx, userID)
}

func (f *StorefrontFacade) RequireAdmin(ctx context.Context, userID int64) error {
	return f.admins.Require(ctx, userID)
}

func (f *StorefrontFacade) Ping(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *StorefrontFacade) GrantAdmin(ctx context.Context, userID, grantedBy int64) (*model.AdminGrant, error) {
	return f.admins.Grant(ctx, userID, grantedBy)
}

func (f *StorefrontFacade) RevokeAdmin(ctx context.Context, userID, revokedBy int64) error {
	return f.admins.Revoke(ctx, userID, revokedBy)
}

func (f *StorefrontFacade) Admins(ctx context.Context) ([]model.AdminGrant, error) {
	return f.admins.List(ctx)
}

func (f *StorefrontFacade) InviteToGuild(ctx context.Context, discordUserID string) error {
	return f.discord.InviteToGuild(ctx, discordUserID)
}

func (f *StorefrontFacade) SendDM(ctx context.Context, discordUserID, content string) error {
	return f.discord.SendDM(ctx, discordUserID, content)
}

// BindOrderThread creates a Discord support thread for the order and stores
// the binding. When a payment proof link is supplied it is posted into the
// fresh thread right away.
func (f *StorefrontFacade) BindOrderThread(ctx context.Context, orderID, customerName, paymentProofURL string) (*discord.ThreadBinding, error) {
	if _, err := f.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	name := "order-" + orderID
	if customerName != "" {
		name = fmt.Sprintf("%s-%s", sanitizeThreadName(customerName), orderID)
	}
	binding, err := f.discord.CreateOrderThread(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := f.orderRepo.SetDiscordBinding(ctx, orderID, binding.ThreadID, binding.WebhookURL); err != nil {
		return nil, err
	}
	if paymentProofURL != "" {
		// Best-effort: the binding already exists either way.
		_ = f.discord.ExecuteWebhook(ctx, binding.WebhookURL, "Payment proof: "+paymentProofURL)
	}
	return binding, nil
}

func (f *StorefrontFacade) RelayWebhook(ctx context.Context, webhookURL, content string) error {
	return f.discord.ExecuteWebhook(ctx, webhookURL, content)
}

// sanitizeThreadName squeezes a display name into Discord's channel naming
// rules.
func sanitizeThreadName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "order"
	}
	if len(out) > 32 {
		out = out[:32]
	}
	return out
}

// FixOrdersSchema applies the optional delivery columns and re-probes the
// capability table so subsequent deliveries use the direct path.
func (f *StorefrontFacade) FixOrdersSchema(ctx context.Context) error {
	if err := f.schema.EnsureDeliveryColumns(ctx); err != nil {
		return err
	}
	f.caps.Refresh(ctx)
	return nil
}
