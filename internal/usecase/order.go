package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/playvault/storefront/internal/adapter/discord"
	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/notify"
)

// Notifier enqueues an announcement for asynchronous fan-out.
type Notifier interface {
	Enqueue(job notify.Job)
}

// CheckoutInput is the storefront checkout form. UserID is nil for guest
// checkouts.
type CheckoutInput struct {
	UserID   *int64
	FullName string
	Email    string
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	discord  discord.Client
	notifier Notifier
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, discordClient discord.Client, notifier Notifier, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, discord: discordClient, notifier: notifier, logger: logger}
}

// Checkout creates a pending order and binds a Discord support thread to it.
// The Discord binding is best-effort: the order exists whether or not the
// chat side worked.
func (u *OrderUseCase) Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error) {
	if !ValidateFullName(in.FullName) {
		return nil, domainErrors.ErrInvalidFullName
	}
	if !ValidateEmail(in.Email) {
		return nil, domainErrors.ErrInvalidEmail
	}

	order := &model.Order{
		ID:       uuid.NewString(),
		UserID:   in.UserID,
		FullName: strings.TrimSpace(in.FullName),
		Email:    in.Email,
		Status:   model.OrderStatusPending,
	}
	order, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	u.bindThread(ctx, order)

	if u.notifier != nil {
		u.notifier.Enqueue(notify.Job{Order: order, Event: notify.EventOrderCreated})
	}
	return order, nil
}

func (u *OrderUseCase) bindThread(ctx context.Context, order *model.Order) {
	binding, err := u.discord.CreateOrderThread(ctx, "order-"+order.ID)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotConfigured) {
			u.logger.Warn("discord thread creation failed",
				slog.String("order", order.ID),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	if err := u.orders.SetDiscordBinding(ctx, order.ID, binding.ThreadID, binding.WebhookURL); err != nil {
		u.logger.Warn("discord binding write failed",
			slog.String("order", order.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	order.ThreadID = &binding.ThreadID
	order.WebhookURL = &binding.WebhookURL
}

// GetByID fetches one order.
func (u *OrderUseCase) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

// GetOwned fetches one order and checks it belongs to the user.
func (u *OrderUseCase) GetOwned(ctx context.Context, orderID string, userID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListByUser returns the user's orders.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// ListByStatus returns all orders in the given status, for the admin queue.
func (u *OrderUseCase) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return u.orders.ListByStatus(ctx, status)
}
