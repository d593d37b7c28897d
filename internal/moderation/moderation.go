package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playvault/storefront/internal/adapter/fulfillment"
	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/notify"
)

// Action is a review verdict on a pending order.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Notifier receives an announcement after a state actually changed.
type Notifier interface {
	Enqueue(job notify.Job)
}

// transitions enumerates every legal status move. Anything absent here is
// rejected with ErrInvalidTransition; a repeat of the current status is a
// no-op handled before this table is consulted.
var transitions = map[model.OrderStatus]map[model.OrderStatus]struct{}{
	model.OrderStatusPending: {
		model.OrderStatusActive:   {},
		model.OrderStatusRejected: {},
	},
}

// Service applies review verdicts to orders.
type Service struct {
	orders   repository.OrderRepository
	remote   fulfillment.Client
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs the moderation service. notifier may be nil in which
// case state changes are applied silently.
func NewService(orders repository.OrderRepository, remote fulfillment.Client, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		orders:   orders,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
	}
}

// Approve moves a pending order to active.
func (s *Service) Approve(ctx context.Context, orderID string) (*model.Order, error) {
	return s.apply(ctx, orderID, model.OrderStatusActive, ActionApprove, notify.EventOrderApproved)
}

// Reject moves a pending order to rejected.
func (s *Service) Reject(ctx context.Context, orderID string) (*model.Order, error) {
	return s.apply(ctx, orderID, model.OrderStatusRejected, ActionReject, notify.EventOrderRejected)
}

func (s *Service) apply(ctx context.Context, orderID string, target model.OrderStatus, action Action, event notify.Event) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	// Repeating a verdict is harmless and must not re-announce.
	if order.Status == target {
		return order, nil
	}

	if _, ok := transitions[order.Status][target]; !ok {
		return nil, domainErrors.ErrInvalidTransition
	}

	if err := s.persist(ctx, orderID, target, action); err != nil {
		return nil, err
	}

	order.Status = target
	if s.notifier != nil {
		s.notifier.Enqueue(notify.Job{Order: order, Event: event})
	}
	return order, nil
}

// persist writes the new status, falling back to the remote moderation
// endpoint when the primary write fails.
func (s *Service) persist(ctx context.Context, orderID string, target model.OrderStatus, action Action) error {
	primaryErr := s.orders.UpdateStatus(ctx, orderID, target)
	if primaryErr == nil {
		return nil
	}
	if errors.Is(primaryErr, domainErrors.ErrNotFound) {
		return primaryErr
	}

	s.logger.Warn("status write failed, trying remote moderation",
		slog.String("order", orderID),
		slog.String("error", primaryErr.Error()),
	)
	remoteErr := s.remote.Moderate(ctx, orderID, string(action))
	if remoteErr == nil {
		return nil
	}
	if !errors.Is(remoteErr, domainErrors.ErrNotConfigured) {
		s.logger.Error("remote moderation failed",
			slog.String("order", orderID),
			slog.String("error", remoteErr.Error()),
		)
	}
	return fmt.Errorf("update order status: %w", primaryErr)
}
