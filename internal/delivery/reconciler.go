package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playvault/storefront/internal/adapter/fulfillment"
	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/storage/schemacap"
)

// CredentialSource produces fresh account credentials.
type CredentialSource interface {
	Generate() (model.Credentials, error)
}

// CapabilitySource reports which optional order columns the schema has.
type CapabilitySource interface {
	Capabilities(ctx context.Context) schemacap.Capabilities
}

// Result describes the outcome of one delivery attempt. The credentials are
// always populated on success, even when no persistence strategy worked;
// Method tags the strategy that terminated the chain and Persisted reports
// whether the credentials made it into the order store.
type Result struct {
	OrderID   string
	AccountID string
	Password  string
	Method    model.DeliveryMethod
	Persisted bool
}

// Reconciler drives the delivery fallback chain. Strategies run strictly
// sequentially; the first one to fully succeed terminates the chain, and no
// per-strategy error escapes. The contract is that the operator must never
// lose generated credentials, whatever the order store does.
type Reconciler struct {
	orders repository.OrderRepository
	caps   CapabilitySource
	source CredentialSource
	remote fulfillment.Client
	vault  Vault
	logger *slog.Logger
	clock  func() time.Time
}

// NewReconciler constructs the reconciler.
func NewReconciler(
	orders repository.OrderRepository,
	caps CapabilitySource,
	source CredentialSource,
	remote fulfillment.Client,
	vault Vault,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		orders: orders,
		caps:   caps,
		source: source,
		remote: remote,
		vault:  vault,
		logger: logger,
		clock:  time.Now,
	}
}

// Deliver ensures credentials exist for the order, trying each persistence
// strategy in priority order. The only hard failures are credential
// generation itself and the guards: delivering a pending/rejected order
// (ErrInvalidTransition) or re-delivering an already-credentialed one
// (ErrAlreadyDelivered).
func (r *Reconciler) Deliver(ctx context.Context, orderID string) (*Result, error) {
	if remote := r.tryRemote(ctx, orderID); remote != nil {
		return remote, nil
	}

	creds, err := r.source.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate credentials: %w", err)
	}

	order, err := r.orders.GetByID(ctx, orderID)
	if err != nil {
		// Degraded success: the operator still gets the credentials and can
		// hand them over manually.
		r.logger.Error("order fetch failed, returning unpersisted credentials",
			slog.String("order", orderID),
			slog.String("error", err.Error()),
		)
		r.vault.Put(orderID, creds)
		return r.unpersisted(orderID, creds), nil
	}

	if !order.Deliverable() {
		return nil, domainErrors.ErrInvalidTransition
	}

	caps := r.caps.Capabilities(ctx)

	if err := r.guardRedelivery(ctx, order, caps); err != nil {
		return nil, err
	}

	if caps.AccountColumns {
		err := r.orders.SetCredentials(ctx, orderID, creds, r.clock())
		if err == nil {
			return r.persisted(orderID, creds, model.DeliveryMethodDirect), nil
		}
		r.logger.Warn("direct credential write failed",
			slog.String("order", orderID),
			slog.String("error", err.Error()),
		)
	}

	if caps.Metadata {
		err := r.tryMetadata(ctx, orderID, creds)
		if err == nil {
			return r.persisted(orderID, creds, model.DeliveryMethodMetadata), nil
		}
		r.logger.Warn("metadata credential write failed",
			slog.String("order", orderID),
			slog.String("error", err.Error()),
		)
	}

	r.vault.Put(orderID, creds)
	err = r.orders.UpdateStatus(ctx, orderID, model.OrderStatusActive)
	if err == nil {
		result := r.unpersisted(orderID, creds)
		result.Method = model.DeliveryMethodMinimal
		return result, nil
	}
	r.logger.Error("minimal status write failed",
		slog.String("order", orderID),
		slog.String("error", err.Error()),
	)

	return r.unpersisted(orderID, creds), nil
}

// Recover returns credentials previously parked in the local fallback store.
func (r *Reconciler) Recover(orderID string) (model.Credentials, bool) {
	return r.vault.Get(orderID)
}

func (r *Reconciler) tryRemote(ctx context.Context, orderID string) *Result {
	remote, err := r.remote.Deliver(ctx, orderID)
	if err == nil {
		return &Result{
			OrderID:   orderID,
			AccountID: remote.AccountID,
			Password:  remote.Password,
			Method:    remote.Method,
			Persisted: true,
		}
	}
	if errors.Is(err, domainErrors.ErrNotConfigured) {
		return nil
	}
	r.logger.Warn("remote delivery failed, falling back to local strategies",
		slog.String("order", orderID),
		slog.String("error", err.Error()),
	)
	return nil
}

// guardRedelivery refuses to silently overwrite credentials that already
// reached the customer. Guard reads are best-effort: if they fail, delivery
// proceeds.
func (r *Reconciler) guardRedelivery(ctx context.Context, order *model.Order, caps schemacap.Capabilities) error {
	if order.Status == model.OrderStatusDelivered {
		return domainErrors.ErrAlreadyDelivered
	}
	if !caps.AccountColumns {
		return nil
	}
	existing, err := r.orders.GetCredentials(ctx, order.ID)
	if err != nil {
		r.logger.Warn("redelivery guard read failed",
			slog.String("order", order.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if existing != nil {
		return domainErrors.ErrAlreadyDelivered
	}
	return nil
}

func (r *Reconciler) tryMetadata(ctx context.Context, orderID string, creds model.Credentials) error {
	existing, err := r.orders.GetMetadata(ctx, orderID)
	if err != nil {
		r.logger.Warn("metadata read failed, writing fresh blob",
			slog.String("order", orderID),
			slog.String("error", err.Error()),
		)
		existing = nil
	}

	merged, err := mergeAccountMetadata(existing, creds, r.clock())
	if err != nil {
		return err
	}
	return r.orders.SetMetadata(ctx, orderID, merged, model.OrderStatusActive)
}

func (r *Reconciler) persisted(orderID string, creds model.Credentials, method model.DeliveryMethod) *Result {
	return &Result{
		OrderID:   orderID,
		AccountID: creds.AccountID,
		Password:  creds.Password,
		Method:    method,
		Persisted: true,
	}
}

func (r *Reconciler) unpersisted(orderID string, creds model.Credentials) *Result {
	return &Result{
		OrderID:   orderID,
		AccountID: creds.AccountID,
		Password:  creds.Password,
		Method:    model.DeliveryMethodToastOnly,
		Persisted: false,
	}
}

// mergeAccountMetadata folds an account object into the existing metadata
// blob. The blob is occasionally stored double-encoded as a JSON string;
// unwrap that first. Unparseable blobs are replaced rather than propagated.
func mergeAccountMetadata(existing *string, creds model.Credentials, at time.Time) (string, error) {
	meta := map[string]any{}
	if existing != nil {
		raw := strings.TrimSpace(*existing)
		var unwrapped string
		if err := json.Unmarshal([]byte(raw), &unwrapped); err == nil {
			raw = unwrapped
		}
		var parsed map[string]any
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
				meta = parsed
			}
		}
	}

	meta["account"] = map[string]any{
		"id":           creds.AccountID,
		"password":     creds.Password,
		"delivered_at": at.UTC().Format(time.RFC3339),
	}

	encoded, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
