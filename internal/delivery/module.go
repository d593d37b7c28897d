package delivery

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/adapter/fulfillment"
	"github.com/playvault/storefront/internal/creds"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/storage/schemacap"
)

// Module wires the delivery reconciler and its local collaborators.
var Module = fx.Options(
	fx.Provide(func() CredentialSource { return creds.NewGenerator() }),
	fx.Provide(func() Vault { return NewMemoryVault() }),
	fx.Provide(newReconciler),
)

type reconcilerParams struct {
	fx.In

	Orders repository.OrderRepository
	Caps   *schemacap.Detector
	Source CredentialSource
	Remote fulfillment.Client
	Vault  Vault
	Logger *slog.Logger
}

func newReconciler(p reconcilerParams) *Reconciler {
	return NewReconciler(p.Orders, p.Caps, p.Source, p.Remote, p.Vault, p.Logger)
}
