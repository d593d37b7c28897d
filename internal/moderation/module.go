package moderation

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/adapter/fulfillment"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/notify"
)

// Module wires the moderation service.
var Module = fx.Options(
	fx.Provide(newService),
)

type serviceParams struct {
	fx.In

	Orders     repository.OrderRepository
	Remote     fulfillment.Client
	Dispatcher *notify.Dispatcher
	Logger     *slog.Logger
}

func newService(p serviceParams) *Service {
	return NewService(p.Orders, p.Remote, p.Dispatcher, p.Logger)
}
