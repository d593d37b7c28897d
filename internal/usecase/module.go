package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/notify"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(func(d *notify.Dispatcher) Notifier { return d }),
	fx.Provide(NewAuthUseCase),
	fx.Provide(newOrderUseCase),
	fx.Provide(NewProofUseCase),
	fx.Provide(NewMessageUseCase),
)

type orderParams struct {
	fx.In

	Orders   repository.OrderRepository
	Discord  discord.Client
	Notifier Notifier
	Logger   *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Discord, p.Notifier, p.Logger)
}
