package fulfillment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/config"
)

// Module exposes the remote delivery function client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.DeliveryEndpoint, p.Logger)
}
