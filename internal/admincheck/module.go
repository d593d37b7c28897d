package admincheck

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/config"
	"github.com/playvault/storefront/internal/domain/repository"
)

// Module wires the cached admin verdict service.
var Module = fx.Options(
	fx.Provide(newService),
)

type serviceParams struct {
	fx.In

	Admins repository.AdminRepository
	Config *config.Config
	Logger *slog.Logger
}

func newService(p serviceParams) *Service {
	return NewService(p.Admins, p.Config.AdminCacheTTL, nil, p.Logger)
}
