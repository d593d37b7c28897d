package di

import (
	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/adapter/fulfillment"
	"github.com/playvault/storefront/internal/admincheck"
	"github.com/playvault/storefront/internal/app"
	"github.com/playvault/storefront/internal/config"
	"github.com/playvault/storefront/internal/delivery"
	"github.com/playvault/storefront/internal/logger"
	"github.com/playvault/storefront/internal/moderation"
	"github.com/playvault/storefront/internal/notify"
	"github.com/playvault/storefront/internal/pkg/auth"
	"github.com/playvault/storefront/internal/server/http/router"
	"github.com/playvault/storefront/internal/storage/postgres"
	"github.com/playvault/storefront/internal/storage/schemacap"
	"github.com/playvault/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		schemacap.Module,
		discord.Module,
		fulfillment.Module,
		delivery.Module,
		notify.Module,
		moderation.Module,
		admincheck.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
