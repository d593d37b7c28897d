package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/admincheck"
	"github.com/playvault/storefront/internal/config"
	"github.com/playvault/storefront/internal/delivery"
	"github.com/playvault/storefront/internal/domain/repository"
	"github.com/playvault/storefront/internal/moderation"
	"github.com/playvault/storefront/internal/notify"
	"github.com/playvault/storefront/internal/storage/postgres"
	"github.com/playvault/storefront/internal/storage/schemacap"
	"github.com/playvault/storefront/internal/usecase"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newFacade,
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Auth       *usecase.AuthUseCase
	Orders     *usecase.OrderUseCase
	Proofs     *usecase.ProofUseCase
	Messages   *usecase.MessageUseCase
	Moderation *moderation.Service
	Reconciler *delivery.Reconciler
	Admins     *admincheck.Service
	Discord    discord.Client
	OrderRepo  repository.OrderRepository
	Notifier   usecase.Notifier
	Storage    *postgres.Storage
	Caps       *schemacap.Detector
}

func newFacade(p facadeParams) *StorefrontFacade {
	return NewStorefrontFacade(
		p.Auth,
		p.Orders,
		p.Proofs,
		p.Messages,
		p.Moderation,
		p.Reconciler,
		p.Admins,
		p.Discord,
		p.OrderRepo,
		p.Notifier,
		p.Storage,
		p.Storage,
		p.Caps,
	)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *notify.Dispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting storefront", slog.String("addr", p.Server.Addr))
			p.Dispatcher.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Dispatcher.Stop()
			p.Logger.Info("storefront stopped")
			return nil
		},
	})
}
