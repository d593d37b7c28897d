package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/adapter/discord"
	"github.com/playvault/storefront/internal/config"
	"github.com/playvault/storefront/internal/domain/repository"
)

// Module wires the notification fan-out and its worker pool.
var Module = fx.Options(
	fx.Provide(newFanout),
	fx.Provide(newDispatcher),
)

type fanoutParams struct {
	fx.In

	Messages repository.MessageRepository
	Discord  discord.Client
	Config   *config.Config
	Logger   *slog.Logger
}

func newFanout(p fanoutParams) *Fanout {
	return NewFanout(p.Messages, p.Discord, p.Config.DiscordOrdersChannelID, p.Logger)
}

type dispatcherParams struct {
	fx.In

	Fanout *Fanout
	Config *config.Config
	Logger *slog.Logger
}

func newDispatcher(p dispatcherParams) *Dispatcher {
	return NewDispatcher(p.Fanout, p.Config.NotifyWorkers, p.Config.NotifyQueueSize, p.Logger)
}
