package discord

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/config"
)

// Module exposes the Discord client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(Options{
		BaseURL:       p.Config.DiscordAPIBase,
		BotToken:      p.Config.DiscordBotToken,
		GuildID:       p.Config.DiscordGuildID,
		OrdersChannel: p.Config.DiscordOrdersChannelID,
	}, p.Logger)
}
