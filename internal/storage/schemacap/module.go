package schemacap

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/playvault/storefront/internal/storage/postgres"
)

// Module wires the schema capability detector over the shared pool.
var Module = fx.Provide(newDetector)

type detectorParams struct {
	fx.In

	Storage *postgres.Storage
	Logger  *slog.Logger
}

func newDetector(p detectorParams) *Detector {
	return NewDetector(p.Storage.Pool(), p.Logger)
}
