// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/services/config"
	"github.com/de-tools/material-atlas/pkg/services/export"
	"github.com/de-tools/material-atlas/pkg/services/export/capture"
	"github.com/de-tools/material-atlas/pkg/services/importer"
	"github.com/de-tools/material-atlas/pkg/services/reports"
	"github.com/de-tools/material-atlas/pkg/store/kv"
	"github.com/de-tools/material-atlas/pkg/store/kv/filekv"
	"github.com/de-tools/material-atlas/pkg/store/kv/s3kv"
	"github.com/de-tools/material-atlas/pkg/store/kv/sqlkv"
	reportstore "github.com/de-tools/material-atlas/pkg/store/reports"
	"github.com/rs/zerolog"
)

// Backends returns the registry of every supported store backend.
func Backends() kv.Registry {
	return kv.NewRegistry(map[string]kv.Factory{
		"memory": func(context.Context, kv.Settings) (kv.Substrate, error) {
			return kv.NewMemory(), nil
		},
		"file":       filekv.Factory,
		"sqlite":     sqlkv.SQLiteFactory,
		"snowflake":  sqlkv.SnowflakeFactory,
		"databricks": sqlkv.DatabricksFactory,
		"s3":         s3kv.Factory,
	})
}

// NewLogger builds the root logger at the configured level.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// App holds the report service and the resources it owns.
type App struct {
	Config    *config.Config
	Service   reports.Service
	substrate kv.Substrate
}

// New opens the configured store, loads the collection and builds the
// service. A corrupted collection is logged and replaced by an empty one.
func New(ctx context.Context, cfg *config.Config, backends kv.Registry) (*App, error) {
	logger := zerolog.Ctx(ctx)

	substrate, err := backends.Open(ctx, cfg.Store.Backend, cfg.Store.Settings())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	store, err := reportstore.NewStore(substrate, cfg.Store.Key)
	if err != nil {
		_ = substrate.Close()
		return nil, err
	}

	loaded, err := store.Load(ctx)
	var corruption *domain.StoreCorruptionError
	switch {
	case errors.As(err, &corruption):
		logger.Warn().Err(err).Str("backup", corruption.Backup).Msg("stored reports were unreadable, starting empty")
	case err != nil:
		_ = substrate.Close()
		return nil, err
	}
	logger.Info().Str("backend", cfg.Store.Backend).Int("reports", len(loaded)).Msg("report store ready")

	institution, err := config.LoadInstitution(ctx, cfg.Institution)
	if err != nil {
		logger.Warn().Err(err).Msg("using default institution")
		institution = config.DefaultInstitution
	}
	logo, err := capture.LogoDataURL(institution.Logo)
	if err != nil {
		logger.Warn().Err(err).Str("logo", institution.Logo).Msg("report header will have no logo")
	}

	exporter := export.NewExporter(capture.NewBrowser(capture.Options{
		BrowserBin:  cfg.Export.BrowserBin,
		Scale:       cfg.Export.Scale,
		Timeout:     cfg.Export.Timeout,
		Institution: institution,
		Logo:        logo,
	}))

	svc, err := reports.NewService(store,
		importer.New(importer.Options{Strict: cfg.Import.Strict}),
		reports.WithExporter(exporter),
	)
	if err != nil {
		_ = substrate.Close()
		return nil, err
	}

	return &App{Config: cfg, Service: svc, substrate: substrate}, nil
}

func (a *App) Close() error {
	return a.substrate.Close()
}
