package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/patientedu/internal/banner"
	"github.com/phrazzld/patientedu/internal/catalog"
	"github.com/phrazzld/patientedu/internal/config"
	"github.com/phrazzld/patientedu/internal/content"
	"github.com/phrazzld/patientedu/internal/events"
	"github.com/phrazzld/patientedu/internal/export"
	"github.com/phrazzld/patientedu/internal/platform/docx"
	"github.com/phrazzld/patientedu/internal/platform/metrics"
	"github.com/phrazzld/patientedu/internal/platform/postgres"
	"github.com/phrazzld/patientedu/internal/service"
	"github.com/phrazzld/patientedu/internal/service/auth"
	"github.com/phrazzld/patientedu/internal/store"
)

// application holds the wired dependencies of one process.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	db      *sql.DB

	store   *store.CatalogStore
	rotator *banner.Rotator
	emitter *events.InMemoryEventEmitter
	journal *postgres.JournalStore

	authenticator  *auth.Authenticator
	catalogService service.CatalogService
	bannerService  service.BannerService
	exportService  service.ExportService

	loadCancel context.CancelFunc
	loadWG     sync.WaitGroup
}

// appOptions selects optional collaborators.
type appOptions struct {
	// source overrides the content origin named by the configuration.
	source content.Source

	// withJournal opens the database and journals revisions when a
	// database URL is configured.
	withJournal bool
}

// newApplication wires the application. Nothing is loaded until
// startLoad is called.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts appOptions) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.NewMetrics(),
	}

	source := opts.source
	if source == nil {
		var err error
		source, err = content.NewSource(cfg.Content.Origin, time.Duration(cfg.Content.FetchTimeoutSeconds)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize content origin: %w", err)
		}
	}
	fetcher := content.NewFetcher(source, app.metrics, logger)
	assembler := catalog.NewAssembler(fetcher, cfg.Content.PublicBase, app.metrics, logger)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.store = store.NewCatalogStore(
		store.WithEmitter(app.emitter),
		store.WithMetrics(app.metrics),
		store.WithLogger(logger),
	)
	app.rotator = banner.NewRotator(0,
		time.Duration(cfg.Banner.RotationIntervalMS)*time.Millisecond,
		banner.WithLogger(logger))

	var err error
	app.authenticator, err = auth.NewAuthenticator(cfg.Admin, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authenticator: %w", err)
	}

	app.catalogService, err = service.NewCatalogService(app.store, assembler, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}

	app.bannerService, err = service.NewBannerService(app.store, app.rotator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create banner service: %w", err)
	}
	app.emitter.RegisterHandler(app.bannerService,
		events.TypeCatalogInstalled, events.TypeBannerAdded, events.TypeBannerDeleted)

	app.exportService, err = service.NewExportService(
		app.catalogService,
		docx.NewWriter(),
		export.Options{SystemTitle: cfg.Export.SystemTitle, Creator: cfg.Export.Creator},
		app.metrics,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create export service: %w", err)
	}

	if opts.withJournal && cfg.Database.URL != "" {
		app.db, err = postgres.Open(ctx, cfg.Database.URL, logger)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to open revision journal: %w", err)
		}
		app.journal = postgres.NewJournalStore(app.db, logger)
		app.emitter.RegisterHandler(app.journal)
		logger.Info("revision journal enabled", slog.String("session_id", app.journal.SessionID().String()))
	}

	logger.Info("application initialized",
		slog.String("content_origin", cfg.Content.Origin),
		slog.Bool("journal", app.journal != nil))
	return app, nil
}

// startLoad loads the catalog in the background. The load is abandoned
// when ctx is cancelled or the application is cleaned up.
func (app *application) startLoad(ctx context.Context) {
	loadCtx, cancel := context.WithCancel(ctx)
	app.loadCancel = cancel

	app.loadWG.Add(1)
	go func() {
		defer app.loadWG.Done()
		if err := app.catalogService.Load(loadCtx); err != nil {
			app.logger.Error("catalog load failed", slog.String("error", err.Error()))
		}
	}()
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.loadCancel != nil {
		app.loadCancel()
		app.loadWG.Wait()
	}
	if app.rotator != nil {
		app.rotator.Close()
	}
	if app.store != nil {
		app.store.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
