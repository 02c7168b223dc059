// Command courtfetch looks up court cases, downloads their order documents
// and serves the results over a web interface, a CLI and MCP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/config/env"
	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/config/file"
	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/fetch"
	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/scraper/stub"
	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driving/cli"
	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
	"github.com/custodia-labs/court-case-fetcher/internal/core/services"
	"github.com/custodia-labs/court-case-fetcher/internal/logger"
	"github.com/custodia-labs/court-case-fetcher/internal/normalisers/pdf"
	"github.com/custodia-labs/court-case-fetcher/internal/urlgate"
)

// version is set at build time with -ldflags "-X main.version=v1.2.3".
var version string

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	fileStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(env.New(fileStore, services.SettingKeys()))
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	homeDir := filepath.Dir(fileStore.Path())

	log, closeLog, err := newLogger(settings.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	var (
		store    driven.CaseStore
		location = ":memory:"
	)
	if settings.Profile == domain.ProfileTesting {
		store = memory.NewCaseStore()
	} else {
		db, err := sqlite.NewStore(filepath.Join(homeDir, "data"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		store, location = db, db.Path()
	}

	metrics := prometheus.New()
	gate := urlgate.New(settings.Ingest.AllowedHosts)

	fetcher := fetch.New(gate,
		fetch.WithChunkSize(settings.Ingest.ChunkSize),
		fetch.WithLogger(log),
		fetch.WithMetrics(metrics),
	)
	extractor := pdf.New(pdf.WithLogger(log), pdf.WithMetrics(metrics))

	ingestService := services.NewIngestService(settingsService, gate, fetcher, extractor)
	ingestService.SetLogger(log)
	ingestService.SetBaseDir(homeDir)

	caseService := services.NewCaseService(store, stub.New(stub.WithLogger(log)), ingestService)
	caseService.SetLogger(log)
	caseService.SetMetrics(metrics)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Cases:       caseService,
		Ingest:      ingestService,
		Settings:    settingsService,
		Maintenance: services.NewMaintenanceService(store, location),
		Logger:      log,
		Metrics:     metrics,
		Watcher:     fileStore,
		Reload: func(s *domain.AppSettings) {
			gate.Replace(s.Ingest.AllowedHosts)
			if level, err := logger.ParseLevel(s.Logging.Level); err == nil {
				log.SetLevel(level)
			}
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx)
}

// newLogger writes to stderr and, when configured, appends to a log file.
func newLogger(cfg domain.LoggingSettings) (*logger.Logger, func(), error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
	}

	if cfg.File == "" {
		return logger.New(os.Stderr, level), func() {}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	w := io.MultiWriter(os.Stderr, f)
	return logger.New(w, level, logger.WithTimestamps()), func() { f.Close() }, nil
}
