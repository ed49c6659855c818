package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maria-mashura/currency-tracker/internal/adapters/browser"
	"github.com/maria-mashura/currency-tracker/internal/adapters/cache"
	"github.com/maria-mashura/currency-tracker/internal/adapters/httpclient"
	"github.com/maria-mashura/currency-tracker/internal/adapters/postgres"
	"github.com/maria-mashura/currency-tracker/internal/api"
	"github.com/maria-mashura/currency-tracker/internal/config"
	"github.com/maria-mashura/currency-tracker/internal/platform/db"
	httpserver "github.com/maria-mashura/currency-tracker/internal/platform/http"
	"github.com/maria-mashura/currency-tracker/internal/rate"
	"github.com/maria-mashura/currency-tracker/internal/rate/handler"
	"github.com/maria-mashura/currency-tracker/internal/source"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(startupCtx, appCfg.DbServer); err != nil {
		logrus.WithError(err).Error("Error applying migrations")
		return err
	}
	logrus.Info("✅ Migrations applied")

	// Fetchers: one shared HTTP client for the network strategies, one
	// shared (serialized) browser driver for the rendered ones.
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	httpFetcher := httpclient.NewFetcher(httpclient.NewHTTPClient(httpTimeout))

	renderTimeout := time.Duration(appCfg.Browser.RenderTimeoutSeconds) * time.Second
	if renderTimeout <= 0 {
		renderTimeout = 15 * time.Second
	}
	drv := browser.NewDriver(ctx)
	defer drv.Close()

	// Source adapters in declaration order
	descriptors := source.DefaultDescriptors()
	sources := make([]rate.SourceCollector, 0, len(descriptors))
	for _, desc := range descriptors {
		var adapter *source.Adapter
		if desc.Strategy == source.StrategyBrowser {
			adapter = source.NewAdapter(desc, browser.NewFetcher(drv, desc.Rules.WaitSelector, renderTimeout))
		} else {
			adapter = source.NewAdapter(desc, httpFetcher)
		}
		sources = append(sources, adapter)
	}
	logrus.Infof("✅ %d source adapters configured", len(sources))

	// Ledger, cache, collector
	ledger := postgres.NewLedger(pool)
	latestCache, err := cache.NewLatestCache()
	if err != nil {
		logrus.WithError(err).Error("Failed to create latest rates cache")
		return err
	}
	defer latestCache.Close()

	normalizer := rate.NewNormalizer(appCfg.Collector.ExtraCurrencies)
	adapterBudget := time.Duration(appCfg.Collector.AdapterBudgetSeconds) * time.Second
	collector := rate.NewCollector(sources, normalizer, ledger, latestCache, adapterBudget)

	// Scheduler: startup run plus daily cron
	scheduler := rate.NewScheduler(collector, appCfg.Collector.CronSpec)
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	rateService := rate.NewService(ledger, latestCache)
	rateHandler := handler.NewRateHandler(rateService)
	router := api.NewRouter(rateHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
