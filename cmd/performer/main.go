package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/trigg3rX/triggerx-performer/internal/performer/api"
	"github.com/trigg3rX/triggerx-performer/internal/performer/client/oracle"
	"github.com/trigg3rX/triggerx-performer/internal/performer/config"
	"github.com/trigg3rX/triggerx-performer/internal/performer/core/execution"
	"github.com/trigg3rX/triggerx-performer/internal/performer/metrics"
	"github.com/trigg3rX/triggerx-performer/internal/performer/reporting"
	"github.com/trigg3rX/triggerx-performer/pkg/client/aggregator"
	"github.com/trigg3rX/triggerx-performer/pkg/cryptography"
	"github.com/trigg3rX/triggerx-performer/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

var (
	envFileFlag = &cli.StringFlag{
		Name:    "env-file",
		Usage:   "Path to a .env file (defaults to an optional ./.env)",
		EnvVars: []string{"PERFORMER_ENV_FILE"},
	}
	configFileFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to an optional YAML config file",
		EnvVars: []string{"PERFORMER_CONFIG_FILE"},
	}
	logDirFlag = &cli.StringFlag{
		Name:  "log-dir",
		Usage: "Directory for log files",
		Value: logging.BaseDataDir,
	}
)

func main() {
	app := &cli.App{
		Name:        "triggerx-performer",
		Usage:       "TriggerX task performer",
		Description: "Fetches a price, signs the attestation and submits it to the aggregator.",
		Flags:       []cli.Flag{envFileFlag, configFileFlag, logDirFlag},
		Action:      performerMain,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln("Application failed. Message:", err)
	}
}

func performerMain(c *cli.Context) error {
	loaded, err := config.Load(c.String(envFileFlag.Name), c.String(configFileFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store := config.NewStore()
	if err := store.Initialize(loaded); err != nil {
		return err
	}
	// Everything below is wired from the store's copy.
	cfg, err := store.Get()
	if err != nil {
		return err
	}

	if err := logging.InitServiceLogger(logging.LoggerConfig{
		LogDir:        c.String(logDirFlag.Name),
		ProcessName:   logging.PerformerProcess,
		IsDevelopment: cfg.IsDevMode(),
		UseColors:     cfg.IsDevMode(),
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Shutdown()
	logger := logging.GetServiceLogger()

	logger.Info("Starting performer ...", "version", cfg.Version(), "environment", cfg.Environment())

	signer, err := cryptography.NewECDSASigner(cfg.PrivateKey())
	if err != nil {
		logger.Fatal("Failed to create signer", "error", err)
	}
	logger.Info("[1/6] Signer initialised", "address", signer.Address().Hex())

	priceOracle, err := oracle.NewPriceFeedClient(logger, oracle.Config{
		BaseURL:        cfg.OracleURL(),
		RequestTimeout: cfg.OracleTimeout(),
		MaxAttempts:    cfg.OracleMaxAttempts(),
	})
	if err != nil {
		logger.Fatal("Failed to create oracle client", "error", err)
	}
	defer priceOracle.Close()
	logger.Info("[2/6] Oracle client initialised", "url", cfg.OracleURL(), "symbol", cfg.PriceSymbol())

	aggClient, err := aggregator.NewAggregatorClient(logger, aggregator.AggregatorClientConfig{
		AggregatorRPCUrl: cfg.AggregatorRPCUrl(),
		RequestTimeout:   cfg.AggregatorTimeout(),
	})
	if err != nil {
		logger.Fatal("Failed to create aggregator client", "error", err)
	}
	defer aggClient.Close()
	logger.Info("[3/6] Aggregator client initialised", "url", cfg.AggregatorRPCUrl())

	reporter, err := reporting.New(reporting.Options{
		DSN:         cfg.SentryDSN(),
		Environment: cfg.Environment(),
		Release:     "triggerx-performer@" + cfg.Version(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create failure reporter", "error", err)
	}
	defer reporter.Flush(2 * time.Second)
	logger.Info("[4/6] Failure reporter initialised")

	collector := metrics.NewCollector(logger)
	if err := collector.Start(); err != nil {
		logger.Fatal("Failed to start metrics collector", "error", err)
	}
	metricsServer := metrics.NewServer(cfg.MetricsPort(), logger)
	go func() {
		if err := metricsServer.Start(); err != nil {
			logger.Error("Metrics server failed", "error", err)
		}
	}()
	logger.Info("[5/6] Metrics initialised", "port", cfg.MetricsPort())

	executor := execution.NewTaskExecutor(cfg, priceOracle, signer, aggClient, metrics.PrometheusRecorder{}, reporter, logger)

	apiServer := api.NewServer(api.Config{
		Port:           cfg.APIPort(),
		RequestTimeout: cfg.RequestTimeout(),
		DevMode:        cfg.IsDevMode(),
	}, api.Dependencies{
		Logger:           logger,
		Executor:         executor,
		Version:          cfg.Version(),
		PerformerAddress: signer.Address(),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start()
	}()
	logger.Info("[6/6] API server initialised", "port", cfg.APIPort())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Error("API server stopped unexpectedly", "error", err)
		}
	}

	performGracefulShutdown(apiServer, metricsServer, collector, logger)
	return nil
}

func performGracefulShutdown(apiServer *api.Server, metricsServer *metrics.Server, collector *metrics.Collector, logger logging.Logger) {
	logger.Info("Initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Stop(ctx); err != nil {
		logger.Error("API server forced to shutdown", "error", err)
	}
	if err := metricsServer.Stop(ctx); err != nil {
		logger.Error("Metrics server forced to shutdown", "error", err)
	}
	collector.Stop()

	logger.Info("Performer shutdown complete")
}
