// File: cmd/archeblow/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/archeblow/riskcore/internal/analyst"
	"github.com/archeblow/riskcore/internal/analyzer"
	"github.com/archeblow/riskcore/internal/config"
	"github.com/archeblow/riskcore/internal/explorer"
	"github.com/archeblow/riskcore/internal/intel"
	"github.com/archeblow/riskcore/internal/metrics"
	"github.com/archeblow/riskcore/internal/models"
	"github.com/archeblow/riskcore/internal/monitoring"
	"github.com/archeblow/riskcore/internal/server"
	"github.com/archeblow/riskcore/internal/store"
	"github.com/archeblow/riskcore/pkg/utils"
)

// AppVersion contains the application version
const AppVersion = "1.0.0"

// Application represents the main application
type Application struct {
	config     *config.Config
	analyzer   *analyzer.Analyzer
	analyst    *analyst.Analyst
	monitoring *monitoring.Service
	store      *store.AnalysisStore
	metrics    *metrics.Metrics
	server     *server.HTTPServer
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewApplication creates a new application instance
func NewApplication(cfg *config.Config, withServer bool) (*Application, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := app.initializeLogger(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := app.initializeComponents(withServer); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return app, nil
}

func (app *Application) initializeLogger() error {
	logCfg := app.config.Logging
	if err := utils.InitLogger(logCfg.Level, logCfg.Format, logCfg.Output, logCfg.File); err != nil {
		return err
	}
	utils.GetLogger().WithField("version", AppVersion).Info("Logger initialized")
	return nil
}

func (app *Application) initializeComponents(withServer bool) error {
	logger := utils.GetLogger()

	if withServer {
		app.metrics = metrics.New()
	}

	app.monitoring = monitoring.NewService(&monitoring.ServiceConfig{
		WebhookURL:     app.config.Monitoring.WebhookURL,
		WebhookTimeout: app.config.Monitoring.WebhookTimeout,
		QueueSize:      app.config.Monitoring.QueueSize,
	}, monitoring.WithMetrics(app.metrics))
	app.monitoring.Start(app.ctx)

	// Build explorer clients for every network whose providers can be
	// constructed with the available credentials
	var clients []explorer.Client
	for _, network := range models.SupportedNetworks {
		networkClients, err := explorer.CreateClients(app.config, network, nil)
		if err != nil {
			logger.WithField("network", network.String()).WithError(err).Warn("No explorer available for network")
			continue
		}
		clients = append(clients, networkClients...)
	}

	mixerSource := intel.NewWatchlistSource(intel.DefaultWatchlist())

	riskAnalyzer, err := analyzer.New(clients, []intel.Source{mixerSource})
	if err != nil {
		return err
	}
	app.analyzer = riskAnalyzer
	app.analyst = analyst.New()
	app.store = store.NewAnalysisStore()

	if withServer {
		app.server = server.NewHTTPServer(&server.ServerConfig{
			Port:          app.config.Server.Port,
			Host:          app.config.Server.Host,
			ReadTimeout:   app.config.Server.ReadTimeout,
			WriteTimeout:  app.config.Server.WriteTimeout,
			EnableMetrics: app.config.Server.EnableMetrics,
			EnableHealth:  app.config.Server.EnableHealth,
		}, app.analyzer, app.analyst, app.monitoring, app.store, app.metrics)
	}

	return nil
}

// Run starts the HTTP server and blocks until a shutdown signal arrives
func (app *Application) Run() error {
	logger := utils.GetLogger()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.server.Stop(shutdownCtx); err != nil {
		return err
	}
	app.cancel()
	logger.Info("Application stopped")
	return nil
}

// AnalyzeOnce performs a single analysis and prints the result plus briefing
func (app *Application) AnalyzeOnce(address string, network models.Network) error {
	result, err := app.analyzer.Analyze(app.ctx, address, network)
	if err != nil {
		return err
	}
	briefing := app.analyst.GenerateBriefing(result)

	output := map[string]interface{}{
		"result":   result,
		"briefing": briefing,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "archeblow",
		Short:   "Money-laundering risk assessment engine for cryptocurrency addresses",
		Version: AppVersion,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis engine as an HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			app, err := NewApplication(cfg, true)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}

	var address, networkName string
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single address and print the briefing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			network, err := models.ParseNetwork(networkName)
			if err != nil {
				return err
			}
			app, err := NewApplication(cfg, false)
			if err != nil {
				return err
			}
			defer app.cancel()
			return app.AnalyzeOnce(address, network)
		},
	}
	analyzeCmd.Flags().StringVarP(&address, "address", "a", "", "address to analyze")
	analyzeCmd.Flags().StringVarP(&networkName, "network", "n", "", "network the address belongs to")
	analyzeCmd.MarkFlagRequired("address")
	analyzeCmd.MarkFlagRequired("network")

	rootCmd.AddCommand(serveCmd, analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
