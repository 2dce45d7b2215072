package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"custodian.io/internal/application/usecase"
	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
	"custodian.io/internal/domain/vault"
	"custodian.io/internal/infrastructure/config"
	"custodian.io/internal/infrastructure/genesis"
	httphandler "custodian.io/internal/infrastructure/http"
	"custodian.io/internal/infrastructure/logger"
	"custodian.io/internal/infrastructure/metrics"
	"custodian.io/internal/infrastructure/publisher"
	"custodian.io/internal/infrastructure/repository"
	"custodian.io/internal/infrastructure/token"
	"custodian.io/internal/infrastructure/validator"
)

const serverDir = "server"

var genesisPath string //nolint:gochecknoglobals

var apiServerCmd = &cobra.Command{ //nolint:gochecknoglobals
	Use:   "server",
	Short: "Run API Server.",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		// Get config directory (relative to where the binary is run from)
		configDir := filepath.Join("cmd", "config", serverDir)
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			configDir = filepath.Join(".", "cmd", "config", serverDir)
		}

		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			logger.NewLogger().LogError(ctx, "Failed to load config", err)
			return fmt.Errorf("failed to load config: %w", err)
		}

		appLogger := logger.New(cfg.Log.Level, os.Stdout)
		appLogger.LogInfo(ctx, "Configuration loaded",
			"port", cfg.Server.Port,
			"timestamp_tolerance", cfg.Auth.TimestampTolerance.String(),
			"redis_enabled", cfg.Redis.Enabled,
			"postgres_enabled", cfg.Postgres.Enabled)

		owner, err := entity.ParseAddress(cfg.Vault.Owner)
		if err != nil || owner == entity.ZeroAddress {
			return fmt.Errorf("vault.owner must be a non-zero address: %q", cfg.Vault.Owner)
		}
		custody, err := entity.ParseAddress(cfg.Vault.Custody)
		if err != nil || custody == entity.ZeroAddress {
			return fmt.Errorf("vault.custody must be a non-zero address: %q", cfg.Vault.Custody)
		}

		// Event fan-out: journal, log, then optional external sinks
		journal := repository.NewInMemoryJournal(cfg.Vault.JournalCapacity)
		sinks := publisher.Multi{journal, publisher.NewLogging(appLogger)}
		var closers []func() error
		defer func() {
			for _, c := range closers {
				if err := c(); err != nil {
					appLogger.LogWarning(ctx, "Failed to close resource", "error", err.Error())
				}
			}
		}()

		if cfg.Redis.Enabled {
			client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
			closers = append(closers, client.Close)
			sinks = append(sinks, publisher.NewBreaker("redis",
				publisher.NewRedis(client, cfg.Redis.Channel, cfg.Redis.Timeout), 30*time.Second, appLogger))
		}

		if cfg.Postgres.Enabled {
			db, err := repository.OpenPostgres(ctx, cfg.Postgres.DSN)
			if err != nil {
				appLogger.LogError(ctx, "Failed to connect to postgres", err)
				return err
			}
			closers = append(closers, db.Close)
			pg := repository.NewPostgresJournal(db, cfg.Postgres.QueryTimeout)
			if err := pg.Migrate(ctx); err != nil {
				appLogger.LogError(ctx, "Failed to migrate postgres journal", err)
				return err
			}
			sinks = append(sinks, publisher.NewBreaker("postgres", pg, 30*time.Second, appLogger))
		}

		// Initialize domain and infrastructure adapters
		registry := token.NewRegistry(custody, appLogger)
		ledger := vault.New(owner, registry, sinks, appLogger)
		registryMetrics := metrics.NewRegistry()

		if path := firstNonEmpty(genesisPath, cfg.Genesis.Path); path != "" {
			if err := seed(ctx, path, registry, ledger, owner, appLogger); err != nil {
				appLogger.LogError(ctx, "Failed to apply genesis", err, "path", path)
				return err
			}
		}
		registryMetrics.WhitelistedAssets.Set(float64(len(ledger.Whitelist())))

		authenticator := validator.NewHMACAuthenticator(
			cfg.Auth.HMACSecret,
			cfg.Auth.TimestampTolerance,
			appLogger,
		)

		// Initialize HTTP handler
		handler := httphandler.NewHandler(
			httphandler.UseCases{
				Deposit:    usecase.NewDepositUseCase(ledger, registryMetrics),
				Withdraw:   usecase.NewWithdrawUseCase(ledger, registryMetrics),
				Approve:    usecase.NewApproveUseCase(registry, registryMetrics),
				Administer: usecase.NewAdministerUseCase(ledger, registryMetrics),
				GetBalance: usecase.NewGetBalanceUseCase(ledger, registry),
				GetStatus:  usecase.NewGetStatusUseCase(ledger, registry),
				ListEvents: usecase.NewListEventsUseCase(journal),
			},
			authenticator,
			registryMetrics.Handler(),
			appLogger,
		)

		router := handler.SetupRoutes(cfg.Server.RateLimit, cfg.Server.Burst)

		addr := ":" + cfg.Server.Port
		server := &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Channel to capture termination signals
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		errChan := make(chan error, 1)

		go func() {
			appLogger.LogInfo(ctx, "Starting server",
				"address", addr,
				"owner", owner.Hex(),
				"custody", custody.Hex())
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		// Graceful shutdown
		select {
		case <-signalChan:
			appLogger.LogInfo(ctx, "Received termination signal. Initiating graceful shutdown...")

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				appLogger.LogError(ctx, "Server forced to shutdown", err)
				return err
			}

			appLogger.LogInfo(ctx, "Server stopped gracefully")
		case err := <-errChan:
			appLogger.LogError(ctx, "Server error", err)
			return err
		}

		return nil
	},
}

func seed(ctx context.Context, path string, registry *token.Registry, ledger port.Ledger, owner entity.Address, log logger.Logger) error {
	doc, err := genesis.Load(path)
	if err != nil {
		return err
	}
	return genesis.Apply(ctx, doc, registry, ledger, owner, log)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() { //nolint:gochecknoinits
	apiServerCmd.Flags().StringVar(&genesisPath, "genesis", "", "path to a genesis YAML file")
	rootCmd.AddCommand(apiServerCmd)
}
