package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "mesa-settle/internal/adapter/http"
	"mesa-settle/internal/adapter/memory"
	"mesa-settle/internal/adapter/payout"
	"mesa-settle/internal/adapter/postgres"
	"mesa-settle/internal/adapter/usecase"
	"mesa-settle/internal/config"
	"mesa-settle/internal/core/domain"
	"mesa-settle/internal/core/port"
	"mesa-settle/internal/db"
)

// main is the entry point of the settlement service. It loads configuration,
// selects the ledger store (optionally running migrations), wires the
// funding ledger, reward vault, campaign registry and impression logger,
// then starts the HTTP server. On receiving a termination signal it
// gracefully shuts down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return
	}

	logger := slog.New(cfg.Log.Handler(os.Stdout)).With(slog.String("env", cfg.Env))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store port.Store
	if cfg.Store.UsePostgres() {
		if cfg.Psql.RunMigrations {
			if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
				logger.Error("migration error", slog.Any("error", err))
				return
			}
			logger.Info("migrations applied successfully")
		}

		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			logger.Error("database connection error", slog.Any("error", err))
			return
		}
		defer pool.Close()
		store = postgres.NewStore(pool, postgres.Retry{
			MaxRetries:   cfg.Psql.TxRetries,
			InitialDelay: cfg.Psql.TxRetryDelay,
			MaxDelay:     cfg.Psql.TxRetryMaxWait,
		})
	} else {
		logger.Warn("using in-memory ledger store, state is lost on restart")
		store = memory.NewStore()
	}

	transfers := payout.NewOutbox()
	funding := usecase.NewFundingLedger(store, logger, usecase.FundingOptions{
		Operator: cfg.Funding.OperatorAccount(),
	})

	dust, err := cfg.Vault.Dust()
	if err != nil {
		logger.Error("reward vault config error", slog.Any("error", err))
		return
	}
	vault, err := usecase.NewRewardVault(store, transfers, logger, usecase.VaultOptions{
		Address:  domain.Account(cfg.Vault.Address),
		Owner:    domain.Account(cfg.Vault.Owner),
		Treasury: domain.Account(cfg.Vault.Treasury),
		Split:    cfg.Vault.Split(),
		Dust:     dust,
	})
	if err != nil {
		logger.Error("reward vault config error", slog.Any("error", err))
		return
	}
	vaults, err := usecase.NewVaultDirectory(vault)
	if err != nil {
		logger.Error("vault directory error", slog.Any("error", err))
		return
	}

	var forwarders []domain.Account
	if !cfg.Registry.Open {
		forwarders = append(forwarders, domain.Account(cfg.ImpressionLogger.Address))
		for _, f := range cfg.Registry.Forwarders {
			forwarders = append(forwarders, domain.Account(f))
		}
	}
	registry := usecase.NewCampaignRegistry(store, vaults, transfers, logger, usecase.RegistryOptions{
		Address:    domain.Account(cfg.Registry.Address),
		Owner:      domain.Account(cfg.Registry.Owner),
		Forwarders: forwarders,
	})
	gateway := usecase.NewImpressionLogger(registry, store, logger, usecase.LoggerOptions{
		Address:      domain.Account(cfg.ImpressionLogger.Address),
		Owner:        domain.Account(cfg.ImpressionLogger.Owner),
		MaxBatchSize: cfg.ImpressionLogger.MaxBatchSize,
	})

	if cfg.Store.Seed {
		ids, err := db.Seed(ctx, funding, registry, db.SeedOptions{
			Owner:    domain.Account(cfg.Registry.Owner),
			Operator: cfg.Funding.OperatorAccount(),
			Vault:    vault.Address(),
		})
		if err != nil {
			logger.Error("seed error", slog.Any("error", err))
			return
		}
		logger.Info("demo campaigns seeded", slog.Int("count", len(ids)))
	}

	handler := httpadapter.NewHandler(registry, gateway, vaults, funding, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	exitCode = 0

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		exitCode = 1
	} else {
		logger.Info("server gracefully stopped")
	}
}
