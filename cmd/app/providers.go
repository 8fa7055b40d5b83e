package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/regional"
	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
	"github.com/marcus-medeiros/analise-bess/internal/domain/tariff"
	"github.com/marcus-medeiros/analise-bess/internal/infra/config"
	"github.com/marcus-medeiros/analise-bess/internal/infra/scenariorepo"
	"github.com/marcus-medeiros/analise-bess/internal/infra/scenariostore"
)

func provideLoadCurveConfig(cfg *config.Config) (loadcurve.Config, error) {
	window, err := loadcurve.NewPeakWindow(cfg.Curve.PeakHours...)
	if err != nil {
		return loadcurve.Config{}, fmt.Errorf("curve.peakHours: %w", err)
	}
	return loadcurve.Config{
		PeakWindow:               window,
		MinMonthlyConsumptionKWh: cfg.Curve.MinMonthlyConsumptionKWh,
	}, nil
}

func provideRegionalTable() *regional.Table {
	return regional.DefaultTable()
}

func provideScenarioConfig(cfg *config.Config) (scenario.Config, error) {
	modality, err := tariff.ParseModality(cfg.Tariff.Modality)
	if err != nil {
		return scenario.Config{}, err
	}
	schedule := tariff.Schedule{
		Modality:          modality,
		PeakEnergyRate:    cfg.Tariff.PeakEnergyRate,
		OffPeakEnergyRate: cfg.Tariff.OffPeakEnergyRate,
		DemandRate:        cfg.Tariff.DemandRate,
		PeakDemandRate:    cfg.Tariff.PeakDemandRate,
		OffPeakDemandRate: cfg.Tariff.OffPeakDemandRate,
	}
	if err := schedule.Validate(); err != nil {
		return scenario.Config{}, err
	}
	return scenario.Config{
		Tariff: schedule,
		Investment: scenario.Investment{
			CapexBRL:            cfg.Storage.CapexBRL,
			AnnualOMBRL:         cfg.Storage.AnnualOMBRL,
			LifetimeYears:       cfg.Storage.LifetimeYears,
			DiscountRate:        cfg.Storage.DiscountRate,
			RoundTripEfficiency: cfg.Storage.RoundTripEfficiency,
		},
		TopStates:     cfg.Scenario.TopStates,
		ListLimit:     cfg.Scenario.ListLimit,
		MaxNameLength: cfg.Scenario.MaxNameLength,
	}, nil
}

func provideScenarioRepository(cfg *config.Config, logger *slog.Logger) scenario.Repository {
	fallback := scenariorepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Scenario.Postgres.DSN)
	if dsn == "" {
		logger.Info("scenario postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Scenario.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Scenario.Postgres.MaxConns
	}
	if cfg.Scenario.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Scenario.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("scenario postgres repository enabled")
	return scenariorepo.NewPostgresRepository(pool)
}

func provideScenarioStore(cfg *config.Config, logger *slog.Logger) scenario.Store {
	if !cfg.Scenario.Redis.Enabled {
		return scenariostore.NewMemoryStore()
	}
	opt, err := buildValkeyOptions(cfg.Scenario.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return scenariostore.NewMemoryStore()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return scenariostore.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return scenariostore.NewMemoryStore()
	}
	logger.Info("scenario valkey store enabled", "addr", cfg.Scenario.Redis.Addr)
	return scenariostore.NewValkeyStore(client, cfg.Scenario.Redis.Prefix)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
