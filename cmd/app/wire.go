//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/marcus-medeiros/analise-bess/internal/bootstrap"
	"github.com/marcus-medeiros/analise-bess/internal/domain/loadcurve"
	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
	"github.com/marcus-medeiros/analise-bess/internal/infra/config"
	httpiface "github.com/marcus-medeiros/analise-bess/internal/interface/http"
	"github.com/marcus-medeiros/analise-bess/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideLoadCurveConfig,
		provideRegionalTable,
		provideScenarioConfig,
		provideScenarioRepository,
		provideScenarioStore,
		loadcurve.NewService,
		scenario.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
