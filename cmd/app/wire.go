//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/run-reporter/internal/bootstrap"
	"github.com/yanqian/run-reporter/internal/domain/activity"
	"github.com/yanqian/run-reporter/internal/domain/report"
	"github.com/yanqian/run-reporter/internal/domain/session"
	"github.com/yanqian/run-reporter/internal/infra/config"
	"github.com/yanqian/run-reporter/internal/infra/garmin"
	httpiface "github.com/yanqian/run-reporter/internal/interface/http"
	"github.com/yanqian/run-reporter/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideUpstreamClient,
		provideSessionConfig,
		provideSessionStore,
		provideSessionStorage,
		provideStateStore,
		provideActivityService,
		session.NewService,
		report.NewService,
		wire.Bind(new(session.Upstream), new(*garmin.Client)),
		wire.Bind(new(activity.Upstream), new(*garmin.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
