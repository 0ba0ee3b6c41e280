//go:build wireinject
// +build wireinject

package di

import (
	"RuleForge/pkg/config"
	"RuleForge/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Sinks and caches
		ProvideSignalSink,
		ProvideResultCache,

		// Use cases
		ProvideExtractionRunner,
		ProvideExtractRequestsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
