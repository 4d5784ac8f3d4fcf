//go:build wireinject
// +build wireinject

package di

import (
	"FinSight/pkg/config"
	"FinSight/pkg/server"

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
		ProvideRedisClient,

		// Repositories
		ProvideScoreHistoryStore,
		ProvideFactsSource,
		ProvideDataSource,
		ProvideClassifier,
		ProvideScorePublisher,

		// Use cases
		ProvideScoreService,
		ProvideScoreRefresher,
		ProvideTrendAnalyzer,
		ProvideKafkaFactsHandler,
		ProvideRefreshEnqueuer,
		ProvideRefreshQueueConsumer,

		// HTTP surface
		ProvideHistoryCache,
		ProvideTrendCache,
		ProvideScoresHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
