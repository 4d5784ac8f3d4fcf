package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"FinSight/internal/domain/repository"
	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/handler/api"
	internalrepo "FinSight/internal/repository"
	icache "FinSight/internal/service/cache"
	"FinSight/internal/trends"
	"FinSight/internal/usecase"
	pkgcache "FinSight/pkg/cache"
	pkgch "FinSight/pkg/clickhouse"
	"FinSight/pkg/config"
	pkgkafka "FinSight/pkg/kafka"
	applogger "FinSight/pkg/logger"
	"FinSight/pkg/metrics"
	"FinSight/pkg/queue"
	"FinSight/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideScoreHistoryStore creates the ClickHouse score history store and
// initializes its schema.
func ProvideScoreHistoryStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) (repository.ScoreHistoryStore, error) {
	store := internalrepo.NewCHScoreHistoryStore(chClient, cfg.ClickHouse.Database+".score_history")
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("score history store: %w", err)
	}
	return store, nil
}

// ProvideFactsSource creates the ClickHouse facts table serving both the
// refresh data source and the industry classifier.
func ProvideFactsSource(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) (*internalrepo.CHFactsSource, error) {
	src := internalrepo.NewCHFactsSource(chClient, cfg.ClickHouse.Database+".financial_facts")
	src.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := src.Init(ctx); err != nil {
		return nil, fmt.Errorf("facts source: %w", err)
	}
	return src, nil
}

// ProvideDataSource exposes the facts table as the refresh data source.
func ProvideDataSource(src *internalrepo.CHFactsSource) domsvc.FinancialDataSource { return src }

// ProvideClassifier exposes the facts table as the industry classifier.
func ProvideClassifier(src *internalrepo.CHFactsSource) domsvc.IndustryClassifier { return src }

// ProvideScorePublisher creates the Kafka score event publisher.
func ProvideScorePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ScorePublisher {
	return internalrepo.NewKafkaScorePublisher(producer, cfg.Kafka.ScoreTopic)
}

// ProvideScoreService creates the scoring use case.
func ProvideScoreService(
	store repository.ScoreHistoryStore,
	pub repository.ScorePublisher,
	metrics repository.Metrics,
	l *applogger.Logger,
) *usecase.ScoreService {
	svc := usecase.NewScoreService(store, pub, metrics)
	svc.SetLogger(l)
	return svc
}

// ProvideScoreRefresher creates the batch refresh use case.
func ProvideScoreRefresher(
	svc *usecase.ScoreService,
	source domsvc.FinancialDataSource,
	classifier domsvc.IndustryClassifier,
	metrics repository.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.ScoreRefresher {
	r := usecase.NewScoreRefresher(
		svc,
		source,
		classifier,
		metrics,
		cfg.Scoring.Workers,
		cfg.Scoring.RateCapacity,
		cfg.Scoring.RateRefill,
	)
	r.SetLogger(l)
	return r
}

// ProvideHistoryCache builds the score-history cache: layered memory+Redis
// when Redis is configured, in-process LRU otherwise.
func ProvideHistoryCache(cfg *config.Config) pkgcache.Service {
	if cfg.Redis.Enabled {
		host, port := splitAddr(cfg.Redis.Addr)
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Redis.Password),
			pkgcache.WithRedisDB(cfg.Redis.DB),
		)
		if err == nil {
			return pkgcache.NewLayeredCache(rc)
		}
	}
	return pkgcache.NewMemoryCache()
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// ProvideTrendAnalyzer creates the trend analyzer over the history store.
func ProvideTrendAnalyzer(store repository.ScoreHistoryStore, hc pkgcache.Service, cfg *config.Config, l *applogger.Logger) *trends.Analyzer {
	a := trends.NewAnalyzer(store)
	a.SetLogger(l)
	a.SetHistoryCache(hc, cfg.Trends.CacheTTL)
	return a
}

// ProvideKafkaFactsHandler registers the handler for the facts topic.
func ProvideKafkaFactsHandler(
	svc *usecase.ScoreService,
	src *internalrepo.CHFactsSource,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.KafkaFactsHandler {
	h := usecase.NewKafkaFactsHandler(cfg.Kafka.FactsTopic, svc, metrics)
	h.SetFactsRecorder(src)
	return h
}

// ProvideRedisClient creates a shared Redis client, or nil when disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideRefreshEnqueuer creates the publisher side of the refresh job
// queue, or nil without Redis. The same publisher carries aggregated error
// logs off-host.
func ProvideRefreshEnqueuer(client *redis.Client, l *applogger.Logger) usecase.RefreshEnqueuer {
	if client == nil {
		return nil
	}
	pub := queue.NewRedisPublisher(l, client)
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "error_reports",
		Publisher:      pub,
	})
	return pub
}

// ProvideRefreshQueueConsumer creates the consumer side of the refresh job
// queue, or nil without Redis.
func ProvideRefreshQueueConsumer(
	client *redis.Client,
	refresher *usecase.ScoreRefresher,
	l *applogger.Logger,
) *queue.RedisQueue {
	if client == nil {
		return nil
	}
	return queue.NewRedisConsumer(l, &queue.QueueConfig{
		Workers:    2,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, client, []queue.Job{usecase.NewRefreshJob(refresher)})
}

// ProvideTrendCache fronts the trend list endpoints with Redis when
// available, in-process TTL otherwise.
func ProvideTrendCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideScoresHandler creates the HTTP handler.
func ProvideScoresHandler(
	l *applogger.Logger,
	analyzer *trends.Analyzer,
	jobs usecase.RefreshEnqueuer,
	cache icache.BytesCache,
	cfg *config.Config,
) *api.ScoresEchoHandler {
	return api.NewScoresEchoHandler(l, analyzer, jobs, cache, cfg.Trends.CacheTTL)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.ScoresEchoHandler,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaFactsHandler,
	queueConsumer *queue.RedisQueue,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, l, handler, consumer, kh, queueConsumer, chClient, producer)
}
