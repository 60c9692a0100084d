package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/casino-wallet-platform/internal/settlement"
	"github.com/radieske/casino-wallet-platform/internal/shared/cache"
	"github.com/radieske/casino-wallet-platform/internal/shared/config"
	"github.com/radieske/casino-wallet-platform/internal/shared/db"
	skafka "github.com/radieske/casino-wallet-platform/internal/shared/kafka"
	"github.com/radieske/casino-wallet-platform/internal/shared/logger"
	"github.com/radieske/casino-wallet-platform/internal/shared/metrics"
	"github.com/radieske/casino-wallet-platform/internal/wallet"
	wrepo "github.com/radieske/casino-wallet-platform/internal/wallet/repo"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("settlement-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres pra liquidação das apostas
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis pra deduplicação de entregas
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka: consome game_results, publica bet_settled, DLQ pra mensagens podres
	reader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicGameResults, "settlement-worker")
	defer reader.Close()
	settledWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()
	dlqWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicGameResultsDLQ)
	defer dlqWriter.Close()

	store := wrepo.NewPostgres(pg)
	engine := wallet.NewEngine(store, log, cfg.DefaultCurrency)
	dedupe := settlement.NewRedisDedupe(rdb, 24*time.Hour)
	worker := settlement.NewWorker(log, engine, reader, settledWriter, dlqWriter, dedupe)

	// Servidor de métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicGameResults),
		zap.String("publish", cfg.TopicBetSettled),
	)

	if err := worker.Run(context.Background()); err != nil && err != context.Canceled {
		log.Fatal("worker", zap.Error(err))
	}
}
