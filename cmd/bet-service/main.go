package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	bhttp "github.com/radieske/casino-wallet-platform/internal/bet-service/http"
	"github.com/radieske/casino-wallet-platform/internal/bet-service/producer"
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

	log, err := logger.New("bet-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writers (bet_placed, bet_settled)
	placedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer placedWriter.Close()
	settledWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()

	// deps
	store := wrepo.NewPostgres(pg)
	engine := wallet.NewEngine(store, log, cfg.DefaultCurrency)
	publ := producer.NewKafkaPublisher(placedWriter, settledWriter)

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// HTTP público
	api := bhttp.NewServer(log, engine, publ)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort, // ex: 8083
		Handler: api.Router(),
	}
	log.Info("bet-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
