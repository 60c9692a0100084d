package main

import (
	"context"
	"encoding/json"
	"net/http"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/casino-wallet-platform/internal/shared/config"
	"github.com/radieske/casino-wallet-platform/internal/shared/db"
	skafka "github.com/radieske/casino-wallet-platform/internal/shared/kafka"
	"github.com/radieske/casino-wallet-platform/internal/shared/logger"
	"github.com/radieske/casino-wallet-platform/internal/shared/metrics"
	"github.com/radieske/casino-wallet-platform/internal/wallet"
	wrepo "github.com/radieske/casino-wallet-platform/internal/wallet/repo"
	whttp "github.com/radieske/casino-wallet-platform/internal/wallet-service/http"
	"github.com/radieske/casino-wallet-platform/pkg/contracts/events"
)

// decisionPublisher envia as decisões administrativas pro Kafka
type decisionPublisher struct {
	writer *kafkago.Writer
}

func (p *decisionPublisher) PublishTransactionDecided(ctx context.Context, e events.TransactionDecided) error {
	b, _ := json.Marshal(e)
	return skafka.WriteJSON(ctx, p.writer, e.TransactionID, b)
}

func main() {
	cfg := config.Load()

	log, err := logger.New("wallet-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Conexão com Postgres para contas, ledger e apostas
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (decisões administrativas)
	decidedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTransactionDecided)
	defer decidedWriter.Close()

	// Núcleo: store Postgres + engine de operações de carteira
	store := wrepo.NewPostgres(pg)
	engine := wallet.NewEngine(store, log, cfg.DefaultCurrency)
	api := whttp.NewServer(log, engine, &decisionPublisher{writer: decidedWriter})

	// Servidor de métricas e health check
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	// Servidor HTTP público (API de wallet)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort, // ex: 8082
		Handler: api.Router(),
	}
	log.Info("api listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
