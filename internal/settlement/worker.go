package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/casino-wallet-platform/internal/shared/kafka"
	"github.com/radieske/casino-wallet-platform/internal/wallet"
	ev "github.com/radieske/casino-wallet-platform/pkg/contracts/events"
)

// Worker consome resultados de jogo do Kafka, liquida as apostas pelo engine
// e publica bet_settled. Redeliveries são ignoradas pelo dedupe e pela rejeição
// de liquidação dupla do próprio engine.
type Worker struct {
	log     *zap.Logger
	engine  *wallet.Engine
	reader  *kafkago.Reader
	settled *kafkago.Writer
	dlq     *kafkago.Writer
	dedupe  Dedupe
}

func NewWorker(log *zap.Logger, engine *wallet.Engine, reader *kafkago.Reader, settled, dlq *kafkago.Writer, dedupe Dedupe) *Worker {
	return &Worker{log: log, engine: engine, reader: reader, settled: settled, dlq: dlq, dedupe: dedupe}
}

// Run roda o loop principal até o contexto ser cancelado
func (w *Worker) Run(ctx context.Context) error {
	for {
		_, value, err := kafka.ReadNext(ctx, w.reader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var result ev.GameResult
		if jerr := json.Unmarshal(value, &result); jerr != nil {
			w.log.Error("unmarshal game_result", zap.Error(jerr))
			w.toDLQ(ctx, value)
			continue
		}

		if err := w.ProcessResult(ctx, result); err != nil {
			w.log.Error("process game result",
				zap.String("betId", result.BetID),
				zap.Error(err),
			)
			// Backoff simples pra evitar flood em caso de erro de storage
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// ProcessResult liquida uma aposta a partir do resultado do jogo.
// Resultados repetidos e apostas já liquidadas são tratados como benignos;
// resultados malformados ou órfãos vão pra DLQ.
func (w *Worker) ProcessResult(ctx context.Context, result ev.GameResult) error {
	if w.dedupe != nil && result.ResultID != "" {
		seen, err := w.dedupe.Seen(ctx, result.ResultID)
		if err != nil {
			w.log.Warn("dedupe check", zap.Error(err))
		} else if seen {
			w.log.Debug("duplicate game result ignored", zap.String("resultId", result.ResultID))
			return nil
		}
	}

	res, err := w.engine.SettleBet(ctx, wallet.SettleBetInput{
		BetID:       result.BetID,
		AccountID:   result.AccountID,
		Outcome:     wallet.BetStatus(result.Outcome),
		PayoutCents: result.PayoutCents,
	})
	switch {
	case errors.Is(err, wallet.ErrBetAlreadySettled):
		w.log.Info("bet already settled, skipping", zap.String("betId", result.BetID))
		return nil
	case errors.Is(err, wallet.ErrBetNotFound), errors.Is(err, wallet.ErrValidation):
		w.toDLQ(ctx, mustJSON(result))
		return nil
	case err != nil:
		return err
	}

	evc := ev.BetSettled{
		BetID:           res.Bet.ID,
		AccountID:       res.Bet.AccountID,
		Outcome:         string(res.Bet.Status),
		PayoutCents:     res.Bet.PayoutCents,
		NewBalanceCents: res.NewBalanceCents,
		Ts:              time.Now(),
	}
	if w.settled != nil {
		if perr := kafka.WriteJSON(ctx, w.settled, res.Bet.ID, mustJSON(evc)); perr != nil {
			w.log.Warn("publish bet_settled", zap.Error(perr))
		}
	}
	return nil
}

func (w *Worker) toDLQ(ctx context.Context, payload []byte) {
	if w.dlq == nil {
		return
	}
	if err := kafka.WriteJSON(ctx, w.dlq, "", payload); err != nil {
		w.log.Error("write dlq", zap.Error(err))
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
