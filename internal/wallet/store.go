package wallet

import (
	"context"
	"time"
)

// Aggregate identifica o contador de vida inteira atualizado junto com o saldo
type Aggregate string

const (
	AggNone      Aggregate = ""
	AggDeposited Aggregate = "deposited"
	AggWithdrawn Aggregate = "withdrawn"
	AggWagered   Aggregate = "wagered"
	AggWon       Aggregate = "won"
)

// BalanceChange descreve uma mutação atômica de saldo: delta, agregado e o
// lançamento do ledger associado aplicados juntos ou nada.
// Entry insere um lançamento novo; CompleteEntryID conclui um lançamento
// pendente existente na mesma transação.
type BalanceChange struct {
	AccountID      string
	DeltaCents     int64
	Aggregate      Aggregate
	AggregateCents int64

	// AllowNegative libera saldo negativo (só ajustes administrativos)
	AllowNegative bool

	Entry           *Transaction
	CompleteEntryID string
	CompletedAt     time.Time
}

// Store é o contrato de persistência do núcleo de carteira.
// Implementações: Postgres (produção) e memória (testes/local).
type Store interface {
	// Contas
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetOrCreateAccount(ctx context.Context, id string, currency string, profile Profile) (*Account, error)
	FindAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccountProfile(ctx context.Context, id string, profile Profile) error

	// ApplyBalance aplica delta + agregado + lançamento numa única transação,
	// com a linha da conta travada. Retorna o novo saldo.
	ApplyBalance(ctx context.Context, change BalanceChange) (int64, error)

	// Ledger
	InsertTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	MarkTransactionStatus(ctx context.Context, id string, status TransactionStatus, completedAt time.Time) error
	ListTransactions(ctx context.Context, accountID string, page Page) ([]Transaction, int64, error)
	ListPendingByType(ctx context.Context, txType TransactionType) ([]Transaction, error)

	// Apostas
	CreateBet(ctx context.Context, bet *Bet) error
	GetBet(ctx context.Context, betID, accountID string) (*Bet, error)
	SettleBet(ctx context.Context, betID string, status BetStatus, payoutCents int64, settledAt time.Time) error
	ListBets(ctx context.Context, accountID string, page Page) ([]Bet, int64, error)
	GameStats(ctx context.Context, accountID, gameType string) (*GameStats, error)
}
