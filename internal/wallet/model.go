package wallet

import "time"

// Status de conta; contas suspensas ou encerradas não transacionam
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountClosed    AccountStatus = "closed"
)

// Tipos de lançamento no ledger
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxBet        TransactionType = "bet"
	TxWin        TransactionType = "win"
	TxRefund     TransactionType = "refund"
	TxBonus      TransactionType = "bonus"
	TxFee        TransactionType = "fee"
)

// Status de lançamento; "pending" só transita para "completed" ou "failed"
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxCancelled TransactionStatus = "cancelled"
)

// Status de aposta; todos os estados liquidados são terminais
type BetStatus string

const (
	BetPending   BetStatus = "pending"
	BetWon       BetStatus = "won"
	BetLost      BetStatus = "lost"
	BetCancelled BetStatus = "cancelled"
)

// Tipos de jogo aceitos nas apostas
var GameTypes = map[string]bool{
	"slots":     true,
	"blackjack": true,
	"roulette":  true,
	"baccarat":  true,
	"lottery":   true,
	"sports":    true,
	"casino":    true,
}

// Account é a identidade do usuário mais o estado da carteira.
// Saldos e agregados de vida inteira em centavos.
type Account struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Currency  string
	Status    AccountStatus

	BalanceCents        int64
	TotalDepositedCents int64
	TotalWithdrawnCents int64
	TotalWageredCents   int64
	TotalWonCents       int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile carrega dados de exibição anexados pelo chamador na primeira interação
type Profile struct {
	Email     string
	FirstName string
	LastName  string
}

// Transaction é um lançamento do ledger; amount e type são imutáveis após a criação,
// somente status e completed_at mudam.
type Transaction struct {
	ID          string
	AccountID   string
	Type        TransactionType
	AmountCents int64 // negativo para bet/withdrawal/fee
	Currency    string
	Status      TransactionStatus
	Description string
	Reference   string // único em todo o ledger

	// Correlação opcional com apostas
	GameID   string
	GameType string
	BetID    string

	Metadata map[string]any

	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Bet é o registro da aposta, distinto dos seus lançamentos no ledger.
// DebitedCents pode ser menor que AmountCents na política de cassino;
// cancelamento devolve o que foi debitado, nunca a aposta integral.
type Bet struct {
	ID           string
	AccountID    string
	GameID       string
	GameType     string
	AmountCents  int64
	DebitedCents int64
	Status       BetStatus
	PayoutCents  int64
	Details      map[string]any

	CreatedAt time.Time
	SettledAt *time.Time
}

// GameStats agrega apostas por conta e tipo de jogo
type GameStats struct {
	TotalBets        int64
	TotalWon         int64
	TotalLost        int64
	TotalAmountCents int64
	TotalPayoutCents int64
}

// Page é o recorte de paginação; resultados sempre do mais recente pro mais antigo
type Page struct {
	Page  int
	Limit int
}

// Normalize aplica os defaults de paginação usados em todas as listagens
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 200 {
		p.Limit = 50
	}
	return p
}

// Offset converte página/limite em deslocamento
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
