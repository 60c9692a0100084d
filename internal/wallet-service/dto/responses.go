package dto

import "time"

type BalanceResponse struct {
	AccountID    string `json:"accountId"`
	Email        string `json:"email"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	BalanceCents int64  `json:"balance_cents"`
	Stats        Stats  `json:"stats"`
}

type Stats struct {
	TotalDepositedCents int64 `json:"total_deposited_cents"`
	TotalWithdrawnCents int64 `json:"total_withdrawn_cents"`
	TotalWageredCents   int64 `json:"total_wagered_cents"`
	TotalWonCents       int64 `json:"total_won_cents"`
}

type TransactionResponse struct {
	ID          string         `json:"id"`
	AccountID   string         `json:"accountId"`
	Type        string         `json:"type"`
	AmountCents int64          `json:"amount_cents"`
	Currency    string         `json:"currency"`
	Status      string         `json:"status"`
	Description string         `json:"description"`
	Reference   string         `json:"reference"`
	GameID      string         `json:"gameId,omitempty"`
	GameType    string         `json:"gameType,omitempty"`
	BetID       string         `json:"betId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

type FundsResponse struct {
	Transaction     TransactionResponse `json:"transaction"`
	NewBalanceCents int64               `json:"new_balance_cents"`
}

type DecisionResponse struct {
	Transaction     TransactionResponse `json:"transaction"`
	NewBalanceCents int64               `json:"new_balance_cents,omitempty"`
}

type AdjustResponse struct {
	Transaction     TransactionResponse `json:"transaction"`
	OldBalanceCents int64               `json:"old_balance_cents"`
	NewBalanceCents int64               `json:"new_balance_cents"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   Pagination            `json:"pagination"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type PendingListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}
