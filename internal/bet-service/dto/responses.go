package dto

import "time"

type BetResponse struct {
	BetID        string     `json:"betId"`
	GameID       string     `json:"gameId,omitempty"`
	GameType     string     `json:"gameType"`
	AmountCents  int64      `json:"amount_cents"`
	DebitedCents int64      `json:"debited_cents"`
	Status       string     `json:"status"`
	PayoutCents  int64      `json:"payout_cents"`
	CreatedAt    time.Time  `json:"created_at"`
	SettledAt    *time.Time `json:"settled_at,omitempty"`
}

type PlaceBetResponse struct {
	Bet             BetResponse `json:"bet"`
	Reference       string      `json:"reference"`
	DebitedCents    int64       `json:"debited_cents"`
	NewBalanceCents int64       `json:"new_balance_cents"`
}

type SettleBetResponse struct {
	Bet             BetResponse `json:"bet"`
	NewBalanceCents int64       `json:"new_balance_cents"`
}

type BetListResponse struct {
	Bets       []BetResponse `json:"bets"`
	Pagination Pagination    `json:"pagination"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type GameStatsResponse struct {
	GameType         string `json:"gameType"`
	TotalBets        int64  `json:"total_bets"`
	TotalWon         int64  `json:"total_won"`
	TotalLost        int64  `json:"total_lost"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	TotalPayoutCents int64  `json:"total_payout_cents"`
}
