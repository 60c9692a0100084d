package events

import "time"

// Evento emitido após a liquidação de uma aposta.
type BetSettled struct {
	BetID           string    `json:"bet_id"`
	AccountID       string    `json:"account_id"`
	Outcome         string    `json:"outcome"` // "won" | "lost" | "cancelled"
	PayoutCents     int64     `json:"payout_cents"`
	NewBalanceCents int64     `json:"new_balance_cents"`
	Ts              time.Time `json:"ts"`
}
