package events

import "time"

// Evento emitido pelo wallet-service após aprovação ou rejeição de uma transação pendente.
type TransactionDecided struct {
	TransactionID   string    `json:"transaction_id"`
	AccountID       string    `json:"account_id"`
	Type            string    `json:"type"`     // "deposit" | "withdrawal"
	Decision        string    `json:"decision"` // "approved" | "rejected"
	AmountCents     int64     `json:"amount_cents"`
	NewBalanceCents int64     `json:"new_balance_cents,omitempty"`
	Ts              time.Time `json:"ts"`
}
