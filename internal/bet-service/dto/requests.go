package dto

type PlaceBetRequest struct {
	AccountID   string         `json:"accountId"`
	GameID      string         `json:"gameId"`
	GameType    string         `json:"gameType"` // ex: "slots", "blackjack"
	AmountCents int64          `json:"amount_cents"`
	Details     map[string]any `json:"details,omitempty"`
	Email       string         `json:"email,omitempty"`
	FirstName   string         `json:"firstName,omitempty"`
	LastName    string         `json:"lastName,omitempty"`
}

type SettleBetRequest struct {
	AccountID   string         `json:"accountId"`
	Outcome     string         `json:"outcome"` // "won" | "lost" | "cancelled"
	PayoutCents int64          `json:"payout_cents"`
	Details     map[string]any `json:"details,omitempty"`
}
