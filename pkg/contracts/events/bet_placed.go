package events

type BetPlaced struct {
	BetID       string `json:"bet_id"`
	AccountID   string `json:"account_id"`
	GameID      string `json:"game_id"`
	GameType    string `json:"game_type"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Policy      string `json:"policy"` // "strict" | "casino"
	Reference   string `json:"reference"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}
