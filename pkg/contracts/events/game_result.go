package events

// Resultado de rodada publicado pelos motores de jogo no tópico "game_results"
// ResultID identifica a entrega; redeliveries carregam o mesmo ResultID
type GameResult struct {
	ResultID    string `json:"result_id"`
	BetID       string `json:"bet_id"`
	AccountID   string `json:"account_id"`
	GameID      string `json:"game_id"`
	GameType    string `json:"game_type"`
	Outcome     string `json:"outcome"` // "won" | "lost" | "cancelled"
	PayoutCents int64  `json:"payout_cents"`
	TsUnixMs    int64  `json:"ts_unix_ms"`
}
