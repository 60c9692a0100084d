package topics

const (
	// Apostas
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"

	// Resultados enviados pelos motores de jogo
	GameResults    = "game_results"
	GameResultsDLQ = "game_results_dlq"

	// Decisões administrativas sobre depósitos/saques pendentes
	TransactionDecided = "transaction_decided"
)
