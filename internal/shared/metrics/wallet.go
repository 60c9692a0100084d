package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores das operações de carteira, particionados por operação e resultado
// Registrados no registry global; expostos pelo servidor de /metrics de cada serviço
var (
	WalletOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "casino_wallet",
			Name:      "operations_total",
			Help:      "Total de operações de carteira, por operação e resultado.",
		},
		[]string{"op", "result"},
	)

	BetsPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "casino_wallet",
			Name:      "bets_placed_total",
			Help:      "Total de apostas criadas, por política de débito.",
		},
		[]string{"policy"},
	)

	BetsSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "casino_wallet",
			Name:      "bets_settled_total",
			Help:      "Total de apostas liquidadas, por desfecho.",
		},
		[]string{"outcome"},
	)

	ApprovalDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "casino_wallet",
			Name:      "approval_decisions_total",
			Help:      "Total de decisões administrativas sobre transações pendentes.",
		},
		[]string{"decision"},
	)
)
