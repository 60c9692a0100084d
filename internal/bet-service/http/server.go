package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/casino-wallet-platform/internal/bet-service/dto"
	"github.com/radieske/casino-wallet-platform/internal/wallet"
	"github.com/radieske/casino-wallet-platform/pkg/contracts/events"
)

// BetPublisher publica os eventos do ciclo de vida de apostas
type BetPublisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Server expõe os endpoints de aposta: política estrita, política de cassino,
// liquidação, listagem e estatísticas
type Server struct {
	log    *zap.Logger
	engine *wallet.Engine
	publ   BetPublisher
}

func NewServer(log *zap.Logger, engine *wallet.Engine, publ BetPublisher) *Server {
	return &Server{log: log, engine: engine, publ: publ}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets", s.bets)               // POST (estrita) | GET ?accountId=...
	mux.HandleFunc("/casino/bets", s.placeCasino) // POST (débito limitado)
	mux.HandleFunc("/bets/stats", s.gameStats)    // GET ?accountId=&gameType=
	mux.HandleFunc("/bets/", s.settleBet)         // POST /bets/{id}/settle
	return mux
}

func (s *Server) bets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.placeStrict(w, r)
	case http.MethodGet:
		s.listBets(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// placeStrict cria aposta pela política estrita: saldo insuficiente rejeita
func (s *Server) placeStrict(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	res, err := s.engine.PlaceBet(r.Context(), placeBetInput(req))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishPlaced(r.Context(), res, "strict")
	writeJSON(w, placeBetResponse(res))
}

// placeCasino cria aposta pela política de cassino: nunca bloqueia o jogo,
// o débito é limitado pra que o saldo não fique negativo
func (s *Server) placeCasino(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	res, err := s.engine.PlaceCasinoBet(r.Context(), placeBetInput(req))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishPlaced(r.Context(), res, "casino")
	writeJSON(w, placeBetResponse(res))
}

// settleBet trata POST /bets/{id}/settle
func (s *Server) settleBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/bets/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "settle" {
		http.Error(w, "betId required", http.StatusBadRequest)
		return
	}
	betID := parts[0]

	var req dto.SettleBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	res, err := s.engine.SettleBet(r.Context(), wallet.SettleBetInput{
		BetID:       betID,
		AccountID:   req.AccountID,
		Outcome:     wallet.BetStatus(req.Outcome),
		PayoutCents: req.PayoutCents,
		Details:     req.Details,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.publ != nil {
		evt := events.BetSettled{
			BetID:           res.Bet.ID,
			AccountID:       res.Bet.AccountID,
			Outcome:         string(res.Bet.Status),
			PayoutCents:     res.Bet.PayoutCents,
			NewBalanceCents: res.NewBalanceCents,
			Ts:              time.Now(),
		}
		if perr := s.publ.PublishBetSettled(r.Context(), evt); perr != nil {
			s.log.Warn("publish bet_settled", zap.Error(perr))
		}
	}

	writeJSON(w, dto.SettleBetResponse{
		Bet:             betResponse(res.Bet),
		NewBalanceCents: res.NewBalanceCents,
	})
}

// listBets pagina as apostas da conta, mais recente primeiro
func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	p := wallet.Page{Page: page, Limit: limit}.Normalize()

	bets, total, err := s.engine.ListBets(r.Context(), accountID, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]dto.BetResponse, 0, len(bets))
	for i := range bets {
		out = append(out, betResponse(&bets[i]))
	}
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	writeJSON(w, dto.BetListResponse{
		Bets:       out,
		Pagination: dto.Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages},
	})
}

// gameStats agrega apostas da conta por tipo de jogo
func (s *Server) gameStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	accountID := r.URL.Query().Get("accountId")
	gameType := r.URL.Query().Get("gameType")
	if accountID == "" || gameType == "" {
		http.Error(w, "accountId and gameType required", http.StatusBadRequest)
		return
	}
	stats, err := s.engine.GameStats(r.Context(), accountID, gameType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.GameStatsResponse{
		GameType:         gameType,
		TotalBets:        stats.TotalBets,
		TotalWon:         stats.TotalWon,
		TotalLost:        stats.TotalLost,
		TotalAmountCents: stats.TotalAmountCents,
		TotalPayoutCents: stats.TotalPayoutCents,
	})
}

func (s *Server) publishPlaced(ctx context.Context, res *wallet.PlaceBetResult, policy string) {
	if s.publ == nil {
		return
	}
	err := s.publ.PublishBetPlaced(ctx, events.BetPlaced{
		BetID:       res.Bet.ID,
		AccountID:   res.Bet.AccountID,
		GameID:      res.Bet.GameID,
		GameType:    res.Bet.GameType,
		AmountCents: res.Bet.AmountCents,
		Policy:      policy,
		Reference:   res.Reference,
	})
	if err != nil {
		s.log.Warn("publish bet_placed", zap.Error(err))
	}
}

// writeError converte a taxonomia de erros do engine em status HTTP
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, wallet.ErrAccountNotFound),
		errors.Is(err, wallet.ErrBetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, wallet.ErrAccountSuspended),
		errors.Is(err, wallet.ErrAccountClosed):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrBetAlreadySettled),
		errors.Is(err, wallet.ErrDuplicateReference),
		errors.Is(err, wallet.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("bet op failed", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

func placeBetInput(req dto.PlaceBetRequest) wallet.PlaceBetInput {
	return wallet.PlaceBetInput{
		AccountID:   req.AccountID,
		GameID:      req.GameID,
		GameType:    req.GameType,
		AmountCents: req.AmountCents,
		Details:     req.Details,
		Profile: wallet.Profile{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
	}
}

func placeBetResponse(res *wallet.PlaceBetResult) dto.PlaceBetResponse {
	return dto.PlaceBetResponse{
		Bet:             betResponse(res.Bet),
		Reference:       res.Reference,
		DebitedCents:    res.DebitedCents,
		NewBalanceCents: res.NewBalanceCents,
	}
}

func betResponse(b *wallet.Bet) dto.BetResponse {
	return dto.BetResponse{
		BetID:        b.ID,
		GameID:       b.GameID,
		GameType:     b.GameType,
		AmountCents:  b.AmountCents,
		DebitedCents: b.DebitedCents,
		Status:       string(b.Status),
		PayoutCents:  b.PayoutCents,
		CreatedAt:    b.CreatedAt,
		SettledAt:    b.SettledAt,
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
