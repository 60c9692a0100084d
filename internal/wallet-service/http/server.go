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

	"github.com/radieske/casino-wallet-platform/internal/wallet"
	"github.com/radieske/casino-wallet-platform/internal/wallet-service/dto"
	"github.com/radieske/casino-wallet-platform/pkg/contracts/events"
)

// DecisionPublisher publica os eventos de decisão administrativa
type DecisionPublisher interface {
	PublishTransactionDecided(ctx context.Context, e events.TransactionDecided) error
}

// Server expõe endpoints HTTP para operações de carteira e fila administrativa
type Server struct {
	log    *zap.Logger
	engine *wallet.Engine
	publ   DecisionPublisher
}

// NewServer instancia o servidor HTTP de wallet; publ pode ser nil em testes
func NewServer(log *zap.Logger, engine *wallet.Engine, publ DecisionPublisher) *Server {
	return &Server{log: log, engine: engine, publ: publ}
}

// Router retorna o mux HTTP com as rotas da API de wallet
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet", s.getBalance)                       // GET ?accountId=...
	mux.HandleFunc("/wallet/deposit", s.deposit)                  // POST
	mux.HandleFunc("/wallet/withdraw", s.withdraw)                // POST
	mux.HandleFunc("/wallet/adjust", s.adjust)                    // POST
	mux.HandleFunc("/wallet/sync", s.syncAccount)                 // POST
	mux.HandleFunc("/wallet/transactions", s.listTransactions)    // GET ?accountId=...
	mux.HandleFunc("/admin/transactions/pending", s.listPending)  // GET ?type=...
	mux.HandleFunc("/admin/transactions/", s.decideTransaction)   // POST /{id}/approve|reject
	return mux
}

// getBalance retorna (ou cria) a conta com saldo e agregados
func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	acc, err := s.engine.GetBalance(r.Context(), accountID, wallet.Profile{
		Email: r.URL.Query().Get("email"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.BalanceResponse{
		AccountID:    acc.ID,
		Email:        acc.Email,
		Currency:     acc.Currency,
		Status:       string(acc.Status),
		BalanceCents: acc.BalanceCents,
		Stats: dto.Stats{
			TotalDepositedCents: acc.TotalDepositedCents,
			TotalWithdrawnCents: acc.TotalWithdrawnCents,
			TotalWageredCents:   acc.TotalWageredCents,
			TotalWonCents:       acc.TotalWonCents,
		},
	})
}

// deposit credita a conta ou registra depósito pendente de aprovação
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if !decodePost(w, r, &req) {
		return
	}
	res, err := s.engine.RecordDeposit(r.Context(), wallet.FundsInput{
		AccountID:        req.AccountID,
		AmountCents:      req.AmountCents,
		RequiresApproval: req.RequiresApproval,
		Metadata:         req.Metadata,
		Profile: wallet.Profile{
			Email:     req.Profile.Email,
			FirstName: req.Profile.FirstName,
			LastName:  req.Profile.LastName,
		},
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.FundsResponse{
		Transaction:     toTransactionResponse(res.Transaction),
		NewBalanceCents: res.NewBalanceCents,
	})
}

// withdraw debita a conta ou registra saque pendente de aprovação
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if !decodePost(w, r, &req) {
		return
	}
	res, err := s.engine.RecordWithdrawal(r.Context(), wallet.FundsInput{
		AccountID:        req.AccountID,
		AmountCents:      req.AmountCents,
		RequiresApproval: req.RequiresApproval,
		Metadata:         req.Metadata,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.FundsResponse{
		Transaction:     toTransactionResponse(res.Transaction),
		NewBalanceCents: res.NewBalanceCents,
	})
}

// adjust aplica delta administrativo incondicional no saldo
func (s *Server) adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustRequest
	if !decodePost(w, r, &req) {
		return
	}
	res, err := s.engine.AdjustBalance(r.Context(), req.AccountID, req.DeltaCents, req.Reason)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.AdjustResponse{
		Transaction:     toTransactionResponse(res.Transaction),
		OldBalanceCents: res.OldBalanceCents,
		NewBalanceCents: res.NewBalanceCents,
	})
}

// syncAccount faz upsert dos dados de perfil vindos do provedor de identidade
func (s *Server) syncAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.SyncAccountRequest
	if !decodePost(w, r, &req) {
		return
	}
	acc, err := s.engine.SyncAccount(r.Context(), req.AccountID, wallet.Profile{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.BalanceResponse{
		AccountID:    acc.ID,
		Email:        acc.Email,
		Currency:     acc.Currency,
		Status:       string(acc.Status),
		BalanceCents: acc.BalanceCents,
		Stats: dto.Stats{
			TotalDepositedCents: acc.TotalDepositedCents,
			TotalWithdrawnCents: acc.TotalWithdrawnCents,
			TotalWageredCents:   acc.TotalWageredCents,
			TotalWonCents:       acc.TotalWonCents,
		},
	})
}

// listTransactions pagina o ledger da conta, mais recente primeiro
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	accountID := r.URL.Query().Get("accountId")
	if accountID == "" {
		http.Error(w, "accountId required", http.StatusBadRequest)
		return
	}
	page := parsePage(r)
	txs, total, err := s.engine.ListTransactions(r.Context(), accountID, page)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionResponse(&txs[i]))
	}
	writeJSON(w, dto.TransactionListResponse{
		Transactions: out,
		Pagination:   pagination(page, total),
	})
}

// listPending retorna a fila de aprovação administrativa por tipo
func (s *Server) listPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	txType := wallet.TransactionType(r.URL.Query().Get("type"))
	if txType == "" {
		txType = wallet.TxDeposit
	}
	txs, err := s.engine.PendingTransactions(r.Context(), txType)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionResponse(&txs[i]))
	}
	writeJSON(w, dto.PendingListResponse{Transactions: out})
}

// decideTransaction trata POST /admin/transactions/{id}/approve e /{id}/reject
func (s *Server) decideTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/admin/transactions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "transactionId and decision required", http.StatusBadRequest)
		return
	}
	id, decision := parts[0], parts[1]

	var res *wallet.DecisionResult
	var err error
	switch decision {
	case "approve":
		res, err = s.engine.ApproveTransaction(r.Context(), id)
	case "reject":
		res, err = s.engine.RejectTransaction(r.Context(), id)
	default:
		http.Error(w, "decision must be approve or reject", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.publ != nil {
		evt := events.TransactionDecided{
			TransactionID:   res.Transaction.ID,
			AccountID:       res.Transaction.AccountID,
			Type:            string(res.Transaction.Type),
			Decision:        "approved",
			AmountCents:     res.Transaction.AmountCents,
			NewBalanceCents: res.NewBalanceCents,
			Ts:              time.Now(),
		}
		if decision == "reject" {
			evt.Decision = "rejected"
		}
		if perr := s.publ.PublishTransactionDecided(r.Context(), evt); perr != nil {
			s.log.Warn("publish transaction_decided", zap.Error(perr))
		}
	}

	writeJSON(w, dto.DecisionResponse{
		Transaction:     toTransactionResponse(res.Transaction),
		NewBalanceCents: res.NewBalanceCents,
	})
}

// writeError converte a taxonomia de erros do engine em status HTTP
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, wallet.ErrAccountNotFound),
		errors.Is(err, wallet.ErrTransactionNotFound),
		errors.Is(err, wallet.ErrBetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, wallet.ErrAccountSuspended),
		errors.Is(err, wallet.ErrAccountClosed):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrTransactionNotPending),
		errors.Is(err, wallet.ErrBetAlreadySettled),
		errors.Is(err, wallet.ErrDuplicateReference),
		errors.Is(err, wallet.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("wallet op failed", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

// decodePost valida método e decodifica o corpo JSON
func decodePost(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return false
	}
	return true
}

func parsePage(r *http.Request) wallet.Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return wallet.Page{Page: page, Limit: limit}.Normalize()
}

func pagination(page wallet.Page, total int64) dto.Pagination {
	pages := total / int64(page.Limit)
	if total%int64(page.Limit) != 0 {
		pages++
	}
	return dto.Pagination{Page: page.Page, Limit: page.Limit, Total: total, Pages: pages}
}

func toTransactionResponse(t *wallet.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		AmountCents: t.AmountCents,
		Currency:    t.Currency,
		Status:      string(t.Status),
		Description: t.Description,
		Reference:   t.Reference,
		GameID:      t.GameID,
		GameType:    t.GameType,
		BetID:       t.BetID,
		Metadata:    t.Metadata,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
