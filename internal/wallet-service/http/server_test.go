package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/casino-wallet-platform/internal/wallet"
	"github.com/radieske/casino-wallet-platform/internal/wallet-service/dto"
	"github.com/radieske/casino-wallet-platform/internal/wallet/repo"
	"github.com/radieske/casino-wallet-platform/pkg/contracts/events"
)

type capturedDecisions struct {
	decided []events.TransactionDecided
}

func (c *capturedDecisions) PublishTransactionDecided(_ context.Context, e events.TransactionDecided) error {
	c.decided = append(c.decided, e)
	return nil
}

func newTestServer(t *testing.T) (http.Handler, *wallet.Engine, *capturedDecisions) {
	t.Helper()
	engine := wallet.NewEngine(repo.NewMemory(), zap.NewNop(), "INR")
	publ := &capturedDecisions{}
	return NewServer(zap.NewNop(), engine, publ).Router(), engine, publ
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestDepositAndBalance(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/deposit", dto.DepositRequest{
		AccountID:   "u1",
		AmountCents: 500,
		Profile:     dto.ProfilePayload{Email: "u1@casino.example"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.FundsResponse](t, rec)
	require.Equal(t, int64(500), res.NewBalanceCents)
	require.Equal(t, "completed", res.Transaction.Status)
	require.NotEmpty(t, res.Transaction.Reference)

	rec = doJSON(t, h, http.MethodGet, "/wallet?accountId=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bal := decode[dto.BalanceResponse](t, rec)
	require.Equal(t, int64(500), bal.BalanceCents)
	require.Equal(t, "u1@casino.example", bal.Email)
	require.Equal(t, int64(500), bal.Stats.TotalDepositedCents)
}

func TestBalanceRequiresAccountID(t *testing.T) {
	h, _, _ := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/wallet", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/deposit", dto.DepositRequest{
		AccountID: "u1", AmountCents: 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/wallet/withdraw", dto.WithdrawRequest{
		AccountID: "u1", AmountCents: 200,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestWithdrawValidation(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/withdraw", dto.WithdrawRequest{
		AccountID: "u1", AmountCents: -5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/wallet/withdraw", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApprovalFlowOverHTTP(t *testing.T) {
	h, _, publ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/deposit", dto.DepositRequest{
		AccountID: "u1", AmountCents: 2000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/wallet/withdraw", dto.WithdrawRequest{
		AccountID: "u1", AmountCents: 1000, RequiresApproval: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	pendingRes := decode[dto.FundsResponse](t, rec)
	require.Equal(t, "pending", pendingRes.Transaction.Status)
	require.Equal(t, int64(2000), pendingRes.NewBalanceCents)

	rec = doJSON(t, h, http.MethodGet, "/admin/transactions/pending?type=withdrawal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	queue := decode[dto.PendingListResponse](t, rec)
	require.Len(t, queue.Transactions, 1)
	txID := queue.Transactions[0].ID

	rec = doJSON(t, h, http.MethodPost, "/admin/transactions/"+txID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decided := decode[dto.DecisionResponse](t, rec)
	require.Equal(t, "completed", decided.Transaction.Status)
	require.Equal(t, int64(1000), decided.NewBalanceCents)

	require.Len(t, publ.decided, 1)
	require.Equal(t, "approved", publ.decided[0].Decision)
	require.Equal(t, txID, publ.decided[0].TransactionID)

	// decidir de novo conflita
	rec = doJSON(t, h, http.MethodPost, "/admin/transactions/"+txID+"/approve", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRejectOverHTTP(t *testing.T) {
	h, _, publ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/deposit", dto.DepositRequest{
		AccountID: "u1", AmountCents: 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/wallet/deposit", dto.DepositRequest{
		AccountID: "u1", AmountCents: 300, RequiresApproval: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.FundsResponse](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/admin/transactions/"+res.Transaction.ID+"/reject", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decided := decode[dto.DecisionResponse](t, rec)
	require.Equal(t, "failed", decided.Transaction.Status)
	// resposta e evento carregam o saldo real, não o zero value
	require.Equal(t, int64(100), decided.NewBalanceCents)

	require.Len(t, publ.decided, 1)
	require.Equal(t, "rejected", publ.decided[0].Decision)
	require.Equal(t, int64(100), publ.decided[0].NewBalanceCents)

	// o depósito pendente nunca foi creditado
	rec = doJSON(t, h, http.MethodGet, "/wallet?accountId=u1", nil)
	bal := decode[dto.BalanceResponse](t, rec)
	require.Equal(t, int64(100), bal.BalanceCents)
}

func TestDecisionRouting(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/admin/transactions/abc/burn", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/admin/transactions/missing/approve", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/admin/transactions/abc/approve", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAdjustOverHTTP(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/adjust", dto.AdjustRequest{
		AccountID: "u1", DeltaCents: 250, Reason: "welcome bonus",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.AdjustResponse](t, rec)
	require.Zero(t, res.OldBalanceCents)
	require.Equal(t, int64(250), res.NewBalanceCents)
	require.Equal(t, "bonus", res.Transaction.Type)
}

func TestSyncAccountOverHTTP(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/wallet/sync", dto.SyncAccountRequest{
		AccountID: "u1", Email: "sync@casino.example", FirstName: "Ana",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.BalanceResponse](t, rec)
	require.Equal(t, "sync@casino.example", res.Email)
	require.Equal(t, "active", res.Status)
}

func TestListTransactionsPagination(t *testing.T) {
	h, _, _ := newTestServer(t)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/wallet/deposit", dto.DepositRequest{
			AccountID: "u1", AmountCents: 100,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, h, http.MethodGet, "/wallet/transactions?accountId=u1&page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.TransactionListResponse](t, rec)
	require.Len(t, res.Transactions, 2)
	require.Equal(t, int64(3), res.Pagination.Total)
	require.Equal(t, int64(2), res.Pagination.Pages)
	require.Equal(t, 2, res.Pagination.Limit)
}

func TestBadJSONBody(t *testing.T) {
	h, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/wallet/deposit", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
