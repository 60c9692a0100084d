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

	"github.com/radieske/casino-wallet-platform/internal/bet-service/dto"
	"github.com/radieske/casino-wallet-platform/internal/wallet"
	"github.com/radieske/casino-wallet-platform/internal/wallet/repo"
	"github.com/radieske/casino-wallet-platform/pkg/contracts/events"
)

type capturedBets struct {
	placed  []events.BetPlaced
	settled []events.BetSettled
}

func (c *capturedBets) PublishBetPlaced(_ context.Context, e events.BetPlaced) error {
	c.placed = append(c.placed, e)
	return nil
}

func (c *capturedBets) PublishBetSettled(_ context.Context, e events.BetSettled) error {
	c.settled = append(c.settled, e)
	return nil
}

func newTestServer(t *testing.T) (http.Handler, *wallet.Engine, *capturedBets) {
	t.Helper()
	engine := wallet.NewEngine(repo.NewMemory(), zap.NewNop(), "INR")
	publ := &capturedBets{}
	return NewServer(zap.NewNop(), engine, publ).Router(), engine, publ
}

func fundAccount(t *testing.T, engine *wallet.Engine, accountID string, cents int64) {
	t.Helper()
	_, err := engine.RecordDeposit(context.Background(), wallet.FundsInput{
		AccountID:   accountID,
		AmountCents: cents,
	})
	require.NoError(t, err)
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

func TestPlaceStrictBet(t *testing.T) {
	h, engine, publ := newTestServer(t)
	fundAccount(t, engine, "u1", 500)

	rec := doJSON(t, h, http.MethodPost, "/bets", dto.PlaceBetRequest{
		AccountID: "u1", GameID: "g1", GameType: "blackjack", AmountCents: 200,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.PlaceBetResponse](t, rec)
	require.Equal(t, int64(300), res.NewBalanceCents)
	require.Equal(t, int64(200), res.DebitedCents)
	require.Equal(t, "pending", res.Bet.Status)

	require.Len(t, publ.placed, 1)
	require.Equal(t, "strict", publ.placed[0].Policy)
	require.Equal(t, res.Bet.BetID, publ.placed[0].BetID)
}

func TestPlaceStrictBetInsufficientFunds(t *testing.T) {
	h, engine, publ := newTestServer(t)
	fundAccount(t, engine, "u1", 100)

	rec := doJSON(t, h, http.MethodPost, "/bets", dto.PlaceBetRequest{
		AccountID: "u1", GameType: "slots", AmountCents: 200,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Empty(t, publ.placed)
}

func TestPlaceCasinoBetCapsDebit(t *testing.T) {
	h, engine, publ := newTestServer(t)
	fundAccount(t, engine, "u1", 50)

	rec := doJSON(t, h, http.MethodPost, "/casino/bets", dto.PlaceBetRequest{
		AccountID: "u1", GameType: "casino", AmountCents: 200,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.PlaceBetResponse](t, rec)
	require.Zero(t, res.NewBalanceCents)
	require.Equal(t, int64(50), res.DebitedCents)

	require.Len(t, publ.placed, 1)
	require.Equal(t, "casino", publ.placed[0].Policy)
}

func TestPlaceBetValidationErrors(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/bets", dto.PlaceBetRequest{
		AccountID: "u1", GameType: "poker", AmountCents: 100,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewBufferString("{nope"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettleBetOverHTTP(t *testing.T) {
	h, engine, publ := newTestServer(t)
	fundAccount(t, engine, "u1", 500)

	rec := doJSON(t, h, http.MethodPost, "/bets", dto.PlaceBetRequest{
		AccountID: "u1", GameType: "roulette", AmountCents: 200,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	placed := decode[dto.PlaceBetResponse](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/bets/"+placed.Bet.BetID+"/settle", dto.SettleBetRequest{
		AccountID: "u1", Outcome: "won", PayoutCents: 600,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	settled := decode[dto.SettleBetResponse](t, rec)
	require.Equal(t, "won", settled.Bet.Status)
	require.Equal(t, int64(600), settled.Bet.PayoutCents)
	require.Equal(t, int64(900), settled.NewBalanceCents)

	require.Len(t, publ.settled, 1)
	require.Equal(t, "won", publ.settled[0].Outcome)
	require.Equal(t, int64(900), publ.settled[0].NewBalanceCents)

	// segunda liquidação conflita e não publica de novo
	rec = doJSON(t, h, http.MethodPost, "/bets/"+placed.Bet.BetID+"/settle", dto.SettleBetRequest{
		AccountID: "u1", Outcome: "won", PayoutCents: 600,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Len(t, publ.settled, 1)
}

func TestSettleBetRouting(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/bets/abc/void", dto.SettleBetRequest{
		AccountID: "u1", Outcome: "won",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/bets/missing/settle", dto.SettleBetRequest{
		AccountID: "u1", Outcome: "won", PayoutCents: 100,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/bets/abc/settle", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListBetsOverHTTP(t *testing.T) {
	h, engine, _ := newTestServer(t)
	fundAccount(t, engine, "u1", 1000)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/bets", dto.PlaceBetRequest{
			AccountID: "u1", GameType: "slots", AmountCents: 100,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, h, http.MethodGet, "/bets?accountId=u1&page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.BetListResponse](t, rec)
	require.Len(t, res.Bets, 2)
	require.Equal(t, int64(3), res.Pagination.Total)
	require.Equal(t, int64(2), res.Pagination.Pages)

	rec = doJSON(t, h, http.MethodGet, "/bets", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGameStatsOverHTTP(t *testing.T) {
	h, engine, _ := newTestServer(t)
	fundAccount(t, engine, "u1", 1000)

	rec := doJSON(t, h, http.MethodPost, "/bets", dto.PlaceBetRequest{
		AccountID: "u1", GameType: "blackjack", AmountCents: 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	placed := decode[dto.PlaceBetResponse](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/bets/"+placed.Bet.BetID+"/settle", dto.SettleBetRequest{
		AccountID: "u1", Outcome: "won", PayoutCents: 250,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/bets/stats?accountId=u1&gameType=blackjack", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[dto.GameStatsResponse](t, rec)
	require.Equal(t, int64(1), stats.TotalBets)
	require.Equal(t, int64(1), stats.TotalWon)
	require.Equal(t, int64(100), stats.TotalAmountCents)
	require.Equal(t, int64(250), stats.TotalPayoutCents)

	rec = doJSON(t, h, http.MethodGet, "/bets/stats?accountId=u1", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
