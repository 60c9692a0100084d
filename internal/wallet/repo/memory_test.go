package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/radieske/casino-wallet-platform/internal/wallet"
)

func seedAccount(t *testing.T, m *Memory, id string, balanceCents int64) {
	t.Helper()
	ctx := context.Background()
	_, err := m.GetOrCreateAccount(ctx, id, "INR", wallet.Profile{})
	require.NoError(t, err)
	if balanceCents != 0 {
		_, err = m.ApplyBalance(ctx, wallet.BalanceChange{
			AccountID:  id,
			DeltaCents: balanceCents,
			Entry:      entry(id, "SEED_"+id, balanceCents),
		})
		require.NoError(t, err)
	}
}

func entry(accountID, reference string, amountCents int64) *wallet.Transaction {
	now := time.Now().UTC()
	return &wallet.Transaction{
		ID:          reference + "-id",
		AccountID:   accountID,
		Type:        wallet.TxDeposit,
		AmountCents: amountCents,
		Currency:    "INR",
		Status:      wallet.TxCompleted,
		Reference:   reference,
		CreatedAt:   now,
		CompletedAt: &now,
	}
}

func TestApplyBalanceRejectsNegative(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedAccount(t, m, "u1", 100)

	_, err := m.ApplyBalance(ctx, wallet.BalanceChange{
		AccountID:  "u1",
		DeltaCents: -200,
		Entry:      entry("u1", "W1", -200),
	})
	require.ErrorIs(t, err, wallet.ErrInsufficientFunds)

	// nada foi gravado: referência livre e saldo intacto
	acc, err := m.GetAccount(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(100), acc.BalanceCents)
	_, _, err = m.ListTransactions(ctx, "u1", wallet.Page{Page: 1, Limit: 10})
	require.NoError(t, err)

	bal, err := m.ApplyBalance(ctx, wallet.BalanceChange{
		AccountID:     "u1",
		DeltaCents:    -200,
		AllowNegative: true,
		Entry:         entry("u1", "W1", -200),
	})
	require.NoError(t, err)
	require.Equal(t, int64(-100), bal)
}

func TestApplyBalanceDuplicateReference(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedAccount(t, m, "u1", 0)

	_, err := m.ApplyBalance(ctx, wallet.BalanceChange{
		AccountID: "u1", DeltaCents: 50, Entry: entry("u1", "DUP", 50),
	})
	require.NoError(t, err)

	_, err = m.ApplyBalance(ctx, wallet.BalanceChange{
		AccountID: "u1", DeltaCents: 50, Entry: entry("u1", "DUP", 50),
	})
	require.ErrorIs(t, err, wallet.ErrDuplicateReference)

	// a segunda tentativa não pode ter mexido no saldo
	acc, err := m.GetAccount(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(50), acc.BalanceCents)
}

func TestApplyBalanceCompletesPendingExactlyOnce(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedAccount(t, m, "u1", 500)

	pending := entry("u1", "PW1", -200)
	pending.Type = wallet.TxWithdrawal
	pending.Status = wallet.TxPending
	pending.CompletedAt = nil
	require.NoError(t, m.InsertTransaction(ctx, pending))

	now := time.Now().UTC()
	bal, err := m.ApplyBalance(ctx, wallet.BalanceChange{
		AccountID:       "u1",
		DeltaCents:      -200,
		CompleteEntryID: pending.ID,
		CompletedAt:     now,
	})
	require.NoError(t, err)
	require.Equal(t, int64(300), bal)

	tx, err := m.GetTransaction(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, wallet.TxCompleted, tx.Status)
	require.NotNil(t, tx.CompletedAt)

	_, err = m.ApplyBalance(ctx, wallet.BalanceChange{
		AccountID:       "u1",
		DeltaCents:      -200,
		CompleteEntryID: pending.ID,
		CompletedAt:     now,
	})
	require.ErrorIs(t, err, wallet.ErrTransactionNotPending)
}

func TestMarkTransactionStatusOnlyPending(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedAccount(t, m, "u1", 0)

	pending := entry("u1", "P1", 100)
	pending.Status = wallet.TxPending
	pending.CompletedAt = nil
	require.NoError(t, m.InsertTransaction(ctx, pending))

	require.NoError(t, m.MarkTransactionStatus(ctx, pending.ID, wallet.TxFailed, time.Now().UTC()))
	err := m.MarkTransactionStatus(ctx, pending.ID, wallet.TxCompleted, time.Now().UTC())
	require.ErrorIs(t, err, wallet.ErrTransactionNotPending)

	err = m.MarkTransactionStatus(ctx, "missing", wallet.TxFailed, time.Now().UTC())
	require.ErrorIs(t, err, wallet.ErrTransactionNotPending)
}

func TestSettleBetGuard(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	bet := &wallet.Bet{
		ID: "b1", AccountID: "u1", GameType: "slots",
		AmountCents: 100, Status: wallet.BetPending, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, m.CreateBet(ctx, bet))

	require.NoError(t, m.SettleBet(ctx, "b1", wallet.BetWon, 250, time.Now().UTC()))
	err := m.SettleBet(ctx, "b1", wallet.BetLost, 0, time.Now().UTC())
	require.ErrorIs(t, err, wallet.ErrBetAlreadySettled)

	err = m.SettleBet(ctx, "missing", wallet.BetWon, 0, time.Now().UTC())
	require.ErrorIs(t, err, wallet.ErrBetNotFound)

	// GetBet é escopado pela conta
	_, err = m.GetBet(ctx, "b1", "other")
	require.ErrorIs(t, err, wallet.ErrBetNotFound)
}

func TestListTransactionsPagination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedAccount(t, m, "u1", 0)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		e := entry("u1", fmt.Sprintf("R%d", i), 10)
		e.ID = fmt.Sprintf("tx-%d", i)
		e.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, m.InsertTransaction(ctx, e))
	}

	// primeira página, do mais recente pro mais antigo
	txs, total, err := m.ListTransactions(ctx, "u1", wallet.Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, txs, 2)
	require.Equal(t, "tx-4", txs[0].ID)
	require.Equal(t, "tx-3", txs[1].ID)

	txs, _, err = m.ListTransactions(ctx, "u1", wallet.Page{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, "tx-0", txs[0].ID)

	// fora do intervalo devolve vazio, não erro
	txs, _, err = m.ListTransactions(ctx, "u1", wallet.Page{Page: 9, Limit: 2})
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestListPendingByType(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedAccount(t, m, "u1", 0)

	dep := entry("u1", "PD1", 100)
	dep.Status = wallet.TxPending
	dep.CompletedAt = nil
	require.NoError(t, m.InsertTransaction(ctx, dep))

	wd := entry("u1", "PW1", -100)
	wd.ID = "wd-id"
	wd.Type = wallet.TxWithdrawal
	wd.Status = wallet.TxPending
	wd.CompletedAt = nil
	require.NoError(t, m.InsertTransaction(ctx, wd))

	done := entry("u1", "D1", 100)
	done.ID = "done-id"
	require.NoError(t, m.InsertTransaction(ctx, done))

	deps, err := m.ListPendingByType(ctx, wallet.TxDeposit)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	require.Equal(t, dep.ID, deps[0].ID)

	wds, err := m.ListPendingByType(ctx, wallet.TxWithdrawal)
	require.NoError(t, err)
	require.Len(t, wds, 1)
	require.Equal(t, "wd-id", wds[0].ID)
}

func TestGetOrCreateAccountDefaults(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acc, err := m.GetOrCreateAccount(ctx, "u9", "INR", wallet.Profile{})
	require.NoError(t, err)
	require.Equal(t, wallet.PlaceholderEmail("u9"), acc.Email)
	require.Equal(t, "User", acc.FirstName)
	require.Equal(t, wallet.AccountActive, acc.Status)

	// segunda chamada devolve a mesma conta, sem sobrescrever
	again, err := m.GetOrCreateAccount(ctx, "u9", "INR", wallet.Profile{Email: "x@y.example"})
	require.NoError(t, err)
	require.Equal(t, acc.Email, again.Email)

	found, err := m.FindAccountByEmail(ctx, wallet.PlaceholderEmail("u9"))
	require.NoError(t, err)
	require.Equal(t, "u9", found.ID)

	_, err = m.FindAccountByEmail(ctx, "nobody@nowhere.example")
	require.ErrorIs(t, err, wallet.ErrAccountNotFound)
}

func TestEmailUniqueness(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetOrCreateAccount(ctx, "u1", "INR", wallet.Profile{Email: "dup@casino.example"})
	require.NoError(t, err)

	// criar outra conta com o mesmo email falha, como no índice único do banco
	_, err = m.GetOrCreateAccount(ctx, "u2", "INR", wallet.Profile{Email: "dup@casino.example"})
	require.ErrorIs(t, err, wallet.ErrEmailTaken)

	_, err = m.GetOrCreateAccount(ctx, "u2", "INR", wallet.Profile{})
	require.NoError(t, err)
	err = m.UpdateAccountProfile(ctx, "u2", wallet.Profile{Email: "dup@casino.example"})
	require.ErrorIs(t, err, wallet.ErrEmailTaken)

	// atualizar pro próprio email é idempotente
	err = m.UpdateAccountProfile(ctx, "u1", wallet.Profile{Email: "dup@casino.example"})
	require.NoError(t, err)
}
