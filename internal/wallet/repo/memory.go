package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/radieske/casino-wallet-platform/internal/wallet"
)

// Memory implementa wallet.Store em memória, com as mesmas regras do Postgres:
// referência única, saldo não negativo sem AllowNegative, liquidação única.
// Usado nos testes e em execução local sem banco.
type Memory struct {
	mu         sync.Mutex
	accounts   map[string]*wallet.Account
	txs        map[string]*wallet.Transaction
	txOrder    []string
	references map[string]bool
	bets       map[string]*wallet.Bet
	betOrder   []string
}

func NewMemory() *Memory {
	return &Memory{
		accounts:   make(map[string]*wallet.Account),
		txs:        make(map[string]*wallet.Transaction),
		references: make(map[string]bool),
		bets:       make(map[string]*wallet.Bet),
	}
}

func (m *Memory) GetAccount(_ context.Context, id string) (*wallet.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return nil, wallet.ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (m *Memory) GetOrCreateAccount(_ context.Context, id string, currency string, profile wallet.Profile) (*wallet.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	email := profile.Email
	if email == "" {
		email = wallet.PlaceholderEmail(id)
	}
	if owner := m.findByEmailLocked(email); owner != nil {
		return nil, wallet.ErrEmailTaken
	}
	first := profile.FirstName
	if first == "" {
		first = "User"
	}
	now := time.Now().UTC()
	acc := &wallet.Account{
		ID:        id,
		Email:     email,
		FirstName: first,
		LastName:  profile.LastName,
		Currency:  currency,
		Status:    wallet.AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.accounts[id] = acc
	cp := *acc
	return &cp, nil
}

func (m *Memory) FindAccountByEmail(_ context.Context, email string) (*wallet.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc := m.findByEmailLocked(email); acc != nil {
		cp := *acc
		return &cp, nil
	}
	return nil, wallet.ErrAccountNotFound
}

func (m *Memory) findByEmailLocked(email string) *wallet.Account {
	for _, acc := range m.accounts {
		if acc.Email == email {
			return acc
		}
	}
	return nil
}

func (m *Memory) UpdateAccountProfile(_ context.Context, id string, profile wallet.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return wallet.ErrAccountNotFound
	}
	if profile.Email != "" && profile.Email != acc.Email {
		if owner := m.findByEmailLocked(profile.Email); owner != nil && owner.ID != id {
			return wallet.ErrEmailTaken
		}
		acc.Email = profile.Email
	}
	if profile.FirstName != "" {
		acc.FirstName = profile.FirstName
	}
	if profile.LastName != "" {
		acc.LastName = profile.LastName
	}
	acc.UpdatedAt = time.Now().UTC()
	return nil
}

// SetAccountStatus muda o status da conta; usado pelos testes de bloqueio
func (m *Memory) SetAccountStatus(id string, status wallet.AccountStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Status = status
	}
}

func (m *Memory) ApplyBalance(_ context.Context, change wallet.BalanceChange) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[change.AccountID]
	if !ok {
		return 0, wallet.ErrAccountNotFound
	}

	newBalance := acc.BalanceCents + change.DeltaCents
	if newBalance < 0 && !change.AllowNegative {
		return 0, wallet.ErrInsufficientFunds
	}

	if change.Entry != nil && m.references[change.Entry.Reference] {
		return 0, wallet.ErrDuplicateReference
	}
	if change.CompleteEntryID != "" {
		entry, ok := m.txs[change.CompleteEntryID]
		if !ok || entry.Status != wallet.TxPending {
			return 0, wallet.ErrTransactionNotPending
		}
	}

	// só muta depois de todas as validações, nada ou tudo
	acc.BalanceCents = newBalance
	acc.UpdatedAt = time.Now().UTC()
	switch change.Aggregate {
	case wallet.AggDeposited:
		acc.TotalDepositedCents += change.AggregateCents
	case wallet.AggWithdrawn:
		acc.TotalWithdrawnCents += change.AggregateCents
	case wallet.AggWagered:
		acc.TotalWageredCents += change.AggregateCents
	case wallet.AggWon:
		acc.TotalWonCents += change.AggregateCents
	}

	if change.Entry != nil {
		m.insertLocked(change.Entry)
	}
	if change.CompleteEntryID != "" {
		entry := m.txs[change.CompleteEntryID]
		entry.Status = wallet.TxCompleted
		t := change.CompletedAt
		entry.CompletedAt = &t
	}

	return newBalance, nil
}

func (m *Memory) InsertTransaction(_ context.Context, entry *wallet.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.references[entry.Reference] {
		return wallet.ErrDuplicateReference
	}
	m.insertLocked(entry)
	return nil
}

func (m *Memory) insertLocked(entry *wallet.Transaction) {
	cp := *entry
	m.txs[cp.ID] = &cp
	m.txOrder = append(m.txOrder, cp.ID)
	m.references[cp.Reference] = true
}

func (m *Memory) GetTransaction(_ context.Context, id string) (*wallet.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok {
		return nil, wallet.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *Memory) MarkTransactionStatus(_ context.Context, id string, status wallet.TransactionStatus, completedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.txs[id]
	if !ok || tx.Status != wallet.TxPending {
		return wallet.ErrTransactionNotPending
	}
	tx.Status = status
	tx.CompletedAt = &completedAt
	return nil
}

func (m *Memory) ListTransactions(_ context.Context, accountID string, page wallet.Page) ([]wallet.Transaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []wallet.Transaction
	for _, id := range m.txOrder {
		if tx := m.txs[id]; tx.AccountID == accountID {
			all = append(all, *tx)
		}
	}
	sortNewestFirst(all, func(t wallet.Transaction) time.Time { return t.CreatedAt })
	total := int64(len(all))
	return paginate(all, page), total, nil
}

func (m *Memory) ListPendingByType(_ context.Context, txType wallet.TransactionType) ([]wallet.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []wallet.Transaction
	for _, id := range m.txOrder {
		if tx := m.txs[id]; tx.Type == txType && tx.Status == wallet.TxPending {
			out = append(out, *tx)
		}
	}
	sortNewestFirst(out, func(t wallet.Transaction) time.Time { return t.CreatedAt })
	return out, nil
}

func (m *Memory) CreateBet(_ context.Context, bet *wallet.Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *bet
	m.bets[cp.ID] = &cp
	m.betOrder = append(m.betOrder, cp.ID)
	return nil
}

func (m *Memory) GetBet(_ context.Context, betID, accountID string) (*wallet.Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bet, ok := m.bets[betID]
	if !ok || bet.AccountID != accountID {
		return nil, wallet.ErrBetNotFound
	}
	cp := *bet
	return &cp, nil
}

func (m *Memory) SettleBet(_ context.Context, betID string, status wallet.BetStatus, payoutCents int64, settledAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bet, ok := m.bets[betID]
	if !ok {
		return wallet.ErrBetNotFound
	}
	if bet.Status != wallet.BetPending {
		return wallet.ErrBetAlreadySettled
	}
	bet.Status = status
	bet.PayoutCents = payoutCents
	bet.SettledAt = &settledAt
	return nil
}

func (m *Memory) ListBets(_ context.Context, accountID string, page wallet.Page) ([]wallet.Bet, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []wallet.Bet
	for _, id := range m.betOrder {
		if bet := m.bets[id]; bet.AccountID == accountID {
			all = append(all, *bet)
		}
	}
	sortNewestFirst(all, func(b wallet.Bet) time.Time { return b.CreatedAt })
	total := int64(len(all))
	return paginate(all, page), total, nil
}

func (m *Memory) GameStats(_ context.Context, accountID, gameType string) (*wallet.GameStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s wallet.GameStats
	for _, bet := range m.bets {
		if bet.AccountID != accountID || bet.GameType != gameType {
			continue
		}
		s.TotalBets++
		switch bet.Status {
		case wallet.BetWon:
			s.TotalWon++
		case wallet.BetLost:
			s.TotalLost++
		}
		s.TotalAmountCents += bet.AmountCents
		s.TotalPayoutCents += bet.PayoutCents
	}
	return &s, nil
}

// sortNewestFirst ordena estável do mais recente pro mais antigo, preservando
// a ordem de inserção entre timestamps iguais
func sortNewestFirst[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

func paginate[T any](items []T, page wallet.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
