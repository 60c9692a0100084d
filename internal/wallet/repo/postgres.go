package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/radieske/casino-wallet-platform/internal/wallet"
)

// Postgres implementa wallet.Store sobre database/sql + lib/pq.
// Toda mutação de saldo trava a linha da conta (FOR UPDATE) e aplica saldo,
// agregado e lançamento do ledger numa única transação.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const accountColumns = `id, email, first_name, last_name, currency, status,
	balance_cents, total_deposited_cents, total_withdrawn_cents, total_wagered_cents, total_won_cents,
	created_at, updated_at`

// GetAccount busca a conta pelo id
func (p *Postgres) GetAccount(ctx context.Context, id string) (*wallet.Account, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id)
	return scanAccount(row)
}

// GetOrCreateAccount resolve a conta, criando com saldo zero na primeira
// referência. Perfil ausente recebe email placeholder.
func (p *Postgres) GetOrCreateAccount(ctx context.Context, id string, currency string, profile wallet.Profile) (*wallet.Account, error) {
	email := profile.Email
	if email == "" {
		email = wallet.PlaceholderEmail(id)
	}
	first := profile.FirstName
	if first == "" {
		first = "User"
	}

	// ON CONFLICT garante que nunca existam contas duplicadas pro mesmo id
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, first_name, last_name, currency, status, balance_cents)
		VALUES ($1,$2,$3,$4,$5,'active',0)
		ON CONFLICT (id) DO NOTHING`,
		id, email, first, profile.LastName, currency,
	)
	if isUniqueViolation(err) {
		// índice único de email: outra conta já é dona desse email
		return nil, wallet.ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("upsert account: %w", err)
	}
	return p.GetAccount(ctx, id)
}

// FindAccountByEmail faz a busca secundária por email
func (p *Postgres) FindAccountByEmail(ctx context.Context, email string) (*wallet.Account, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email=$1`, email)
	return scanAccount(row)
}

// UpdateAccountProfile aplica patch de email/nome; campos vazios não mudam
func (p *Postgres) UpdateAccountProfile(ctx context.Context, id string, profile wallet.Profile) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE accounts SET
			email = COALESCE(NULLIF($2,''), email),
			first_name = COALESCE(NULLIF($3,''), first_name),
			last_name = COALESCE(NULLIF($4,''), last_name),
			updated_at = NOW()
		WHERE id=$1`,
		id, profile.Email, profile.FirstName, profile.LastName,
	)
	if isUniqueViolation(err) {
		return wallet.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return wallet.ErrAccountNotFound
	}
	return nil
}

// ApplyBalance aplica a mudança de saldo descrita em change de forma atômica.
// Saldo negativo só com AllowNegative; lançamento novo e conclusão de pendente
// acontecem na mesma transação do update de saldo.
func (p *Postgres) ApplyBalance(ctx context.Context, change wallet.BalanceChange) (int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance_cents FROM accounts WHERE id=$1 FOR UPDATE`,
		change.AccountID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, wallet.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock account: %w", err)
	}

	newBalance := balance + change.DeltaCents
	if newBalance < 0 && !change.AllowNegative {
		return 0, wallet.ErrInsufficientFunds
	}

	query := `UPDATE accounts SET balance_cents=$2, updated_at=NOW()`
	args := []any{change.AccountID, newBalance}
	if col := aggregateColumn(change.Aggregate); col != "" && change.AggregateCents != 0 {
		query += fmt.Sprintf(", %s = %s + $3", col, col)
		args = append(args, change.AggregateCents)
	}
	query += ` WHERE id=$1`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}

	if change.Entry != nil {
		if err := insertTransactionTx(ctx, tx, change.Entry); err != nil {
			return 0, err
		}
	}

	if change.CompleteEntryID != "" {
		res, err := tx.ExecContext(ctx, `
			UPDATE transactions SET status='completed', completed_at=$2
			WHERE id=$1 AND status='pending'`,
			change.CompleteEntryID, change.CompletedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("complete transaction: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return 0, wallet.ErrTransactionNotPending
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return newBalance, nil
}

// InsertTransaction grava um lançamento fora de mutação de saldo (pendentes)
func (p *Postgres) InsertTransaction(ctx context.Context, entry *wallet.Transaction) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertTransactionTx(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTransactionTx(ctx context.Context, tx *sql.Tx, entry *wallet.Transaction) error {
	meta, err := json.Marshal(orEmpty(entry.Metadata))
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions
			(id, account_id, type, amount_cents, currency, status, description, reference,
			 game_id, game_type, bet_id, metadata, created_at, completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,''),NULLIF($10,''),NULLIF($11,''),$12,$13,$14)`,
		entry.ID, entry.AccountID, entry.Type, entry.AmountCents, entry.Currency,
		entry.Status, entry.Description, entry.Reference,
		entry.GameID, entry.GameType, entry.BetID, meta, entry.CreatedAt, entry.CompletedAt,
	)
	if isUniqueViolation(err) {
		return wallet.ErrDuplicateReference
	}
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

const transactionColumns = `id, account_id, type, amount_cents, currency, status, description, reference,
	COALESCE(game_id,''), COALESCE(game_type,''), COALESCE(bet_id,''), metadata, created_at, completed_at`

// GetTransaction busca um lançamento pelo id
func (p *Postgres) GetTransaction(ctx context.Context, id string) (*wallet.Transaction, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id=$1`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrTransactionNotFound
	}
	return t, err
}

// MarkTransactionStatus transita um lançamento pendente; amount/type nunca mudam
func (p *Postgres) MarkTransactionStatus(ctx context.Context, id string, status wallet.TransactionStatus, completedAt time.Time) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE transactions SET status=$2, completed_at=$3
		WHERE id=$1 AND status='pending'`,
		id, status, completedAt,
	)
	if err != nil {
		return fmt.Errorf("mark transaction: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return wallet.ErrTransactionNotPending
	}
	return nil
}

// ListTransactions pagina o ledger da conta, mais recente primeiro
func (p *Postgres) ListTransactions(ctx context.Context, accountID string, page wallet.Page) ([]wallet.Transaction, int64, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE account_id=$1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []wallet.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id=$1`, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	return out, total, nil
}

// ListPendingByType alimenta a fila de aprovação administrativa
func (p *Postgres) ListPendingByType(ctx context.Context, txType wallet.TransactionType) ([]wallet.Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE type=$1 AND status='pending'
		ORDER BY created_at DESC, id DESC`,
		txType,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var out []wallet.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// CreateBet insere uma aposta pendente
func (p *Postgres) CreateBet(ctx context.Context, bet *wallet.Bet) error {
	details, err := json.Marshal(orEmpty(bet.Details))
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO bets (id, account_id, game_id, game_type, amount_cents, debited_cents, status, payout_cents, details, created_at)
		VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,$7,0,$8,$9)`,
		bet.ID, bet.AccountID, bet.GameID, bet.GameType, bet.AmountCents, bet.DebitedCents, bet.Status, details, bet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

// GetBet busca a aposta pelo id, restrita à conta dona
func (p *Postgres) GetBet(ctx context.Context, betID, accountID string) (*wallet.Bet, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, account_id, COALESCE(game_id,''), game_type, amount_cents, debited_cents, status, payout_cents, details, created_at, settled_at
		FROM bets WHERE id=$1 AND account_id=$2`,
		betID, accountID,
	)
	b, err := scanBet(row)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrBetNotFound
	}
	return b, err
}

// SettleBet transita a aposta pra um estado terminal; o guard de liquidação
// única fica no próprio UPDATE condicional
func (p *Postgres) SettleBet(ctx context.Context, betID string, status wallet.BetStatus, payoutCents int64, settledAt time.Time) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets SET status=$2, payout_cents=$3, settled_at=$4
		WHERE id=$1 AND status='pending'`,
		betID, status, payoutCents, settledAt,
	)
	if err != nil {
		return fmt.Errorf("settle bet: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return wallet.ErrBetAlreadySettled
	}
	return nil
}

// ListBets pagina as apostas da conta, mais recente primeiro
func (p *Postgres) ListBets(ctx context.Context, accountID string, page wallet.Page) ([]wallet.Bet, int64, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, account_id, COALESCE(game_id,''), game_type, amount_cents, debited_cents, status, payout_cents, details, created_at, settled_at
		FROM bets WHERE account_id=$1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		accountID, page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list bets: %w", err)
	}
	defer rows.Close()

	var out []wallet.Bet
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bets WHERE account_id=$1`, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bets: %w", err)
	}
	return out, total, nil
}

// GameStats agrega as apostas da conta por tipo de jogo numa única consulta
func (p *Postgres) GameStats(ctx context.Context, accountID, gameType string) (*wallet.GameStats, error) {
	var s wallet.GameStats
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='won'),
		       COUNT(*) FILTER (WHERE status='lost'),
		       COALESCE(SUM(amount_cents),0),
		       COALESCE(SUM(payout_cents),0)
		FROM bets WHERE account_id=$1 AND game_type=$2`,
		accountID, gameType,
	).Scan(&s.TotalBets, &s.TotalWon, &s.TotalLost, &s.TotalAmountCents, &s.TotalPayoutCents)
	if err != nil {
		return nil, fmt.Errorf("game stats: %w", err)
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*wallet.Account, error) {
	var a wallet.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.FirstName, &a.LastName, &a.Currency, &a.Status,
		&a.BalanceCents, &a.TotalDepositedCents, &a.TotalWithdrawnCents, &a.TotalWageredCents, &a.TotalWonCents,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, wallet.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func scanTransaction(row rowScanner) (*wallet.Transaction, error) {
	var t wallet.Transaction
	var meta []byte
	var completedAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.AccountID, &t.Type, &t.AmountCents, &t.Currency, &t.Status,
		&t.Description, &t.Reference, &t.GameID, &t.GameType, &t.BetID,
		&meta, &t.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &t.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &t, nil
}

func scanBet(row rowScanner) (*wallet.Bet, error) {
	var b wallet.Bet
	var details []byte
	var settledAt sql.NullTime
	err := row.Scan(
		&b.ID, &b.AccountID, &b.GameID, &b.GameType, &b.AmountCents, &b.DebitedCents,
		&b.Status, &b.PayoutCents, &details, &b.CreatedAt, &settledAt,
	)
	if err != nil {
		return nil, err
	}
	if settledAt.Valid {
		b.SettledAt = &settledAt.Time
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &b.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}
	return &b, nil
}

func aggregateColumn(agg wallet.Aggregate) string {
	switch agg {
	case wallet.AggDeposited:
		return "total_deposited_cents"
	case wallet.AggWithdrawn:
		return "total_withdrawn_cents"
	case wallet.AggWagered:
		return "total_wagered_cents"
	case wallet.AggWon:
		return "total_won_cents"
	}
	return ""
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
