package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/casino-wallet-platform/internal/shared/metrics"
)

// Engine é a única autoridade sobre mudanças de saldo: aposta, liquidação,
// depósito, saque, decisão administrativa e ajuste.
// Operações sobre a mesma conta são serializadas por um lock por conta;
// o store ainda aplica saldo + ledger numa única transação de banco.
type Engine struct {
	store    Store
	log      *zap.Logger
	currency string
	locks    *accountLocks
}

func NewEngine(store Store, log *zap.Logger, defaultCurrency string) *Engine {
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &Engine{
		store:    store,
		log:      log,
		currency: defaultCurrency,
		locks:    newAccountLocks(),
	}
}

type PlaceBetInput struct {
	AccountID   string
	GameID      string
	GameType    string
	AmountCents int64
	Details     map[string]any
	Profile     Profile
}

type PlaceBetResult struct {
	Bet             *Bet
	Reference       string
	DebitedCents    int64
	NewBalanceCents int64
}

// PlaceBet cria uma aposta pela política estrita: saldo insuficiente rejeita
// com ErrInsufficientFunds antes de qualquer mutação.
func (e *Engine) PlaceBet(ctx context.Context, in PlaceBetInput) (*PlaceBetResult, error) {
	if err := validateBetInput(in); err != nil {
		metrics.WalletOperations.WithLabelValues("place_bet", "error").Inc()
		return nil, err
	}

	unlock := e.locks.Lock(in.AccountID)
	defer unlock()

	acc, err := e.resolveAccount(ctx, in.AccountID, in.Profile)
	if err != nil {
		metrics.WalletOperations.WithLabelValues("place_bet", "error").Inc()
		return nil, err
	}

	if acc.BalanceCents < in.AmountCents {
		metrics.WalletOperations.WithLabelValues("place_bet", "insufficient").Inc()
		return nil, ErrInsufficientFunds
	}

	res, err := e.createBet(ctx, acc, in, in.AmountCents)
	if err != nil {
		metrics.WalletOperations.WithLabelValues("place_bet", "error").Inc()
		return nil, err
	}

	metrics.WalletOperations.WithLabelValues("place_bet", "ok").Inc()
	metrics.BetsPlaced.WithLabelValues("strict").Inc()
	return res, nil
}

// PlaceCasinoBet cria uma aposta pela política de cassino: saldo insuficiente
// não bloqueia o jogo; o débito é limitado pra que o saldo nunca fique negativo.
// O lançamento no ledger mantém -amount integral; o valor realmente debitado
// fica em metadata["debited_cents"] pra reconciliação.
func (e *Engine) PlaceCasinoBet(ctx context.Context, in PlaceBetInput) (*PlaceBetResult, error) {
	if in.GameType == "" {
		in.GameType = "casino"
	}
	if err := validateBetInput(in); err != nil {
		metrics.WalletOperations.WithLabelValues("place_casino_bet", "error").Inc()
		return nil, err
	}

	unlock := e.locks.Lock(in.AccountID)
	defer unlock()

	acc, err := e.resolveAccount(ctx, in.AccountID, in.Profile)
	if err != nil {
		metrics.WalletOperations.WithLabelValues("place_casino_bet", "error").Inc()
		return nil, err
	}

	debit := in.AmountCents
	if acc.BalanceCents < in.AmountCents {
		debit = acc.BalanceCents
		e.log.Warn("casino bet with insufficient balance, capping deduction",
			zap.String("accountId", in.AccountID),
			zap.Int64("balance_cents", acc.BalanceCents),
			zap.Int64("amount_cents", in.AmountCents),
		)
	}

	res, err := e.createBet(ctx, acc, in, debit)
	if err != nil {
		metrics.WalletOperations.WithLabelValues("place_casino_bet", "error").Inc()
		return nil, err
	}

	metrics.WalletOperations.WithLabelValues("place_casino_bet", "ok").Inc()
	metrics.BetsPlaced.WithLabelValues("casino").Inc()
	return res, nil
}

// createBet grava a aposta pendente e aplica débito + lançamento "bet" de uma vez.
// debit pode ser menor que o valor da aposta na política de cassino.
func (e *Engine) createBet(ctx context.Context, acc *Account, in PlaceBetInput, debit int64) (*PlaceBetResult, error) {
	now := time.Now().UTC()
	bet := &Bet{
		ID:           uuid.NewString(),
		AccountID:    acc.ID,
		GameID:       in.GameID,
		GameType:     in.GameType,
		AmountCents:  in.AmountCents,
		DebitedCents: debit,
		Status:       BetPending,
		Details:      in.Details,
		CreatedAt:    now,
	}
	if err := e.store.CreateBet(ctx, bet); err != nil {
		return nil, fmt.Errorf("create bet: %w", err)
	}

	ref := "BET_" + bet.ID
	meta := map[string]any{
		"game_id":       in.GameID,
		"game_type":     in.GameType,
		"bet_cents":     in.AmountCents,
		"debited_cents": debit,
	}
	entry := &Transaction{
		ID:          uuid.NewString(),
		AccountID:   acc.ID,
		Type:        TxBet,
		AmountCents: -in.AmountCents,
		Currency:    acc.Currency,
		Status:      TxCompleted,
		Description: in.GameType + " - Bet placed",
		Reference:   ref,
		GameID:      in.GameID,
		GameType:    in.GameType,
		BetID:       bet.ID,
		Metadata:    meta,
		CreatedAt:   now,
		CompletedAt: &now,
	}

	newBal, err := e.store.ApplyBalance(ctx, BalanceChange{
		AccountID:      acc.ID,
		DeltaCents:     -debit,
		Aggregate:      AggWagered,
		AggregateCents: in.AmountCents,
		Entry:          entry,
	})
	if err != nil {
		return nil, fmt.Errorf("apply bet debit: %w", err)
	}

	e.log.Info("bet placed",
		zap.String("betId", bet.ID),
		zap.String("accountId", acc.ID),
		zap.String("gameType", in.GameType),
		zap.Int64("amount_cents", in.AmountCents),
		zap.Int64("new_balance_cents", newBal),
	)

	return &PlaceBetResult{
		Bet:             bet,
		Reference:       ref,
		DebitedCents:    debit,
		NewBalanceCents: newBal,
	}, nil
}

type SettleBetInput struct {
	BetID       string
	AccountID   string
	Outcome     BetStatus // won | lost | cancelled
	PayoutCents int64
	Details     map[string]any
}

type SettleBetResult struct {
	Bet             *Bet
	NewBalanceCents int64
}

// SettleBet resolve uma aposta pendente exatamente uma vez.
// won credita o payout e gera lançamento "win"; lost não toca o saldo;
// cancelled devolve a aposta com lançamento "refund".
func (e *Engine) SettleBet(ctx context.Context, in SettleBetInput) (*SettleBetResult, error) {
	if in.BetID == "" || in.AccountID == "" {
		return nil, fmt.Errorf("%w: betId and accountId are required", ErrValidation)
	}
	if in.Outcome != BetWon && in.Outcome != BetLost && in.Outcome != BetCancelled {
		return nil, fmt.Errorf("%w: outcome must be won, lost or cancelled", ErrValidation)
	}
	if in.PayoutCents < 0 {
		return nil, fmt.Errorf("%w: payout must not be negative", ErrValidation)
	}

	unlock := e.locks.Lock(in.AccountID)
	defer unlock()

	bet, err := e.store.GetBet(ctx, in.BetID, in.AccountID)
	if err != nil {
		metrics.WalletOperations.WithLabelValues("settle_bet", "error").Inc()
		return nil, err
	}
	if bet.Status != BetPending {
		metrics.WalletOperations.WithLabelValues("settle_bet", "already_settled").Inc()
		return nil, ErrBetAlreadySettled
	}

	now := time.Now().UTC()
	payout := in.PayoutCents
	if in.Outcome != BetWon {
		payout = 0
	}
	if err := e.store.SettleBet(ctx, in.BetID, in.Outcome, payout, now); err != nil {
		metrics.WalletOperations.WithLabelValues("settle_bet", "error").Inc()
		return nil, err
	}
	bet.Status = in.Outcome
	bet.PayoutCents = payout
	bet.SettledAt = &now

	var newBal int64
	switch {
	case in.Outcome == BetWon && payout > 0:
		entry := &Transaction{
			ID:          uuid.NewString(),
			AccountID:   in.AccountID,
			Type:        TxWin,
			AmountCents: payout,
			Currency:    e.currency,
			Status:      TxCompleted,
			Description: bet.GameType + " - Win",
			Reference:   "WIN_" + bet.ID,
			GameID:      bet.GameID,
			GameType:    bet.GameType,
			BetID:       bet.ID,
			Metadata: map[string]any{
				"bet_cents":    bet.AmountCents,
				"payout_cents": payout,
				"profit_cents": payout - bet.AmountCents,
			},
			CreatedAt:   now,
			CompletedAt: &now,
		}
		newBal, err = e.store.ApplyBalance(ctx, BalanceChange{
			AccountID:      in.AccountID,
			DeltaCents:     payout,
			Aggregate:      AggWon,
			AggregateCents: payout,
			Entry:          entry,
		})
	case in.Outcome == BetCancelled:
		// Devolve só o que foi debitado: aposta de cassino com débito
		// limitado não pode render mais do que saiu da conta
		entry := &Transaction{
			ID:          uuid.NewString(),
			AccountID:   in.AccountID,
			Type:        TxRefund,
			AmountCents: bet.DebitedCents,
			Currency:    e.currency,
			Status:      TxCompleted,
			Description: bet.GameType + " - Bet cancelled, stake refunded",
			Reference:   "REFUND_" + bet.ID,
			GameID:      bet.GameID,
			GameType:    bet.GameType,
			BetID:       bet.ID,
			Metadata: map[string]any{
				"bet_cents":     bet.AmountCents,
				"debited_cents": bet.DebitedCents,
			},
			CreatedAt:   now,
			CompletedAt: &now,
		}
		newBal, err = e.store.ApplyBalance(ctx, BalanceChange{
			AccountID:  in.AccountID,
			DeltaCents: bet.DebitedCents,
			Entry:      entry,
		})
	default:
		// lost, ou won com payout zero: sem efeito de saldo e sem lançamento
		var acc *Account
		acc, err = e.store.GetAccount(ctx, in.AccountID)
		if err == nil {
			newBal = acc.BalanceCents
		}
	}
	if err != nil {
		metrics.WalletOperations.WithLabelValues("settle_bet", "error").Inc()
		return nil, fmt.Errorf("apply settlement: %w", err)
	}

	e.log.Info("bet settled",
		zap.String("betId", bet.ID),
		zap.String("accountId", in.AccountID),
		zap.String("outcome", string(in.Outcome)),
		zap.Int64("payout_cents", payout),
		zap.Int64("new_balance_cents", newBal),
	)
	metrics.WalletOperations.WithLabelValues("settle_bet", "ok").Inc()
	metrics.BetsSettled.WithLabelValues(string(in.Outcome)).Inc()

	return &SettleBetResult{Bet: bet, NewBalanceCents: newBal}, nil
}

type FundsInput struct {
	AccountID        string
	AmountCents      int64
	RequiresApproval bool
	Metadata         map[string]any
	Profile          Profile
}

type FundsResult struct {
	Transaction     *Transaction
	NewBalanceCents int64
}

// RecordDeposit credita a conta na hora ou, quando requer aprovação, só grava
// o lançamento pendente sem tocar o saldo.
func (e *Engine) RecordDeposit(ctx context.Context, in FundsInput) (*FundsResult, error) {
	return e.recordFunds(ctx, in, TxDeposit)
}

// RecordWithdrawal debita a conta na hora (rejeitando saldo insuficiente) ou
// grava o lançamento pendente pra aprovação administrativa.
func (e *Engine) RecordWithdrawal(ctx context.Context, in FundsInput) (*FundsResult, error) {
	return e.recordFunds(ctx, in, TxWithdrawal)
}

func (e *Engine) recordFunds(ctx context.Context, in FundsInput, txType TransactionType) (*FundsResult, error) {
	op := string(txType)
	if in.AccountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", ErrValidation)
	}
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	unlock := e.locks.Lock(in.AccountID)
	defer unlock()

	acc, err := e.resolveAccount(ctx, in.AccountID, in.Profile)
	if err != nil {
		metrics.WalletOperations.WithLabelValues(op, "error").Inc()
		return nil, err
	}

	now := time.Now().UTC()
	amount := in.AmountCents
	if txType == TxWithdrawal {
		amount = -in.AmountCents
	}
	entry := &Transaction{
		ID:          uuid.NewString(),
		AccountID:   acc.ID,
		Type:        txType,
		AmountCents: amount,
		Currency:    acc.Currency,
		Status:      TxCompleted,
		Description: descriptionFor(txType, in.RequiresApproval),
		Reference:   newReference(strings.ToUpper(op)),
		Metadata:    in.Metadata,
		CreatedAt:   now,
	}

	if in.RequiresApproval {
		entry.Status = TxPending
		if err := e.store.InsertTransaction(ctx, entry); err != nil {
			metrics.WalletOperations.WithLabelValues(op, "error").Inc()
			return nil, fmt.Errorf("insert pending %s: %w", op, err)
		}
		e.log.Info("pending transaction recorded",
			zap.String("transactionId", entry.ID),
			zap.String("accountId", acc.ID),
			zap.String("type", op),
			zap.Int64("amount_cents", amount),
		)
		metrics.WalletOperations.WithLabelValues(op, "pending").Inc()
		return &FundsResult{Transaction: entry, NewBalanceCents: acc.BalanceCents}, nil
	}

	if txType == TxWithdrawal && acc.BalanceCents < in.AmountCents {
		metrics.WalletOperations.WithLabelValues(op, "insufficient").Inc()
		return nil, ErrInsufficientFunds
	}

	entry.CompletedAt = &now
	newBal, err := e.store.ApplyBalance(ctx, BalanceChange{
		AccountID:      acc.ID,
		DeltaCents:     amount,
		Aggregate:      aggregateFor(txType),
		AggregateCents: in.AmountCents,
		Entry:          entry,
	})
	if err != nil {
		metrics.WalletOperations.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("apply %s: %w", op, err)
	}

	e.log.Info("transaction completed",
		zap.String("transactionId", entry.ID),
		zap.String("accountId", acc.ID),
		zap.String("type", op),
		zap.Int64("amount_cents", amount),
		zap.Int64("new_balance_cents", newBal),
	)
	metrics.WalletOperations.WithLabelValues(op, "ok").Inc()
	return &FundsResult{Transaction: entry, NewBalanceCents: newBal}, nil
}

type DecisionResult struct {
	Transaction     *Transaction
	NewBalanceCents int64
}

// ApproveTransaction conclui um depósito/saque pendente aplicando o efeito de
// saldo agora. Saque é revalidado contra o saldo ATUAL: se faltar fundo, falha
// com ErrInsufficientFunds e o lançamento continua pendente.
func (e *Engine) ApproveTransaction(ctx context.Context, transactionID string) (*DecisionResult, error) {
	tx, err := e.pendingDecisionTarget(ctx, transactionID)
	if err != nil {
		metrics.ApprovalDecisions.WithLabelValues("approve_error").Inc()
		return nil, err
	}

	unlock := e.locks.Lock(tx.AccountID)
	defer unlock()

	now := time.Now().UTC()
	newBal, err := e.store.ApplyBalance(ctx, BalanceChange{
		AccountID:       tx.AccountID,
		DeltaCents:      tx.AmountCents,
		Aggregate:       aggregateFor(tx.Type),
		AggregateCents:  abs(tx.AmountCents),
		CompleteEntryID: tx.ID,
		CompletedAt:     now,
	})
	if err != nil {
		metrics.ApprovalDecisions.WithLabelValues("approve_error").Inc()
		return nil, err
	}

	tx.Status = TxCompleted
	tx.CompletedAt = &now

	e.log.Info("transaction approved",
		zap.String("transactionId", tx.ID),
		zap.String("accountId", tx.AccountID),
		zap.String("type", string(tx.Type)),
		zap.Int64("new_balance_cents", newBal),
	)
	metrics.ApprovalDecisions.WithLabelValues("approved").Inc()
	return &DecisionResult{Transaction: tx, NewBalanceCents: newBal}, nil
}

// RejectTransaction marca o lançamento pendente como failed; sem efeito de saldo.
func (e *Engine) RejectTransaction(ctx context.Context, transactionID string) (*DecisionResult, error) {
	tx, err := e.pendingDecisionTarget(ctx, transactionID)
	if err != nil {
		metrics.ApprovalDecisions.WithLabelValues("reject_error").Inc()
		return nil, err
	}

	unlock := e.locks.Lock(tx.AccountID)
	defer unlock()

	now := time.Now().UTC()
	if err := e.store.MarkTransactionStatus(ctx, tx.ID, TxFailed, now); err != nil {
		metrics.ApprovalDecisions.WithLabelValues("reject_error").Inc()
		return nil, err
	}
	tx.Status = TxFailed
	tx.CompletedAt = &now

	// Rejeição não toca o saldo, mas o chamador recebe o saldo real, não zero
	acc, err := e.store.GetAccount(ctx, tx.AccountID)
	if err != nil {
		metrics.ApprovalDecisions.WithLabelValues("reject_error").Inc()
		return nil, err
	}

	e.log.Info("transaction rejected",
		zap.String("transactionId", tx.ID),
		zap.String("accountId", tx.AccountID),
		zap.String("type", string(tx.Type)),
	)
	metrics.ApprovalDecisions.WithLabelValues("rejected").Inc()
	return &DecisionResult{Transaction: tx, NewBalanceCents: acc.BalanceCents}, nil
}

// pendingDecisionTarget valida o alvo de uma decisão administrativa:
// precisa existir, estar pendente e ser depósito ou saque.
func (e *Engine) pendingDecisionTarget(ctx context.Context, transactionID string) (*Transaction, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transactionId is required", ErrValidation)
	}
	tx, err := e.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Type != TxDeposit && tx.Type != TxWithdrawal {
		return nil, fmt.Errorf("%w: only deposits and withdrawals can be decided", ErrValidation)
	}
	if tx.Status != TxPending {
		return nil, ErrTransactionNotPending
	}
	return tx, nil
}

type AdjustResult struct {
	Transaction     *Transaction
	OldBalanceCents int64
	NewBalanceCents int64
}

// AdjustBalance aplica um delta incondicional (pode negativar o saldo) e grava
// lançamento bonus/fee concluído na hora. Ação de operador confiável, sem aprovação.
func (e *Engine) AdjustBalance(ctx context.Context, accountID string, deltaCents int64, reason string) (*AdjustResult, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", ErrValidation)
	}
	if deltaCents == 0 {
		return nil, fmt.Errorf("%w: adjustment must not be zero", ErrValidation)
	}

	unlock := e.locks.Lock(accountID)
	defer unlock()

	acc, err := e.resolveAccount(ctx, accountID, Profile{})
	if err != nil {
		metrics.WalletOperations.WithLabelValues("adjust", "error").Inc()
		return nil, err
	}
	oldBal := acc.BalanceCents

	txType := TxBonus
	if deltaCents < 0 {
		txType = TxFee
	}
	if reason == "" {
		reason = "Balance adjustment"
	}
	now := time.Now().UTC()
	entry := &Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Type:        txType,
		AmountCents: deltaCents,
		Currency:    acc.Currency,
		Status:      TxCompleted,
		Description: reason,
		Reference:   newReference("ADJ"),
		Metadata:    map[string]any{"reason": reason, "admin_adjustment": true},
		CreatedAt:   now,
		CompletedAt: &now,
	}

	newBal, err := e.store.ApplyBalance(ctx, BalanceChange{
		AccountID:     accountID,
		DeltaCents:    deltaCents,
		AllowNegative: true,
		Entry:         entry,
	})
	if err != nil {
		metrics.WalletOperations.WithLabelValues("adjust", "error").Inc()
		return nil, fmt.Errorf("apply adjustment: %w", err)
	}

	e.log.Info("balance adjusted",
		zap.String("accountId", accountID),
		zap.Int64("delta_cents", deltaCents),
		zap.Int64("old_balance_cents", oldBal),
		zap.Int64("new_balance_cents", newBal),
	)
	metrics.WalletOperations.WithLabelValues("adjust", "ok").Inc()
	return &AdjustResult{Transaction: entry, OldBalanceCents: oldBal, NewBalanceCents: newBal}, nil
}

// GetBalance resolve (ou cria) a conta e retorna saldo e agregados
func (e *Engine) GetBalance(ctx context.Context, accountID string, profile Profile) (*Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", ErrValidation)
	}
	unlock := e.locks.Lock(accountID)
	defer unlock()
	return e.resolveAccount(ctx, accountID, profile)
}

// SyncAccount faz upsert dos dados de perfil vindos do provedor de identidade
func (e *Engine) SyncAccount(ctx context.Context, accountID string, profile Profile) (*Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", ErrValidation)
	}

	unlock := e.locks.Lock(accountID)
	defer unlock()

	// Um email só pode pertencer a uma conta
	if profile.Email != "" {
		owner, err := e.store.FindAccountByEmail(ctx, profile.Email)
		if err != nil && !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
		if owner != nil && owner.ID != accountID {
			return nil, ErrEmailTaken
		}
	}

	acc, err := e.store.GetOrCreateAccount(ctx, accountID, e.currency, profile)
	if err != nil {
		return nil, err
	}
	patch := Profile{}
	changed := false
	if profile.Email != "" && profile.Email != acc.Email {
		patch.Email = profile.Email
		changed = true
	}
	if profile.FirstName != "" && profile.FirstName != acc.FirstName {
		patch.FirstName = profile.FirstName
		changed = true
	}
	if profile.LastName != "" && profile.LastName != acc.LastName {
		patch.LastName = profile.LastName
		changed = true
	}
	if changed {
		if err := e.store.UpdateAccountProfile(ctx, accountID, patch); err != nil {
			return nil, err
		}
		return e.store.GetAccount(ctx, accountID)
	}
	return acc, nil
}

// ListTransactions pagina o ledger da conta, do mais recente pro mais antigo
func (e *Engine) ListTransactions(ctx context.Context, accountID string, page Page) ([]Transaction, int64, error) {
	return e.store.ListTransactions(ctx, accountID, page.Normalize())
}

// ListBets pagina as apostas da conta
func (e *Engine) ListBets(ctx context.Context, accountID string, page Page) ([]Bet, int64, error) {
	return e.store.ListBets(ctx, accountID, page.Normalize())
}

// PendingTransactions lista a fila de aprovação administrativa por tipo
func (e *Engine) PendingTransactions(ctx context.Context, txType TransactionType) ([]Transaction, error) {
	if txType != TxDeposit && txType != TxWithdrawal {
		return nil, fmt.Errorf("%w: type must be deposit or withdrawal", ErrValidation)
	}
	return e.store.ListPendingByType(ctx, txType)
}

// GameStats agrega apostas da conta por tipo de jogo
func (e *Engine) GameStats(ctx context.Context, accountID, gameType string) (*GameStats, error) {
	if accountID == "" || gameType == "" {
		return nil, fmt.Errorf("%w: accountId and gameType are required", ErrValidation)
	}
	return e.store.GameStats(ctx, accountID, gameType)
}

// resolveAccount busca ou cria a conta, preenche email placeholder quando um
// real chega e barra contas suspensas/encerradas.
func (e *Engine) resolveAccount(ctx context.Context, accountID string, profile Profile) (*Account, error) {
	acc, err := e.store.GetOrCreateAccount(ctx, accountID, e.currency, profile)
	if err != nil {
		return nil, err
	}

	switch acc.Status {
	case AccountSuspended:
		return nil, ErrAccountSuspended
	case AccountClosed:
		return nil, ErrAccountClosed
	}

	// Backfill: troca email placeholder pelo real quando disponível
	if isPlaceholderEmail(acc.Email) && profile.Email != "" && !isPlaceholderEmail(profile.Email) {
		patch := Profile{Email: profile.Email, FirstName: profile.FirstName, LastName: profile.LastName}
		if err := e.store.UpdateAccountProfile(ctx, accountID, patch); err != nil {
			return nil, err
		}
		acc.Email = patch.Email
		if patch.FirstName != "" {
			acc.FirstName = patch.FirstName
		}
		if patch.LastName != "" {
			acc.LastName = patch.LastName
		}
	}
	return acc, nil
}

func validateBetInput(in PlaceBetInput) error {
	if in.AccountID == "" {
		return fmt.Errorf("%w: accountId is required", ErrValidation)
	}
	if in.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !GameTypes[in.GameType] {
		return fmt.Errorf("%w: unknown game type %q", ErrValidation, in.GameType)
	}
	return nil
}

func descriptionFor(txType TransactionType, pending bool) string {
	switch txType {
	case TxDeposit:
		if pending {
			return "Deposit - awaiting approval"
		}
		return "Deposit"
	case TxWithdrawal:
		if pending {
			return "Withdrawal - awaiting approval"
		}
		return "Withdrawal"
	}
	return string(txType)
}

func aggregateFor(txType TransactionType) Aggregate {
	switch txType {
	case TxDeposit:
		return AggDeposited
	case TxWithdrawal:
		return AggWithdrawn
	}
	return AggNone
}

// newReference gera a referência única do lançamento: PREFIXO_millis_sufixo
func newReference(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// PlaceholderEmail é o email sintético atribuído a contas criadas sem perfil
func PlaceholderEmail(accountID string) string {
	return "user_" + accountID + "@example.com"
}

func isPlaceholderEmail(email string) bool {
	return email == "" || strings.Contains(email, "@example.com")
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
