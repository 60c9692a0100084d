package wallet

import "errors"

var (
	ErrValidation            = errors.New("invalid input")
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountSuspended      = errors.New("account suspended")
	ErrAccountClosed         = errors.New("account closed")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrBetNotFound           = errors.New("bet not found")
	ErrBetAlreadySettled     = errors.New("bet already settled")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotPending = errors.New("transaction not pending")
	ErrDuplicateReference    = errors.New("duplicate ledger reference")
	ErrEmailTaken            = errors.New("email already linked to another account")
)
