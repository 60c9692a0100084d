package dto

type ProfilePayload struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type DepositRequest struct {
	AccountID        string         `json:"accountId"`
	AmountCents      int64          `json:"amount_cents"`
	RequiresApproval bool           `json:"requires_approval"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	Profile          ProfilePayload `json:"profile,omitempty"`
}

type WithdrawRequest struct {
	AccountID        string         `json:"accountId"`
	AmountCents      int64          `json:"amount_cents"`
	RequiresApproval bool           `json:"requires_approval"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

type AdjustRequest struct {
	AccountID  string `json:"accountId"`
	DeltaCents int64  `json:"delta_cents"`
	Reason     string `json:"reason,omitempty"`
}

type SyncAccountRequest struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}
