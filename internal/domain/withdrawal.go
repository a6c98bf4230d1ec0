package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// Withdrawal is an escrowed payout request. While it is pending, Amount has
// already been deducted from the owner's points; approval burns the escrow,
// rejection restores it in full.
type Withdrawal struct {
	ID         string           `json:"id"`
	UserID     int64            `json:"user_id"`
	Amount     int64            `json:"amount"`
	Method     string           `json:"method"`
	Details    string           `json:"details"`
	Status     WithdrawalStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	ResolvedAt *time.Time       `json:"resolved_at,omitempty"`
}
