package domain

import (
	"time"
)

// ClaimStatus discriminates the outcome of a claim attempt. Premature claims
// and bans are modeled outcomes, not errors.
type ClaimStatus string

const (
	ClaimCredited       ClaimStatus = "credited"
	ClaimViolation      ClaimStatus = "violation"
	ClaimBanned         ClaimStatus = "banned"
	ClaimAlreadyClaimed ClaimStatus = "already_claimed"
	ClaimNoSession      ClaimStatus = "no_session"
)

type ClaimResult struct {
	Status         ClaimStatus
	AdID           int64
	Amount         int64
	Balance        int64
	ViolationCount int
	BannedUntil    time.Time
	Referral       *ReferralGrant
}

// ReferralGrant reports a one-shot referral bonus paid to a referrer.
type ReferralGrant struct {
	ReferrerID      int64
	Bonus           int64
	ReferrerBalance int64
}

type DailyResult struct {
	TooSoon   bool
	Remaining time.Duration
	Credited  int64
	Balance   int64
}

// BalanceView is the read-only wallet summary shown to a user.
type BalanceView struct {
	Points            int64
	PayoutMethods     []string
	ReferralCount     int
	PendingWithdrawal *Withdrawal
}

// Stats is the admin-facing aggregate view.
type Stats struct {
	TotalUsers  int64
	Blocked     int64
	Banned      int64
	TotalPoints int64
}
