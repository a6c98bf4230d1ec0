package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAdNotFound          = errors.New("ad not found")
	ErrNoActiveAds         = errors.New("no active ads")
	ErrRateLimited         = errors.New("rate limited")
	ErrBlocked             = errors.New("account blocked")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrBelowMinimum        = errors.New("amount below withdrawal minimum")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPayoutTargetMissing = errors.New("no payout details on file for method")
	ErrWithdrawalPending   = errors.New("withdrawal request already pending")
	ErrNoPendingRequest    = errors.New("no pending withdrawal request")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrUnknownPayoutMethod = errors.New("unknown payout method")
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
)

// BannedError carries the expiry of an active temporary ban.
type BannedError struct {
	Until time.Time
}

func (e *BannedError) Error() string {
	return fmt.Sprintf("banned until %s", e.Until.Format(time.RFC3339))
}
