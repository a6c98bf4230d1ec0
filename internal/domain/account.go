package domain

import "time"

// Payout methods a user may keep on file.
const (
	PayoutMethodCrypto = "crypto"
	PayoutMethodPayPal = "paypal"
)

var KnownPayoutMethods = []string{PayoutMethodCrypto, PayoutMethodPayPal}

func IsKnownPayoutMethod(method string) bool {
	for _, m := range KnownPayoutMethods {
		if m == method {
			return true
		}
	}
	return false
}

// WatchSession is a single in-flight ad watch. Present on the account only
// between a watch start and its claim.
type WatchSession struct {
	ID              string    `json:"id"`
	AdID            int64     `json:"ad_id"`
	StartedAt       time.Time `json:"started_at"`
	RequiredSeconds int       `json:"required_seconds"`
}

func (s *WatchSession) UnlocksAt() time.Time {
	return s.StartedAt.Add(time.Duration(s.RequiredSeconds) * time.Second)
}

func (s *WatchSession) Mature(now time.Time) bool {
	return !now.Before(s.UnlocksAt())
}

// Account is the per-user reward state. Points never go negative; every debit
// is preceded by a sufficiency check inside an atomic account update.
type Account struct {
	TelegramID int64
	FirstName  string
	Username   string
	Points     int64

	LastDailyClaimAt *time.Time
	WatchSession     *WatchSession

	ViolationCount int
	BannedUntil    *time.Time
	Blocked        bool

	ReferredBy           *int64
	ReferralBonusGranted bool
	ReferralCount        int

	PayoutDetails     map[string]string
	PendingWithdrawal *Withdrawal
	WatchedAdsToday   map[int64]string

	LastMineAt       *time.Time
	LastWatchStartAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BanActive reports whether the temporary ban is still in force. An expired
// ban is treated as clear without an explicit reset.
func (a *Account) BanActive(now time.Time) bool {
	return a.BannedUntil != nil && now.Before(*a.BannedUntil)
}

// PayoutMethodsOnFile returns the methods with saved details, in the fixed
// KnownPayoutMethods order.
func (a *Account) PayoutMethodsOnFile() []string {
	var methods []string
	for _, m := range KnownPayoutMethods {
		if a.PayoutDetails[m] != "" {
			methods = append(methods, m)
		}
	}
	return methods
}

// Clone returns a deep copy, so store implementations never hand out aliased
// mutable state.
func (a *Account) Clone() *Account {
	c := *a
	if a.WatchSession != nil {
		s := *a.WatchSession
		c.WatchSession = &s
	}
	if a.PendingWithdrawal != nil {
		w := *a.PendingWithdrawal
		c.PendingWithdrawal = &w
	}
	c.PayoutDetails = make(map[string]string, len(a.PayoutDetails))
	for k, v := range a.PayoutDetails {
		c.PayoutDetails[k] = v
	}
	c.WatchedAdsToday = make(map[int64]string, len(a.WatchedAdsToday))
	for k, v := range a.WatchedAdsToday {
		c.WatchedAdsToday[k] = v
	}
	c.LastDailyClaimAt = cloneTime(a.LastDailyClaimAt)
	c.BannedUntil = cloneTime(a.BannedUntil)
	c.LastMineAt = cloneTime(a.LastMineAt)
	c.LastWatchStartAt = cloneTime(a.LastWatchStartAt)
	if a.ReferredBy != nil {
		id := *a.ReferredBy
		c.ReferredBy = &id
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// DateKey is the calendar-day key used for the one-reward-per-ad-per-day cap.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
