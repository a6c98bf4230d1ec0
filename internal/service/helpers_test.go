package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/repository/memory"
)

const testAdminID int64 = 900

// fakeClock lets tests move through cooldowns and ban windows without
// sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	store       *memory.Store
	cfg         *config.Config
	clock       *fakeClock
	accounts    *AccountService
	referral    *ReferralService
	ads         *AdsService
	watch       *WatchService
	withdrawals *WithdrawalService
}

func newTestEnv(t *testing.T, autoClaim bool) *testEnv {
	t.Helper()

	store := memory.New()
	cfg := &config.Config{
		AdminIDs:       []int64{testAdminID},
		WatchAutoClaim: autoClaim,
	}
	clock := newFakeClock()

	accounts := NewAccountService(store, cfg)
	accounts.now = clock.Now
	referral := NewReferralService(store, cfg)
	referral.now = clock.Now
	ads := NewAdsService(store, cfg)
	watch := NewWatchService(store, ads, referral, cfg)
	watch.now = clock.Now
	withdrawals := NewWithdrawalService(store, cfg)
	withdrawals.now = clock.Now

	t.Cleanup(watch.Shutdown)

	return &testEnv{
		store:       store,
		cfg:         cfg,
		clock:       clock,
		accounts:    accounts,
		referral:    referral,
		ads:         ads,
		watch:       watch,
		withdrawals: withdrawals,
	}
}

func (e *testEnv) newUser(t *testing.T, id int64) *domain.Account {
	t.Helper()
	a, _, err := e.accounts.FindOrCreate(context.Background(), id, "user", "user")
	require.NoError(t, err)
	return a
}

func (e *testEnv) newAd(t *testing.T, reward int64) *domain.Ad {
	t.Helper()
	ad, err := e.store.CreateAd(context.Background(), &domain.Ad{
		Name:   "test ad",
		URL:    "https://example.com/ad",
		Reward: reward,
		Active: true,
	})
	require.NoError(t, err)
	return ad
}

// givePoints bumps a balance directly, bypassing the earn flows.
func (e *testEnv) givePoints(t *testing.T, id, points int64) {
	t.Helper()
	_, err := e.store.UpdateAccount(context.Background(), id, func(a *domain.Account) error {
		a.Points += points
		return nil
	})
	require.NoError(t, err)
}
