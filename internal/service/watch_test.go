package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
)

func TestWatchClaimCreditsAfterMaturity(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	ad := env.newAd(t, 15)

	got, err := env.watch.Start(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ad.ID, got.ID)

	env.clock.Advance(time.Duration(config.WatchRequiredSeconds) * time.Second)

	res, err := env.watch.Claim(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimCredited, res.Status)
	assert.Equal(t, int64(15), res.Amount)
	assert.Equal(t, int64(15), res.Balance)

	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, a.WatchSession)
	assert.Equal(t, domain.DateKey(env.clock.Now()), a.WatchedAdsToday[ad.ID])
}

func TestWatchStartCooldown(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)

	_, err := env.watch.Start(ctx, 1)
	require.NoError(t, err)

	_, err = env.watch.Start(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	env.clock.Advance(config.WatchStartCooldown)
	_, err = env.watch.Start(ctx, 1)
	assert.NoError(t, err)
}

func TestWatchStartWithoutAds(t *testing.T) {
	env := newTestEnv(t, false)
	env.newUser(t, 1)

	_, err := env.watch.Start(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNoActiveAds)
}

func TestWatchEarlyClaimCountsViolations(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)

	_, err := env.watch.Start(ctx, 1)
	require.NoError(t, err)

	res, err := env.watch.Claim(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimViolation, res.Status)
	assert.Equal(t, 1, res.ViolationCount)

	// The violated session is gone; claiming again finds nothing.
	res, err = env.watch.Claim(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimNoSession, res.Status)

	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, a.Points)
}

func TestWatchViolationsEscalateToBan(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)

	for i := 0; i < config.ViolationThreshold; i++ {
		env.clock.Advance(config.WatchStartCooldown)
		_, err := env.watch.Start(ctx, 1)
		require.NoError(t, err)
		res, err := env.watch.Claim(ctx, 1)
		require.NoError(t, err)
		if i < config.ViolationThreshold-1 {
			assert.Equal(t, domain.ClaimViolation, res.Status)
		} else {
			assert.Equal(t, domain.ClaimBanned, res.Status)
			assert.Equal(t, env.clock.Now().Add(config.BanDuration), res.BannedUntil)
		}
	}

	// Banned users cannot start a new watch.
	env.clock.Advance(config.WatchStartCooldown)
	_, err := env.watch.Start(ctx, 1)
	var banErr *domain.BannedError
	require.ErrorAs(t, err, &banErr)

	// The ban lifts on its own once the window passes.
	env.clock.Advance(config.BanDuration)
	a, err := env.accounts.ClearBanIfExpired(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, a.BannedUntil)
	assert.Zero(t, a.ViolationCount)

	_, err = env.watch.Start(ctx, 1)
	assert.NoError(t, err)
}

func TestWatchSuccessfulClaimResetsViolations(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)

	_, err := env.watch.Start(ctx, 1)
	require.NoError(t, err)
	res, err := env.watch.Claim(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, domain.ClaimViolation, res.Status)

	env.clock.Advance(config.WatchStartCooldown)
	_, err = env.watch.Start(ctx, 1)
	require.NoError(t, err)
	env.clock.Advance(time.Duration(config.WatchRequiredSeconds) * time.Second)
	res, err = env.watch.Claim(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, domain.ClaimCredited, res.Status)

	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, a.ViolationCount)
}

func TestWatchPerAdDailyCap(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)

	watchOnce := func() *domain.ClaimResult {
		env.clock.Advance(config.WatchStartCooldown)
		_, err := env.watch.Start(ctx, 1)
		require.NoError(t, err)
		env.clock.Advance(time.Duration(config.WatchRequiredSeconds) * time.Second)
		res, err := env.watch.Claim(ctx, 1)
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, domain.ClaimCredited, watchOnce().Status)
	assert.Equal(t, domain.ClaimAlreadyClaimed, watchOnce().Status)

	// The cap is per calendar day, not a rolling 24h window.
	env.clock.Advance(24 * time.Hour)
	assert.Equal(t, domain.ClaimCredited, watchOnce().Status)

	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), a.Points)
}

func TestWatchBlockedUser(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)
	require.NoError(t, env.accounts.SetBlocked(ctx, testAdminID, 1, true))

	_, err := env.watch.Start(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrBlocked)
}

type recordingNotifier struct {
	mu          sync.Mutex
	unlocked    []int64
	autoClaimed []*domain.ClaimResult
}

func (n *recordingNotifier) WatchUnlocked(userID int64, ad *domain.Ad) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.unlocked = append(n.unlocked, userID)
}

func (n *recordingNotifier) WatchAutoClaimed(userID int64, res *domain.ClaimResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.autoClaimed = append(n.autoClaimed, res)
}

func TestWatchUnlockRevealsClaimButton(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)

	n := &recordingNotifier{}
	env.watch.SetNotifier(n)

	_, err := env.watch.Start(ctx, 1)
	require.NoError(t, err)
	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	sessionID := a.WatchSession.ID

	env.clock.Advance(time.Duration(config.WatchRequiredSeconds) * time.Second)
	env.watch.unlock(1, sessionID)

	require.Len(t, n.unlocked, 1)
	assert.Equal(t, int64(1), n.unlocked[0])
	assert.Empty(t, n.autoClaimed)

	// No credit happened yet in the gated mode.
	a, err = env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, a.Points)
}

func TestWatchUnlockAutoClaims(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)

	n := &recordingNotifier{}
	env.watch.SetNotifier(n)

	_, err := env.watch.Start(ctx, 1)
	require.NoError(t, err)
	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	sessionID := a.WatchSession.ID

	env.clock.Advance(time.Duration(config.WatchRequiredSeconds) * time.Second)
	env.watch.unlock(1, sessionID)

	require.Len(t, n.autoClaimed, 1)
	assert.Equal(t, domain.ClaimCredited, n.autoClaimed[0].Status)
	assert.Equal(t, int64(10), n.autoClaimed[0].Balance)
}

func TestWatchUnlockIgnoresSupersededSession(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newAd(t, 10)

	n := &recordingNotifier{}
	env.watch.SetNotifier(n)

	_, err := env.watch.Start(ctx, 1)
	require.NoError(t, err)

	env.clock.Advance(time.Duration(config.WatchRequiredSeconds) * time.Second)
	env.watch.unlock(1, "some-other-session")

	assert.Empty(t, n.autoClaimed)
	assert.Empty(t, n.unlocked)

	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, a.Points)
	assert.NotNil(t, a.WatchSession)
}
