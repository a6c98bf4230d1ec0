package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
)

func TestReferralLink(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 10)
	env.newUser(t, 20)

	env.referral.Link(ctx, 20, "10")

	a, err := env.accounts.Get(ctx, 20)
	require.NoError(t, err)
	require.NotNil(t, a.ReferredBy)
	assert.Equal(t, int64(10), *a.ReferredBy)
}

func TestReferralLinkNoOps(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 10)
	env.newUser(t, 20)
	env.newUser(t, 30)

	env.referral.Link(ctx, 20, "garbage") // unparseable payload
	env.referral.Link(ctx, 20, "20")      // self referral
	env.referral.Link(ctx, 20, "999")     // unknown referrer

	a, err := env.accounts.Get(ctx, 20)
	require.NoError(t, err)
	assert.Nil(t, a.ReferredBy)

	// The first link wins; a later payload cannot rebind the account.
	env.referral.Link(ctx, 20, "10")
	env.referral.Link(ctx, 20, "30")
	a, err = env.accounts.Get(ctx, 20)
	require.NoError(t, err)
	require.NotNil(t, a.ReferredBy)
	assert.Equal(t, int64(10), *a.ReferredBy)
}

func TestReferralBonusPaidOnFirstRewardedWatch(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 10)
	env.newUser(t, 20)
	env.newAd(t, 10)
	env.referral.Link(ctx, 20, "10")

	watchOnce := func() *domain.ClaimResult {
		env.clock.Advance(config.WatchStartCooldown)
		_, err := env.watch.Start(ctx, 20)
		require.NoError(t, err)
		env.clock.Advance(time.Duration(config.WatchRequiredSeconds) * time.Second)
		res, err := env.watch.Claim(ctx, 20)
		require.NoError(t, err)
		return res
	}

	res := watchOnce()
	require.Equal(t, domain.ClaimCredited, res.Status)
	require.NotNil(t, res.Referral)
	assert.Equal(t, int64(10), res.Referral.ReferrerID)
	assert.Equal(t, int64(config.ReferralBonus), res.Referral.Bonus)

	referrer, err := env.accounts.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(config.ReferralBonus), referrer.Points)
	assert.Equal(t, 1, referrer.ReferralCount)

	// The bonus is one-shot: further claims never pay again.
	env.clock.Advance(24 * time.Hour)
	res = watchOnce()
	require.Equal(t, domain.ClaimCredited, res.Status)
	assert.Nil(t, res.Referral)

	referrer, err = env.accounts.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(config.ReferralBonus), referrer.Points)
	assert.Equal(t, 1, referrer.ReferralCount)
}

func TestReferralNoBonusWithoutLink(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 20)

	grant, err := env.referral.MaybeGrantBonus(ctx, 20)
	require.NoError(t, err)
	assert.Nil(t, grant)
}
