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

func TestDailyBonusCooldown(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)

	res, err := env.accounts.ClaimDaily(ctx, 1)
	require.NoError(t, err)
	assert.False(t, res.TooSoon)
	assert.Equal(t, int64(config.DailyBonus), res.Credited)
	assert.Equal(t, int64(config.DailyBonus), res.Balance)

	env.clock.Advance(time.Hour)
	res, err = env.accounts.ClaimDaily(ctx, 1)
	require.NoError(t, err)
	assert.True(t, res.TooSoon)
	assert.Equal(t, config.DailyCooldown-time.Hour, res.Remaining)

	env.clock.Advance(config.DailyCooldown - time.Hour)
	res, err = env.accounts.ClaimDaily(ctx, 1)
	require.NoError(t, err)
	assert.False(t, res.TooSoon)
	assert.Equal(t, int64(2*config.DailyBonus), res.Balance)
}

func TestMineCooldown(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)

	balance, err := env.accounts.Mine(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(config.MiningReward), balance)

	_, err = env.accounts.Mine(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	env.clock.Advance(config.MineCooldown)
	balance, err = env.accounts.Mine(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2*config.MiningReward), balance)
}

func TestBlockedUserCannotEarn(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	require.NoError(t, env.accounts.SetBlocked(ctx, testAdminID, 1, true))

	_, err := env.accounts.ClaimDaily(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrBlocked)
	_, err = env.accounts.Mine(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrBlocked)

	require.NoError(t, env.accounts.SetBlocked(ctx, testAdminID, 1, false))
	_, err = env.accounts.ClaimDaily(ctx, 1)
	assert.NoError(t, err)
}

func TestSetPayoutDetails(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)

	err := env.accounts.SetPayoutDetails(ctx, 1, "venmo", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownPayoutMethod)

	require.NoError(t, env.accounts.SetPayoutDetails(ctx, 1, domain.PayoutMethodPayPal, "me@example.com"))
	view, err := env.accounts.BalanceView(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.PayoutMethodPayPal}, view.PayoutMethods)
}

func TestAdjustPointsFloorsAtZero(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.givePoints(t, 1, 30)

	balance, err := env.accounts.AdjustPoints(ctx, testAdminID, 1, -100)
	require.NoError(t, err)
	assert.Zero(t, balance)

	balance, err = env.accounts.AdjustPoints(ctx, testAdminID, 1, 70)
	require.NoError(t, err)
	assert.Equal(t, int64(70), balance)
}

func TestAdminOperationsRequireAdmin(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newUser(t, 2)

	_, err := env.accounts.AdjustPoints(ctx, 2, 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = env.accounts.SetPoints(ctx, 2, 1, 10)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	err = env.accounts.SetBlocked(ctx, 2, 1, true)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = env.accounts.Stats(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = env.accounts.AllIDs(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestSetPoints(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)

	_, err := env.accounts.SetPoints(ctx, testAdminID, 1, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	balance, err := env.accounts.SetPoints(ctx, testAdminID, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.newUser(t, 1)
	env.newUser(t, 2)
	env.newUser(t, 3)
	env.givePoints(t, 1, 100)
	env.givePoints(t, 2, 50)
	require.NoError(t, env.accounts.SetBlocked(ctx, testAdminID, 3, true))

	stats, err := env.accounts.Stats(ctx, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.Blocked)
	assert.Equal(t, int64(150), stats.TotalPoints)
}
