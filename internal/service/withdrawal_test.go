package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
)

func setupWithdrawUser(t *testing.T, env *testEnv, id, points int64) {
	t.Helper()
	env.newUser(t, id)
	env.givePoints(t, id, points)
	require.NoError(t, env.accounts.SetPayoutDetails(context.Background(), id, domain.PayoutMethodCrypto, "TAbc123"))
}

func TestWithdrawRejectRestoresEscrow(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	setupWithdrawUser(t, env, 1, 250)

	w, err := env.withdrawals.Request(ctx, 1, 200, domain.PayoutMethodCrypto)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalPending, w.Status)

	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), a.Points)
	require.NotNil(t, a.PendingWithdrawal)

	w, err = env.withdrawals.Reject(ctx, testAdminID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalRejected, w.Status)

	a, err = env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250), a.Points)
	assert.Nil(t, a.PendingWithdrawal)

	list, err := env.withdrawals.List(ctx, testAdminID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.WithdrawalRejected, list[0].Status)
	assert.NotNil(t, list[0].ResolvedAt)
}

func TestWithdrawApproveBurnsEscrow(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	setupWithdrawUser(t, env, 1, 250)

	_, err := env.withdrawals.Request(ctx, 1, 200, domain.PayoutMethodCrypto)
	require.NoError(t, err)

	w, err := env.withdrawals.Approve(ctx, testAdminID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalApproved, w.Status)

	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), a.Points)
	assert.Nil(t, a.PendingWithdrawal)
}

func TestWithdrawRequestGates(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	setupWithdrawUser(t, env, 1, 250)

	_, err := env.withdrawals.Request(ctx, 1, 0, domain.PayoutMethodCrypto)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.withdrawals.Request(ctx, 1, config.MinWithdraw-1, domain.PayoutMethodCrypto)
	assert.ErrorIs(t, err, domain.ErrBelowMinimum)

	_, err = env.withdrawals.Request(ctx, 1, 251, domain.PayoutMethodCrypto)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = env.withdrawals.Request(ctx, 1, 200, domain.PayoutMethodPayPal)
	assert.ErrorIs(t, err, domain.ErrPayoutTargetMissing)

	// A failed request must not touch the balance.
	a, err := env.accounts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250), a.Points)

	_, err = env.withdrawals.Request(ctx, 1, 200, domain.PayoutMethodCrypto)
	require.NoError(t, err)
	_, err = env.withdrawals.Request(ctx, 1, 200, domain.PayoutMethodCrypto)
	assert.ErrorIs(t, err, domain.ErrWithdrawalPending)
}

func TestWithdrawResolveAuthorization(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	setupWithdrawUser(t, env, 1, 250)

	_, err := env.withdrawals.Request(ctx, 1, 200, domain.PayoutMethodCrypto)
	require.NoError(t, err)

	// The requester themselves is not an admin.
	_, err = env.withdrawals.Approve(ctx, 1, 1)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = env.withdrawals.Approve(ctx, testAdminID, 1)
	require.NoError(t, err)

	// Double resolution finds nothing pending.
	_, err = env.withdrawals.Reject(ctx, testAdminID, 1)
	assert.ErrorIs(t, err, domain.ErrNoPendingRequest)
}

func TestEstimatedUSD(t *testing.T) {
	assert.Equal(t, "0.25", EstimatedUSD(250).StringFixed(2))
	assert.Equal(t, "0.00", EstimatedUSD(0).StringFixed(2))
}
