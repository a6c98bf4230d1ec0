package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigahub/adsrewards/internal/domain"
)

func TestAddAdScrapesPageTitle(t *testing.T) {
	env := newTestEnv(t, false)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><head><title>  Best   Crypto Faucet </title></head><body></body></html>")
	}))
	defer srv.Close()

	ad, err := env.ads.Add(context.Background(), testAdminID, srv.URL, 15)
	require.NoError(t, err)
	assert.Equal(t, "Best Crypto Faucet", ad.Name)
	assert.Equal(t, srv.URL, ad.URL)
	assert.Equal(t, int64(15), ad.Reward)
	assert.True(t, ad.Active)
}

func TestAddAdFallsBackToURLWithoutTitle(t *testing.T) {
	env := newTestEnv(t, false)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>no title here</body></html>")
	}))
	defer srv.Close()

	ad, err := env.ads.Add(context.Background(), testAdminID, srv.URL, 10)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, ad.Name)
}

func TestAddAdValidation(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.ads.Add(ctx, testAdminID, "https://example.com", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.ads.Add(ctx, testAdminID, "ftp://example.com", 10)
	assert.Error(t, err)

	_, err = env.ads.Add(ctx, testAdminID, "not a url", 10)
	assert.Error(t, err)

	_, err = env.ads.Add(ctx, 1, "https://example.com", 10)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestPickActiveSkipsInactive(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.ads.PickActive(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveAds)

	ad := env.newAd(t, 10)
	require.NoError(t, env.ads.SetActive(ctx, testAdminID, ad.ID, false))
	_, err = env.ads.PickActive(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveAds)

	require.NoError(t, env.ads.SetActive(ctx, testAdminID, ad.ID, true))
	picked, err := env.ads.PickActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, ad.ID, picked.ID)
}

func TestRemoveAd(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	ad := env.newAd(t, 10)

	require.NoError(t, env.ads.Remove(ctx, testAdminID, ad.ID))
	assert.ErrorIs(t, env.ads.Remove(ctx, testAdminID, ad.ID), domain.ErrAdNotFound)

	list, err := env.ads.List(ctx, testAdminID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
