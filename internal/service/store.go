package service

import (
	"context"
	"time"

	"github.com/gigahub/adsrewards/internal/domain"
)

// Store is the persistence boundary of the reward ledger. Implementations
// must make UpdateAccount an atomic check-and-update: fn runs against the
// current record under exclusion, and an error from fn discards the write.
type Store interface {
	GetAccount(ctx context.Context, telegramID int64) (*domain.Account, error)
	FindOrCreateAccount(ctx context.Context, telegramID int64, firstName, username string) (*domain.Account, bool, error)
	UpdateAccount(ctx context.Context, telegramID int64, fn func(*domain.Account) error) (*domain.Account, error)
	ListAccountIDs(ctx context.Context) ([]int64, error)
	AccountStats(ctx context.Context, now time.Time) (*domain.Stats, error)

	ActiveAds(ctx context.Context) ([]domain.Ad, error)
	ListAds(ctx context.Context) ([]domain.Ad, error)
	GetAd(ctx context.Context, id int64) (*domain.Ad, error)
	CreateAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error)
	DeleteAd(ctx context.Context, id int64) error
	SetAdActive(ctx context.Context, id int64, active bool) error

	// Withdrawal history, the admin-visible flat list. The authoritative
	// pending request lives on the account record.
	AppendWithdrawal(ctx context.Context, w *domain.Withdrawal) error
	ResolveWithdrawal(ctx context.Context, id string, status domain.WithdrawalStatus, resolvedAt time.Time) error
	ListWithdrawals(ctx context.Context, limit int) ([]domain.Withdrawal, error)
}
