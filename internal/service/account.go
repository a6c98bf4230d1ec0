package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/metrics"
)

// AccountService owns account lifecycle and the simple time-gated grants
// (daily bonus, mining), plus the admin-only account operations.
type AccountService struct {
	store Store
	cfg   *config.Config
	now   func() time.Time
}

func NewAccountService(store Store, cfg *config.Config) *AccountService {
	return &AccountService{store: store, cfg: cfg, now: time.Now}
}

// FindOrCreate creates the account lazily on first contact.
func (s *AccountService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string) (*domain.Account, bool, error) {
	return s.store.FindOrCreateAccount(ctx, telegramID, firstName, username)
}

func (s *AccountService) Get(ctx context.Context, telegramID int64) (*domain.Account, error) {
	return s.store.GetAccount(ctx, telegramID)
}

// ClearBanIfExpired lazily resets an expired ban. Expiry is checked on user
// action, never swept.
func (s *AccountService) ClearBanIfExpired(ctx context.Context, telegramID int64) (*domain.Account, error) {
	return s.store.UpdateAccount(ctx, telegramID, func(a *domain.Account) error {
		if a.BannedUntil != nil && !a.BanActive(s.now()) {
			a.BannedUntil = nil
			a.ViolationCount = 0
		}
		return nil
	})
}

// ClaimDaily credits the daily bonus once per cooldown window.
func (s *AccountService) ClaimDaily(ctx context.Context, telegramID int64) (*domain.DailyResult, error) {
	res := &domain.DailyResult{}
	_, err := s.store.UpdateAccount(ctx, telegramID, func(a *domain.Account) error {
		if a.Blocked {
			return domain.ErrBlocked
		}
		now := s.now()
		if a.LastDailyClaimAt != nil {
			elapsed := now.Sub(*a.LastDailyClaimAt)
			if elapsed < config.DailyCooldown {
				res.TooSoon = true
				res.Remaining = config.DailyCooldown - elapsed
				return nil
			}
		}
		a.Points += config.DailyBonus
		stamp := now
		a.LastDailyClaimAt = &stamp
		res.Credited = config.DailyBonus
		res.Balance = a.Points
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Credited > 0 {
		metrics.PointsCredited.WithLabelValues(metrics.SourceDaily).Add(float64(res.Credited))
	}
	return res, nil
}

// Mine credits the per-click mining reward, with a short anti-spam cooldown.
func (s *AccountService) Mine(ctx context.Context, telegramID int64) (int64, error) {
	a, err := s.store.UpdateAccount(ctx, telegramID, func(a *domain.Account) error {
		if a.Blocked {
			return domain.ErrBlocked
		}
		now := s.now()
		if a.LastMineAt != nil && now.Sub(*a.LastMineAt) < config.MineCooldown {
			return domain.ErrRateLimited
		}
		a.Points += config.MiningReward
		stamp := now
		a.LastMineAt = &stamp
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.PointsCredited.WithLabelValues(metrics.SourceMining).Add(config.MiningReward)
	return a.Points, nil
}

func (s *AccountService) SetPayoutDetails(ctx context.Context, telegramID int64, method, details string) error {
	if !domain.IsKnownPayoutMethod(method) {
		return domain.ErrUnknownPayoutMethod
	}
	_, err := s.store.UpdateAccount(ctx, telegramID, func(a *domain.Account) error {
		a.PayoutDetails[method] = details
		return nil
	})
	return err
}

func (s *AccountService) BalanceView(ctx context.Context, telegramID int64) (*domain.BalanceView, error) {
	a, err := s.store.GetAccount(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return &domain.BalanceView{
		Points:            a.Points,
		PayoutMethods:     a.PayoutMethodsOnFile(),
		ReferralCount:     a.ReferralCount,
		PendingWithdrawal: a.PendingWithdrawal,
	}, nil
}

// AdjustPoints shifts a user's balance by delta, flooring at zero. Admin only;
// the caller identity is re-checked here, not at the menu.
func (s *AccountService) AdjustPoints(ctx context.Context, adminID, targetID, delta int64) (int64, error) {
	if !s.cfg.IsAdmin(adminID) {
		return 0, domain.ErrNotAuthorized
	}
	a, err := s.store.UpdateAccount(ctx, targetID, func(a *domain.Account) error {
		a.Points += delta
		if a.Points < 0 {
			a.Points = 0
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if delta > 0 {
		metrics.PointsCredited.WithLabelValues(metrics.SourceAdmin).Add(float64(delta))
	}
	return a.Points, nil
}

// SetPoints sets a user's balance to an absolute value. Admin only.
func (s *AccountService) SetPoints(ctx context.Context, adminID, targetID, value int64) (int64, error) {
	if !s.cfg.IsAdmin(adminID) {
		return 0, domain.ErrNotAuthorized
	}
	if value < 0 {
		return 0, domain.ErrInvalidAmount
	}
	a, err := s.store.UpdateAccount(ctx, targetID, func(a *domain.Account) error {
		a.Points = value
		return nil
	})
	if err != nil {
		return 0, err
	}
	return a.Points, nil
}

func (s *AccountService) SetBlocked(ctx context.Context, adminID, targetID int64, blocked bool) error {
	if !s.cfg.IsAdmin(adminID) {
		return domain.ErrNotAuthorized
	}
	_, err := s.store.UpdateAccount(ctx, targetID, func(a *domain.Account) error {
		a.Blocked = blocked
		return nil
	})
	return err
}

func (s *AccountService) Stats(ctx context.Context, adminID int64) (*domain.Stats, error) {
	if !s.cfg.IsAdmin(adminID) {
		return nil, domain.ErrNotAuthorized
	}
	stats, err := s.store.AccountStats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("account stats: %w", err)
	}
	return stats, nil
}

// AllIDs lists every known account id, for the admin broadcast fan-out.
func (s *AccountService) AllIDs(ctx context.Context, adminID int64) ([]int64, error) {
	if !s.cfg.IsAdmin(adminID) {
		return nil, domain.ErrNotAuthorized
	}
	return s.store.ListAccountIDs(ctx)
}
