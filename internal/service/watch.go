package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/metrics"
)

// UnlockNotifier receives watch-unlock events from the scheduler. In the
// gated mode the claim button is revealed; in the auto mode the claim has
// already happened and the result is reported.
type UnlockNotifier interface {
	WatchUnlocked(userID int64, ad *domain.Ad)
	WatchAutoClaimed(userID int64, result *domain.ClaimResult)
}

// WatchService runs the timed ad-watch sessions: it opens a session per user,
// schedules the unlock, and settles claims into credits, violations or bans.
type WatchService struct {
	store     Store
	ads       *AdsService
	referral  *ReferralService
	cfg       *config.Config
	autoClaim bool
	now       func() time.Time

	mu       sync.Mutex
	timers   map[int64]*time.Timer
	notifier UnlockNotifier
}

func NewWatchService(store Store, ads *AdsService, referral *ReferralService, cfg *config.Config) *WatchService {
	return &WatchService{
		store:     store,
		ads:       ads,
		referral:  referral,
		cfg:       cfg,
		autoClaim: cfg.WatchAutoClaim,
		now:       time.Now,
		timers:    make(map[int64]*time.Timer),
	}
}

// SetNotifier installs the transport-side unlock sink. Must be called before
// the first Start; the handler is constructed after the services, so the
// binding is late.
func (s *WatchService) SetNotifier(n UnlockNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Start opens a watch session on a random active ad and arms the unlock
// timer. A second start within the cooldown fails with ErrRateLimited.
func (s *WatchService) Start(ctx context.Context, userID int64) (*domain.Ad, error) {
	ad, err := s.ads.PickActive(ctx)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	_, err = s.store.UpdateAccount(ctx, userID, func(a *domain.Account) error {
		now := s.now()
		if a.Blocked {
			return domain.ErrBlocked
		}
		if !s.cfg.IsAdmin(userID) && a.BanActive(now) {
			return &domain.BannedError{Until: *a.BannedUntil}
		}
		if a.LastWatchStartAt != nil && now.Sub(*a.LastWatchStartAt) < config.WatchStartCooldown {
			return domain.ErrRateLimited
		}
		a.WatchSession = &domain.WatchSession{
			ID:              sessionID,
			AdID:            ad.ID,
			StartedAt:       now,
			RequiredSeconds: config.WatchRequiredSeconds,
		}
		stamp := now
		a.LastWatchStartAt = &stamp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.armTimer(userID, sessionID, time.Duration(config.WatchRequiredSeconds)*time.Second)
	return ad, nil
}

// Claim settles the open watch session. Premature claims clear the session,
// count a violation and escalate to a temporary ban at the threshold. Mature
// claims pay at most once per ad per calendar day and trigger the referral
// bonus check. Admin identities skip ban and timing gates.
func (s *WatchService) Claim(ctx context.Context, userID int64) (*domain.ClaimResult, error) {
	res := &domain.ClaimResult{}
	newBan := false
	_, err := s.store.UpdateAccount(ctx, userID, func(a *domain.Account) error {
		now := s.now()
		if a.Blocked {
			return domain.ErrBlocked
		}
		admin := s.cfg.IsAdmin(userID)

		if !admin && a.BanActive(now) {
			*res = domain.ClaimResult{Status: domain.ClaimBanned, BannedUntil: *a.BannedUntil}
			return nil
		}

		sess := a.WatchSession
		if sess == nil {
			res.Status = domain.ClaimNoSession
			return nil
		}
		res.AdID = sess.AdID

		if !admin && !sess.Mature(now) {
			// Violation: the session is cleared either way, the user
			// has to restart the watch.
			a.WatchSession = nil
			a.ViolationCount++
			if a.ViolationCount >= config.ViolationThreshold {
				until := now.Add(config.BanDuration)
				a.BannedUntil = &until
				a.ViolationCount = 0
				newBan = true
				*res = domain.ClaimResult{Status: domain.ClaimBanned, AdID: sess.AdID, BannedUntil: until}
				return nil
			}
			res.Status = domain.ClaimViolation
			res.ViolationCount = a.ViolationCount
			return nil
		}

		ad, err := s.store.GetAd(ctx, sess.AdID)
		if err != nil {
			a.WatchSession = nil
			return fmt.Errorf("claim ad %d: %w", sess.AdID, err)
		}

		key := domain.DateKey(now)
		if a.WatchedAdsToday[sess.AdID] == key {
			a.WatchSession = nil
			res.Status = domain.ClaimAlreadyClaimed
			return nil
		}

		a.Points += ad.Reward
		// Drop stale day stamps while we are here.
		for id, day := range a.WatchedAdsToday {
			if day != key {
				delete(a.WatchedAdsToday, id)
			}
		}
		a.WatchedAdsToday[sess.AdID] = key
		a.WatchSession = nil
		a.ViolationCount = 0
		res.Status = domain.ClaimCredited
		res.Amount = ad.Reward
		res.Balance = a.Points
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case domain.ClaimCredited:
		s.cancelTimer(userID)
		metrics.PointsCredited.WithLabelValues(metrics.SourceAd).Add(float64(res.Amount))
		grant, err := s.referral.MaybeGrantBonus(ctx, userID)
		if err != nil {
			slog.Error("referral bonus check", "error", err, "user_id", userID)
		}
		res.Referral = grant
	case domain.ClaimViolation:
		metrics.Violations.Inc()
	case domain.ClaimBanned:
		if newBan {
			metrics.Violations.Inc()
			metrics.Bans.Inc()
		}
	case domain.ClaimAlreadyClaimed, domain.ClaimNoSession:
		s.cancelTimer(userID)
	}
	return res, nil
}

// Shutdown stops all pending unlock timers.
func (s *WatchService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *WatchService) armTimer(userID int64, sessionID string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[userID]; ok {
		t.Stop()
	}
	s.timers[userID] = time.AfterFunc(d, func() {
		s.unlock(userID, sessionID)
	})
}

func (s *WatchService) cancelTimer(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[userID]; ok {
		t.Stop()
		delete(s.timers, userID)
	}
}

// unlock fires when a session matures. It re-fetches the account by id: a
// session that was cleared or superseded in the meantime makes this a no-op.
func (s *WatchService) unlock(userID int64, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.mu.Lock()
	delete(s.timers, userID)
	notifier := s.notifier
	s.mu.Unlock()

	a, err := s.store.GetAccount(ctx, userID)
	if err != nil {
		slog.Error("watch unlock: load account", "error", err, "user_id", userID)
		return
	}
	sess := a.WatchSession
	if sess == nil || sess.ID != sessionID || !sess.Mature(s.now()) {
		return
	}

	if s.autoClaim {
		res, err := s.Claim(ctx, userID)
		if err != nil {
			slog.Error("watch auto claim", "error", err, "user_id", userID)
			return
		}
		if notifier != nil {
			notifier.WatchAutoClaimed(userID, res)
		}
		return
	}

	if notifier != nil {
		ad, err := s.store.GetAd(ctx, sess.AdID)
		if err != nil {
			slog.Error("watch unlock: load ad", "error", err, "ad_id", sess.AdID)
			return
		}
		notifier.WatchUnlocked(userID, ad)
	}
}
