package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/metrics"
)

// ReferralService links new users to their referrer and pays the one-shot
// bonus after the invitee's first rewarded claim.
type ReferralService struct {
	store Store
	cfg   *config.Config
	now   func() time.Time
}

func NewReferralService(store Store, cfg *config.Config) *ReferralService {
	return &ReferralService{store: store, cfg: cfg, now: time.Now}
}

// Link parses a /start payload into a referrer id and stores it on the new
// account. Every failure mode is a silent no-op: bad payload, self-referral,
// unknown referrer, or an already-linked account.
func (s *ReferralService) Link(ctx context.Context, userID int64, payload string) {
	referrerID, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
	if err != nil || referrerID == userID {
		return
	}
	if _, err := s.store.GetAccount(ctx, referrerID); err != nil {
		return
	}
	_, err = s.store.UpdateAccount(ctx, userID, func(a *domain.Account) error {
		if a.ReferredBy != nil {
			return nil
		}
		a.ReferredBy = &referrerID
		return nil
	})
	if err != nil {
		slog.Error("link referral", "error", err, "user_id", userID, "referrer_id", referrerID)
		return
	}
	slog.Info("referral linked", "user_id", userID, "referrer_id", referrerID)
}

// MaybeGrantBonus pays the referrer once the invitee qualifies. The guard
// flag on the invitee is set before the referrer is credited, which keeps the
// grant idempotent under duplicate event delivery; a credit failure after the
// flag is set is logged and never retried into a double pay.
func (s *ReferralService) MaybeGrantBonus(ctx context.Context, inviteeID int64) (*domain.ReferralGrant, error) {
	var referrerID int64
	granted := false
	_, err := s.store.UpdateAccount(ctx, inviteeID, func(a *domain.Account) error {
		if a.ReferredBy == nil || a.ReferralBonusGranted {
			return nil
		}
		a.ReferralBonusGranted = true
		referrerID = *a.ReferredBy
		granted = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mark referral granted: %w", err)
	}
	if !granted {
		return nil, nil
	}

	referrer, err := s.store.UpdateAccount(ctx, referrerID, func(a *domain.Account) error {
		a.Points += config.ReferralBonus
		a.ReferralCount++
		return nil
	})
	if err != nil {
		slog.Error("credit referral bonus", "error", err, "referrer_id", referrerID, "invitee_id", inviteeID)
		return nil, fmt.Errorf("credit referrer: %w", err)
	}

	metrics.PointsCredited.WithLabelValues(metrics.SourceReferral).Add(config.ReferralBonus)
	return &domain.ReferralGrant{
		ReferrerID:      referrerID,
		Bonus:           config.ReferralBonus,
		ReferrerBalance: referrer.Points,
	}, nil
}
