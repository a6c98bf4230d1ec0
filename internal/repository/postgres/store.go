// Package postgres implements the service.Store on a pgx connection pool.
// Account mutations run in a transaction holding a row lock, so every
// check-and-update of a single account is atomic.
package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigahub/adsrewards/internal/domain"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const accountColumns = `telegram_id, first_name, username, points,
	last_daily_claim_at, watch_session, violation_count, banned_until, blocked,
	referred_by, referral_bonus_granted, referral_count, payout_details,
	pending_withdrawal, watched_ads_today, last_mine_at, last_watch_start_at,
	created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	var session, pending, payout, watched []byte

	err := row.Scan(
		&a.TelegramID, &a.FirstName, &a.Username, &a.Points,
		&a.LastDailyClaimAt, &session, &a.ViolationCount, &a.BannedUntil, &a.Blocked,
		&a.ReferredBy, &a.ReferralBonusGranted, &a.ReferralCount, &payout,
		&pending, &watched, &a.LastMineAt, &a.LastWatchStartAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if session != nil {
		a.WatchSession = &domain.WatchSession{}
		if err := json.Unmarshal(session, a.WatchSession); err != nil {
			return nil, fmt.Errorf("decode watch session: %w", err)
		}
	}
	if pending != nil {
		a.PendingWithdrawal = &domain.Withdrawal{}
		if err := json.Unmarshal(pending, a.PendingWithdrawal); err != nil {
			return nil, fmt.Errorf("decode pending withdrawal: %w", err)
		}
	}
	a.PayoutDetails = map[string]string{}
	if payout != nil {
		if err := json.Unmarshal(payout, &a.PayoutDetails); err != nil {
			return nil, fmt.Errorf("decode payout details: %w", err)
		}
	}
	a.WatchedAdsToday = map[int64]string{}
	if watched != nil {
		if err := json.Unmarshal(watched, &a.WatchedAdsToday); err != nil {
			return nil, fmt.Errorf("decode watched ads: %w", err)
		}
	}
	return a, nil
}

func encodeAccountJSON(a *domain.Account) (session, pending, payout, watched []byte, err error) {
	if a.WatchSession != nil {
		if session, err = json.Marshal(a.WatchSession); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode watch session: %w", err)
		}
	}
	if a.PendingWithdrawal != nil {
		if pending, err = json.Marshal(a.PendingWithdrawal); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("encode pending withdrawal: %w", err)
		}
	}
	if payout, err = json.Marshal(a.PayoutDetails); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode payout details: %w", err)
	}
	if watched, err = json.Marshal(a.WatchedAdsToday); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode watched ads: %w", err)
	}
	return session, pending, payout, watched, nil
}
