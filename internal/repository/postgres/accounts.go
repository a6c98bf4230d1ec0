package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gigahub/adsrewards/internal/domain"
)

func (s *Store) GetAccount(ctx context.Context, telegramID int64) (*domain.Account, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE telegram_id = $1`, telegramID)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *Store) FindOrCreateAccount(ctx context.Context, telegramID int64, firstName, username string) (*domain.Account, bool, error) {
	a, err := s.GetAccount(ctx, telegramID)
	if err == nil {
		if firstName != a.FirstName || username != a.Username {
			a, err = s.UpdateAccount(ctx, telegramID, func(a *domain.Account) error {
				a.FirstName = firstName
				a.Username = username
				return nil
			})
			if err != nil {
				return nil, false, err
			}
		}
		return a, false, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, false, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO accounts (telegram_id, first_name, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id) DO UPDATE SET first_name = $2, username = $3
		RETURNING `+accountColumns,
		telegramID, firstName, username)
	a, err = scanAccount(row)
	if err != nil {
		return nil, false, fmt.Errorf("create account: %w", err)
	}
	return a, true, nil
}

// UpdateAccount locks the account row, applies fn and writes the result back.
// An error from fn rolls the transaction back and is returned unchanged, so
// domain sentinels survive the round trip.
func (s *Store) UpdateAccount(ctx context.Context, telegramID int64, fn func(*domain.Account) error) (*domain.Account, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE telegram_id = $1 FOR UPDATE`, telegramID)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("lock account: %w", err)
	}

	if err := fn(a); err != nil {
		return nil, err
	}

	session, pending, payout, watched, err := encodeAccountJSON(a)
	if err != nil {
		return nil, err
	}

	a.UpdatedAt = time.Now()
	_, err = tx.Exec(ctx, `
		UPDATE accounts SET
			first_name = $2, username = $3, points = $4,
			last_daily_claim_at = $5, watch_session = $6, violation_count = $7,
			banned_until = $8, blocked = $9, referred_by = $10,
			referral_bonus_granted = $11, referral_count = $12,
			payout_details = $13, pending_withdrawal = $14, watched_ads_today = $15,
			last_mine_at = $16, last_watch_start_at = $17, updated_at = $18
		WHERE telegram_id = $1`,
		a.TelegramID, a.FirstName, a.Username, a.Points,
		a.LastDailyClaimAt, session, a.ViolationCount,
		a.BannedUntil, a.Blocked, a.ReferredBy,
		a.ReferralBonusGranted, a.ReferralCount,
		payout, pending, watched,
		a.LastMineAt, a.LastWatchStartAt, a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return a, nil
}

func (s *Store) ListAccountIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT telegram_id FROM accounts ORDER BY telegram_id`)
	if err != nil {
		return nil, fmt.Errorf("list account ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) AccountStats(ctx context.Context, now time.Time) (*domain.Stats, error) {
	stats := &domain.Stats{}
	err := s.db.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE blocked),
			count(*) FILTER (WHERE banned_until > $1),
			COALESCE(sum(points), 0)
		FROM accounts`, now).
		Scan(&stats.TotalUsers, &stats.Blocked, &stats.Banned, &stats.TotalPoints)
	if err != nil {
		return nil, fmt.Errorf("account stats: %w", err)
	}
	return stats, nil
}
