package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gigahub/adsrewards/internal/domain"
)

func (s *Store) AppendWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO withdrawals (id, user_id, amount, method, details, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.UserID, w.Amount, w.Method, w.Details, w.Status, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("append withdrawal: %w", err)
	}
	return nil
}

func (s *Store) ResolveWithdrawal(ctx context.Context, id string, status domain.WithdrawalStatus, resolvedAt time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE withdrawals SET status = $2, resolved_at = $3 WHERE id = $1`,
		id, status, resolvedAt)
	if err != nil {
		return fmt.Errorf("resolve withdrawal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWithdrawalNotFound
	}
	return nil
}

func (s *Store) ListWithdrawals(ctx context.Context, limit int) ([]domain.Withdrawal, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, amount, method, details, status, created_at, resolved_at
		FROM withdrawals ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	var list []domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.Method, &w.Details,
			&w.Status, &w.CreatedAt, &w.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}
