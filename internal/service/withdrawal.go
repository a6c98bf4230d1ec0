package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
	"github.com/gigahub/adsrewards/internal/metrics"
)

// WithdrawalService runs the escrow lifecycle: points leave the balance the
// moment a request is made, come back in full on reject, and are burned on
// approve. One pending request per user.
type WithdrawalService struct {
	store Store
	cfg   *config.Config
	now   func() time.Time
}

func NewWithdrawalService(store Store, cfg *config.Config) *WithdrawalService {
	return &WithdrawalService{store: store, cfg: cfg, now: time.Now}
}

func (s *WithdrawalService) Request(ctx context.Context, userID, amount int64, method string) (*domain.Withdrawal, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var w *domain.Withdrawal
	_, err := s.store.UpdateAccount(ctx, userID, func(a *domain.Account) error {
		if a.Blocked {
			return domain.ErrBlocked
		}
		if a.PendingWithdrawal != nil {
			return domain.ErrWithdrawalPending
		}
		if amount < config.MinWithdraw {
			return domain.ErrBelowMinimum
		}
		if amount > a.Points {
			return domain.ErrInsufficientBalance
		}
		details := a.PayoutDetails[method]
		if details == "" {
			return domain.ErrPayoutTargetMissing
		}

		a.Points -= amount
		w = &domain.Withdrawal{
			ID:        uuid.NewString(),
			UserID:    userID,
			Amount:    amount,
			Method:    method,
			Details:   details,
			Status:    domain.WithdrawalPending,
			CreatedAt: s.now(),
		}
		a.PendingWithdrawal = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	// History append is best effort; the pending request on the account is
	// authoritative.
	if err := s.store.AppendWithdrawal(ctx, w); err != nil {
		slog.Error("append withdrawal history", "error", err, "withdrawal_id", w.ID)
	}
	metrics.Withdrawals.WithLabelValues(string(domain.WithdrawalPending)).Inc()
	return w, nil
}

// Approve burns the escrowed points. The admin identity is re-checked here
// at call time. A second approve finds no pending request and is a no-op.
func (s *WithdrawalService) Approve(ctx context.Context, adminID, targetID int64) (*domain.Withdrawal, error) {
	return s.resolve(ctx, adminID, targetID, domain.WithdrawalApproved)
}

// Reject clears the request and restores the escrowed amount exactly.
func (s *WithdrawalService) Reject(ctx context.Context, adminID, targetID int64) (*domain.Withdrawal, error) {
	return s.resolve(ctx, adminID, targetID, domain.WithdrawalRejected)
}

func (s *WithdrawalService) resolve(ctx context.Context, adminID, targetID int64, status domain.WithdrawalStatus) (*domain.Withdrawal, error) {
	if !s.cfg.IsAdmin(adminID) {
		return nil, domain.ErrNotAuthorized
	}

	var w *domain.Withdrawal
	resolvedAt := s.now()
	_, err := s.store.UpdateAccount(ctx, targetID, func(a *domain.Account) error {
		if a.PendingWithdrawal == nil {
			return domain.ErrNoPendingRequest
		}
		w = a.PendingWithdrawal
		w.Status = status
		w.ResolvedAt = &resolvedAt
		if status == domain.WithdrawalRejected {
			a.Points += w.Amount
		}
		a.PendingWithdrawal = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.ResolveWithdrawal(ctx, w.ID, status, resolvedAt); err != nil {
		slog.Error("resolve withdrawal history", "error", err, "withdrawal_id", w.ID)
	}
	metrics.Withdrawals.WithLabelValues(string(status)).Inc()
	return w, nil
}

func (s *WithdrawalService) List(ctx context.Context, adminID int64, limit int) ([]domain.Withdrawal, error) {
	if !s.cfg.IsAdmin(adminID) {
		return nil, domain.ErrNotAuthorized
	}
	return s.store.ListWithdrawals(ctx, limit)
}

// EstimatedUSD is the rough fiat value shown to admins alongside a request.
func EstimatedUSD(points int64) decimal.Decimal {
	return decimal.NewFromInt(points).Mul(decimal.NewFromFloat(config.PointsToUSDRate))
}
