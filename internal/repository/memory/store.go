// Package memory implements the service.Store as an in-process map with a
// mutex per account. It backs the service tests and any run without a
// database; the postgres implementation is the durable one.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gigahub/adsrewards/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	locks    map[int64]*sync.Mutex

	adSeq       int64
	ads         map[int64]*domain.Ad
	withdrawals []domain.Withdrawal
}

func New() *Store {
	return &Store{
		accounts: make(map[int64]*domain.Account),
		locks:    make(map[int64]*sync.Mutex),
		ads:      make(map[int64]*domain.Ad),
	}
}

func (s *Store) accountLock(telegramID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[telegramID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[telegramID] = l
	}
	return l
}

func (s *Store) GetAccount(ctx context.Context, telegramID int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[telegramID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a.Clone(), nil
}

func (s *Store) FindOrCreateAccount(ctx context.Context, telegramID int64, firstName, username string) (*domain.Account, bool, error) {
	l := s.accountLock(telegramID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[telegramID]; ok {
		a.FirstName = firstName
		a.Username = username
		return a.Clone(), false, nil
	}

	now := time.Now()
	a := &domain.Account{
		TelegramID:      telegramID,
		FirstName:       firstName,
		Username:        username,
		PayoutDetails:   map[string]string{},
		WatchedAdsToday: map[int64]string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.accounts[telegramID] = a
	return a.Clone(), true, nil
}

func (s *Store) UpdateAccount(ctx context.Context, telegramID int64, fn func(*domain.Account) error) (*domain.Account, error) {
	l := s.accountLock(telegramID)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	a, ok := s.accounts[telegramID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	// fn mutates a copy; the write is published only when fn succeeds.
	next := a.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()

	s.mu.Lock()
	s.accounts[telegramID] = next
	s.mu.Unlock()
	return next.Clone(), nil
}

func (s *Store) ListAccountIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) AccountStats(ctx context.Context, now time.Time) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &domain.Stats{}
	for _, a := range s.accounts {
		stats.TotalUsers++
		if a.Blocked {
			stats.Blocked++
		}
		if a.BanActive(now) {
			stats.Banned++
		}
		stats.TotalPoints += a.Points
	}
	return stats, nil
}

func (s *Store) ActiveAds(ctx context.Context) ([]domain.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ads []domain.Ad
	for _, ad := range s.ads {
		if ad.Active {
			ads = append(ads, *ad)
		}
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].ID < ads[j].ID })
	return ads, nil
}

func (s *Store) ListAds(ctx context.Context) ([]domain.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ads []domain.Ad
	for _, ad := range s.ads {
		ads = append(ads, *ad)
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].ID < ads[j].ID })
	return ads, nil
}

func (s *Store) GetAd(ctx context.Context, id int64) (*domain.Ad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ad, ok := s.ads[id]
	if !ok {
		return nil, domain.ErrAdNotFound
	}
	c := *ad
	return &c, nil
}

func (s *Store) CreateAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adSeq++
	ad.ID = s.adSeq
	ad.CreatedAt = time.Now()
	stored := *ad
	s.ads[ad.ID] = &stored
	return ad, nil
}

func (s *Store) DeleteAd(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ads[id]; !ok {
		return domain.ErrAdNotFound
	}
	delete(s.ads, id)
	return nil
}

func (s *Store) SetAdActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad, ok := s.ads[id]
	if !ok {
		return domain.ErrAdNotFound
	}
	ad.Active = active
	return nil
}

func (s *Store) AppendWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withdrawals = append(s.withdrawals, *w)
	return nil
}

func (s *Store) ResolveWithdrawal(ctx context.Context, id string, status domain.WithdrawalStatus, resolvedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.withdrawals {
		if s.withdrawals[i].ID == id {
			s.withdrawals[i].Status = status
			t := resolvedAt
			s.withdrawals[i].ResolvedAt = &t
			return nil
		}
	}
	return domain.ErrWithdrawalNotFound
}

func (s *Store) ListWithdrawals(ctx context.Context, limit int) ([]domain.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]domain.Withdrawal, len(s.withdrawals))
	copy(list, s.withdrawals)
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}
