package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gigahub/adsrewards/internal/domain"
)

const adColumns = `id, name, url, reward, active, created_at`

func (s *Store) queryAds(ctx context.Context, query string, args ...any) ([]domain.Ad, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ads: %w", err)
	}
	defer rows.Close()

	var ads []domain.Ad
	for rows.Next() {
		var ad domain.Ad
		if err := rows.Scan(&ad.ID, &ad.Name, &ad.URL, &ad.Reward, &ad.Active, &ad.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

func (s *Store) ActiveAds(ctx context.Context) ([]domain.Ad, error) {
	return s.queryAds(ctx, `SELECT `+adColumns+` FROM ads WHERE active ORDER BY id`)
}

func (s *Store) ListAds(ctx context.Context) ([]domain.Ad, error) {
	return s.queryAds(ctx, `SELECT `+adColumns+` FROM ads ORDER BY id`)
}

func (s *Store) GetAd(ctx context.Context, id int64) (*domain.Ad, error) {
	var ad domain.Ad
	err := s.db.QueryRow(ctx, `SELECT `+adColumns+` FROM ads WHERE id = $1`, id).
		Scan(&ad.ID, &ad.Name, &ad.URL, &ad.Reward, &ad.Active, &ad.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdNotFound
		}
		return nil, fmt.Errorf("get ad: %w", err)
	}
	return &ad, nil
}

func (s *Store) CreateAd(ctx context.Context, ad *domain.Ad) (*domain.Ad, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO ads (name, url, reward, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		ad.Name, ad.URL, ad.Reward, ad.Active).
		Scan(&ad.ID, &ad.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}
	return ad, nil
}

func (s *Store) DeleteAd(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAdNotFound
	}
	return nil
}

func (s *Store) SetAdActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE ads SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set ad active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAdNotFound
	}
	return nil
}
