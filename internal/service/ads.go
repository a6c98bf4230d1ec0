package service

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gigahub/adsrewards/internal/config"
	"github.com/gigahub/adsrewards/internal/domain"
)

const maxAdNameLen = 64

// AdsService manages the ad inventory and picks the ad to show for a watch.
type AdsService struct {
	store      Store
	cfg        *config.Config
	httpClient *http.Client
}

func NewAdsService(store Store, cfg *config.Config) *AdsService {
	return &AdsService{
		store:      store,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: config.AdFetchTimeout},
	}
}

// PickActive returns a random active ad.
func (s *AdsService) PickActive(ctx context.Context) (*domain.Ad, error) {
	ads, err := s.store.ActiveAds(ctx)
	if err != nil {
		return nil, fmt.Errorf("active ads: %w", err)
	}
	if len(ads) == 0 {
		return nil, domain.ErrNoActiveAds
	}
	ad := ads[rand.Intn(len(ads))]
	return &ad, nil
}

func (s *AdsService) List(ctx context.Context, adminID int64) ([]domain.Ad, error) {
	if !s.cfg.IsAdmin(adminID) {
		return nil, domain.ErrNotAuthorized
	}
	return s.store.ListAds(ctx)
}

// Add validates the URL, scrapes the page title for the ad's display name
// and stores the ad as active. Scrape failures fall back to the URL itself.
func (s *AdsService) Add(ctx context.Context, adminID int64, rawURL string, reward int64) (*domain.Ad, error) {
	if !s.cfg.IsAdmin(adminID) {
		return nil, domain.ErrNotAuthorized
	}
	if reward <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid ad url %q", rawURL)
	}

	name := s.fetchTitle(ctx, rawURL)
	if name == "" {
		name = rawURL
	}

	return s.store.CreateAd(ctx, &domain.Ad{
		Name:   name,
		URL:    rawURL,
		Reward: reward,
		Active: true,
	})
}

func (s *AdsService) Remove(ctx context.Context, adminID int64, id int64) error {
	if !s.cfg.IsAdmin(adminID) {
		return domain.ErrNotAuthorized
	}
	return s.store.DeleteAd(ctx, id)
}

func (s *AdsService) SetActive(ctx context.Context, adminID int64, id int64, active bool) error {
	if !s.cfg.IsAdmin(adminID) {
		return domain.ErrNotAuthorized
	}
	return s.store.SetAdActive(ctx, id, active)
}

func (s *AdsService) fetchTitle(ctx context.Context, rawURL string) string {
	ctx, cancel := context.WithTimeout(ctx, config.AdFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.Join(strings.Fields(title), " ")
	if len(title) > maxAdNameLen {
		title = title[:maxAdNameLen]
	}
	return title
}
