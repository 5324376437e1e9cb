package deals

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"bestprice_client/api"
	"bestprice_client/config"
	"bestprice_client/models"
)

// Service fetches and caches the recent deals feed. The endpoint is public;
// no session is required.
type Service struct {
	client *api.Client

	mu        sync.Mutex
	cached    []models.Deal
	fetchedAt time.Time
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Refresh fetches the feed and replaces the cache. The previous cache is
// kept when the fetch fails.
func (s *Service) Refresh(ctx context.Context) ([]models.Deal, error) {
	deals, err := s.client.RecentDeals(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = deals
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	log.Printf("Deals: refreshed, %d deals", len(deals))
	return deals, nil
}

// Cached returns the last successful feed and when it was fetched.
func (s *Service) Cached() ([]models.Deal, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached, s.fetchedAt
}

// Refresher keeps the deals cache warm on a cron schedule or a fixed
// interval, whichever the config provides.
type Refresher struct {
	cfg     *config.DealsConfig
	service *Service
	cron    *cron.Cron
	ticker  *time.Ticker
	stopCh  chan struct{}
}

func NewRefresher(cfg *config.DealsConfig, service *Service) *Refresher {
	return &Refresher{
		cfg:     cfg,
		service: service,
		cron:    cron.New(),
		stopCh:  make(chan struct{}),
	}
}

func (r *Refresher) Start(ctx context.Context) error {
	if r.cfg.Cron != "" {
		log.Printf("Deals: refresh schedule %s", r.cfg.Cron)
		_, err := r.cron.AddFunc(r.cfg.Cron, func() {
			if _, err := r.service.Refresh(ctx); err != nil {
				log.Printf("Deals: scheduled refresh error: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		r.cron.Start()
		return nil
	}

	if r.cfg.Interval > 0 {
		log.Printf("Deals: refresh interval %s", r.cfg.Interval)
		r.ticker = time.NewTicker(r.cfg.Interval)
		go func() {
			for {
				select {
				case <-r.ticker.C:
					if _, err := r.service.Refresh(ctx); err != nil {
						log.Printf("Deals: scheduled refresh error: %v", err)
					}
				case <-r.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	return nil
}

func (r *Refresher) Stop() {
	r.cron.Stop()
	if r.ticker != nil {
		r.ticker.Stop()
	}
	close(r.stopCh)
}
