package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultCatalogURL      = "https://openrouter.ai/api/v1/models"
	defaultRefreshInterval = 24 * time.Hour
	defaultRequestTimeout  = 30 * time.Second
)

// Syncer keeps the catalog snapshot synced with the upstream source.
type Syncer struct {
	db       *gorm.DB
	url      string
	interval time.Duration
	client   *http.Client
	now      func() time.Time
}

// SyncerOptions overrides the syncer defaults.
type SyncerOptions struct {
	URL      string
	Interval time.Duration
}

// NewSyncer constructs a catalog syncer.
func NewSyncer(db *gorm.DB, opts SyncerOptions) *Syncer {
	if db == nil {
		return nil
	}
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		url = defaultCatalogURL
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Syncer{
		db:       db,
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: defaultRequestTimeout},
		now:      time.Now,
	}
}

// Start runs the refresh loop in the background.
func (s *Syncer) Start(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	log.Infof("catalog syncer started (interval=%s)", s.interval)
}

func (s *Syncer) run(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	interval := s.interval
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	if err := s.RefreshIfStale(ctx); err != nil {
		log.WithError(err).Warn("catalog syncer: initial refresh failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RefreshIfStale(ctx); err != nil {
				log.WithError(err).Warn("catalog syncer: refresh failed")
			}
		}
	}
}

// SyncOnce fetches and persists the full upstream catalog.
//
// It returns the number of catalog entries processed.
func (s *Syncer) SyncOnce(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("catalog syncer: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	url := strings.TrimSpace(s.url)
	if url == "" {
		return 0, fmt.Errorf("catalog syncer: empty url")
	}
	client := s.client
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	requestCtx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("catalog syncer: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("catalog syncer: request failed: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.WithError(errClose).Warn("catalog syncer: close response body failed")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("catalog syncer: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("catalog syncer: read response: %w", err)
	}

	snapshot, err := ParseCatalogPayload(body)
	if err != nil {
		return 0, err
	}
	if snapshot.Len() == 0 {
		return 0, fmt.Errorf("catalog syncer: empty catalog")
	}

	if err := ReplaceSnapshot(ctx, s.db, snapshot); err != nil {
		return 0, err
	}

	return snapshot.Len(), nil
}
