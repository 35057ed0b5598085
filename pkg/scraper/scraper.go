package scraper

import (
	"context"
	"fmt"
	"strings"

	"rymexport/pkg/config"
	"rymexport/pkg/errors"
	"rymexport/pkg/logger"
	"rymexport/pkg/ratelimit"
	"rymexport/pkg/ratings"
	"rymexport/pkg/rym"
	"rymexport/pkg/ui"
)

// Scraper walks a user's collection listing page by page
type Scraper struct {
	client  PageFetcher
	pause   ratelimit.Limiter
	ceiling ratelimit.Limiter
	tracker *ui.StatusTracker
	config  *config.Config
	logger  logger.Logger
}

// New creates a new Scraper that talks to the configured site
func New(cfg *config.Config) (*Scraper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.GetLogger()

	client := rym.NewClient(cfg.Crawl.Timeout, log)
	client.SetHeader("User-Agent", cfg.Site.UserAgent)

	return NewWithClient(cfg, client, log), nil
}

// NewWithClient creates a Scraper around an existing page fetcher
func NewWithClient(cfg *config.Config, client PageFetcher, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Scraper{
		client:  client,
		pause:   ratelimit.NewFixedDelay(cfg.Crawl.Delay),
		ceiling: ratelimit.NewTokenBucket(cfg.Crawl.RequestsPerMinute),
		tracker: ui.NewStatusTracker(),
		config:  cfg,
		logger:  log,
	}
}

// Tracker returns the progress of the last export
func (s *Scraper) Tracker() *ui.StatusTracker {
	return s.tracker
}

// Export fetches every listing page of username's collection and merges the
// records into one collection. The first failure aborts the run and nothing
// collected so far is returned.
func (s *Scraper) Export(ctx context.Context, username string) (ratings.Collection, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.Usage("username is required")
	}

	base := s.config.Site.BaseURL
	seed := rym.CollectionURL(base, username)
	s.client.ForUser(base, username)
	s.tracker = ui.NewStatusTracker()
	s.ceiling.Reset()

	s.logger.InfoWithFields("Starting export", map[string]interface{}{
		"username": username,
		"seed":     seed,
	})

	if s.config.Crawl.RespectRobots {
		allowed, err := s.client.RobotsAllowed(ctx, seed, s.config.Site.UserAgent)
		if err != nil {
			return nil, fmt.Errorf("failed to check robots.txt: %w", err)
		}
		if !allowed {
			s.logger.WarnWithFields("Collection disallowed by robots.txt", map[string]interface{}{
				"username": username,
				"url":      seed,
			})
			return nil, errors.Forbidden(seed)
		}
	}

	collection := ratings.NewCollection()
	next := seed
	for next != "" {
		pageNum := s.tracker.Pages + 1

		if err := s.ceiling.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := s.fetchPage(ctx, next)
		if err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"username": username,
				"page":     pageNum,
				"url":      next,
			}).Error("Export aborted")
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}

		if overwritten := collection.Merge(page.Records...); overwritten > 0 {
			s.logger.DebugWithFields("Ratings overwritten by a later row", map[string]interface{}{
				"page":        pageNum,
				"overwritten": overwritten,
			})
		}

		s.tracker.PageParsed(len(page.Records))
		logger.LogPage(s.logger, username, pageNum, len(page.Records), collection.Len(), page.Next)

		next = page.Next
		if page.HasNext() {
			logger.LogPause(s.logger, next, s.config.Crawl.Delay)
			s.tracker.PrintPause(s.config.Crawl.Delay)
			if err := s.pause.Wait(ctx); err != nil {
				return nil, err
			}
		}
	}

	s.logger.InfoWithFields("Export completed", map[string]interface{}{
		"username": username,
		"pages":    s.tracker.Pages,
		"artists":  len(collection),
		"ratings":  collection.Len(),
	})
	s.tracker.PrintSummary(len(collection), collection.Len())

	return collection, nil
}

// fetchPage downloads and parses one listing page
func (s *Scraper) fetchPage(ctx context.Context, url string) (rym.Page, error) {
	body, err := s.client.FetchPage(ctx, url)
	if err != nil {
		return rym.Page{}, err
	}
	return rym.ParsePage(strings.NewReader(body), s.config.Site.BaseURL)
}
