package scraper

import "context"

// PageFetcher defines the site operations the scraper depends on
type PageFetcher interface {
	ForUser(base, username string)
	FetchPage(ctx context.Context, url string) (string, error)
	RobotsAllowed(ctx context.Context, pageURL, agent string) (bool, error)
}
