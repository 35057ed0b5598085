package rym

import (
	"context"
	"net/url"

	"github.com/temoto/robotstxt"
)

// RobotsAllowed reports whether the site's robots.txt lets agent fetch pageURL.
// A robots.txt that cannot be fetched or parsed allows everything.
func (c *Client) RobotsAllowed(ctx context.Context, pageURL, agent string) (bool, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false, err
	}
	robotsURL := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String()

	resp, err := c.get(ctx, robotsURL)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		c.logger.WithError(err).WithField("url", robotsURL).Debug("robots.txt unavailable, allowing all")
		return true, nil
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		c.logger.WithError(err).WithField("url", robotsURL).Debug("robots.txt unreadable, allowing all")
		return true, nil
	}

	return robots.TestAgent(u.RequestURI(), agent), nil
}
