package rym

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the site root every listing page is resolved against
	BaseURL = "https://rateyourmusic.com"

	// CollectionEndpoint is the listing path pattern for a user's collection
	CollectionEndpoint = "/collection/%s/"

	// FullRangeFilter selects every rating from 0.5 to 5.0 stars
	FullRangeFilter = "r0.5-5.0"

	// ProfileEndpoint is the public profile path pattern, sent as referer
	ProfileEndpoint = "/~%s"

	// DefaultUserAgent is an ordinary desktop browser string
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:54.0) Gecko/20100101 Firefox/54.0"
)

// CollectionURL builds the first listing page of a user's collection
func CollectionURL(base, username string) string {
	return trimBase(base) + fmt.Sprintf(CollectionEndpoint, url.PathEscape(username)) + FullRangeFilter
}

// ProfileURL builds the public profile address of a user
func ProfileURL(base, username string) string {
	return trimBase(base) + fmt.Sprintf(ProfileEndpoint, url.PathEscape(username))
}

func trimBase(base string) string {
	if base == "" {
		base = BaseURL
	}
	return strings.TrimRight(base, "/")
}
