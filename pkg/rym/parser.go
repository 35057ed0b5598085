package rym

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"rymexport/pkg/errors"
	"rymexport/pkg/ratings"
)

const (
	tableSelector  = "table.mbgen"
	artistSelector = "a.artist"
	albumSelector  = "a.album"
	ratingSelector = `img[height="16"]`
	nextSelector   = "a.navlinknext"

	ratingSuffix = "m.png"
)

// Page is what one listing page yields
type Page struct {
	Records []ratings.Record
	// Next is the absolute address of the following page, empty on the last one
	Next string
}

// HasNext reports whether another listing page follows
func (p Page) HasNext() bool {
	return p.Next != ""
}

// ParsePage extracts the rating records and the next-page link from one
// listing page. Relative links are resolved against base.
func ParsePage(r io.Reader, base string) (Page, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return Page{}, fmt.Errorf("invalid base address %q: %w", base, err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, errors.Structure("failed to parse HTML: %v", err)
	}

	tables := doc.Find(tableSelector)
	if n := tables.Length(); n != 1 {
		return Page{}, errors.Structure("found %d ratings tables, expected 1", n)
	}

	var page Page
	var rowErr error
	tables.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if row.ChildrenFiltered("td").Length() == 0 {
			return true
		}
		record, err := parseRow(row, baseURL)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i+1, err)
			return false
		}
		page.Records = append(page.Records, record)
		return true
	})
	if rowErr != nil {
		return Page{}, rowErr
	}

	if href, ok := doc.Find(nextSelector).First().Attr("href"); ok {
		next, err := resolve(baseURL, href)
		if err != nil {
			return Page{}, errors.Structure("invalid next page link %q: %v", href, err)
		}
		page.Next = next
	}

	return page, nil
}

func parseRow(row *goquery.Selection, base *url.URL) (ratings.Record, error) {
	var artists []string
	for _, fragment := range textFragments(row.Find(artistSelector)) {
		if name := NormalizeSpace(fragment); name != "" {
			artists = append(artists, name)
		}
	}

	albums := row.Find(albumSelector)
	if n := albums.Length(); n != 1 {
		return ratings.Record{}, errors.Structure("found %d album links, expected 1", n)
	}

	images := row.Find(ratingSelector)
	if n := images.Length(); n != 1 {
		return ratings.Record{}, errors.Structure("found %d rating images, expected 1", n)
	}
	src, ok := images.Attr("src")
	if !ok {
		return ratings.Record{}, errors.Format("rating image has no src")
	}
	resolved, err := resolve(base, src)
	if err != nil {
		return ratings.Record{}, errors.Format("invalid rating image address %q: %v", src, err)
	}
	rating, err := DecodeRating(resolved)
	if err != nil {
		return ratings.Record{}, err
	}

	return ratings.Record{
		Artist: strings.Join(artists, ", "),
		Album:  NormalizeSpace(albums.Text()),
		Rating: rating,
	}, nil
}

// DecodeRating reads the rating encoded in an image address such as
// ".../35m.png". Any integer prefix is accepted.
func DecodeRating(src string) (int, error) {
	u, err := url.Parse(src)
	if err != nil {
		return 0, errors.Format("invalid rating image address %q", src)
	}

	name := path.Base(u.Path)
	if !strings.HasSuffix(name, ratingSuffix) {
		return 0, errors.Format("rating image %q does not end with %q", name, ratingSuffix)
	}

	rating, err := strconv.Atoi(strings.TrimSuffix(name, ratingSuffix))
	if err != nil {
		return 0, errors.Format("rating image %q has no integer prefix", name)
	}
	return rating, nil
}

// NormalizeSpace collapses every whitespace run to a single space and trims both ends
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// textFragments returns every text node below the selected elements, in document order
func textFragments(sel *goquery.Selection) []string {
	var fragments []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			fragments = append(fragments, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return fragments
}

func resolve(base *url.URL, ref string) (string, error) {
	u, err := base.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
