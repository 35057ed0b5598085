// Package ratings holds the artist → album → rating mapping produced by an export.
package ratings

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Record is one rated release as it appears on a listing page.
// Rating is the encoded integer, ten times the star value (35 means 3.5 stars).
type Record struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Rating int    `json:"rating"`
}

// Stars returns the rating on the site's star scale
func (r Record) Stars() float64 {
	return float64(r.Rating) / 10
}

func (r Record) String() string {
	return fmt.Sprintf("%s - %s (%d)", r.Artist, r.Album, r.Rating)
}

// Collection maps artist to album to rating. An album appears at most once
// per artist; a later record for the same pair replaces the earlier one.
type Collection map[string]map[string]int

// NewCollection returns an empty collection
func NewCollection() Collection {
	return make(Collection)
}

// Add inserts a record and reports whether it replaced an existing rating
func (c Collection) Add(r Record) (replaced bool) {
	albums, ok := c[r.Artist]
	if !ok {
		albums = make(map[string]int)
		c[r.Artist] = albums
	}
	_, replaced = albums[r.Album]
	albums[r.Album] = r.Rating
	return replaced
}

// Merge adds records in order and returns how many of them overwrote an existing entry
func (c Collection) Merge(records ...Record) int {
	overwritten := 0
	for _, r := range records {
		if c.Add(r) {
			overwritten++
		}
	}
	return overwritten
}

// Rating looks up a single (artist, album) pair
func (c Collection) Rating(artist, album string) (int, bool) {
	rating, ok := c[artist][album]
	return rating, ok
}

// Len returns the number of (artist, album) pairs
func (c Collection) Len() int {
	n := 0
	for _, albums := range c {
		n += len(albums)
	}
	return n
}

// Artists returns the artist keys in sorted order
func (c Collection) Artists() []string {
	artists := make([]string, 0, len(c))
	for artist := range c {
		artists = append(artists, artist)
	}
	sort.Strings(artists)
	return artists
}

// WriteJSON writes the collection as a single JSON document followed by a newline.
// Object keys are sorted, so the output is stable across runs.
func (c Collection) WriteJSON(w io.Writer, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode ratings: %w", err)
	}
	return nil
}
