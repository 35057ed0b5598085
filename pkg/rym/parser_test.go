package rym

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rymexport/pkg/errors"
	"rymexport/pkg/ratings"
)

const testBase = "https://rateyourmusic.com"

// listingPage wraps rows in a minimal listing page with one ratings table
func listingPage(rows ...string) string {
	return fmt.Sprintf(`<html><body><table class="mbgen"><tr><th>Rating</th></tr>%s</table></body></html>`,
		strings.Join(rows, ""))
}

func row(artists []string, album, src string) string {
	var b strings.Builder
	b.WriteString("<tr><td>")
	for _, a := range artists {
		fmt.Fprintf(&b, `<a class="artist" href="/artist/x">%s</a> `, a)
	}
	fmt.Fprintf(&b, `<a class="album" href="/release/x">%s</a>`, album)
	fmt.Fprintf(&b, `<img height="16" src="%s">`, src)
	b.WriteString("</td></tr>")
	return b.String()
}

func parseFixture(t *testing.T, name string) Page {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	page, err := ParsePage(f, testBase)
	require.NoError(t, err)
	return page
}

func TestParsePageSingleRow(t *testing.T) {
	html := listingPage(row([]string{"Artist A"}, "Album  B", "/img/35m.png"))

	page, err := ParsePage(strings.NewReader(html), testBase)
	require.NoError(t, err)

	assert.Equal(t, []ratings.Record{{Artist: "Artist A", Album: "Album B", Rating: 35}}, page.Records)
	assert.False(t, page.HasNext())
	assert.Empty(t, page.Next)
}

func TestParsePageFixtureWithNextLink(t *testing.T) {
	page := parseFixture(t, "collection_first.html")

	assert.Equal(t, []ratings.Record{
		{Artist: "Artist A", Album: "Album B", Rating: 35},
		{Artist: "X, Y", Album: "Z", Rating: 50},
	}, page.Records)
	assert.True(t, page.HasNext())
	assert.Equal(t, "https://rateyourmusic.com/collection/someone/r0.5-5.0/2", page.Next)
}

func TestParsePageFixtureLastPage(t *testing.T) {
	page := parseFixture(t, "collection_last.html")

	assert.Equal(t, []ratings.Record{
		{Artist: "Artist C", Album: "D (Deluxe)", Rating: 5},
		{Artist: "Artist A", Album: "Album B", Rating: 40},
	}, page.Records)
	assert.False(t, page.HasNext())
}

func TestParsePageArtistFragments(t *testing.T) {
	tests := []struct {
		name    string
		artists []string
		want    string
	}{
		{"no artist link", nil, ""},
		{"two links", []string{"X", "Y"}, "X, Y"},
		{"nested markup", []string{"<span>Simon</span> <b>&amp; Garfunkel</b>"}, "Simon, & Garfunkel"},
		{"whitespace only link", []string{"X", "  \n "}, "X"},
		{"same artist twice", []string{"X", "X"}, "X, X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := listingPage(row(tt.artists, "Z", "/img/50m.png"))
			page, err := ParsePage(strings.NewReader(html), testBase)
			require.NoError(t, err)
			require.Len(t, page.Records, 1)
			assert.Equal(t, tt.want, page.Records[0].Artist)
		})
	}
}

func TestParsePageSkipsRowsWithoutCells(t *testing.T) {
	html := `<html><body><table class="mbgen">
		<tr><th>header</th></tr>
		<tr></tr>
	</table></body></html>`

	page, err := ParsePage(strings.NewReader(html), testBase)
	require.NoError(t, err)
	assert.Empty(t, page.Records)
}

func TestParsePageStructureErrors(t *testing.T) {
	good := row([]string{"A"}, "B", "/img/35m.png")

	tests := []struct {
		name string
		html string
	}{
		{"no ratings table", `<html><body><p>nothing here</p></body></html>`},
		{"two ratings tables", listingPage(good) + listingPage(good)},
		{"no album link", listingPage(`<tr><td><a class="artist">A</a><img height="16" src="/35m.png"></td></tr>`)},
		{"two album links", listingPage(`<tr><td><a class="album">B</a><a class="album">C</a><img height="16" src="/35m.png"></td></tr>`)},
		{"no rating image", listingPage(`<tr><td><a class="album">B</a><img height="32" src="/35m.png"></td></tr>`)},
		{"two rating images", listingPage(`<tr><td><a class="album">B</a><img height="16" src="/35m.png"><img height="16" src="/40m.png"></td></tr>`)},
		{"bad row after good row", listingPage(good, `<tr><td>empty</td></tr>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ParsePage(strings.NewReader(tt.html), testBase)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeStructure), "got %v", err)
			assert.Empty(t, page.Records)
		})
	}
}

func TestParsePageFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"wrong suffix", "/img/35.png"},
		{"gif", "/img/35m.gif"},
		{"no prefix", "/img/m.png"},
		{"non numeric prefix", "/img/halfm.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := listingPage(row([]string{"A"}, "B", tt.src))
			_, err := ParsePage(strings.NewReader(html), testBase)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeFormat), "got %v", err)
		})
	}
}

func TestParsePageImageWithoutSrc(t *testing.T) {
	html := listingPage(`<tr><td><a class="album">B</a><img height="16"></td></tr>`)
	_, err := ParsePage(strings.NewReader(html), testBase)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat), "got %v", err)
}

func TestParsePageNextLink(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"absent", ``, ""},
		{"relative", `<a class="navlinknext" href="/collection/u/r0.5-5.0/3">next</a>`, testBase + "/collection/u/r0.5-5.0/3"},
		{"absolute", `<a class="navlinknext" href="https://example.com/p/2">next</a>`, "https://example.com/p/2"},
		{"without href", `<a class="navlinknext">next</a>`, ""},
		{"first of two", `<a class="navlinknext" href="/a">next</a><a class="navlinknext" href="/b">next</a>`, testBase + "/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := strings.Replace(listingPage(), "<body>", "<body>"+tt.link, 1)
			page, err := ParsePage(strings.NewReader(html), testBase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Next)
		})
	}
}

func TestParsePageInvalidBase(t *testing.T) {
	_, err := ParsePage(strings.NewReader(listingPage()), "://bad")
	assert.Error(t, err)
}

func TestDecodeRating(t *testing.T) {
	for _, n := range []int{0, 5, 10, 35, 50, 123} {
		for _, prefix := range []string{"", "/img/", "https://e.snmc.io/3.0/img/rating/"} {
			src := fmt.Sprintf("%s%dm.png", prefix, n)
			got, err := DecodeRating(src)
			require.NoError(t, err, src)
			assert.Equal(t, n, got, src)
		}
	}

	got, err := DecodeRating("https://example.com/img/45m.png?v=2")
	require.NoError(t, err)
	assert.Equal(t, 45, got)

	for _, src := range []string{"", "35m.PNG", "35mpng", "/img/35m.png.bak"} {
		_, err := DecodeRating(src)
		assert.True(t, errors.IsType(err, errors.ErrorTypeFormat), "expected format error for %q", src)
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Album B", "Album B"},
		{"Album  B", "Album B"},
		{"  Album\tB\n", "Album B"},
		{"\n\n  \t ", ""},
		{"a\r\nb  c", "a b c"},
	}

	for _, tt := range tests {
		got := NormalizeSpace(tt.in)
		assert.Equal(t, tt.want, got, "NormalizeSpace(%q)", tt.in)
		assert.Equal(t, got, NormalizeSpace(got), "not idempotent for %q", tt.in)
		assert.NotContains(t, got, "  ")
	}
}
