// Package scraper drives an export from the first listing page to the last.
//
// Each page is fetched, parsed and merged into a single ratings.Collection.
// A "Parsed page N" line goes to stderr after each page, and the configured
// delay is slept only when another page follows. Any fetch or parse error
// aborts the whole export.
//
// Usage:
//
//	cfg := config.DefaultConfig()
//	s, err := scraper.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	collection, err := s.Export(ctx, "someone")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	collection.WriteJSON(os.Stdout, false)
package scraper
