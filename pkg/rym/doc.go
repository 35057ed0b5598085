// Package rym reads rating collections from rateyourmusic.com listing pages.
//
// The package has three parts:
//   - URL builders for a user's collection and profile pages
//   - A Client that fetches pages with a browser user agent and a profile referer
//   - ParsePage, which turns one listing page into rating records and the next-page link
//
// Example usage:
//
//	client := rym.NewClient(0, logger.GetLogger())
//	client.ForUser(rym.BaseURL, "someone")
//
//	body, err := client.FetchPage(ctx, rym.CollectionURL(rym.BaseURL, "someone"))
//	if err != nil {
//	    return err
//	}
//
//	page, err := rym.ParsePage(strings.NewReader(body), rym.BaseURL)
//	if err != nil {
//	    // errors.ErrorTypeStructure or errors.ErrorTypeFormat: the layout changed
//	    return err
//	}
//	for _, r := range page.Records {
//	    fmt.Println(r.Artist, r.Album, r.Rating)
//	}
package rym
