// Package ratelimit paces requests to the ratings site.
//
// Available Implementations:
//
// Fixed Delay:
//   - Sleeps the same duration on every Wait
//   - Used as the politeness pause between two listing pages
//
// Token Bucket:
//   - Requests-per-minute ceiling backed by golang.org/x/time/rate
//   - Disabled when the rate is zero
//
// Interface:
//
// Both implement the Limiter interface:
//   - Wait(ctx) error - Block until the next request may proceed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	pause := ratelimit.NewFixedDelay(10 * time.Second)
//	ceiling := ratelimit.NewTokenBucket(6)
//
//	if err := ceiling.Wait(ctx); err != nil {
//	    return err
//	}
//	// fetch a page
//	if err := pause.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
