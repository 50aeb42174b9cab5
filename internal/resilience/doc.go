// Package resilience groups the fault tolerance building blocks used on the
// outbound HTTP paths: retry with exponential backoff and jitter, and circuit
// breakers around external origins (feed endpoints, article pages).
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchFeed()
//	})
//
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    return performRequest()
//	})
package resilience
