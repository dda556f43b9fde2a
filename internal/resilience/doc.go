// Package resilience holds the fault tolerance building blocks used around
// external calls: circuit breakers for the Naver endpoints and the
// notification webhook, and retry with exponential backoff and jitter.
//
// Example:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchFeed()
//	})
//
//	err := retry.WithBackoff(ctx, retry.FeedFetchConfig(), func() error {
//	    return fetchFeed()
//	})
package resilience
