// Package httputil provides retry helpers for the service clients.
//
// [Retry] runs an operation up to a fixed number of attempts with exponential
// backoff. Only errors wrapped in [RetryableError] are retried; everything
// else is returned straight away. A server's Retry-After, read with
// [ParseRetryAfter], takes the place of the backoff delay:
//
//	policy := httputil.Policy{Attempts: 2, Delay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}
//	err := httputil.Retry(ctx, policy, func() error {
//	    resp, err := client.R().Get(url)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// The digest defaults to a single attempt per request: a source that fails is
// shown as failed in that day's booklet. Retries are opt-in through the
// [http] retries setting.
package httputil
