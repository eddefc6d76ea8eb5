// Package httputil provides HTTP client helpers.
//
// # Retry
//
// [Retry] wraps outbound requests with automatic retry for transient
// failures (network errors, 5xx responses, 429 rate limits). It uses
// exponential backoff, doubling the delay after each failed attempt:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
//	        return &httputil.RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode)}
//	    }
//	    return nil
//	})
//
// Only errors wrapped in [RetryableError] are retried; anything else is
// returned to the caller on the first attempt. Webhook delivery in
// pkg/feedback is the main consumer.
package httputil
