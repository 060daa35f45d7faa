// Package httputil provides HTTP plumbing shared by the HTTP-based publishers.
//
//   - [Retry]: bounded retry with exponential backoff for transient failures
//   - [Do]: sends a request and reports it to the observability HTTP hooks
//
// Only errors wrapped in [RetryableError] are retried. Publishers decide what
// is transient (connection errors, 5xx responses); everything else is returned
// on the first attempt:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := httputil.Do(ctx, client, req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
