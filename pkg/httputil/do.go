package httputil

import (
	"context"
	"net/http"
	"time"

	"github.com/matzehuels/bridges/pkg/observability"
)

// Do sends req with client and reports the exchange to the HTTP hooks.
// The request path is reported without its query string, which may carry
// credentials.
func Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
