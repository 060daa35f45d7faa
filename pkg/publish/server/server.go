// Package server posts visualization documents to a BRIDGES server.
//
// Documents are sent as JSON to
//
//	<base>/assignments/<assignment>?apikey=<key>&username=<user>
//
// Connection failures and 5xx responses are retried with exponential backoff.
// Authentication failures (401, 403) and unknown assignments (404) are
// returned immediately with matching error codes.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/httputil"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Name is the publisher name used in receipts and configuration.
const Name = "server"

// Server selects a well-known BRIDGES deployment.
type Server string

// Known deployments.
const (
	Live  Server = "live"
	Clone Server = "clone"
	Local Server = "local"
)

var baseURLs = map[Server]string{
	Live:  "http://bridges-cs.herokuapp.com",
	Clone: "http://bridges-clone.herokuapp.com",
	Local: "http://localhost:3000",
}

// BaseURL returns the deployment's base URL, or "" for an unknown server.
func (s Server) BaseURL() string { return baseURLs[s] }

// ParseServer accepts "live", "clone" or "local" in any case.
func ParseServer(s string) (Server, error) {
	srv := Server(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := baseURLs[srv]; !ok {
		return "", errs.New(errs.ErrCodeInvalidConfig, "unknown server %q (want live, clone or local)", s)
	}
	return srv, nil
}

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultDelay    = time.Second
	maxErrorBody    = 512
)

// Publisher posts documents over HTTP.
type Publisher struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	attempts int
	delay    time.Duration
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option { return func(p *Publisher) { p.client = c } }

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(p *Publisher) { p.attempts, p.delay = attempts, delay }
}

// New creates a Publisher for baseURL authenticating with apiKey.
func New(baseURL, apiKey string, opts ...Option) (*Publisher, error) {
	if err := errs.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "api key is required for the server publisher")
	}
	p := &Publisher{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultTimeout},
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewForServer creates a Publisher for a well-known deployment.
func NewForServer(s Server, apiKey string, opts ...Option) (*Publisher, error) {
	base := s.BaseURL()
	if base == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown server %q", s)
	}
	return New(base, apiKey, opts...)
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return Name }

// URL returns the endpoint for dest, including credentials.
func (p *Publisher) URL(dest publish.Destination) string {
	q := url.Values{}
	q.Set("apikey", p.apiKey)
	q.Set("username", dest.UserName)
	return p.baseURL + "/assignments/" + url.PathEscape(dest.Assignment) + "?" + q.Encode()
}

// Deliver posts doc, retrying transient failures.
func (p *Publisher) Deliver(ctx context.Context, doc document.Document, dest publish.Destination) (publish.Receipt, error) {
	start := time.Now()
	data, err := publish.Encode(doc, dest)
	if err != nil {
		return publish.Receipt{}, err
	}
	endpoint := p.URL(dest)

	err = httputil.Retry(ctx, p.attempts, p.delay, func() error {
		return p.post(ctx, endpoint, data)
	})
	if err != nil {
		return publish.Receipt{}, classify(dest, err)
	}

	r := publish.NewReceipt(Name, dest)
	r.Bytes = len(data)
	r.Location = p.baseURL + "/assignments/" + url.PathEscape(dest.Assignment) + "/" + url.PathEscape(dest.UserName)
	r.Duration = time.Since(start)
	return r, nil
}

func (p *Publisher) post(ctx context.Context, endpoint string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.Do(ctx, p.client, req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httputil.Retryable(errs.Wrap(errs.ErrCodeNetwork, redactURL(err), "post document"))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := &errs.StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	if resp.StatusCode >= 500 {
		return httputil.Retryable(statusErr)
	}
	return statusErr
}

// redactURL drops the query, which carries the api key, from a transport
// error's URL.
func redactURL(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	redacted := *ue
	if u, perr := url.Parse(ue.URL); perr == nil {
		u.RawQuery = ""
		redacted.URL = u.String()
	} else {
		redacted.URL = "<redacted>"
	}
	return &redacted
}

func classify(dest publish.Destination, err error) error {
	var se *errs.StatusError
	if errors.As(err, &se) {
		return errs.Wrap(se.Code(), se, "%s: deliver %s", Name, dest.Key())
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return publish.Failed(Name, dest, err)
}

var _ publish.Publisher = (*Publisher)(nil)

// String hides the api key.
func (p *Publisher) String() string { return fmt.Sprintf("server(%s)", p.baseURL) }
