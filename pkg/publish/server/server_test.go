package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/publish"
)

var dest = publish.Destination{Assignment: "1.0", UserName: "alice"}

func sampleDoc() document.Document {
	return document.Document{
		"visual":            "Array",
		"title":             "bridges test case",
		"map_overlay":       false,
		"coord_system_type": "cartesian",
		"dims":              []any{0, 0, 0},
		"nodes":             []any{},
	}
}

func newTestPublisher(t *testing.T, h http.Handler) *Publisher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := New(srv.URL, "secret", WithHTTPClient(srv.Client()), WithRetry(3, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDeliver(t *testing.T) {
	var got map[string]any
	p := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/assignments/1.0" {
			t.Errorf("path = %s, want /assignments/1.0", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "secret" || r.URL.Query().Get("username") != "alice" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("body is not JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	r, err := p.Deliver(context.Background(), sampleDoc(), dest)
	if err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}
	if r.Publisher != Name || r.Bytes == 0 {
		t.Errorf("receipt = %+v", r)
	}
	if got["visual"] != "Array" || got["coord_system_type"] != "cartesian" {
		t.Errorf("server received %v", got)
	}
}

func TestDeliverStatusCodes(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCode  errs.Code
		wantCalls int32
	}{
		{"unauthorized", http.StatusUnauthorized, errs.ErrCodeUnauthorized, 1},
		{"forbidden", http.StatusForbidden, errs.ErrCodeForbidden, 1},
		{"not found", http.StatusNotFound, errs.ErrCodeNotFound, 1},
		{"bad request", http.StatusBadRequest, errs.ErrCodeDeliveryFailed, 1},
		{"server error", http.StatusInternalServerError, errs.ErrCodeNetwork, 3},
		{"gateway timeout", http.StatusGatewayTimeout, errs.ErrCodeTimeout, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			p := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				http.Error(w, "nope", tt.status)
			}))

			_, err := p.Deliver(context.Background(), sampleDoc(), dest)
			if got := errs.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestDeliverRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	p := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	if _, err := p.Deliver(context.Background(), sampleDoc(), dest); err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestDeliverConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	p, err := New(base, "secret", WithRetry(2, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Deliver(context.Background(), sampleDoc(), dest)
	if !errs.Is(err, errs.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}

func TestDeliverNetworkErrorHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	p, err := New(base, "SUPERSECRETKEY", WithRetry(1, time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Deliver(context.Background(), sampleDoc(), dest)
	if !errs.Is(err, errs.ErrCodeNetwork) {
		t.Fatalf("error = %v, want NETWORK_ERROR", err)
	}
	if msg := err.Error(); strings.Contains(msg, "SUPERSECRETKEY") || strings.Contains(msg, "apikey") {
		t.Errorf("error leaks credentials: %s", msg)
	}
	if !strings.Contains(err.Error(), "/assignments/1.0") {
		t.Errorf("error %q should still name the endpoint", err)
	}
}

func TestDeliverLocationEscaped(t *testing.T) {
	p := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r, err := p.Deliver(context.Background(), sampleDoc(), publish.Destination{Assignment: "2.1", UserName: "bob?x#1"})
	if err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}
	want := p.baseURL + "/assignments/2.1/bob%3Fx%231"
	if r.Location != want {
		t.Errorf("Location = %q, want %q", r.Location, want)
	}
}

func TestDeliverInvalidDestination(t *testing.T) {
	p := newTestPublisher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be contacted")
	}))
	_, err := p.Deliver(context.Background(), sampleDoc(), publish.Destination{Assignment: "x", UserName: "alice"})
	if !errs.Is(err, errs.ErrCodeInvalidAssignment) {
		t.Errorf("error = %v, want INVALID_ASSIGNMENT", err)
	}
}

func TestNew(t *testing.T) {
	if _, err := New("ftp://example.com", "k"); err == nil {
		t.Error("non-http URL should fail")
	}
	if _, err := New("http://example.com", ""); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("missing key error = %v, want INVALID_CONFIG", err)
	}
	p, err := NewForServer(Clone, "k")
	if err != nil {
		t.Fatal(err)
	}
	want := "http://bridges-clone.herokuapp.com/assignments/1.0?apikey=k&username=alice"
	if got := p.URL(dest); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	if s := p.String(); s != "server(http://bridges-clone.herokuapp.com)" {
		t.Errorf("String() = %q", s)
	}
}

func TestParseServer(t *testing.T) {
	tests := []struct {
		in      string
		want    Server
		wantErr bool
	}{
		{"live", Live, false},
		{"Clone", Clone, false},
		{" local ", Local, false},
		{"staging", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseServer(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseServer(%q) = %q, %v; want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
