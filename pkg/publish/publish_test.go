package publish_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bridges/pkg/cache"
	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/publish"
	"github.com/matzehuels/bridges/pkg/publish/publishtest"
)

var dest = publish.Destination{Assignment: "1.0", UserName: "alice"}

func sampleDoc() document.Document {
	return document.Document{"visual": "Array", "title": "t", "nodes": []any{}}
}

func TestDestinationKey(t *testing.T) {
	if got, want := dest.Key(), "alice/assignments/1.0"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestDestinationValidate(t *testing.T) {
	tests := []struct {
		name string
		dest publish.Destination
		code errs.Code
	}{
		{"valid", dest, ""},
		{"integer assignment", publish.Destination{Assignment: "7", UserName: "bob"}, ""},
		{"bad assignment", publish.Destination{Assignment: "one", UserName: "bob"}, errs.ErrCodeInvalidAssignment},
		{"empty user", publish.Destination{Assignment: "1", UserName: ""}, errs.ErrCodeInvalidInput},
		{"traversal user", publish.Destination{Assignment: "1", UserName: "../etc"}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dest.Validate()
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestNewReceipt(t *testing.T) {
	r := publish.NewReceipt("file", dest)
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", r.ID, err)
	}
	if r.Publisher != "file" || r.Destination != dest {
		t.Errorf("NewReceipt() = %+v", r)
	}
	if publish.NewReceipt("file", dest).ID == r.ID {
		t.Error("receipt IDs should be unique")
	}
}

func TestEncode(t *testing.T) {
	data, err := publish.Encode(sampleDoc(), dest)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.Contains(string(data), `"visual":"Array"`) {
		t.Errorf("Encode() = %s", data)
	}

	if _, err := publish.Encode(nil, dest); !errs.Is(err, errs.ErrCodeInvalidDocument) {
		t.Errorf("Encode(nil) error = %v, want INVALID_DOCUMENT", err)
	}
	if _, err := publish.Encode(sampleDoc(), publish.Destination{}); err == nil {
		t.Error("Encode() with empty destination should fail")
	}
}

func TestFailed(t *testing.T) {
	cause := errors.New("boom")
	err := publish.Failed("nats", dest, cause)
	if !errs.Is(err, errs.ErrCodeDeliveryFailed) || !errors.Is(err, cause) {
		t.Errorf("Failed() = %v", err)
	}

	coded := errs.New(errs.ErrCodeUnauthorized, "no")
	if got := publish.Failed("server", dest, coded); got != coded {
		t.Errorf("Failed() should keep coded errors, got %v", got)
	}
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	a := publishtest.NewRecorder("a")
	b := publishtest.NewRecorder("b")
	m := publish.NewMulti(a, nil, b)

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if got := m.Name(); got != "multi(a,b)" {
		t.Errorf("Name() = %q", got)
	}

	r, err := m.Deliver(ctx, sampleDoc(), dest)
	if err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}
	if len(r.Parts) != 2 || r.Parts[0].Publisher != "a" || r.Parts[1].Publisher != "b" {
		t.Errorf("Parts = %+v", r.Parts)
	}
	if a.Count() != 1 || b.Count() != 1 {
		t.Errorf("counts = %d, %d, want 1, 1", a.Count(), b.Count())
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	ctx := context.Background()
	errA, errC := errors.New("a down"), errors.New("c down")
	a := &publishtest.Recorder{PublisherName: "a", Err: errA}
	b := publishtest.NewRecorder("b")
	c := &publishtest.Recorder{PublisherName: "c", Err: errC}

	r, err := publish.NewMulti(a, b, c).Deliver(ctx, sampleDoc(), dest)
	if !errors.Is(err, errA) || !errors.Is(err, errC) {
		t.Errorf("error = %v, want both failures", err)
	}
	if !strings.HasPrefix(err.Error(), "a down") {
		t.Errorf("first error should come first: %v", err)
	}
	if b.Count() != 1 || len(r.Parts) != 1 {
		t.Errorf("healthy publisher should still receive the document")
	}
}

func TestDeduplicating(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := publishtest.NewRecorder("rec")
	d := publish.NewDeduplicating(inner, c, time.Hour, log.New(io.Discard))

	first, err := d.Deliver(ctx, sampleDoc(), dest)
	if err != nil {
		t.Fatalf("first Deliver() error: %v", err)
	}
	if first.Cached {
		t.Error("first delivery should not be cached")
	}

	second, err := d.Deliver(ctx, sampleDoc(), dest)
	if err != nil {
		t.Fatalf("second Deliver() error: %v", err)
	}
	if !second.Cached || second.ID != first.ID {
		t.Errorf("second delivery = %+v, want cached copy of %s", second, first.ID)
	}
	if inner.Count() != 1 {
		t.Errorf("inner deliveries = %d, want 1", inner.Count())
	}

	changed := sampleDoc()
	changed["title"] = "other"
	if _, err := d.Deliver(ctx, changed, dest); err != nil {
		t.Fatal(err)
	}
	other := publish.Destination{Assignment: "2.0", UserName: "alice"}
	if _, err := d.Deliver(ctx, sampleDoc(), other); err != nil {
		t.Fatal(err)
	}
	if inner.Count() != 3 {
		t.Errorf("inner deliveries = %d, want 3", inner.Count())
	}
}

func TestDeduplicatingDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &publishtest.Recorder{PublisherName: "rec", Err: errors.New("down")}
	d := publish.NewDeduplicating(inner, c, 0, nil)

	if _, err := d.Deliver(ctx, sampleDoc(), dest); err == nil {
		t.Fatal("expected error")
	}
	inner.Err = nil
	r, err := d.Deliver(ctx, sampleDoc(), dest)
	if err != nil || r.Cached {
		t.Errorf("retry after failure = %+v, %v; want fresh delivery", r, err)
	}
}

func TestDeduplicatingNullCache(t *testing.T) {
	ctx := context.Background()
	inner := publishtest.NewRecorder("rec")
	d := publish.NewDeduplicating(inner, nil, 0, nil)
	for range 2 {
		if _, err := d.Deliver(ctx, sampleDoc(), dest); err != nil {
			t.Fatal(err)
		}
	}
	if inner.Count() != 2 {
		t.Errorf("inner deliveries = %d, want 2", inner.Count())
	}
}

func TestMultiCachedOnlyWhenAllPartsCached(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := publish.NewDeduplicating(publishtest.NewRecorder("a"), c, time.Hour, log.New(io.Discard))
	b := publishtest.NewRecorder("b")

	if _, err := a.Deliver(ctx, sampleDoc(), dest); err != nil {
		t.Fatal(err)
	}

	r, err := publish.NewMulti(a, b).Deliver(ctx, sampleDoc(), dest)
	if err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}
	if r.Cached {
		t.Error("Cached = true although b delivered")
	}
	if !r.Parts[0].Cached || r.Parts[1].Cached {
		t.Errorf("part cached flags = %v, %v", r.Parts[0].Cached, r.Parts[1].Cached)
	}

	r, err = publish.NewMulti(a).Deliver(ctx, sampleDoc(), dest)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Cached {
		t.Error("Cached = false although every part was skipped")
	}
}
