package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/publish"
)

func TestDeliver(t *testing.T) {
	dir := t.TempDir()
	p := New(dir)
	dest := publish.Destination{Assignment: "3.1", UserName: "alice"}
	doc := document.Document{"visual": "SinglyLinkedList", "title": "demo"}

	r, err := p.Deliver(context.Background(), doc, dest)
	if err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}

	want := filepath.Join(dir, "alice", "assignment-3.1.json")
	if r.Location != want {
		t.Errorf("Location = %q, want %q", r.Location, want)
	}
	if r.Publisher != Name {
		t.Errorf("Publisher = %q, want %q", r.Publisher, Name)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if r.Bytes != len(data) {
		t.Errorf("Bytes = %d, file has %d", r.Bytes, len(data))
	}
	got, err := document.Unmarshal(data)
	if err != nil {
		t.Fatalf("written file is not a document: %v", err)
	}
	if got.Visual() != "SinglyLinkedList" || got["title"] != "demo" {
		t.Errorf("written document = %v", got)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("document should be indented")
	}
}

func TestDeliverReplaces(t *testing.T) {
	p := New(t.TempDir())
	dest := publish.Destination{Assignment: "1", UserName: "bob"}
	ctx := context.Background()

	if _, err := p.Deliver(ctx, document.Document{"visual": "Array", "title": "old"}, dest); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Deliver(ctx, document.Document{"visual": "Array", "title": "new"}, dest); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(p.Path(dest))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"new"`) || strings.Contains(string(data), `"old"`) {
		t.Errorf("file not replaced: %s", data)
	}
	if _, err := os.Stat(p.Path(dest) + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestDeliverInvalidDestination(t *testing.T) {
	p := New(t.TempDir())
	_, err := p.Deliver(context.Background(), document.Document{"visual": "Array"},
		publish.Destination{Assignment: "1", UserName: "../escape"})
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestDeliverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(t.TempDir())
	_, err := p.Deliver(ctx, document.Document{"visual": "Array"},
		publish.Destination{Assignment: "1", UserName: "bob"})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
