// Package file writes visualization documents to a local directory.
//
// Each destination maps to one file, <dir>/<user>/assignment-<assignment>.json,
// which is replaced on every delivery.
package file

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/bridges/pkg/document"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Name is the publisher name used in receipts and configuration.
const Name = "file"

// Publisher writes pretty-printed JSON files.
type Publisher struct {
	dir string
}

// New creates a Publisher rooted at dir.
func New(dir string) *Publisher {
	return &Publisher{dir: dir}
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return Name }

// Path returns the file a destination is written to.
func (p *Publisher) Path(dest publish.Destination) string {
	return filepath.Join(p.dir, dest.UserName, "assignment-"+dest.Assignment+".json")
}

// Deliver writes doc atomically by renaming a temporary file into place.
func (p *Publisher) Deliver(ctx context.Context, doc document.Document, dest publish.Destination) (publish.Receipt, error) {
	start := time.Now()
	if _, err := publish.Encode(doc, dest); err != nil {
		return publish.Receipt{}, err
	}
	data, err := doc.MarshalIndent()
	if err != nil {
		return publish.Receipt{}, err
	}
	if err := ctx.Err(); err != nil {
		return publish.Receipt{}, err
	}

	path := p.Path(dest)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return publish.Receipt{}, publish.Failed(Name, dest, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return publish.Receipt{}, publish.Failed(Name, dest, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return publish.Receipt{}, publish.Failed(Name, dest, err)
	}

	r := publish.NewReceipt(Name, dest)
	r.Bytes = len(data) + 1
	r.Location = path
	r.Duration = time.Since(start)
	return r, nil
}

var _ publish.Publisher = (*Publisher)(nil)
