// Package publish delivers assembled visualization documents.
//
// A [Publisher] takes a finished [document.Document] and hands it to some
// destination: the BRIDGES server, a local directory, a message bus or an
// object store. Implementations live in subpackages:
//
//   - server: HTTP POST to a BRIDGES server
//   - file: pretty JSON files on disk
//   - natspub: a NATS subject per user and assignment
//   - redispub: a Redis list plus a notification channel
//   - mongopub: one MongoDB document per destination
//   - s3pub: one S3 object per delivery
//
// [Multi] fans a delivery out to several publishers and [Deduplicating]
// skips documents that were already delivered unchanged.
//
// Publishers report failures as errors and never swallow them. Any retry
// policy is the business of the individual publisher.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
)

// Publisher delivers documents to a destination.
type Publisher interface {
	// Deliver hands doc to the backend. The document must not be modified.
	Deliver(ctx context.Context, doc document.Document, dest Destination) (Receipt, error)

	// Name identifies the publisher in logs, receipts and cache keys.
	Name() string
}

// Destination addresses one assignment of one user.
type Destination struct {
	Assignment string `json:"assignment"`
	UserName   string `json:"user_name"`
}

// Key returns "<user>/assignments/<assignment>".
func (d Destination) Key() string {
	return d.UserName + "/assignments/" + d.Assignment
}

// String implements fmt.Stringer.
func (d Destination) String() string { return d.Key() }

// Validate checks that the assignment and user name are usable in URLs,
// subjects and object keys.
func (d Destination) Validate() error {
	if err := errs.ValidateAssignment(d.Assignment); err != nil {
		return err
	}
	return errs.ValidateUserName(d.UserName)
}

// Receipt describes a completed delivery.
type Receipt struct {
	ID          string        `json:"id"`
	Publisher   string        `json:"publisher"`
	Destination Destination   `json:"destination"`
	Bytes       int           `json:"bytes"`
	Duration    time.Duration `json:"duration"`
	Location    string        `json:"location,omitempty"`
	Cached      bool          `json:"cached,omitempty"`
	Parts       []Receipt     `json:"parts,omitempty"`
}

// NewReceipt starts a receipt with a fresh ID.
func NewReceipt(publisher string, dest Destination) Receipt {
	return Receipt{
		ID:          uuid.NewString(),
		Publisher:   publisher,
		Destination: dest,
	}
}

// Encode validates dest and serializes doc, the common prologue of every
// publisher.
func Encode(doc document.Document, dest Destination) ([]byte, error) {
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errs.New(errs.ErrCodeInvalidDocument, "nil document")
	}
	data, err := doc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Failed wraps a backend error as a delivery failure for publisher name.
func Failed(name string, dest Destination, err error) error {
	if errs.GetCode(err) != "" {
		return err
	}
	return errs.Wrap(errs.ErrCodeDeliveryFailed, err, "%s: deliver %s", name, dest.Key())
}
