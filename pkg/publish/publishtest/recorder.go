// Package publishtest provides an in-memory Publisher for tests.
package publishtest

import (
	"context"
	"sync"

	"github.com/matzehuels/bridges/pkg/document"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Delivery is one recorded call to Deliver.
type Delivery struct {
	Document    document.Document
	Destination publish.Destination
}

// Recorder records deliveries. Set Err to make every delivery fail.
type Recorder struct {
	PublisherName string
	Err           error

	mu         sync.Mutex
	deliveries []Delivery
}

// NewRecorder creates a Recorder named name.
func NewRecorder(name string) *Recorder {
	return &Recorder{PublisherName: name}
}

// Name implements publish.Publisher.
func (r *Recorder) Name() string { return r.PublisherName }

// Deliver records a clone of doc.
func (r *Recorder) Deliver(_ context.Context, doc document.Document, dest publish.Destination) (publish.Receipt, error) {
	if r.Err != nil {
		return publish.Receipt{}, r.Err
	}
	data, err := publish.Encode(doc, dest)
	if err != nil {
		return publish.Receipt{}, err
	}

	r.mu.Lock()
	r.deliveries = append(r.deliveries, Delivery{Document: doc.Clone(), Destination: dest})
	r.mu.Unlock()

	receipt := publish.NewReceipt(r.PublisherName, dest)
	receipt.Bytes = len(data)
	receipt.Location = "memory://" + dest.Key()
	return receipt, nil
}

// Deliveries returns the recorded deliveries in order.
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}

// Count returns the number of recorded deliveries.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}
