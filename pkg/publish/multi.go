package publish

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/matzehuels/bridges/pkg/document"
)

// Multi delivers to several publishers in order.
type Multi struct {
	publishers []Publisher
}

// NewMulti combines publishers. Nil entries are ignored.
func NewMulti(publishers ...Publisher) *Multi {
	m := &Multi{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// Name returns "multi(<a>,<b>,...)".
func (m *Multi) Name() string {
	names := make([]string, len(m.publishers))
	for i, p := range m.publishers {
		names[i] = p.Name()
	}
	return "multi(" + strings.Join(names, ",") + ")"
}

// Len returns the number of wrapped publishers.
func (m *Multi) Len() int { return len(m.publishers) }

// Deliver hands doc to every publisher, even after a failure. The returned
// receipt lists the successful deliveries in Parts; the error joins all
// failures in publisher order. The receipt is Cached only when every
// publisher skipped the delivery.
func (m *Multi) Deliver(ctx context.Context, doc document.Document, dest Destination) (Receipt, error) {
	start := time.Now()
	receipt := NewReceipt(m.Name(), dest)
	receipt.Cached = len(m.publishers) > 0

	var errList []error
	for _, p := range m.publishers {
		part, err := p.Deliver(ctx, doc, dest)
		if err != nil {
			errList = append(errList, err)
			receipt.Cached = false
			continue
		}
		receipt.Cached = receipt.Cached && part.Cached
		receipt.Parts = append(receipt.Parts, part)
		receipt.Bytes = max(receipt.Bytes, part.Bytes)
		if receipt.Location == "" {
			receipt.Location = part.Location
		}
	}
	receipt.Duration = time.Since(start)
	return receipt, errors.Join(errList...)
}
