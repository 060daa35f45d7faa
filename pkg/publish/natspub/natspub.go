// Package natspub publishes visualization documents on NATS subjects.
//
// A delivery to user "alice", assignment "3.1" with the default prefix goes to
// subject "bridges.assignments.alice.3_1". Dots in the assignment are replaced
// so that the assignment stays a single subject token.
package natspub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/matzehuels/bridges/pkg/document"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Name is the publisher name used in receipts and configuration.
const Name = "nats"

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "bridges.assignments"

// Header names set on every message.
const (
	HeaderReceiptID  = "Bridges-Receipt-Id"
	HeaderAssignment = "Bridges-Assignment"
	HeaderUser       = "Bridges-User"
)

// Publisher publishes JSON documents to NATS.
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

// New connects to the NATS server at url with automatic reconnection.
func New(url, prefix string, opts ...nats.Option) (*Publisher, error) {
	defaults := []nats.Option{
		nats.Name("bridges"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return NewFromConn(nc, prefix), nil
}

// NewFromConn wraps an existing connection. The publisher owns nc after this.
func NewFromConn(nc *nats.Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{conn: nc, prefix: strings.TrimSuffix(prefix, ".")}
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return Name }

// Subject returns the subject a destination is published on.
func (p *Publisher) Subject(dest publish.Destination) string {
	return p.prefix + "." + dest.UserName + "." + strings.ReplaceAll(dest.Assignment, ".", "_")
}

// Deliver publishes doc and flushes so the server has received it on return.
func (p *Publisher) Deliver(ctx context.Context, doc document.Document, dest publish.Destination) (publish.Receipt, error) {
	start := time.Now()
	data, err := publish.Encode(doc, dest)
	if err != nil {
		return publish.Receipt{}, err
	}

	r := publish.NewReceipt(Name, dest)
	msg := nats.NewMsg(p.Subject(dest))
	msg.Data = data
	msg.Header.Set(HeaderReceiptID, r.ID)
	msg.Header.Set(HeaderAssignment, dest.Assignment)
	msg.Header.Set(HeaderUser, dest.UserName)

	if err := p.conn.PublishMsg(msg); err != nil {
		return publish.Receipt{}, publish.Failed(Name, dest, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return publish.Receipt{}, publish.Failed(Name, dest, err)
	}

	r.Bytes = len(data)
	r.Location = "nats://" + msg.Subject
	r.Duration = time.Since(start)
	return r, nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

var _ publish.Publisher = (*Publisher)(nil)
