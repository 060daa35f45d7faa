// Package redispub stores visualization documents in Redis.
//
// Every delivery is appended to the list <prefix>:<user>/assignments/<assignment>
// (newest last, trimmed to a bounded history) and announced on the channel
// <prefix>:deliveries.
package redispub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/bridges/pkg/document"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Name is the publisher name used in receipts and configuration.
const Name = "redis"

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = "bridges"

// DefaultHistory is the number of documents kept per destination.
const DefaultHistory = 20

// Config configures a Publisher.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	History  int
}

// Notification is published on the deliveries channel.
type Notification struct {
	ID          string              `json:"id"`
	Key         string              `json:"key"`
	Destination publish.Destination `json:"destination"`
	Bytes       int                 `json:"bytes"`
	DeliveredAt time.Time           `json:"delivered_at"`
}

// Publisher appends documents to Redis lists.
type Publisher struct {
	client  redis.UniversalClient
	prefix  string
	history int
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewFromClient(client, cfg.Prefix, cfg.History), nil
}

// NewFromClient wraps an existing client. Closing the publisher closes it.
func NewFromClient(client redis.UniversalClient, prefix string, history int) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if history <= 0 {
		history = DefaultHistory
	}
	return &Publisher{client: client, prefix: prefix, history: history}
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return Name }

// ListKey returns the list holding dest's documents.
func (p *Publisher) ListKey(dest publish.Destination) string {
	return p.prefix + ":" + dest.Key()
}

// Channel returns the notification channel.
func (p *Publisher) Channel() string {
	return p.prefix + ":deliveries"
}

// Deliver appends doc and publishes a Notification in one transaction.
func (p *Publisher) Deliver(ctx context.Context, doc document.Document, dest publish.Destination) (publish.Receipt, error) {
	start := time.Now()
	data, err := publish.Encode(doc, dest)
	if err != nil {
		return publish.Receipt{}, err
	}

	r := publish.NewReceipt(Name, dest)
	key := p.ListKey(dest)
	note, err := json.Marshal(Notification{
		ID:          r.ID,
		Key:         key,
		Destination: dest,
		Bytes:       len(data),
		DeliveredAt: start.UTC(),
	})
	if err != nil {
		return publish.Receipt{}, err
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, int64(-p.history), -1)
		pipe.Publish(ctx, p.Channel(), note)
		return nil
	})
	if err != nil {
		return publish.Receipt{}, publish.Failed(Name, dest, err)
	}

	r.Bytes = len(data)
	r.Location = "redis://" + key
	r.Duration = time.Since(start)
	return r, nil
}

// Latest returns the most recent document delivered to dest.
func (p *Publisher) Latest(ctx context.Context, dest publish.Destination) (document.Document, error) {
	data, err := p.client.LIndex(ctx, p.ListKey(dest), -1).Bytes()
	if err != nil {
		return nil, err
	}
	return document.Unmarshal(data)
}

// Close closes the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

var _ publish.Publisher = (*Publisher)(nil)
