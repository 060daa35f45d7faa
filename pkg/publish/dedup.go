package publish

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bridges/pkg/cache"
	"github.com/matzehuels/bridges/pkg/document"
)

// DefaultDedupTTL bounds how long a delivery is remembered.
const DefaultDedupTTL = 24 * time.Hour

// Deduplicating skips deliveries of a document that already reached the same
// destination through the same publisher within TTL.
type Deduplicating struct {
	Inner  Publisher
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewDeduplicating wraps inner. A nil cache disables deduplication.
func NewDeduplicating(inner Publisher, c cache.Cache, ttl time.Duration, logger *log.Logger) *Deduplicating {
	if c == nil {
		c = cache.NewNullCache()
	}
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Deduplicating{Inner: inner, Cache: c, Keyer: cache.NewDefaultKeyer(), TTL: ttl, Logger: logger}
}

// Name returns the wrapped publisher's name.
func (d *Deduplicating) Name() string { return d.Inner.Name() }

// Deliver returns the remembered receipt with Cached set when doc was already
// delivered; otherwise it delivers and remembers the receipt. Cache failures
// are logged and never fail a delivery.
func (d *Deduplicating) Deliver(ctx context.Context, doc document.Document, dest Destination) (Receipt, error) {
	hash, err := document.Hash(doc)
	if err != nil {
		return Receipt{}, err
	}
	key := d.Keyer.DeliveryKey(d.Inner.Name(), dest.Key(), hash)

	if data, hit, err := d.Cache.Get(ctx, key); err != nil {
		d.Logger.Warn("dedup cache read failed", "key", key, "error", err)
	} else if hit {
		var r Receipt
		if err := json.Unmarshal(data, &r); err == nil {
			r.Cached = true
			d.Logger.Debug("document unchanged, skipping delivery", "publisher", r.Publisher, "destination", dest.Key())
			return r, nil
		}
	}

	r, err := d.Inner.Deliver(ctx, doc, dest)
	if err != nil {
		return r, err
	}
	if data, err := json.Marshal(r); err == nil {
		if err := d.Cache.Set(ctx, key, data, d.TTL); err != nil {
			d.Logger.Warn("dedup cache write failed", "key", key, "error", err)
		}
	}
	return r, nil
}
