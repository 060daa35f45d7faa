package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/matzehuels/bridges/pkg/cache"
	"github.com/matzehuels/bridges/pkg/config"
	"github.com/matzehuels/bridges/pkg/publish"
	"github.com/matzehuels/bridges/pkg/publish/file"
	"github.com/matzehuels/bridges/pkg/publish/mongopub"
	"github.com/matzehuels/bridges/pkg/publish/natspub"
	"github.com/matzehuels/bridges/pkg/publish/redispub"
	"github.com/matzehuels/bridges/pkg/publish/s3pub"
	"github.com/matzehuels/bridges/pkg/publish/server"
)

// closers releases the resources opened while building publishers.
type closers []func() error

func (cs closers) Close() error {
	var errList []error
	for i := len(cs) - 1; i >= 0; i-- {
		if err := cs[i](); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

// openPublisher builds the publishers named in cfg. Each one is wrapped in
// delivery deduplication unless noCache is set; several are combined with
// publish.Multi. The returned closers must be closed by the caller.
func (c *CLI) openPublisher(ctx context.Context, cfg config.Config, noCache bool) (publish.Publisher, closers, error) {
	var cs closers

	dedupCache, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}
	cs = append(cs, dedupCache.Close)

	var pubs []publish.Publisher
	for _, name := range cfg.Publishers {
		p, closeFn, err := newPublisher(ctx, cfg, name)
		if err != nil {
			_ = cs.Close()
			return nil, nil, fmt.Errorf("publisher %s: %w", name, err)
		}
		if closeFn != nil {
			cs = append(cs, closeFn)
		}
		if !noCache {
			d := publish.NewDeduplicating(p, dedupCache, cfg.Cache.TTL.Duration, c.Logger)
			d.Keyer = cache.NewScopedKeyer(nil, publisherScope(cfg, name)+":")
			p = d
		}
		pubs = append(pubs, p)
		c.Logger.Debug("publisher ready", "name", name)
	}

	if len(pubs) == 1 {
		return pubs[0], cs, nil
	}
	return publish.NewMulti(pubs...), cs, nil
}

func newPublisher(ctx context.Context, cfg config.Config, name string) (publish.Publisher, func() error, error) {
	switch name {
	case config.PublisherServer:
		base, err := cfg.BaseURL()
		if err != nil {
			return nil, nil, err
		}
		p, err := server.New(base, cfg.APIKey)
		return p, nil, err

	case config.PublisherFile:
		return file.New(cfg.File.Dir), nil, nil

	case config.PublisherNATS:
		p, err := natspub.New(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil

	case config.PublisherRedis:
		p, err := redispub.New(ctx, redispub.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil

	case config.PublisherMongo:
		p, err := mongopub.New(ctx, mongopub.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, nil, err
		}
		return p, func() error { return p.Close(context.Background()) }, nil

	case config.PublisherS3:
		p, err := s3pub.New(ctx, s3pub.Config{
			Bucket:   cfg.S3.Bucket,
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,
			Prefix:   cfg.S3.Prefix,
		})
		return p, nil, err

	default:
		return nil, nil, fmt.Errorf("unknown publisher %q", name)
	}
}

// publisherScope names the target a publisher writes to, so deliveries to
// different servers, directories or buckets are remembered separately.
func publisherScope(cfg config.Config, name string) string {
	switch name {
	case config.PublisherServer:
		base, _ := cfg.BaseURL()
		return base
	case config.PublisherFile:
		if abs, err := filepath.Abs(cfg.File.Dir); err == nil {
			return abs
		}
		return cfg.File.Dir
	case config.PublisherNATS:
		return cfg.NATS.URL + "/" + cfg.NATS.Subject
	case config.PublisherRedis:
		return fmt.Sprintf("redis://%s/%d/%s", cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Prefix)
	case config.PublisherMongo:
		return cfg.Mongo.URI + "/" + cfg.Mongo.Database + "/" + cfg.Mongo.Collection
	case config.PublisherS3:
		return "s3://" + cfg.S3.Bucket + "/" + cfg.S3.Prefix
	}
	return name
}

// newCache opens the deduplication cache selected in cfg.
func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   "bridges:cache:",
		})
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// fileCacheDir returns the configured cache directory or the XDG default.
func fileCacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}
