// Package config loads the bridges configuration file.
//
// The file lives at $XDG_CONFIG_HOME/bridges/config.toml (falling back to
// ~/.config/bridges/config.toml) and looks like:
//
//	user_name  = "alice"
//	api_key    = "..."
//	server     = "clone"
//	publishers = ["server", "file"]
//
//	[cache]
//	backend = "file"
//	ttl     = "24h"
//
//	[file]
//	dir = "./out"
//
// The environment variables BRIDGES_USER_NAME, BRIDGES_API_KEY and
// BRIDGES_SERVER override the file. BRIDGES_SERVER accepts a server name or a
// base URL.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/publish/server"
)

const appName = "bridges"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvUserName = "BRIDGES_USER_NAME"
	EnvAPIKey   = "BRIDGES_API_KEY"
	EnvServer   = "BRIDGES_SERVER"
)

// Publisher names accepted in the publishers list.
const (
	PublisherServer = "server"
	PublisherFile   = "file"
	PublisherNATS   = "nats"
	PublisherRedis  = "redis"
	PublisherMongo  = "mongo"
	PublisherS3     = "s3"
)

var validPublishers = map[string]bool{
	PublisherServer: true,
	PublisherFile:   true,
	PublisherNATS:   true,
	PublisherRedis:  true,
	PublisherMongo:  true,
	PublisherS3:     true,
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	UserName   string   `toml:"user_name"`
	APIKey     string   `toml:"api_key"`
	Server     string   `toml:"server"`
	ServerURL  string   `toml:"server_url,omitempty"`
	Publishers []string `toml:"publishers"`

	Cache CacheConfig `toml:"cache"`
	File  FileConfig  `toml:"file"`
	NATS  NATSConfig  `toml:"nats"`
	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
	S3    S3Config    `toml:"s3"`
}

// CacheConfig selects the delivery deduplication cache.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	TTL     Duration `toml:"ttl"`
	Dir     string   `toml:"dir,omitempty"`
}

// FileConfig configures the file publisher.
type FileConfig struct {
	Dir string `toml:"dir"`
}

// NATSConfig configures the NATS publisher.
type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject,omitempty"`
}

// RedisConfig configures the Redis publisher and cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix,omitempty"`
}

// MongoConfig configures the MongoDB publisher.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// S3Config configures the S3 publisher.
type S3Config struct {
	Bucket   string `toml:"bucket"`
	Region   string `toml:"region,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
	Prefix   string `toml:"prefix,omitempty"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists: deliver to
// the live server and deduplicate with a file cache for a day.
func Default() Config {
	return Config{
		Server:     string(server.Live),
		Publishers: []string{PublisherServer},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
		File: FileConfig{Dir: "bridges-out"},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// Save writes cfg to path. The file is private since it holds the API key.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ApplyEnv overrides credentials and server from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvUserName); ok && v != "" {
		c.UserName = v
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvServer); ok && v != "" {
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			c.ServerURL = v
		} else {
			c.Server = v
			c.ServerURL = ""
		}
	}
}

// BaseURL returns the server publisher's base URL.
func (c Config) BaseURL() (string, error) {
	if c.ServerURL != "" {
		return c.ServerURL, errs.ValidateURL(c.ServerURL)
	}
	s, err := server.ParseServer(c.Server)
	if err != nil {
		return "", err
	}
	return s.BaseURL(), nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "********"
	}
	if c.Redis.Password != "" {
		c.Redis.Password = "********"
	}
	c.Publishers = append([]string(nil), c.Publishers...)
	return c
}

// Validate checks that every selected publisher and the cache backend have
// the settings they need.
func (c Config) Validate() error {
	if len(c.Publishers) == 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "no publishers configured")
	}
	for _, name := range c.Publishers {
		if !validPublishers[name] {
			return errs.New(errs.ErrCodeInvalidConfig, "unknown publisher %q", name)
		}
		if err := c.validatePublisher(name); err != nil {
			return err
		}
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone, "":
	case CacheRedis:
		if c.Redis.Addr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache backend redis requires [redis] addr")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	return nil
}

func (c Config) validatePublisher(name string) error {
	missing := func(field string) error {
		return errs.New(errs.ErrCodeInvalidConfig, "publisher %s requires %s", name, field)
	}
	switch name {
	case PublisherServer:
		if c.APIKey == "" {
			return missing("api_key (or " + EnvAPIKey + ")")
		}
		if _, err := c.BaseURL(); err != nil {
			return err
		}
	case PublisherFile:
		if c.File.Dir == "" {
			return missing("[file] dir")
		}
	case PublisherNATS:
		if c.NATS.URL == "" {
			return missing("[nats] url")
		}
	case PublisherRedis:
		if c.Redis.Addr == "" {
			return missing("[redis] addr")
		}
	case PublisherMongo:
		if c.Mongo.URI == "" {
			return missing("[mongo] uri")
		}
	case PublisherS3:
		if c.S3.Bucket == "" {
			return missing("[s3] bucket")
		}
	}
	return nil
}
