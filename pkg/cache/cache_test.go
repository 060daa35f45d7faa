package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir not created: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("receipt"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "receipt" {
		t.Errorf("Get(k) = %q, %v, %v, want receipt hit", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, err := c.Get(ctx, "short"); hit || err != nil {
		t.Errorf("expired entry = hit %v, err %v, want miss", hit, err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	fc := c.(*FileCache)

	path := fc.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v, want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}

	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	k1 := k.DeliveryKey("server", "alice/assignments/1.0", "abc")
	k2 := k.DeliveryKey("server", "alice/assignments/1.0", "abd")
	k3 := k.DeliveryKey("file", "alice/assignments/1.0", "abc")

	if k1 == k2 || k1 == k3 {
		t.Error("different delivery inputs should produce different keys")
	}
	if k1 != k.DeliveryKey("server", "alice/assignments/1.0", "abc") {
		t.Error("DeliveryKey should be deterministic")
	}
	if len(k1) != len("delivery:")+64 || k1[:9] != "delivery:" {
		t.Errorf("DeliveryKey format unexpected: %s", k1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:alice:")

	key := scoped.DeliveryKey("server", "dest", "hash")
	want := "user:alice:" + inner.DeliveryKey("server", "dest", "hash")
	if key != want {
		t.Errorf("ScopedKeyer DeliveryKey = %s, want %s", key, want)
	}

	nilInner := NewScopedKeyer(nil, "p:")
	if got := nilInner.DeliveryKey("a", "b", "c"); got != "p:"+inner.DeliveryKey("a", "b", "c") {
		t.Errorf("ScopedKeyer with nil inner = %s", got)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("BRIDGES_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BRIDGES_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "bridges-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "k-" + time.Now().Format("150405.000000000")
	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if data, hit, err := c.Get(ctx, key); !hit || err != nil || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}
