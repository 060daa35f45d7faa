package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/bridges/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	cfg := config.Default()
	if got, _ := fileCacheDir(cfg); got != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("fileCacheDir() = %q, want the XDG default", got)
	}

	cfg.Cache.Dir = "/srv/bridges-cache"
	if got, _ := fileCacheDir(cfg); got != "/srv/bridges-cache" {
		t.Errorf("fileCacheDir() = %q, want the configured dir", got)
	}
}
