package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"

	"github.com/musicscience37/htbuild/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{EnvTool, EnvRecipe, EnvCacheBackend, EnvCacheDir, EnvRedisAddr, EnvMetricsFile} {
		t.Setenv(env, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool != "conan" {
		t.Errorf("Tool = %q, want conan", cfg.Tool)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.Dir != filepath.Join("/tmp/xdg", "htbuild") {
		t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
	}
	if cfg.Recipe != "" || cfg.Revision != 0 || cfg.MetricsFile != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	content := `tool = "/usr/local/bin/conan"
recipe = "recipe.toml"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "24h"
`
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool != "/usr/local/bin/conan" {
		t.Errorf("Tool = %q", cfg.Tool)
	}
	if cfg.Recipe != "recipe.toml" {
		t.Errorf("Recipe = %q", cfg.Recipe)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", cfg.Cache.TTL)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(`tool = "from-file"`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTool, "from-env")
	t.Setenv(EnvCacheBackend, BackendNone)
	t.Setenv(EnvMetricsFile, "/tmp/htbuild.prom")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool != "from-env" {
		t.Errorf("Tool = %q, want from-env", cfg.Tool)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.MetricsFile != "/tmp/htbuild.prom" {
		t.Errorf("MetricsFile = %q", cfg.MetricsFile)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "tools = \"conan\"\n", "unknown key"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "unknown cache backend"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", "redis_addr"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", "parse"},
		{"negative revision", "revision = -1\n", "revision"},
		{"malformed", "tool = \n", "parse"},
		{"absolute recipe", "recipe = \"/etc/recipe.toml\"\n", "must be relative"},
		{"recipe outside root", "recipe = \"../other/recipe.toml\"\n", "traversal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			root := t.TempDir()
			if err := os.WriteFile(filepath.Join(root, FileName), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(root)
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Fatalf("Load() error = %v, want CONFIGURATION", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90m")); err != nil {
		t.Fatal(err)
	}
	out, _ := d.MarshalText()
	if string(out) != "1h30m0s" {
		t.Errorf("MarshalText() = %q", out)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	dotenv := "HTBUILD_TOOL=conan-from-dotenv\nHTBUILD_CACHE_BACKEND=none\nUNRELATED=1\n"
	if err := os.WriteFile(filepath.Join(root, DotEnvName), []byte(dotenv), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvCacheBackend, BackendFile)

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool != "conan-from-dotenv" {
		t.Errorf("Tool = %q, want value from .env", cfg.Tool)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, process environment should win over .env", cfg.Cache.Backend)
	}
}
