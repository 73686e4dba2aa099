package observability

import (
	"context"
	"testing"
	"time"
)

type testInstallHooks struct {
	starts    []string
	exitCodes []int
}

func (h *testInstallHooks) OnInstallStart(_ context.Context, bt string) {
	h.starts = append(h.starts, bt)
}

func (h *testInstallHooks) OnInstallComplete(_ context.Context, _ string, code int, _ time.Duration, _ error) {
	h.exitCodes = append(h.exitCodes, code)
}

type testCacheHooks struct {
	hits, misses int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *testCacheHooks) OnCacheSet(context.Context, string, int) {}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	i := NoopInstallHooks{}
	i.OnInstallStart(ctx, "Debug")
	i.OnInstallComplete(ctx, "Debug", 2, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "package")
	c.OnCacheMiss(ctx, "package")
	c.OnCacheSet(ctx, "package", 128)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Install().(NoopInstallHooks); !ok {
		t.Error("Install() should return NoopInstallHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	install := &testInstallHooks{}
	SetInstallHooks(install)
	cache := &testCacheHooks{}
	SetCacheHooks(cache)

	Install().OnInstallStart(context.Background(), "Release")
	Install().OnInstallComplete(context.Background(), "Release", 1, time.Millisecond, nil)
	Cache().OnCacheHit(context.Background(), "package")

	if len(install.starts) != 1 || install.exitCodes[0] != 1 {
		t.Errorf("install hooks = %+v", install)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d", cache.hits)
	}

	SetInstallHooks(nil)
	if Install() != install {
		t.Error("SetInstallHooks(nil) should keep the registered hooks")
	}

	Reset()
	if _, ok := Install().(NoopInstallHooks); !ok {
		t.Error("Reset() should restore NoopInstallHooks")
	}
}
