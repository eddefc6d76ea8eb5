package cache

import (
	"context"
	"testing"
	"time"

	"github.com/wafertools/wafermap/pkg/wafer"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
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

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != "value" {
		t.Errorf("got %q, want %q", data, "value")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("expected miss after Delete")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss after TTL")
	}
}

func TestFileCacheClearAndStats(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("value"), 0); err != nil {
			t.Fatalf("Set %s: %v", key, err)
		}
	}

	entries, size, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if entries != 3 {
		t.Errorf("entries = %d, want 3", entries)
	}
	if size <= 0 {
		t.Error("expected positive size")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, _, err = c.Stats()
	if err != nil {
		t.Fatalf("Stats after Clear: %v", err)
	}
	if entries != 0 {
		t.Errorf("entries after Clear = %d, want 0", entries)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	spec := wafer.WaferSpec{Diameter: 300, EdgeExclusion: 3, DieWidth: 10, DieHeight: 10}

	if k.LayoutKey(spec) != k.LayoutKey(spec) {
		t.Error("LayoutKey should be deterministic")
	}

	other := spec
	other.DieWidth = 11
	if k.LayoutKey(spec) == k.LayoutKey(other) {
		t.Error("different specs should produce different keys")
	}

	gds := ArtifactKeyOpts{Format: "gds"}
	svg := ArtifactKeyOpts{Format: "svg"}
	if k.ArtifactKey("h", gds) == k.ArtifactKey("h", svg) {
		t.Error("different formats should produce different keys")
	}
	if k.ArtifactKey("h1", gds) == k.ArtifactKey("h2", gds) {
		t.Error("different layout hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "fab7:")
	spec := wafer.WaferSpec{Diameter: 200, DieWidth: 5, DieHeight: 5}

	got := scoped.LayoutKey(spec)
	want := "fab7:" + inner.LayoutKey(spec)
	if got != want {
		t.Errorf("LayoutKey = %q, want %q", got, want)
	}

	if NewScopedKeyer(nil, "p:").LayoutKey(spec) != "p:"+inner.LayoutKey(spec) {
		t.Error("nil inner should fall back to the default keyer")
	}
}
