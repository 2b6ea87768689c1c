package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("ns1", "hello")
	b := Key("ns1", "hello")
	c := Key("ns2", "hello")
	d := Key("ns1", "hello!")

	if a != b {
		t.Error("expected identical keys for identical input")
	}
	if a == c || a == d {
		t.Error("expected namespace and text to change the key")
	}
	if !strings.HasPrefix(a, keyVersion) {
		t.Errorf("expected key prefix %q, got %q", keyVersion, a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	val, ok := c.Get("k")
	if !ok || string(val) != "v" {
		t.Errorf("expected v, got %q (found=%v)", val, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 item, got %d", c.Len())
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}

	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("ns", "some tweet")

	if _, ok := c.Get(key); ok {
		t.Error("expected miss for unknown key")
	}
	if err := c.Set(key, []byte("clean text"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, ok := c.Get(key)
	if !ok || string(val) != "clean text" {
		t.Errorf("expected stored value, got %q (found=%v)", val, ok)
	}

	shard := key[len(keyVersion) : len(keyVersion)+2]
	entries, err := os.ReadDir(filepath.Join(dir, shard))
	if err != nil {
		t.Fatalf("expected shard directory %s: %v", shard, err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file in shard, got %d", len(entries))
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	key := Key("ns", "short lived")
	if err := c.Set(key, []byte("x"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("expected expired entry to be a miss")
	}
	if _, err := os.Stat(c.path(key)); !os.IsNotExist(err) {
		t.Error("expected expired entry file to be removed")
	}
}

func TestDiskCache_Clear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)
	_ = c.Set(Key("ns", "a"), []byte("1"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("expected cache dir removed")
	}
}

func TestLayeredCache_Promotion(t *testing.T) {
	dir := t.TempDir()
	key := Key("ns", "tweet")

	// populate disk only, as a previous run would
	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set(key, []byte("cached"), 0); err != nil {
		t.Fatal(err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	if _, ok := c.memory.Get(key); ok {
		t.Fatal("memory layer should start empty")
	}

	val, ok := c.Get(key)
	if !ok || string(val) != "cached" {
		t.Fatalf("expected disk hit, got %q (found=%v)", val, ok)
	}
	if _, ok := c.memory.Get(key); !ok {
		t.Error("expected disk hit to be promoted to memory")
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss in both layers after delete")
	}
}
