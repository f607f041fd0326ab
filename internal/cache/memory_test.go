package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("key1")
	if !found {
		t.Fatal("Expected key1 to be found")
	}
	if string(val) != "value1" {
		t.Errorf("Expected value1, got %s", val)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("short", []byte("gone"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get("short"); found {
		t.Error("Expected entry to expire")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("key1", []byte("value1"), time.Minute)
	if err := c.Delete("key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to be deleted")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, found := c.Get("a"); found {
		t.Error("Expected cache to be empty after Clear")
	}
	if _, found := c.Get("b"); found {
		t.Error("Expected cache to be empty after Clear")
	}
}

func TestQueryKey(t *testing.T) {
	k1 := QueryKey("what is ipc 420")
	k2 := QueryKey("what is ipc 420")
	k3 := QueryKey("what is ipc 378")

	if k1 != k2 {
		t.Error("Expected stable keys for identical queries")
	}
	if k1 == k3 {
		t.Error("Expected different keys for different queries")
	}
	if len(k1) == 0 {
		t.Error("Expected non-empty key")
	}
}
