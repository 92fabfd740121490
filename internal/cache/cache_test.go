package cache

import (
	"testing"
	"time"
)

func TestCachePutGet(t *testing.T) {
	c := New[string](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss on empty cache")
	}

	c.Put("key", "value")
	v, ok := c.Get("key")
	if !ok {
		t.Fatal("Expected hit after Put")
	}
	if v != "value" {
		t.Errorf("Expected %q, got %q", "value", v)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New[int](10 * time.Millisecond)
	c.Put("n", 42)

	if _, ok := c.Get("n"); !ok {
		t.Fatal("Expected hit before TTL")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("n"); ok {
		t.Error("Expected miss after TTL")
	}
}

func TestCacheFlush(t *testing.T) {
	c := New[int](time.Minute)
	c.Put("a", 1)
	c.Put("b", 2)

	c.Flush()

	if _, ok := c.Get("a"); ok {
		t.Error("Expected miss after Flush")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Expected miss after Flush")
	}
}
