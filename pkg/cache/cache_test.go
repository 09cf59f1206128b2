package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("key1", "value1", 1*time.Second)
	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Fatalf("expected value1, got %v, exists=%v", val, ok)
	}
}

func TestExpiration(t *testing.T) {
	c := New()
	c.Set("key1", "value1", 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	_, ok := c.Get("key1")
	if ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestDelete(t *testing.T) {
	c := New()
	c.Set("key1", "value1", 1*time.Second)
	c.Delete("key1")
	_, ok := c.Get("key1")
	if ok {
		t.Fatalf("expected deleted key to return false")
	}
}

func TestInvalidate(t *testing.T) {
	c := New()
	c.Set("assistant:u-1:prompt-a", "a1", 1*time.Second)
	c.Set("assistant:u-1:prompt-b", "a2", 1*time.Second)
	c.Set("assistant:u-2:prompt-a", "a3", 1*time.Second)
	c.Invalidate("assistant:u-1:")
	_, ok1 := c.Get("assistant:u-1:prompt-a")
	_, ok2 := c.Get("assistant:u-1:prompt-b")
	_, ok3 := c.Get("assistant:u-2:prompt-a")
	if ok1 || ok2 {
		t.Fatalf("expected u-1 answers to be invalidated")
	}
	if !ok3 {
		t.Fatalf("expected the other user's answer to survive")
	}
}
