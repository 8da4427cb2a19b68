package embedding

import "testing"

func TestVectorCacheGetSet(t *testing.T) {
	c := newVectorCache(2)

	if _, ok := c.get("miss"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.set("a", []float32{1})
	v, ok := c.get("a")
	if !ok || v[0] != 1 {
		t.Fatal("expected hit for key a")
	}
}

func TestVectorCacheEviction(t *testing.T) {
	c := newVectorCache(2)
	c.set("a", []float32{1})
	c.set("b", []float32{2})

	// touch a so b becomes the eviction candidate
	c.get("a")
	c.set("c", []float32{3})

	if _, ok := c.get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.get("a"); !ok {
		t.Fatal("expected a to survive")
	}
	if _, ok := c.get("c"); !ok {
		t.Fatal("expected c to be present")
	}
}

func TestVectorCacheUpdateExisting(t *testing.T) {
	c := newVectorCache(2)
	c.set("a", []float32{1})
	c.set("a", []float32{9})
	v, ok := c.get("a")
	if !ok || v[0] != 9 {
		t.Fatal("expected updated value for key a")
	}
}

func TestVectorCacheDisabled(t *testing.T) {
	c := newVectorCache(0)
	c.set("a", []float32{1})
	if _, ok := c.get("a"); ok {
		t.Fatal("zero-capacity cache must not store entries")
	}
}
