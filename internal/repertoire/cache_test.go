package repertoire

import (
	"fmt"
	"sync"
	"testing"
)

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Put("a", []float64{1})
	c.Put("b", []float64{2})

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Put("c", []float64{3})

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestCache_CopiesOnBothSides(t *testing.T) {
	c := NewCache(4)
	src := []float64{0.5, 0.5}
	c.Put("k", src)
	src[0] = 99

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("k should be cached")
	}
	if got[0] != 0.5 {
		t.Errorf("cache stored a reference, not a copy: %v", got)
	}
	got[1] = 99
	again, _ := c.Get("k")
	if again[1] != 0.5 {
		t.Errorf("cache returned a mutable reference: %v", again)
	}
}

func TestCache_ZeroCapacityDisabled(t *testing.T) {
	if c := NewCache(0); c != nil {
		t.Error("capacity 0 should return a nil cache")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache(64)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%32)
				c.Put(key, []float64{float64(i)})
				c.Get(key)
			}
		}(w)
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Errorf("cache exceeded capacity: %d", c.Len())
	}
}
