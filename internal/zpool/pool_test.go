package zpool

import "testing"

type widget struct{ n int }

func TestGetFallsBackToHeapWhenEmpty(t *testing.T) {
	p := New[widget]("widget", 2, func() *widget { return &widget{n: -1} })
	w := p.Get()
	if w.n != -1 {
		t.Fatalf("expected heap-allocated fallback, got %+v", w)
	}
	if hits, misses := p.Stats(); hits != 0 || misses != 1 {
		t.Errorf("hits=%d misses=%d, want 0,1", hits, misses)
	}
}

func TestPutThenGetReusesSlot(t *testing.T) {
	p := New[widget]("widget", 2, func() *widget { return &widget{n: -1} })
	w := &widget{n: 7}
	p.Put(w)
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	got := p.Get()
	if got != w {
		t.Errorf("expected to reclaim the same pointer, got %+v", got)
	}
	if p.Len() != 0 {
		t.Errorf("slot should be empty after Get(), Len() = %d", p.Len())
	}
}

func TestPutBeyondCapacityIsDropped(t *testing.T) {
	p := New[widget]("widget", 1, func() *widget { return &widget{} })
	p.Put(&widget{n: 1})
	p.Put(&widget{n: 2}) // pool full, silently dropped
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (capacity is 1)", p.Len())
	}
}

func TestTeardownReleasesOccupiedSlots(t *testing.T) {
	p := New[widget]("widget", 4, func() *widget { return &widget{} })
	p.Put(&widget{n: 1})
	p.Put(&widget{n: 2})
	p.Teardown()
	if p.Len() != 0 {
		t.Errorf("Len() after teardown = %d, want 0", p.Len())
	}
}
