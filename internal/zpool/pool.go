// Package zpool implements bounded, fixed-size object pools for hot protocol
// objects (APS requests, ZCL frames, ZCL attributes) to avoid a heap
// allocation on every frame in the common case.
//
// A Pool is not thread-safe: the single-threaded cooperative model this
// library runs under (every entry point called from one execution context)
// means callers serialize access externally rather than paying for locks
// nobody needs.
package zpool

import "github.com/rs/zerolog/log"

// Pool is a fixed-size reusable slot array for *T. Get scans for an occupied
// slot; if none is occupied, it allocates on the heap. Put scans for an
// empty slot to reclaim; if the pool is full, the value is simply dropped
// (freed by the garbage collector like any other heap value).
type Pool[T any] struct {
	name    string
	slots   []*T
	occupied []bool
	newFn   func() *T
	hits    int
	misses  int
}

// New creates a Pool with size slots, matching spec.md's fixed pool sizes
// (16 for APS requests and ZCL frames, 64 for ZCL attributes). newFn
// constructs a fresh *T for the heap-fallback path.
func New[T any](name string, size int, newFn func() *T) *Pool[T] {
	return &Pool[T]{
		name:     name,
		slots:    make([]*T, size),
		occupied: make([]bool, size),
		newFn:    newFn,
	}
}

// Get returns a pooled *T if one is available, otherwise allocates on the
// heap via newFn. The returned value's slot (if any) is marked empty so a
// later Get cannot issue it a second time.
func (p *Pool[T]) Get() *T {
	for i, occ := range p.occupied {
		if occ {
			p.occupied[i] = false
			v := p.slots[i]
			p.slots[i] = nil
			p.hits++
			return v
		}
	}
	p.misses++
	return p.newFn()
}

// Put returns v to the first empty slot. If the pool is full, v is dropped
// and left to the garbage collector.
func (p *Pool[T]) Put(v *T) {
	if v == nil {
		return
	}
	for i, occ := range p.occupied {
		if !occ {
			p.slots[i] = v
			p.occupied[i] = true
			return
		}
	}
}

// Len returns the number of slots currently holding a reclaimed object.
func (p *Pool[T]) Len() int {
	n := 0
	for _, occ := range p.occupied {
		if occ {
			n++
		}
	}
	return n
}

// Cap returns the fixed slot count the pool was created with.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Stats returns cumulative hit/miss counters, useful for sizing the pool.
func (p *Pool[T]) Stats() (hits, misses int) { return p.hits, p.misses }

// Teardown releases any slots still occupied and logs pool utilization.
// Mirrors the explicit init/teardown pair spec.md's global-state design
// note calls for: the pool is a process-wide singleton with no implicit
// global destructor.
func (p *Pool[T]) Teardown() {
	released := 0
	for i, occ := range p.occupied {
		if occ {
			p.slots[i] = nil
			p.occupied[i] = false
			released++
		}
	}
	log.Debug().Str("pool", p.name).Int("released", released).Int("hits", p.hits).Int("misses", p.misses).Msg("pool teardown")
}
