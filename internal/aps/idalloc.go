package aps

import "sync"

// IDAllocator hands out APS request ids in the range [1, 255], skipping 0,
// wrapping back to 1 after 255. It is the per-process 8-bit request-id
// source spec.md §3 describes; the controller façade owns exactly one.
type IDAllocator struct {
	mu   sync.Mutex
	next uint8
}

// NewIDAllocator creates an allocator that starts handing out id 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns the next request id, skipping 0 and wrapping from 255 to 1.
func (a *IDAllocator) Next() uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	if a.next == 255 {
		a.next = 1
	} else {
		a.next++
	}
	return id
}
