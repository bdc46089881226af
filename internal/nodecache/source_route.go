package nodecache

import "math"

// RouteState is a source route's health state machine position.
type RouteState uint8

const (
	RouteIdle RouteState = iota
	RouteWorking
	RouteSleep
)

func (s RouteState) String() string {
	switch s {
	case RouteWorking:
		return "working"
	case RouteSleep:
		return "sleep"
	default:
		return "idle"
	}
}

// SourceRoute is an ordered relay path to a node, with a saturating health
// counter pair that drives the working/sleep state machine (spec.md §4.8).
type SourceRoute struct {
	UUID     string
	UUIDHash uint32
	Order    int // lower = higher priority

	Hops   []uint64 // relay IEEE addresses, in order; last entry is the destination
	HopLQI []uint8  // one entry per hop

	TxOk   uint32
	Errors uint32
	State  RouteState

	NeedSave bool
}

// NewSourceRoute constructs an idle route with zeroed counters.
func NewSourceRoute(uuid string, uuidHash uint32, order int, hops []uint64, lqi []uint8) *SourceRoute {
	return &SourceRoute{
		UUID:     uuid,
		UUIDHash: uuidHash,
		Order:    order,
		Hops:     hops,
		HopLQI:   lqi,
		State:    RouteIdle,
	}
}

// IncrementTxOk bumps the success counter (saturating), marks the route
// working, and periodically relaxes the error counter / requests a save.
func (sr *SourceRoute) IncrementTxOk() {
	if sr.TxOk < math.MaxUint32 {
		sr.TxOk++
	}
	sr.State = RouteWorking

	if sr.TxOk%10 == 0 && sr.Errors > 0 {
		sr.Errors--
	}
	if sr.TxOk%50 == 0 && sr.Errors < sr.TxOk/3 {
		sr.NeedSave = true
	}
}

// IncrementErrors bumps the error counter (saturating), periodically halves
// the success counter, and puts the route to sleep once it has gone cold.
func (sr *SourceRoute) IncrementErrors() {
	if sr.Errors < math.MaxUint32 {
		sr.Errors++
	}
	if sr.Errors%10 == 0 {
		sr.TxOk /= 2
	}
	if sr.TxOk == 0 && sr.Errors > 10 {
		sr.State = RouteSleep
		sr.NeedSave = false
	}
}

// IsOperational reports whether the route may currently be used: not
// asleep, at least one hop, and every hop reporting a nonzero LQI.
func (sr *SourceRoute) IsOperational() bool {
	if sr.State == RouteSleep || len(sr.Hops) == 0 {
		return false
	}
	for _, l := range sr.HopLQI {
		if l == 0 {
			return false
		}
	}
	return true
}

// Equal compares the fields spec.md §4.8 names for route-update detection:
// uuid-hash, both counters, the hop list and per-hop LQI.
func (sr *SourceRoute) Equal(o *SourceRoute) bool {
	if sr.UUIDHash != o.UUIDHash || sr.TxOk != o.TxOk || sr.Errors != o.Errors {
		return false
	}
	if len(sr.Hops) != len(o.Hops) || len(sr.HopLQI) != len(o.HopLQI) {
		return false
	}
	for i := range sr.Hops {
		if sr.Hops[i] != o.Hops[i] {
			return false
		}
	}
	for i := range sr.HopLQI {
		if sr.HopLQI[i] != o.HopLQI[i] {
			return false
		}
	}
	return true
}

// AddRouteResult reports what AddSourceRoute did with the submitted route.
type AddRouteResult uint8

const (
	RouteInvalid AddRouteResult = iota
	RouteNew
	RouteUpdated
	RouteUnchanged
)
