package nodecache

import "testing"

func TestIncrementTxOkTransitionsToWorking(t *testing.T) {
	sr := NewSourceRoute("u", 1, 0, []uint64{1}, []uint8{100})
	sr.IncrementTxOk()
	if sr.State != RouteWorking {
		t.Errorf("state = %v, want working", sr.State)
	}
	if sr.TxOk != 1 {
		t.Errorf("txOk = %d, want 1", sr.TxOk)
	}
}

func TestIncrementTxOkRelaxesErrorsEveryTen(t *testing.T) {
	sr := NewSourceRoute("u", 1, 0, []uint64{1}, []uint8{100})
	sr.Errors = 5
	for i := 0; i < 10; i++ {
		sr.IncrementTxOk()
	}
	if sr.Errors != 4 {
		t.Errorf("errors = %d, want 4 after 10 successes", sr.Errors)
	}
}

func TestIncrementTxOkRequestsSaveEveryFifty(t *testing.T) {
	sr := NewSourceRoute("u", 1, 0, []uint64{1}, []uint8{100})
	for i := 0; i < 49; i++ {
		sr.IncrementTxOk()
	}
	if sr.NeedSave {
		t.Fatal("should not request a save before the 50th success")
	}
	sr.IncrementTxOk()
	if !sr.NeedSave {
		t.Error("expected a save request on the 50th success with low errors")
	}
}

func TestIncrementErrorsHalvesTxOkEveryTen(t *testing.T) {
	sr := NewSourceRoute("u", 1, 0, []uint64{1}, []uint8{100})
	sr.TxOk = 100
	for i := 0; i < 10; i++ {
		sr.IncrementErrors()
	}
	if sr.TxOk != 50 {
		t.Errorf("txOk = %d, want 50 after 10 errors", sr.TxOk)
	}
}

func TestIncrementErrorsSleepsWhenColdAndErrorHeavy(t *testing.T) {
	sr := NewSourceRoute("u", 1, 0, []uint64{1}, []uint8{100})
	sr.NeedSave = true
	for i := 0; i < 11; i++ {
		sr.IncrementErrors()
	}
	if sr.TxOk != 0 {
		t.Fatalf("txOk = %d, want 0", sr.TxOk)
	}
	if sr.State != RouteSleep {
		t.Errorf("state = %v, want sleep", sr.State)
	}
	if sr.NeedSave {
		t.Error("expected needSave cleared on transition to sleep")
	}
}

func TestIsOperationalRequiresNonZeroLQIEveryHop(t *testing.T) {
	sr := NewSourceRoute("u", 1, 0, []uint64{1, 2}, []uint8{100, 0})
	if sr.IsOperational() {
		t.Error("a zero-LQI hop must make the route non-operational")
	}
	sr.HopLQI[1] = 50
	if !sr.IsOperational() {
		t.Error("expected operational once every hop has nonzero LQI")
	}
	sr.State = RouteSleep
	if sr.IsOperational() {
		t.Error("a sleeping route is never operational")
	}
}

func TestIsOperationalFalseWithNoHops(t *testing.T) {
	sr := NewSourceRoute("u", 1, 0, nil, nil)
	if sr.IsOperational() {
		t.Error("a route with no hops cannot be operational")
	}
}
