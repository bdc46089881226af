package transport

import "sync"

// Loopback is an in-process Transport used by controller tests and by any
// caller that wants to inject frames without a real radio attached. Frames
// written with Feed are what a subsequent Recv returns; frames written with
// Send are appended to Sent for assertions.
type Loopback struct {
	mu     sync.Mutex
	cond   *sync.Cond
	inbox  [][]byte
	Sent   [][]byte
	closed bool
}

// NewLoopback returns a ready-to-use Loopback transport.
func NewLoopback() *Loopback {
	l := &Loopback{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Feed enqueues a frame for the next Recv call to return.
func (l *Loopback) Feed(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	frame := append([]byte(nil), b...)
	l.inbox = append(l.inbox, frame)
	l.cond.Broadcast()
}

func (l *Loopback) Send(b []byte) (SendResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return SendClosed, ErrClosed
	}
	l.Sent = append(l.Sent, append([]byte(nil), b...))
	return SendOK, nil
}

func (l *Loopback) Recv() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.inbox) == 0 && !l.closed {
		l.cond.Wait()
	}
	if l.closed && len(l.inbox) == 0 {
		return nil, ErrClosed
	}
	frame := l.inbox[0]
	l.inbox = l.inbox[1:]
	return frame, nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.cond.Broadcast()
	return nil
}
