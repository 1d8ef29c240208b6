package endpoint

import "time"

// A completionGate is the one-shot synchronization point between a
// blocked transfer and the interrupt context that completes it. Its
// state is Pending or Signaled, never counting: repeated signals before
// the waiter consumes one collapse into a single wake.
type completionGate struct {
	ch chan struct{}
}

func newCompletionGate() *completionGate {
	return &completionGate{ch: make(chan struct{}, 1)}
}

// arm resets the gate to Pending, discarding any signal left over from
// an aborted transfer. Called before a new buffer is published.
func (g *completionGate) arm() {
	select {
	case <-g.ch:
	default:
	}
}

// signal moves the gate to Signaled. Safe to call from an interrupt
// context; it never blocks and is idempotent within one transfer.
func (g *completionGate) signal() {
	select {
	case g.ch <- struct{}{}:
	default:
	}
}

// wait blocks until the gate is Signaled, then consumes the signal and
// leaves the gate Pending. A timeout of zero waits forever, which is
// the base protocol; otherwise expiry returns ErrTimeout.
func (g *completionGate) wait(timeout time.Duration) error {
	if timeout <= 0 {
		<-g.ch
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-g.ch:
		return nil
	case <-timer.C:
		return ErrTimeout
	}
}
