package endpoint

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/rs/xid"
	"github.com/sarchlab/pciep/dma"
	"github.com/sarchlab/pciep/reg"
)

// BufferState is the lifecycle state of a transfer buffer.
type BufferState int

// Lifecycle of a transfer buffer. Allocation and release are paired: a
// buffer never outlives the transfer that created it.
const (
	StateUnallocated BufferState = iota
	StatePublished
	StateAwaitingCompletion
	StateCompleted
)

func (s BufferState) String() string {
	switch s {
	case StateUnallocated:
		return "unallocated"
	case StatePublished:
		return "published"
	case StateAwaitingCompletion:
		return "awaiting_completion"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// A Transfer is the handle of one in-flight buffer exchange. At most
// one Transfer per direction exists at any instant.
type Transfer struct {
	id      string
	session string
	dir     *direction
	buf     *dma.Buffer
	n       int
	state   BufferState
	start   time.Time
}

// ID returns the transfer's unique ID.
func (t *Transfer) ID() string {
	return t.id
}

// Direction returns the transfer's direction.
func (t *Transfer) Direction() Direction {
	return t.dir.dir
}

// Len returns the transfer length in bytes.
func (t *Transfer) Len() int {
	return t.n
}

// Bytes returns the host-visible storage of the transfer buffer.
func (t *Transfer) Bytes() []byte {
	return t.buf.Bytes()
}

// State returns the buffer's lifecycle state.
func (t *Transfer) State() BufferState {
	t.dir.mu.Lock()
	defer t.dir.mu.Unlock()

	return t.state
}

// Begin allocates a fresh DMA buffer for one transfer and publishes its
// bus address and size through the direction's registers. It fails with
// ErrInvalidArgument for a zero length, ErrAllocationFailed when the
// pool is exhausted, and ErrTransferAlreadyInFlight while the
// direction's previous buffer is unreleased.
func (ep *Endpoint) Begin(dir Direction, n int) (*Transfer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: transfer length %d", ErrInvalidArgument, n)
	}

	d := ep.direction(dir)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inFlight != nil {
		return nil, fmt.Errorf("%w: %s transfer %s",
			ErrTransferAlreadyInFlight, d.dir, d.inFlight.id)
	}

	buf, err := ep.mem.Alloc(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocationFailed, err)
	}

	t := &Transfer{
		id:    xid.New().String(),
		dir:   d,
		buf:   buf,
		n:     n,
		state: StatePublished,
		start: time.Now(),
	}

	// A stale signal from an aborted predecessor must not wake this
	// transfer early.
	d.gate.arm()

	ep.regs.Write32(d.addrReg, buf.BusAddr())
	ep.regs.Write32(d.sizeReg, uint32(n))
	d.inFlight = t

	return t, nil
}

// MarkReady raises the direction's ready flag, preserving the offset
// bits in the register's upper half-word. From here on the hardware
// owns the buffer until the completion interrupt arrives.
func (ep *Endpoint) MarkReady(t *Transfer) {
	d := t.dir

	d.mu.Lock()
	defer d.mu.Unlock()

	if t.state != StatePublished {
		log.Panicf("cannot mark %s transfer ready in state %s", d.dir, t.state)
	}

	v := ep.regs.Read32(d.readyReg)
	ep.regs.Write32(d.readyReg, reg.ReadyFlag.Insert(v, reg.SetBufferReady))
	t.state = StateAwaitingCompletion
}

// Wait blocks until the direction's completion gate is signaled by the
// interrupt dispatcher. If the endpoint has a transfer timeout and it
// expires first, the transfer is aborted: the ready flag is
// force-cleared, the buffer released, and ErrTimeout returned.
func (ep *Endpoint) Wait(t *Transfer) error {
	err := t.dir.gate.wait(ep.timeout)
	if err != nil {
		ep.abort(t)
		return err
	}
	return nil
}

// CompleteAndRelease finishes a transfer after its completion interrupt.
// For a read transfer the device-written bytes are copied out to dst;
// a write transfer just releases. The buffer is freed on every exit
// path, including a failed copy, which surfaces as ErrCopyFault.
func (ep *Endpoint) CompleteAndRelease(t *Transfer, dst io.Writer) (int, error) {
	d := t.dir

	d.mu.Lock()
	defer d.mu.Unlock()

	copied := 0
	var copyErr error
	if d.dir == Read && dst != nil {
		copied, copyErr = dst.Write(t.buf.Bytes())
	} else {
		copied = t.n
	}

	ep.releaseLocked(t, statusOf(copyErr))

	if copyErr != nil {
		return copied, fmt.Errorf("%w: %v", ErrCopyFault, copyErr)
	}
	return copied, nil
}

// Release frees a transfer's buffer without copying anything out. It is
// the unconditional cleanup path for callers that failed before the
// handshake finished.
func (ep *Endpoint) Release(t *Transfer) {
	d := t.dir

	d.mu.Lock()
	defer d.mu.Unlock()

	ep.releaseLocked(t, "released")
}

// abort force-clears the ready flag and releases the buffer after a
// timed-out wait. The offset half-word of the ready register survives.
func (ep *Endpoint) abort(t *Transfer) {
	d := t.dir

	d.mu.Lock()
	defer d.mu.Unlock()

	v := ep.regs.Read32(d.readyReg)
	ep.regs.Write32(d.readyReg, reg.ReadyFlag.Insert(v, reg.ClrReg))

	ep.releaseLocked(t, "timeout")
}

// releaseLocked frees the buffer and clears the in-flight slot. The
// direction lock must be held.
func (ep *Endpoint) releaseLocked(t *Transfer, status string) {
	if t.state == StateCompleted || t.state == StateUnallocated {
		return
	}

	ep.mem.Free(t.buf)
	t.state = StateCompleted
	if t.dir.inFlight == t {
		t.dir.inFlight = nil
	}

	if ep.recorder != nil {
		ep.recorder.RecordTransfer(TransferRecord{
			ID:         t.id,
			Session:    t.session,
			Direction:  t.dir.dir.String(),
			Bytes:      t.n,
			Status:     status,
			DurationUS: time.Since(t.start).Microseconds(),
		})
	}
}

func statusOf(copyErr error) string {
	if copyErr != nil {
		return "copy_fault"
	}
	return "complete"
}
