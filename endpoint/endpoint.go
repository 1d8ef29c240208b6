// Package endpoint implements the host-side request/response protocol
// of a PCIe endpoint accelerator that exchanges bulk data and encoding
// control parameters through a small bank of memory-mapped registers.
//
// A transfer publishes a DMA buffer's address and size through the
// direction's registers, raises the ready flag, and blocks until the
// hardware's completion interrupt clears the flag and wakes the caller.
// The read and write directions are fully independent: separate
// registers, separate buffers, separate completion gates.
package endpoint

import (
	"sync"
	"time"

	"github.com/sarchlab/pciep/dma"
	"github.com/sarchlab/pciep/reg"
)

// Direction selects one of the two independent transfer domains.
type Direction int

// The two transfer directions. Read moves data from the host into the
// caller's hands; Write moves caller data toward the host.
const (
	Read Direction = iota
	Write
)

func (d Direction) String() string {
	switch d {
	case Read:
		return "read"
	case Write:
		return "write"
	}
	return "unknown"
}

// An Endpoint drives one mapped register bank and its DMA pool. All of
// its methods are safe for concurrent use; operations on opposite
// directions proceed fully in parallel, while operations on the same
// direction serialize on that direction's lock so that no half-word of
// a ready register is ever lost to a concurrent read-modify-write.
type Endpoint struct {
	name     string
	regs     reg.Space
	mem      *dma.Arena
	timeout  time.Duration
	recorder Recorder

	read  direction
	write direction
}

// A direction bundles the registers, the lock, the completion gate, and
// the single in-flight buffer of one transfer domain.
type direction struct {
	dir Direction

	readyReg  uint32
	addrReg   uint32
	offsetReg uint32
	sizeReg   uint32
	ackReg    uint32

	mu       sync.Mutex
	gate     *completionGate
	inFlight *Transfer
}

// Name returns the endpoint's name.
func (ep *Endpoint) Name() string {
	return ep.name
}

// Arena returns the DMA pool the endpoint allocates transfer buffers
// from.
func (ep *Endpoint) Arena() *dma.Arena {
	return ep.mem
}

// Registers returns the endpoint's register space.
func (ep *Endpoint) Registers() reg.Space {
	return ep.regs
}

func (ep *Endpoint) direction(dir Direction) *direction {
	if dir == Read {
		return &ep.read
	}
	return &ep.write
}

// DirectionStatus describes the externally visible state of one
// transfer domain.
type DirectionStatus struct {
	Direction  string
	InFlight   bool
	TransferID string
	Bytes      int
	State      string
}

// Status reports both directions, for monitoring.
func (ep *Endpoint) Status() []DirectionStatus {
	return []DirectionStatus{
		ep.read.status(),
		ep.write.status(),
	}
}

func (d *direction) status() DirectionStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := DirectionStatus{Direction: d.dir.String()}
	if t := d.inFlight; t != nil {
		s.InFlight = true
		s.TransferID = t.id
		s.Bytes = t.n
		s.State = t.state.String()
	}
	return s
}
