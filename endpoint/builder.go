package endpoint

import (
	"time"

	"github.com/sarchlab/pciep/dma"
	"github.com/sarchlab/pciep/reg"
)

// Builder can be used to build an Endpoint.
type Builder struct {
	space    reg.Space
	arena    *dma.Arena
	timeout  time.Duration
	recorder Recorder
}

// MakeBuilder creates a new Builder. By default transfers wait forever
// for their completion interrupt, which is the base protocol.
func MakeBuilder() Builder {
	return Builder{}
}

// WithSpace sets the register space the endpoint drives.
func (b Builder) WithSpace(space reg.Space) Builder {
	b.space = space
	return b
}

// WithArena sets the DMA pool transfer buffers are allocated from.
func (b Builder) WithArena(arena *dma.Arena) Builder {
	b.arena = arena
	return b
}

// WithTransferTimeout bounds the wait for a completion interrupt. On
// expiry the transfer is aborted: the ready flag is force-cleared, the
// buffer released, and the caller gets ErrTimeout. A zero timeout waits
// forever.
func (b Builder) WithTransferTimeout(timeout time.Duration) Builder {
	b.timeout = timeout
	return b
}

// WithRecorder attaches a recorder that receives one record per
// finished transfer.
func (b Builder) WithRecorder(recorder Recorder) Builder {
	b.recorder = recorder
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.space == nil {
		panic("endpoint requires a register space")
	}
	if b.arena == nil {
		panic("endpoint requires a DMA arena")
	}
}

// Build builds the endpoint.
func (b Builder) Build(name string) *Endpoint {
	b.parametersMustBeValid()

	ep := &Endpoint{
		name:     name,
		regs:     b.space,
		mem:      b.arena,
		timeout:  b.timeout,
		recorder: b.recorder,
	}

	ep.read = direction{
		dir:       Read,
		readyReg:  reg.ReadBufferReady,
		addrReg:   reg.ReadBufferAddr,
		offsetReg: reg.ReadBufferOffset,
		sizeReg:   reg.ReadBufferSize,
		ackReg:    reg.ReadBufferTransferDoneIntr,
		gate:      newCompletionGate(),
	}
	ep.write = direction{
		dir:       Write,
		readyReg:  reg.WriteBufferReady,
		addrReg:   reg.WriteBufferAddr,
		offsetReg: reg.WriteBufferOffset,
		sizeReg:   reg.WriteBufferSize,
		ackReg:    reg.WriteBufferTransferDoneIntr,
		gate:      newCompletionGate(),
	}

	return ep
}
