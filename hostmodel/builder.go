package hostmodel

import (
	"time"

	"github.com/sarchlab/pciep/dma"
	"github.com/sarchlab/pciep/reg"
)

// Builder can be used to build a Host.
type Builder struct {
	space   *reg.MemSpace
	mem     *dma.Arena
	irq     IRQLines
	latency time.Duration
	content []byte
}

// MakeBuilder creates a new Builder with a small default serve latency.
func MakeBuilder() Builder {
	return Builder{
		latency: time.Millisecond,
	}
}

// WithSpace sets the register bank the model shares with the driver.
func (b Builder) WithSpace(space *reg.MemSpace) Builder {
	b.space = space
	return b
}

// WithArena sets the DMA pool the model reads published buffers from.
func (b Builder) WithArena(mem *dma.Arena) Builder {
	b.mem = mem
	return b
}

// WithIRQ sets the interrupt lines the model raises.
func (b Builder) WithIRQ(irq IRQLines) Builder {
	b.irq = irq
	return b
}

// WithLatency sets the simulated hardware latency per transfer.
func (b Builder) WithLatency(latency time.Duration) Builder {
	b.latency = latency
	return b
}

// WithContent sets the byte stream served to read transfers.
func (b Builder) WithContent(content []byte) Builder {
	b.content = content
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.space == nil {
		panic("host model requires a register space")
	}
	if b.mem == nil {
		panic("host model requires a DMA arena")
	}
	if b.irq == nil {
		panic("host model requires interrupt lines")
	}
}

// Build builds the host model. Call Start to publish a profile and
// begin serving.
func (b Builder) Build(name string) *Host {
	b.parametersMustBeValid()

	return &Host{
		name:    name,
		space:   b.space,
		mem:     b.mem,
		irq:     b.irq,
		latency: b.latency,
		content: b.content,
	}
}
