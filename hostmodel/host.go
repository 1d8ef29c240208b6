// Package hostmodel is a software model of the far side of the
// protocol: the root complex and the endpoint hardware that consume
// published buffers. It watches the ready registers, serves read
// transfers from its content, captures write transfers, and raises the
// endpoint's interrupt lines — the way the hardware would. It exists
// for tests and demos; against real hardware the package is simply not
// wired in.
package hostmodel

import (
	"log"
	"sync"
	"time"

	"github.com/sarchlab/pciep/codec"
	"github.com/sarchlab/pciep/dma"
	"github.com/sarchlab/pciep/reg"
)

// IRQLines is what the model needs from the host-side driver: the three
// interrupt lines it can raise. endpoint.IRQ satisfies it.
type IRQLines interface {
	ReadDone()
	WriteDone()
	HostDone()
}

// A Profile is the control-parameter state the model publishes through
// the packed registers when it starts.
type Profile struct {
	FileLength uint64
	Resolution codec.Resolution
	Usecase    codec.Usecase
	Params     codec.EncParams
}

// A Host serves the endpoint's register handshake.
type Host struct {
	name    string
	space   *reg.MemSpace
	mem     *dma.Arena
	irq     IRQLines
	latency time.Duration
	content []byte

	mu           sync.Mutex
	servingRead  bool
	servingWrite bool
	received     [][]byte
}

// Start publishes the profile registers and begins watching the ready
// registers for published buffers.
func (h *Host) Start(profile Profile) {
	h.publish(profile)
	h.space.Observe(h.registerWritten)
}

// Received returns copies of all write-transfer payloads the model has
// consumed, in arrival order.
func (h *Host) Received() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([][]byte, len(h.received))
	copy(out, h.received)
	return out
}

// RaiseHostDone raises the endpoint-wide host-done line.
func (h *Host) RaiseHostDone() {
	h.irq.HostDone()
}

func (h *Host) publish(p Profile) {
	h.space.Write32(reg.ReadFileLength, uint32(p.FileLength))
	h.space.Write32(reg.ReadFileLengthHigh, uint32(p.FileLength>>32))
	h.space.Write32(reg.RawResolution, codec.EncodeResolution(p.Resolution))
	h.space.Write32(reg.UsecaseMode, codec.EncodeUsecase(p.Usecase))

	w1, w2, w3, w4, w5 := codec.EncodeEncParams(p.Params)
	h.space.Write32(reg.EncParams1, w1)
	h.space.Write32(reg.EncParams2, w2)
	h.space.Write32(reg.EncParams3, w3)
	h.space.Write32(reg.EncParams4, w4)
	h.space.Write32(reg.EncParams5, w5)
}

// registerWritten reacts to the driver raising a ready flag. The serve
// itself runs on its own goroutine, standing in for the hardware acting
// asynchronously.
func (h *Host) registerWritten(offset uint32, value uint32) {
	switch offset {
	case reg.ReadBufferReady:
		if reg.ReadyFlag.Decode(value) != 0 && h.claim(&h.servingRead) {
			go h.serveRead()
		}
	case reg.WriteBufferReady:
		if reg.ReadyFlag.Decode(value) != 0 && h.claim(&h.servingWrite) {
			go h.serveWrite()
		}
	}
}

// claim marks a direction as being served, so that offset updates that
// rewrite a still-set ready flag do not trigger a second serve.
func (h *Host) claim(serving *bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if *serving {
		return false
	}
	*serving = true
	return true
}

func (h *Host) release(serving *bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	*serving = false
}

func (h *Host) serveRead() {
	time.Sleep(h.latency)

	addr := h.space.Read32(reg.ReadBufferAddr)
	size := h.space.Read32(reg.ReadBufferSize)
	offset := h.bufferOffset(reg.ReadBufferOffset, reg.ReadBufferReady)

	buf, err := h.mem.Slice(addr, size)
	if err != nil {
		log.Panicf("%s: endpoint published a bad read buffer: %v", h.name, err)
	}

	for i := range buf {
		buf[i] = 0
	}
	if offset < uint32(len(h.content)) {
		copy(buf, h.content[offset:])
	}

	h.release(&h.servingRead)
	h.irq.ReadDone()
}

func (h *Host) serveWrite() {
	time.Sleep(h.latency)

	addr := h.space.Read32(reg.WriteBufferAddr)
	size := h.space.Read32(reg.WriteBufferSize)

	buf, err := h.mem.Slice(addr, size)
	if err != nil {
		log.Panicf("%s: endpoint published a bad write buffer: %v", h.name, err)
	}

	data := make([]byte, len(buf))
	copy(data, buf)

	h.mu.Lock()
	h.received = append(h.received, data)
	h.servingWrite = false
	h.mu.Unlock()

	h.irq.WriteDone()
}

// bufferOffset reassembles a direction's buffer offset from the low
// half-word of the offset register and the upper half-word of the ready
// register.
func (h *Host) bufferOffset(offsetReg, readyReg uint32) uint32 {
	low := reg.OffsetLow.Decode(h.space.Read32(offsetReg))
	high := reg.OffsetHigh.Decode(h.space.Read32(readyReg))
	return high<<16 | low
}
