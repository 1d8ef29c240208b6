package endpoint

import (
	"github.com/sarchlab/pciep/codec"
	"github.com/sarchlab/pciep/reg"
)

// FileLength returns the total available length the host published,
// assembled from two adjacent registers, low word first.
func (ep *Endpoint) FileLength() uint64 {
	low := ep.regs.Read32(reg.ReadFileLength)
	high := ep.regs.Read32(reg.ReadFileLengthHigh)
	return uint64(low) | uint64(high)<<32
}

// EncParams decodes the encoder parameters from the five packed
// parameter registers. The registers are re-read on every call.
func (ep *Endpoint) EncParams() codec.EncParams {
	return codec.DecodeEncParams(
		ep.regs.Read32(reg.EncParams1),
		ep.regs.Read32(reg.EncParams2),
		ep.regs.Read32(reg.EncParams3),
		ep.regs.Read32(reg.EncParams4),
		ep.regs.Read32(reg.EncParams5),
	)
}

// Resolution decodes the raw resolution register.
func (ep *Endpoint) Resolution() codec.Resolution {
	return codec.DecodeResolution(ep.regs.Read32(reg.RawResolution))
}

// Usecase decodes the full use-case register.
func (ep *Endpoint) Usecase() codec.Usecase {
	return codec.DecodeUsecase(ep.regs.Read32(reg.UsecaseMode))
}

// Mode returns the use-case mode bits.
func (ep *Endpoint) Mode() uint32 {
	return codec.DecodeMode(ep.regs.Read32(reg.UsecaseMode))
}

// FPS returns the frame rate bits of the use-case register.
func (ep *Endpoint) FPS() uint32 {
	return codec.DecodeFPS(ep.regs.Read32(reg.UsecaseMode))
}

// Format returns the format bits of the use-case register.
func (ep *Endpoint) Format() uint32 {
	return codec.DecodeFormat(ep.regs.Read32(reg.UsecaseMode))
}

// SetReadOffset publishes a read offset: the low 16 bits go to the
// dedicated offset register, the high 16 bits to the upper half-word of
// the ready register, leaving the ready flag untouched.
func (ep *Endpoint) SetReadOffset(offset uint64) {
	ep.setOffset(&ep.read, offset)
}

// SetWriteOffset publishes a write offset, symmetric to SetReadOffset.
func (ep *Endpoint) SetWriteOffset(offset uint64) {
	ep.setOffset(&ep.write, offset)
}

func (ep *Endpoint) setOffset(d *direction, offset uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ep.regs.Write32(d.offsetReg, reg.OffsetLow.Insert(0, uint32(offset)))

	v := ep.regs.Read32(d.readyReg)
	ep.regs.Write32(d.readyReg, reg.OffsetHigh.Insert(v, uint32(offset>>16)))
}

// SetReadTransferDone marks the read side done at the protocol level.
func (ep *Endpoint) SetReadTransferDone() {
	ep.regs.Write32(reg.ReadTransferDone, reg.TransferDoneFlag)
}

// ClearReadTransferDone clears the read-side done flag.
func (ep *Endpoint) ClearReadTransferDone() {
	ep.regs.Write32(reg.ReadTransferDone, reg.ClrReg)
}

// SetWriteTransferDone marks the write side done at the protocol level.
func (ep *Endpoint) SetWriteTransferDone() {
	ep.regs.Write32(reg.WriteTransferDone, reg.TransferDoneFlag)
}

// ClearWriteTransferDone clears the write-side done flag.
func (ep *Endpoint) ClearWriteTransferDone() {
	ep.regs.Write32(reg.WriteTransferDone, reg.ClrReg)
}

// ResetAll establishes a known-clean state before any transfer begins:
// both transfer-done flags and the buffer offset, size and ready
// registers go to zero. Idempotent.
func (ep *Endpoint) ResetAll() {
	ep.read.mu.Lock()
	ep.write.mu.Lock()
	defer ep.read.mu.Unlock()
	defer ep.write.mu.Unlock()

	ep.regs.Write32(reg.ReadTransferDone, reg.ClrReg)
	ep.regs.Write32(reg.WriteTransferDone, reg.ClrReg)
	ep.regs.Write32(reg.ReadBufferOffset, reg.ClrReg)
	ep.regs.Write32(reg.ReadBufferSize, reg.ClrReg)
	ep.regs.Write32(reg.WriteBufferSize, reg.ClrReg)
	ep.regs.Write32(reg.ReadBufferReady, reg.ClrReg)
	ep.regs.Write32(reg.WriteBufferReady, reg.ClrReg)
}
