package endpoint

import "github.com/sarchlab/pciep/reg"

// IRQ is the endpoint's view of its three hardware interrupt lines.
// Routing a platform interrupt to the right method is the platform
// glue's job; the methods themselves never block and may be invoked
// concurrently with each other and with the transfer path. A handler
// serializes with same-direction register updates on the direction's
// lock, so the offset half-word of a ready register cannot be lost to
// an interleaved read-modify-write.
type IRQ struct {
	ep *Endpoint
}

// IRQ returns the endpoint's interrupt lines.
func (ep *Endpoint) IRQ() IRQ {
	return IRQ{ep: ep}
}

// ReadDone handles the read-complete event: clear the read ready flag,
// wake the blocked reader, and acknowledge the event at the read
// transfer-done interrupt register.
func (irq IRQ) ReadDone() {
	irq.ep.transferDone(&irq.ep.read)
}

// WriteDone handles the write-complete event, symmetric to ReadDone on
// the write registers and gate.
func (irq IRQ) WriteDone() {
	irq.ep.transferDone(&irq.ep.write)
}

// HostDone handles the endpoint-wide host-done event: acknowledge it
// and clear both transfer-done flags. It is independent of the
// per-direction completion gates.
func (irq IRQ) HostDone() {
	irq.ep.regs.Read32(reg.HostDoneIntr)
	irq.ep.regs.Write32(reg.ReadTransferDone, reg.ClrReg)
	irq.ep.regs.Write32(reg.WriteTransferDone, reg.ClrReg)
}

func (ep *Endpoint) transferDone(d *direction) {
	d.mu.Lock()
	v := ep.regs.Read32(d.readyReg)
	ep.regs.Write32(d.readyReg, reg.ReadyFlag.Insert(v, reg.ClrReg))
	d.mu.Unlock()

	d.gate.signal()
	ep.regs.Read32(d.ackReg)
}
