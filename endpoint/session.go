package endpoint

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/pciep/reg"
)

// A Session is one open handle on the endpoint. Opening a session
// resets all per-direction state, so a new session never observes a
// stale in-flight transfer from a previous one.
type Session struct {
	ep        *Endpoint
	id        string
	closeOnce sync.Once
}

// Open creates a session and establishes the known-clean register
// state.
func (ep *Endpoint) Open() *Session {
	s := &Session{
		ep: ep,
		id: xid.New().String(),
	}
	ep.ResetAll()
	return s
}

// ID returns the session's unique ID.
func (s *Session) ID() string {
	return s.id
}

// Endpoint returns the endpoint this session is open on.
func (s *Session) Endpoint() *Endpoint {
	return s.ep
}

// Read runs one read transfer of len(p) bytes: allocate, publish,
// block for the completion interrupt, copy the device-written bytes
// into p, release. A zero-length p is ErrInvalidArgument.
func (s *Session) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("%w: empty read buffer", ErrInvalidArgument)
	}
	return s.ReadTo(sliceWriter{p: p}, len(p))
}

// ReadTo runs one read transfer of n bytes and copies the result to
// dst. A dst write failure surfaces as ErrCopyFault; the bytes already
// received from the hardware are lost, which is acceptable since the
// transfer is complete at the hardware level by then.
func (s *Session) ReadTo(dst io.Writer, n int) (int, error) {
	t, err := s.ep.Begin(Read, n)
	if err != nil {
		return 0, err
	}
	t.session = s.id

	s.ep.MarkReady(t)

	if err := s.ep.Wait(t); err != nil {
		return 0, err
	}

	return s.ep.CompleteAndRelease(t, dst)
}

// Write runs one write transfer carrying p: allocate, copy p in,
// publish, block for the completion interrupt, release. A zero-length
// p is ErrInvalidArgument.
func (s *Session) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("%w: empty write buffer", ErrInvalidArgument)
	}
	return s.WriteFrom(bytes.NewReader(p), len(p))
}

// WriteFrom runs one write transfer of n bytes drawn from src. A short
// or failed src read surfaces as ErrCopyFault and still releases the
// allocated buffer.
func (s *Session) WriteFrom(src io.Reader, n int) (int, error) {
	t, err := s.ep.Begin(Write, n)
	if err != nil {
		return 0, err
	}
	t.session = s.id

	if _, err := io.ReadFull(src, t.Bytes()); err != nil {
		s.ep.Release(t)
		return 0, fmt.Errorf("%w: %v", ErrCopyFault, err)
	}

	s.ep.MarkReady(t)

	if err := s.ep.Wait(t); err != nil {
		return 0, err
	}

	return s.ep.CompleteAndRelease(t, nil)
}

// Seek publishes a new read offset without starting a transfer and
// returns the offset.
func (s *Session) Seek(offset uint64) uint64 {
	s.ep.SetReadOffset(offset)
	return offset
}

// Do dispatches a numeric control command on behalf of the session.
func (s *Session) Do(cmd Command, arg uint64) (any, error) {
	return s.ep.Do(cmd, arg)
}

// Close clears the session's register footprint: the read offset, the
// offset half-word of the read ready register, and both size registers.
// Closing twice is a no-op.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		ep := s.ep

		ep.read.mu.Lock()
		ep.regs.Write32(reg.ReadBufferOffset, reg.ClrReg)
		v := ep.regs.Read32(reg.ReadBufferReady)
		ep.regs.Write32(reg.ReadBufferReady, v&^reg.HighOffsetMask)
		ep.regs.Write32(reg.ReadBufferSize, reg.ClrReg)
		ep.read.mu.Unlock()

		ep.write.mu.Lock()
		ep.regs.Write32(reg.WriteBufferSize, reg.ClrReg)
		ep.write.mu.Unlock()
	})
	return nil
}

// sliceWriter copies into a fixed destination slice, failing when the
// transfer delivered more bytes than the caller provided room for.
type sliceWriter struct {
	p []byte
}

func (w sliceWriter) Write(b []byte) (int, error) {
	n := copy(w.p, b)
	if n < len(b) {
		return n, io.ErrShortWrite
	}
	return n, nil
}
