// Package reg provides named access to the register bank that a PCIe
// endpoint exposes to the host. The bank is a fixed table of 32-bit
// registers at known byte offsets. Each access is a single 32-bit
// load or store; the hardware provides no read-modify-write atomicity,
// so masked updates are the caller's responsibility.
package reg

import (
	"log"
	"sync"
)

//go:generate mockgen -destination "mock_reg/space.go" -package mock_reg -write_package_comment=false github.com/sarchlab/pciep/reg Space

// A Space is a bank of memory-mapped 32-bit registers. Implementations
// must not cache: every Read32 reflects the most recent Write32 to the
// same offset. Accessing an offset outside the bank is a programming
// error and panics.
type Space interface {
	Read32(offset uint32) uint32
	Write32(offset uint32, value uint32)
}

// A WriteObserver is notified after a store to a Space it is attached
// to. Observers run on the writer's goroutine, outside any lock held by
// the Space, and may access the Space again.
type WriteObserver func(offset uint32, value uint32)

// MemSpace is an in-memory register bank. It models the endpoint's
// mapped region for tests and device models: stores are visible to
// subsequent loads immediately, and attached observers see every store,
// which lets a device model react to the host's register writes the way
// the hardware would.
type MemSpace struct {
	mu        sync.Mutex
	words     [BankSize / 4]uint32
	observers []WriteObserver
}

// NewMemSpace creates a zeroed in-memory register bank.
func NewMemSpace() *MemSpace {
	return &MemSpace{}
}

// Read32 returns the current value of the register at offset.
func (s *MemSpace) Read32(offset uint32) uint32 {
	i := wordIndex(offset)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.words[i]
}

// Write32 stores value into the register at offset and then notifies
// the attached observers.
func (s *MemSpace) Write32(offset uint32, value uint32) {
	i := wordIndex(offset)

	s.mu.Lock()
	s.words[i] = value
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o(offset, value)
	}
}

// Observe attaches an observer that is called after every store.
func (s *MemSpace) Observe(o WriteObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, o)
}

// Snapshot returns the value of every named register.
func (s *MemSpace) Snapshot() map[uint32]uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[uint32]uint32, len(names))
	for o := range names {
		snapshot[o] = s.words[o/4]
	}
	return snapshot
}

func wordIndex(offset uint32) int {
	if offset >= BankSize {
		log.Panicf("register offset 0x%02x is outside the bank", offset)
	}
	if offset%4 != 0 {
		log.Panicf("register offset 0x%02x is not word aligned", offset)
	}
	return int(offset / 4)
}
