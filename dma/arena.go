// Package dma models the coherent, device-addressable memory pool that
// transfer buffers are carved from. An Arena stands in for the
// platform's DMA allocator: every buffer it hands out has both a bus
// address the endpoint hardware can be pointed at and a host-visible
// byte slice backed by the same storage.
package dma

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

// ErrExhausted is returned by Alloc when the arena cannot satisfy the
// request.
var ErrExhausted = errors.New("dma: arena exhausted")

// Alignment of every allocation, in bytes.
const Alignment = 64

// A Buffer is one allocation from an Arena. The slice returned by
// Bytes aliases the arena's storage, so data written through it is
// what the device sees at BusAddr.
type Buffer struct {
	arena   *Arena
	busAddr uint32
	data    []byte
}

// BusAddr returns the device-visible address of the buffer.
func (b *Buffer) BusAddr() uint32 {
	return b.busAddr
}

// Bytes returns the host-visible storage of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// An Arena is a first-fit allocator over a contiguous device-addressable
// region starting at a fixed bus address.
type Arena struct {
	mu      sync.Mutex
	base    uint32
	storage []byte
	blocks  []block
}

type block struct {
	off  uint32
	size uint32
	free bool
}

// NewArena creates an arena of the given capacity whose storage is
// device-visible starting at base.
func NewArena(base uint32, capacity uint32) *Arena {
	if capacity == 0 || capacity%Alignment != 0 {
		log.Panicf("arena capacity %d is not a positive multiple of %d",
			capacity, Alignment)
	}

	return &Arena{
		base:    base,
		storage: make([]byte, capacity),
		blocks:  []block{{off: 0, size: capacity, free: true}},
	}
}

// Base returns the bus address of the start of the arena.
func (a *Arena) Base() uint32 {
	return a.base
}

// Capacity returns the arena size in bytes.
func (a *Arena) Capacity() uint32 {
	return uint32(len(a.storage))
}

// Alloc carves an n-byte buffer out of the arena. It fails with
// ErrExhausted when no free block is large enough.
func (a *Arena) Alloc(n int) (*Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dma: invalid allocation size %d", n)
	}

	size := roundUp(uint32(n), Alignment)

	a.mu.Lock()
	defer a.mu.Unlock()

	for i, blk := range a.blocks {
		if !blk.free || blk.size < size {
			continue
		}

		if blk.size > size {
			a.blocks = append(a.blocks, block{})
			copy(a.blocks[i+1:], a.blocks[i:])
			a.blocks[i+1] = block{
				off:  blk.off + size,
				size: blk.size - size,
				free: true,
			}
		}
		a.blocks[i].size = size
		a.blocks[i].free = false

		return &Buffer{
			arena:   a,
			busAddr: a.base + blk.off,
			data:    a.storage[blk.off : blk.off+uint32(n)],
		}, nil
	}

	return nil, fmt.Errorf("%w: no free block of %d bytes", ErrExhausted, n)
}

// Free returns a buffer's storage to the arena. Freeing a buffer twice
// or freeing a buffer from another arena is a programming error.
func (a *Arena) Free(b *Buffer) {
	if b.arena != a {
		log.Panic("buffer does not belong to this arena")
	}

	off := b.busAddr - a.base

	a.mu.Lock()
	defer a.mu.Unlock()

	i := sort.Search(len(a.blocks), func(i int) bool {
		return a.blocks[i].off >= off
	})
	if i == len(a.blocks) || a.blocks[i].off != off || a.blocks[i].free {
		log.Panicf("freeing unallocated buffer at bus address 0x%08x",
			b.busAddr)
	}

	a.blocks[i].free = true
	b.arena = nil
	a.coalesce(i)
}

// Slice exposes the storage behind an address range the way the device
// sees it. It is how a device model reads or fills a published buffer.
func (a *Arena) Slice(busAddr uint32, n uint32) ([]byte, error) {
	off := busAddr - a.base
	if busAddr < a.base || off+n > uint32(len(a.storage)) {
		return nil, fmt.Errorf(
			"dma: range [0x%08x, +%d) is outside the arena", busAddr, n)
	}
	return a.storage[off : off+n], nil
}

// coalesce merges the block at index i with free neighbors.
func (a *Arena) coalesce(i int) {
	if i+1 < len(a.blocks) && a.blocks[i+1].free {
		a.blocks[i].size += a.blocks[i+1].size
		a.blocks = append(a.blocks[:i+1], a.blocks[i+2:]...)
	}
	if i > 0 && a.blocks[i-1].free {
		a.blocks[i-1].size += a.blocks[i].size
		a.blocks = append(a.blocks[:i], a.blocks[i+1:]...)
	}
}

func roundUp(n, multiple uint32) uint32 {
	return (n + multiple - 1) / multiple * multiple
}
