package dma_test

import (
	"testing"

	"github.com/sarchlab/pciep/dma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arenaBase = 0x4000_0000

func TestArenaAllocReturnsAlignedBusAddresses(t *testing.T) {
	a := dma.NewArena(arenaBase, 4096)

	b1, err := a.Alloc(100)
	require.NoError(t, err)
	b2, err := a.Alloc(1)
	require.NoError(t, err)

	assert.Equal(t, uint32(arenaBase), b1.BusAddr())
	assert.Equal(t, uint32(0), b1.BusAddr()%dma.Alignment)
	assert.Equal(t, uint32(0), b2.BusAddr()%dma.Alignment)
	assert.Equal(t, uint32(arenaBase+128), b2.BusAddr())
	assert.Equal(t, 100, b1.Len())
	assert.Equal(t, 1, b2.Len())
}

func TestArenaExhaustion(t *testing.T) {
	a := dma.NewArena(arenaBase, 128)

	b1, err := a.Alloc(64)
	require.NoError(t, err)
	_, err = a.Alloc(64)
	require.NoError(t, err)

	_, err = a.Alloc(64)
	assert.ErrorIs(t, err, dma.ErrExhausted)

	a.Free(b1)

	b3, err := a.Alloc(64)
	require.NoError(t, err)
	assert.Equal(t, uint32(arenaBase), b3.BusAddr())
}

func TestArenaFreeCoalescesNeighbors(t *testing.T) {
	a := dma.NewArena(arenaBase, 192)

	b1, _ := a.Alloc(64)
	b2, _ := a.Alloc(64)
	b3, _ := a.Alloc(64)

	a.Free(b1)
	a.Free(b3)
	a.Free(b2)

	// Only a fully merged free region can satisfy this.
	b, err := a.Alloc(192)
	require.NoError(t, err)
	assert.Equal(t, uint32(arenaBase), b.BusAddr())
}

func TestArenaRejectsInvalidSize(t *testing.T) {
	a := dma.NewArena(arenaBase, 128)

	_, err := a.Alloc(0)
	assert.Error(t, err)

	_, err = a.Alloc(-4)
	assert.Error(t, err)
}

func TestArenaSliceSharesStorageWithBuffer(t *testing.T) {
	a := dma.NewArena(arenaBase, 256)

	b, err := a.Alloc(16)
	require.NoError(t, err)
	copy(b.Bytes(), "device readable!")

	view, err := a.Slice(b.BusAddr(), 16)
	require.NoError(t, err)
	assert.Equal(t, []byte("device readable!"), view)

	view[0] = 'D'
	assert.Equal(t, byte('D'), b.Bytes()[0])
}

func TestArenaSliceOutOfRange(t *testing.T) {
	a := dma.NewArena(arenaBase, 256)

	_, err := a.Slice(arenaBase-4, 8)
	assert.Error(t, err)

	_, err = a.Slice(arenaBase+252, 8)
	assert.Error(t, err)
}

func TestArenaDoubleFreePanics(t *testing.T) {
	a := dma.NewArena(arenaBase, 128)
	b, _ := a.Alloc(32)

	a.Free(b)

	assert.Panics(t, func() { a.Free(b) })
}

func TestNewArenaValidatesCapacity(t *testing.T) {
	assert.Panics(t, func() { dma.NewArena(arenaBase, 0) })
	assert.Panics(t, func() { dma.NewArena(arenaBase, 100) })
}
