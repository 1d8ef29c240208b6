package endpoint

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pciep/dma"
	"github.com/sarchlab/pciep/reg"
	"github.com/sarchlab/pciep/reg/mock_reg"
)

var _ = Describe("Endpoint register traffic", func() {
	var (
		mockCtrl *gomock.Controller
		space    *mock_reg.MockSpace
		arena    *dma.Arena
		ep       *Endpoint
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		space = mock_reg.NewMockSpace(mockCtrl)
		arena = dma.NewArena(0x4000_0000, 1<<16)
		ep = MakeBuilder().
			WithSpace(space).
			WithArena(arena).
			Build("EP")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should publish the address before the size", func() {
		gomock.InOrder(
			space.EXPECT().
				Write32(reg.WriteBufferAddr, uint32(0x4000_0000)),
			space.EXPECT().
				Write32(reg.WriteBufferSize, uint32(64)),
		)

		_, err := ep.Begin(Write, 64)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should read-modify-write the ready register on MarkReady", func() {
		space.EXPECT().Write32(reg.ReadBufferAddr, gomock.Any())
		space.EXPECT().Write32(reg.ReadBufferSize, gomock.Any())
		gomock.InOrder(
			space.EXPECT().
				Read32(reg.ReadBufferReady).
				Return(uint32(0x0005_0000)),
			space.EXPECT().
				Write32(reg.ReadBufferReady, uint32(0x0005_0001)),
		)

		t, err := ep.Begin(Read, 64)
		Expect(err).ToNot(HaveOccurred())

		ep.MarkReady(t)
	})

	It("should clear ready, then acknowledge at the done-interrupt register",
		func() {
			gomock.InOrder(
				space.EXPECT().
					Read32(reg.ReadBufferReady).
					Return(uint32(0x0001_0001)),
				space.EXPECT().
					Write32(reg.ReadBufferReady, uint32(0x0001_0000)),
				space.EXPECT().
					Read32(reg.ReadBufferTransferDoneIntr).
					Return(uint32(0)),
			)

			ep.IRQ().ReadDone()
		})

	It("should split an offset across the two registers", func() {
		gomock.InOrder(
			space.EXPECT().
				Write32(reg.ReadBufferOffset, uint32(0x0004)),
			space.EXPECT().
				Read32(reg.ReadBufferReady).
				Return(uint32(0x0000_0001)),
			space.EXPECT().
				Write32(reg.ReadBufferReady, uint32(0x0001_0001)),
		)

		ep.SetReadOffset(0x1_0004)
	})

	It("should reset the registers in the established order", func() {
		gomock.InOrder(
			space.EXPECT().Write32(reg.ReadTransferDone, uint32(0)),
			space.EXPECT().Write32(reg.WriteTransferDone, uint32(0)),
			space.EXPECT().Write32(reg.ReadBufferOffset, uint32(0)),
			space.EXPECT().Write32(reg.ReadBufferSize, uint32(0)),
			space.EXPECT().Write32(reg.WriteBufferSize, uint32(0)),
			space.EXPECT().Write32(reg.ReadBufferReady, uint32(0)),
			space.EXPECT().Write32(reg.WriteBufferReady, uint32(0)),
		)

		ep.ResetAll()
	})
})
