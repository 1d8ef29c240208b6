package endpoint

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pciep/dma"
	"github.com/sarchlab/pciep/reg"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("destination gone")
}

var _ = Describe("Endpoint", func() {
	var (
		space *reg.MemSpace
		arena *dma.Arena
		ep    *Endpoint
	)

	BeforeEach(func() {
		space = reg.NewMemSpace()
		arena = dma.NewArena(0x4000_0000, 1<<16)
		ep = MakeBuilder().
			WithSpace(space).
			WithArena(arena).
			Build("EP")
	})

	Context("beginning a transfer", func() {
		It("should publish the buffer address and size", func() {
			t, err := ep.Begin(Read, 4096)

			Expect(err).ToNot(HaveOccurred())
			Expect(space.Read32(reg.ReadBufferAddr)).
				To(Equal(t.buf.BusAddr()))
			Expect(space.Read32(reg.ReadBufferSize)).To(Equal(uint32(4096)))
			Expect(t.State()).To(Equal(StatePublished))
		})

		It("should reject a non-positive length", func() {
			_, err := ep.Begin(Read, 0)
			Expect(err).To(MatchError(ErrInvalidArgument))

			_, err = ep.Begin(Read, -1)
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("should allow at most one in-flight transfer per direction", func() {
			_, err := ep.Begin(Write, 64)
			Expect(err).ToNot(HaveOccurred())

			_, err = ep.Begin(Write, 64)
			Expect(err).To(MatchError(ErrTransferAlreadyInFlight))
		})

		It("should run the two directions independently", func() {
			_, err := ep.Begin(Read, 64)
			Expect(err).ToNot(HaveOccurred())

			_, err = ep.Begin(Write, 64)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should report an exhausted arena as an allocation failure", func() {
			_, err := ep.Begin(Read, 1<<17)
			Expect(err).To(MatchError(ErrAllocationFailed))
		})

		It("should accept a new transfer after the previous one is released",
			func() {
				t, err := ep.Begin(Write, 64)
				Expect(err).ToNot(HaveOccurred())

				ep.Release(t)

				_, err = ep.Begin(Write, 64)
				Expect(err).ToNot(HaveOccurred())
			})
	})

	Context("marking ready", func() {
		It("should set the ready flag without touching the offset half-word",
			func() {
				ep.SetReadOffset(0x1_0004)
				t, _ := ep.Begin(Read, 64)

				ep.MarkReady(t)

				Expect(space.Read32(reg.ReadBufferReady)).
					To(Equal(uint32(0x0001_0001)))
				Expect(t.State()).To(Equal(StateAwaitingCompletion))
			})

		It("should panic on a transfer that is not published", func() {
			t, _ := ep.Begin(Read, 64)
			ep.Release(t)

			Expect(func() { ep.MarkReady(t) }).To(Panic())
		})
	})

	Context("completion interrupts", func() {
		It("should clear the ready flag and keep the offset half-word", func() {
			ep.SetReadOffset(0x1_0004)
			t, _ := ep.Begin(Read, 64)
			ep.MarkReady(t)

			ep.IRQ().ReadDone()

			Expect(space.Read32(reg.ReadBufferReady)).
				To(Equal(uint32(0x0001_0000)))
			Expect(ep.Wait(t)).To(Succeed())
		})

		It("should wake a reader blocked on Wait", func() {
			t, _ := ep.Begin(Write, 64)
			ep.MarkReady(t)

			done := make(chan error, 1)
			go func() { done <- ep.Wait(t) }()

			ep.IRQ().WriteDone()

			Eventually(done).Should(Receive(BeNil()))
			Expect(space.Read32(reg.WriteBufferReady)).To(Equal(uint32(0)))
		})

		It("should acknowledge host-done and clear both done flags", func() {
			ep.SetReadTransferDone()
			ep.SetWriteTransferDone()

			ep.IRQ().HostDone()

			Expect(space.Read32(reg.ReadTransferDone)).To(Equal(uint32(0)))
			Expect(space.Read32(reg.WriteTransferDone)).To(Equal(uint32(0)))
		})
	})

	Context("waiting with a transfer timeout", func() {
		BeforeEach(func() {
			ep = MakeBuilder().
				WithSpace(space).
				WithArena(arena).
				WithTransferTimeout(10 * time.Millisecond).
				Build("EP")
		})

		It("should abort when the interrupt never arrives", func() {
			ep.SetWriteOffset(0x2_0000)
			t, _ := ep.Begin(Write, 64)
			ep.MarkReady(t)

			err := ep.Wait(t)

			Expect(err).To(MatchError(ErrTimeout))
			Expect(t.State()).To(Equal(StateCompleted))

			// The forced clear drops only the ready flag.
			Expect(space.Read32(reg.WriteBufferReady)).
				To(Equal(uint32(0x0002_0000)))

			_, err = ep.Begin(Write, 64)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should not wake a new transfer on a stale signal", func() {
			t1, _ := ep.Begin(Write, 64)
			ep.MarkReady(t1)
			Expect(ep.Wait(t1)).To(MatchError(ErrTimeout))

			// Interrupt for the aborted transfer lands late.
			ep.IRQ().WriteDone()

			t2, _ := ep.Begin(Write, 64)
			ep.MarkReady(t2)
			Expect(ep.Wait(t2)).To(MatchError(ErrTimeout))
		})
	})

	Context("completing and releasing", func() {
		It("should copy a read transfer out to the destination", func() {
			t, _ := ep.Begin(Read, 16)
			copy(t.Bytes(), "payload from dev")

			var dst bytes.Buffer
			n, err := ep.CompleteAndRelease(t, &dst)

			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(16))
			Expect(dst.String()).To(Equal("payload from dev"))
			Expect(t.State()).To(Equal(StateCompleted))
		})

		It("should report a destination failure as a copy fault and still release",
			func() {
				t, _ := ep.Begin(Read, 16)

				_, err := ep.CompleteAndRelease(t, failingWriter{})

				Expect(err).To(MatchError(ErrCopyFault))
				Expect(t.State()).To(Equal(StateCompleted))

				_, err = ep.Begin(Read, 16)
				Expect(err).ToNot(HaveOccurred())
			})

		It("should not copy anything for a write transfer", func() {
			t, _ := ep.Begin(Write, 16)

			n, err := ep.CompleteAndRelease(t, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(16))
		})

		It("should tolerate a second release", func() {
			t, _ := ep.Begin(Read, 16)

			ep.Release(t)

			Expect(func() { ep.Release(t) }).ToNot(Panic())
		})
	})

	Context("status", func() {
		It("should expose the in-flight transfer of each direction", func() {
			t, _ := ep.Begin(Read, 128)

			status := ep.Status()

			Expect(status).To(HaveLen(2))
			Expect(status[0].Direction).To(Equal("read"))
			Expect(status[0].InFlight).To(BeTrue())
			Expect(status[0].TransferID).To(Equal(t.ID()))
			Expect(status[0].Bytes).To(Equal(128))
			Expect(status[1].Direction).To(Equal("write"))
			Expect(status[1].InFlight).To(BeFalse())
		})
	})
})
