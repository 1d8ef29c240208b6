package main

import (
	"os"
	"strconv"
	"time"

	"github.com/sarchlab/pciep/codec"
	"github.com/sarchlab/pciep/dma"
	"github.com/sarchlab/pciep/endpoint"
	"github.com/sarchlab/pciep/hostmodel"
	"github.com/sarchlab/pciep/recording"
	"github.com/sarchlab/pciep/reg"
)

const arenaBase = 0x4000_0000

// A rig is a complete in-process protocol stack: a register bank, a
// DMA pool, the endpoint driver, and the device model serving it.
type rig struct {
	space *reg.MemSpace
	ep    *endpoint.Endpoint
	host  *hostmodel.Host
	log   *recording.TransferLog
}

func buildRig() *rig {
	space := reg.NewMemSpace()
	arena := dma.NewArena(arenaBase, envUint32("PCIEP_ARENA_BYTES", 16<<20))

	builder := endpoint.MakeBuilder().
		WithSpace(space).
		WithArena(arena).
		WithTransferTimeout(envDuration("PCIEP_TIMEOUT_MS", 5*time.Second))

	r := &rig{space: space}

	if path := os.Getenv("PCIEP_RECORD"); path != "" {
		r.log = recording.NewTransferLog(recording.New(path))
		builder = builder.WithRecorder(r.log)
	}

	r.ep = builder.Build("PCIEP")

	content := make([]byte, envUint32("PCIEP_CONTENT_BYTES", 1<<20))
	for i := range content {
		content[i] = byte(i)
	}

	r.host = hostmodel.MakeBuilder().
		WithSpace(space).
		WithArena(arena).
		WithIRQ(r.ep.IRQ()).
		WithLatency(envDuration("PCIEP_LATENCY_MS", time.Millisecond)).
		WithContent(content).
		Build("PCIEP.Host")

	r.host.Start(hostmodel.Profile{
		FileLength: uint64(len(content)),
		Resolution: codec.Resolution{Width: 3840, Height: 2160},
		Usecase:    codec.Usecase{Mode: 1, Format: 2, FPS: 60},
		Params: codec.EncParams{
			EnableL2Cache:  true,
			Bitrate:        20000,
			GopLength:      30,
			Slice:          8,
			RCMode:         2,
			EncType:        1,
			Profile:        2,
			MinQP:          10,
			MaxQP:          51,
			CPBSize:        1500,
			InitialDelay:   750,
			PeriodicityIDR: 60,
		},
	})

	return r
}

func (r *rig) close() {
	if r.log != nil {
		r.log.Flush()
	}
}

func envUint32(name string, fallback uint32) uint32 {
	s := os.Getenv(name)
	if s == "" {
		return fallback
	}

	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return fallback
	}
	return uint32(v)
}

func envDuration(name string, fallback time.Duration) time.Duration {
	s := os.Getenv(name)
	if s == "" {
		return fallback
	}

	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
