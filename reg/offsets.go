package reg

// Byte offsets of the endpoint's registers, as laid out by the
// xlnx,pcie-reg-space hardware. All registers are 32 bits wide and
// little-endian from the host's perspective.
const (
	ReadBufferReady  uint32 = 0x00
	ReadBufferAddr   uint32 = 0x04
	ReadBufferOffset uint32 = 0x08
	ReadBufferSize   uint32 = 0x0c

	WriteBufferReady  uint32 = 0x10
	WriteBufferAddr   uint32 = 0x14
	WriteBufferOffset uint32 = 0x18
	WriteBufferSize   uint32 = 0x1c

	ReadTransferDone  uint32 = 0x20
	WriteTransferDone uint32 = 0x24

	ReadTransferClr    uint32 = 0x28
	ReadBufferHostIntr uint32 = 0x2c
	WriteTransferClr   uint32 = 0x30

	// The available length is a 64-bit value split over two adjacent
	// registers, low word at ReadFileLength, high word 4 bytes below.
	ReadFileLengthHigh uint32 = 0x3c
	ReadFileLength     uint32 = 0x40

	ReadBufferTransferDone  uint32 = 0x44
	WriteBufferTransferDone uint32 = 0x48

	EncParams1    uint32 = 0x4c
	EncParams2    uint32 = 0x50
	RawResolution uint32 = 0x54
	UsecaseMode   uint32 = 0x58
	EncParams3    uint32 = 0x5c
	EncParams4    uint32 = 0x60
	EncParams5    uint32 = 0x64

	ReadBufferTransferDoneIntr  uint32 = 0x68
	WriteBufferTransferDoneIntr uint32 = 0x6c
	HostDoneIntr                uint32 = 0x70
)

// BankSize is the size of the mapped register region in bytes.
const BankSize = 0x74

// Values written to the registers above.
const (
	ClrReg         uint32 = 0x00
	SetBufferReady uint32 = 0x01

	// TransferDoneFlag is the magic value that marks a transfer-done
	// register as set. Writing ClrReg clears it.
	TransferDoneFlag uint32 = 0xef
)

// HighOffsetMask selects the upper half-word of a buffer-ready register,
// which holds the high 16 bits of the direction's buffer offset. Bit 0 of
// the same register is the ready flag, so every update of one half must
// preserve the other.
const HighOffsetMask uint32 = 0xFFFF0000

// Name returns the symbolic name of the register at the given offset, or
// an empty string if the offset does not name a register.
func Name(offset uint32) string {
	n, ok := names[offset]
	if !ok {
		return ""
	}
	return n
}

// Offsets lists all register offsets in ascending order.
func Offsets() []uint32 {
	offsets := make([]uint32, 0, len(names))
	for o := uint32(0); o < BankSize; o += 4 {
		if _, ok := names[o]; ok {
			offsets = append(offsets, o)
		}
	}
	return offsets
}

var names = map[uint32]string{
	ReadBufferReady:             "READ_BUFFER_READY",
	ReadBufferAddr:              "READ_BUFFER_ADDR",
	ReadBufferOffset:            "READ_BUFFER_OFFSET",
	ReadBufferSize:              "READ_BUFFER_SIZE",
	WriteBufferReady:            "WRITE_BUFFER_READY",
	WriteBufferAddr:             "WRITE_BUFFER_ADDR",
	WriteBufferOffset:           "WRITE_BUFFER_OFFSET",
	WriteBufferSize:             "WRITE_BUFFER_SIZE",
	ReadTransferDone:            "READ_TRANSFER_DONE",
	WriteTransferDone:           "WRITE_TRANSFER_DONE",
	ReadTransferClr:             "READ_TRANSFER_CLR",
	ReadBufferHostIntr:          "READ_BUFFER_HOST_INTR",
	WriteTransferClr:            "WRITE_TRANSFER_CLR",
	ReadFileLengthHigh:          "READ_FILE_LENGTH_HIGH",
	ReadFileLength:              "READ_FILE_LENGTH",
	ReadBufferTransferDone:      "READ_BUFFER_TRANSFER_DONE",
	WriteBufferTransferDone:     "WRITE_BUFFER_TRANSFER_DONE",
	EncParams1:                  "ENC_PARAMS_1",
	EncParams2:                  "ENC_PARAMS_2",
	RawResolution:               "RAW_RESOLUTION",
	UsecaseMode:                 "USECASE_MODE",
	EncParams3:                  "ENC_PARAMS_3",
	EncParams4:                  "ENC_PARAMS_4",
	EncParams5:                  "ENC_PARAMS_5",
	ReadBufferTransferDoneIntr:  "READ_BUFFER_TRANSFER_DONE_INTR",
	WriteBufferTransferDoneIntr: "WRITE_BUFFER_TRANSFER_DONE_INTR",
	HostDoneIntr:                "HOST_DONE_INTR",
}
