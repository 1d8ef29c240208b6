package codec

import "github.com/sarchlab/pciep/reg"

// Bit layout of ENC_PARAMS_1.
var (
	fieldL2Cache        = reg.Field{Shift: 0, Mask: 0x1}
	fieldLowBandwidth   = reg.Field{Shift: 1, Mask: 0x1}
	fieldFillerData     = reg.Field{Shift: 2, Mask: 0x1}
	fieldBitrate        = reg.Field{Shift: 4, Mask: 0xFFFF}
	fieldGopLength      = reg.Field{Shift: 20, Mask: 0x3FF}
	fieldMaxPictureSize = reg.Field{Shift: 30, Mask: 0x1}
)

// Bit layout of ENC_PARAMS_2.
var (
	fieldBFrame  = reg.Field{Shift: 0, Mask: 0x3}
	fieldSlice   = reg.Field{Shift: 3, Mask: 0x3F}
	fieldQPMode  = reg.Field{Shift: 9, Mask: 0x3}
	fieldRCMode  = reg.Field{Shift: 11, Mask: 0x3}
	fieldEncType = reg.Field{Shift: 13, Mask: 0x3}
	fieldGopMode = reg.Field{Shift: 15, Mask: 0x7}
	fieldProfile = reg.Field{Shift: 18, Mask: 0x3}
	fieldMinQP   = reg.Field{Shift: 20, Mask: 0x3F}
	fieldMaxQP   = reg.Field{Shift: 26, Mask: 0x3F}
)

// Bit layout of ENC_PARAMS_3 through ENC_PARAMS_5.
var (
	fieldCPBSize        = reg.Field{Shift: 0, Mask: 0xFFFF}
	fieldInitialDelay   = reg.Field{Shift: 0, Mask: 0xFFFF}
	fieldPeriodicityIDR = reg.Field{Shift: 0, Mask: 0xFFFF}
)

// Bit layout of RAW_RESOLUTION.
var (
	fieldWidth  = reg.Field{Shift: 0, Mask: 0xFFFF}
	fieldHeight = reg.Field{Shift: 16, Mask: 0xFFFF}
)

// Bit layout of USECASE_MODE.
var (
	fieldMode   = reg.Field{Shift: 0, Mask: 0x3}
	fieldFormat = reg.Field{Shift: 2, Mask: 0x7}
	fieldFPS    = reg.Field{Shift: 5, Mask: 0x3FF}
)
