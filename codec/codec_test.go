package codec_test

import (
	"testing"

	"github.com/sarchlab/pciep/codec"
	"github.com/stretchr/testify/assert"
)

func TestEncParamsRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		params codec.EncParams
	}{
		{
			name:   "zero",
			params: codec.EncParams{},
		},
		{
			name: "typical streaming profile",
			params: codec.EncParams{
				EnableL2Cache:  true,
				LowBandwidth:   false,
				FillerData:     true,
				Bitrate:        20000,
				GopLength:      30,
				MaxPictureSize: true,
				BFrame:         2,
				Slice:          8,
				QPMode:         1,
				RCMode:         2,
				EncType:        1,
				GopMode:        3,
				Profile:        2,
				MinQP:          10,
				MaxQP:          51,
				CPBSize:        1500,
				InitialDelay:   750,
				PeriodicityIDR: 60,
			},
		},
		{
			name: "all fields at width limit",
			params: codec.EncParams{
				EnableL2Cache:  true,
				LowBandwidth:   true,
				FillerData:     true,
				MaxPictureSize: true,
				Bitrate:        0xFFFF,
				GopLength:      0x3FF,
				BFrame:         0x3,
				Slice:          0x3F,
				QPMode:         0x3,
				RCMode:         0x3,
				EncType:        0x3,
				GopMode:        0x7,
				Profile:        0x3,
				MinQP:          0x3F,
				MaxQP:          0x3F,
				CPBSize:        0xFFFF,
				InitialDelay:   0xFFFF,
				PeriodicityIDR: 0xFFFF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w1, w2, w3, w4, w5 := codec.EncodeEncParams(tt.params)
			decoded := codec.DecodeEncParams(w1, w2, w3, w4, w5)
			assert.Equal(t, tt.params, decoded)
		})
	}
}

func TestEncParamsTruncation(t *testing.T) {
	p := codec.EncParams{
		Bitrate:        0x1_0000, // one past the field width
		GopLength:      0x400,
		Slice:          0x40,
		CPBSize:        0x1_FFFF,
		PeriodicityIDR: 0xABCD_0123,
	}

	w1, w2, w3, w4, w5 := codec.EncodeEncParams(p)
	decoded := codec.DecodeEncParams(w1, w2, w3, w4, w5)

	assert.Equal(t, uint32(0), decoded.Bitrate)
	assert.Equal(t, uint32(0), decoded.GopLength)
	assert.Equal(t, uint32(0), decoded.Slice)
	assert.Equal(t, uint32(0xFFFF), decoded.CPBSize)
	assert.Equal(t, uint32(0x0123), decoded.PeriodicityIDR)
}

func TestDecodeEncParamsWord1Layout(t *testing.T) {
	// bit0 l2cache, bit1 low bandwidth, bit2 filler, bits[19:4]
	// bitrate, bits[29:20] gop length, bit30 max picture size.
	w1 := uint32(1) | 1<<2 | 20000<<4 | 30<<20 | 1<<30

	p := codec.DecodeEncParams(w1, 0, 0, 0, 0)

	assert.True(t, p.EnableL2Cache)
	assert.False(t, p.LowBandwidth)
	assert.True(t, p.FillerData)
	assert.Equal(t, uint32(20000), p.Bitrate)
	assert.Equal(t, uint32(30), p.GopLength)
	assert.True(t, p.MaxPictureSize)
}

func TestDecodeEncParamsWord2Layout(t *testing.T) {
	// bits[1:0] b-frames, bits[8:3] slices, bits[10:9] qp mode,
	// bits[12:11] rc mode, bits[14:13] encoder type, bits[17:15] gop
	// mode, bits[19:18] profile, bits[25:20] min qp, bits[31:26] max qp.
	w2 := uint32(2) | 8<<3 | 1<<9 | 2<<11 | 1<<13 | 3<<15 | 2<<18 |
		10<<20 | 51<<26

	p := codec.DecodeEncParams(0, w2, 0, 0, 0)

	assert.Equal(t, uint32(2), p.BFrame)
	assert.Equal(t, uint32(8), p.Slice)
	assert.Equal(t, uint32(1), p.QPMode)
	assert.Equal(t, uint32(2), p.RCMode)
	assert.Equal(t, uint32(1), p.EncType)
	assert.Equal(t, uint32(3), p.GopMode)
	assert.Equal(t, uint32(2), p.Profile)
	assert.Equal(t, uint32(10), p.MinQP)
	assert.Equal(t, uint32(51), p.MaxQP)
}

func TestResolutionRoundTrip(t *testing.T) {
	tests := []codec.Resolution{
		{Width: 0, Height: 0},
		{Width: 1920, Height: 1080},
		{Width: 3840, Height: 2160},
		{Width: 0xFFFF, Height: 0xFFFF},
	}

	for _, res := range tests {
		assert.Equal(t, res,
			codec.DecodeResolution(codec.EncodeResolution(res)))
	}
}

func TestDecodeResolutionLayout(t *testing.T) {
	res := codec.DecodeResolution(2160<<16 | 3840)

	assert.Equal(t, uint32(3840), res.Width)
	assert.Equal(t, uint32(2160), res.Height)
}

func TestUsecaseRoundTrip(t *testing.T) {
	tests := []codec.Usecase{
		{},
		{Mode: 1, Format: 2, FPS: 60},
		{Mode: 3, Format: 7, FPS: 1023},
	}

	for _, u := range tests {
		assert.Equal(t, u, codec.DecodeUsecase(codec.EncodeUsecase(u)))
	}
}

func TestUsecaseLayout(t *testing.T) {
	// bits[1:0] mode, bits[4:2] format, bits[14:5] fps.
	word := uint32(1) | 2<<2 | 60<<5

	assert.Equal(t, uint32(1), codec.DecodeMode(word))
	assert.Equal(t, uint32(2), codec.DecodeFormat(word))
	assert.Equal(t, uint32(60), codec.DecodeFPS(word))

	u := codec.DecodeUsecase(word)
	assert.Equal(t, codec.Usecase{Mode: 1, Format: 2, FPS: 60}, u)
}

func TestDecodeIgnoresNeighboringBits(t *testing.T) {
	// Garbage outside a field must not leak into its value.
	word := uint32(0xFFFF_FFFF)

	assert.Equal(t, uint32(0x3), codec.DecodeMode(word))
	assert.Equal(t, uint32(0x7), codec.DecodeFormat(word))
	assert.Equal(t, uint32(0x3FF), codec.DecodeFPS(word))
}
