// Package codec decodes and encodes the packed control registers that
// the endpoint shares with the host: the five encoder-parameter words,
// the raw resolution word, and the use-case word. All functions are
// pure projections of register values; nothing here touches hardware
// and nothing is cached. Out-of-range inputs are truncated to their
// field's width, never rejected, which is the behavior of the bit
// layout itself.
package codec

// EncParams is the encoder configuration published by the host, packed
// into registers ENC_PARAMS_1 through ENC_PARAMS_5.
type EncParams struct {
	EnableL2Cache  bool
	LowBandwidth   bool
	FillerData     bool
	MaxPictureSize bool
	Bitrate        uint32
	GopLength      uint32
	BFrame         uint32
	Slice          uint32
	QPMode         uint32
	RCMode         uint32
	EncType        uint32
	GopMode        uint32
	Profile        uint32
	MinQP          uint32
	MaxQP          uint32
	CPBSize        uint32
	InitialDelay   uint32
	PeriodicityIDR uint32
}

// Resolution is the raw video resolution in pixels.
type Resolution struct {
	Width  uint32
	Height uint32
}

// Usecase is the operating mode published through the USECASE_MODE
// register.
type Usecase struct {
	Mode   uint32
	Format uint32
	FPS    uint32
}

// DecodeEncParams unpacks the five encoder-parameter words.
func DecodeEncParams(w1, w2, w3, w4, w5 uint32) EncParams {
	return EncParams{
		EnableL2Cache:  fieldL2Cache.Decode(w1) != 0,
		LowBandwidth:   fieldLowBandwidth.Decode(w1) != 0,
		FillerData:     fieldFillerData.Decode(w1) != 0,
		Bitrate:        fieldBitrate.Decode(w1),
		GopLength:      fieldGopLength.Decode(w1),
		MaxPictureSize: fieldMaxPictureSize.Decode(w1) != 0,

		BFrame:  fieldBFrame.Decode(w2),
		Slice:   fieldSlice.Decode(w2),
		QPMode:  fieldQPMode.Decode(w2),
		RCMode:  fieldRCMode.Decode(w2),
		EncType: fieldEncType.Decode(w2),
		GopMode: fieldGopMode.Decode(w2),
		Profile: fieldProfile.Decode(w2),
		MinQP:   fieldMinQP.Decode(w2),
		MaxQP:   fieldMaxQP.Decode(w2),

		CPBSize:        fieldCPBSize.Decode(w3),
		InitialDelay:   fieldInitialDelay.Decode(w4),
		PeriodicityIDR: fieldPeriodicityIDR.Decode(w5),
	}
}

// EncodeEncParams packs the encoder configuration back into the five
// parameter words. Values wider than their field are truncated.
func EncodeEncParams(p EncParams) (w1, w2, w3, w4, w5 uint32) {
	w1 = fieldL2Cache.Insert(w1, boolBit(p.EnableL2Cache))
	w1 = fieldLowBandwidth.Insert(w1, boolBit(p.LowBandwidth))
	w1 = fieldFillerData.Insert(w1, boolBit(p.FillerData))
	w1 = fieldBitrate.Insert(w1, p.Bitrate)
	w1 = fieldGopLength.Insert(w1, p.GopLength)
	w1 = fieldMaxPictureSize.Insert(w1, boolBit(p.MaxPictureSize))

	w2 = fieldBFrame.Insert(w2, p.BFrame)
	w2 = fieldSlice.Insert(w2, p.Slice)
	w2 = fieldQPMode.Insert(w2, p.QPMode)
	w2 = fieldRCMode.Insert(w2, p.RCMode)
	w2 = fieldEncType.Insert(w2, p.EncType)
	w2 = fieldGopMode.Insert(w2, p.GopMode)
	w2 = fieldProfile.Insert(w2, p.Profile)
	w2 = fieldMinQP.Insert(w2, p.MinQP)
	w2 = fieldMaxQP.Insert(w2, p.MaxQP)

	w3 = fieldCPBSize.Insert(w3, p.CPBSize)
	w4 = fieldInitialDelay.Insert(w4, p.InitialDelay)
	w5 = fieldPeriodicityIDR.Insert(w5, p.PeriodicityIDR)

	return w1, w2, w3, w4, w5
}

// DecodeResolution unpacks the RAW_RESOLUTION word.
func DecodeResolution(word uint32) Resolution {
	return Resolution{
		Width:  fieldWidth.Decode(word),
		Height: fieldHeight.Decode(word),
	}
}

// EncodeResolution packs a resolution into a RAW_RESOLUTION word.
func EncodeResolution(r Resolution) uint32 {
	word := fieldWidth.Insert(0, r.Width)
	word = fieldHeight.Insert(word, r.Height)
	return word
}

// DecodeUsecase unpacks the USECASE_MODE word.
func DecodeUsecase(word uint32) Usecase {
	return Usecase{
		Mode:   fieldMode.Decode(word),
		Format: fieldFormat.Decode(word),
		FPS:    fieldFPS.Decode(word),
	}
}

// EncodeUsecase packs a use case into a USECASE_MODE word.
func EncodeUsecase(u Usecase) uint32 {
	word := fieldMode.Insert(0, u.Mode)
	word = fieldFormat.Insert(word, u.Format)
	word = fieldFPS.Insert(word, u.FPS)
	return word
}

// DecodeMode extracts only the mode bits of a USECASE_MODE word.
func DecodeMode(word uint32) uint32 {
	return fieldMode.Decode(word)
}

// DecodeFPS extracts only the frame-rate bits of a USECASE_MODE word.
func DecodeFPS(word uint32) uint32 {
	return fieldFPS.Decode(word)
}

// DecodeFormat extracts only the format bits of a USECASE_MODE word.
func DecodeFormat(word uint32) uint32 {
	return fieldFormat.Decode(word)
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
