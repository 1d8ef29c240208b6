package reg

// A Field identifies a bit range inside a 32-bit register as a
// (shift, mask) pair. Mask is the field's width mask before shifting,
// matching the hardware documentation, so a field occupying bits
// [19:4] is Field{Shift: 4, Mask: 0xFFFF}.
//
// Fields are data, not code: packages that decode packed registers keep
// their fields in tables so the layout can be checked against the
// register documentation in one place.
type Field struct {
	Shift uint32
	Mask  uint32
}

// Decode extracts the field's value from a register word.
func (f Field) Decode(word uint32) uint32 {
	return (word >> f.Shift) & f.Mask
}

// Insert returns word with the field replaced by value. Values wider
// than the field are truncated, matching the hardware's own truncating
// bit layout.
func (f Field) Insert(word uint32, value uint32) uint32 {
	word &^= f.Mask << f.Shift
	word |= (value & f.Mask) << f.Shift
	return word
}

// Fields of the buffer-ready registers. Bit 0 publishes the buffer;
// the upper half-word carries the high 16 bits of the buffer offset.
var (
	ReadyFlag  = Field{Shift: 0, Mask: 0x1}
	OffsetHigh = Field{Shift: 16, Mask: 0xFFFF}
)

// OffsetLow is the field of the dedicated offset registers that holds
// the low 16 bits of the buffer offset.
var OffsetLow = Field{Shift: 0, Mask: 0xFFFF}
