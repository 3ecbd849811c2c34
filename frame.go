package atombios

import "fmt"

// paramBuffer is the caller's parameter buffer, grown on demand as deep as
// any command in the call chain indexes into it. It's shared, by pointer,
// across an entire RunCommand call tree: CALL_TABLE only shifts the window
// a frame views it through, it never copies.
type paramBuffer struct {
	data []uint32
}

func (p *paramBuffer) ensure(n int) {
	if n <= len(p.data) {
		return
	}
	grown := make([]uint32, n)
	copy(grown, p.data)
	p.data = grown
}

func (p *paramBuffer) read(idx int) uint32 {
	p.ensure(idx + 1)
	return p.data[idx]
}

func (p *paramBuffer) write(idx int, val uint32) {
	p.ensure(idx + 1)
	p.data[idx] = val
}

// frame is one level of the CALL_TABLE recursion: its own instruction
// pointer and WorkSpace, a view of the shared parameter buffer offset by
// paramsShift, and the command whose bytecode it's executing.
type frame struct {
	cmd         *commandRecord
	ip          uint32
	ws          []uint32
	params      *paramBuffer
	paramsShift uint32
	depth       int
}

func newFrame(cmd *commandRecord, params *paramBuffer, paramsShift uint32, depth int) *frame {
	return &frame{
		cmd:         cmd,
		ws:          make([]uint32, cmd.workSpaceSize/4),
		params:      params,
		paramsShift: paramsShift,
		depth:       depth,
	}
}

func (f *frame) consumeByte() (byte, error) {
	if f.ip >= uint32(len(f.cmd.bytecode)) {
		return 0, fmt.Errorf("%w: ip %#x (len %d)", ErrBytecodeOutOfRange, f.ip, len(f.cmd.bytecode))
	}
	b := f.cmd.bytecode[f.ip]
	f.ip++
	return b, nil
}

func (f *frame) consumeU16() (uint16, error) {
	hi, lo := uint16(0), uint16(0)
	b0, err := f.consumeByte()
	if err != nil {
		return 0, err
	}
	b1, err := f.consumeByte()
	if err != nil {
		return 0, err
	}
	lo = uint16(b0)
	hi = uint16(b1)
	return lo | hi<<8, nil
}

// consumeImmBytes reads an n-byte (1, 2, or 4) little-endian immediate
// directly from the instruction stream -- used both for Imm-space operands
// and for MASK's inline mask immediate.
func (f *frame) consumeImmBytes(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		b, err := f.consumeByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << (8 * i)
	}
	return v, nil
}

// consumeIndex reads the index operand for the given address space: 16
// bits for Reg/ID, 8 bits (zero-extended) for PS/WS/FB/PLL/MC. Imm has no
// index -- callers must special-case it before reaching here.
func (f *frame) consumeIndex(space AddressSpace) (uint32, error) {
	switch space {
	case SpaceReg, SpaceID:
		v, err := f.consumeU16()
		return uint32(v), err
	default:
		v, err := f.consumeByte()
		return uint32(v), err
	}
}
