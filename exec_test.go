package atombios

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// a minimal MOVE of an immediate into parameter space.
func TestMoveImmToParameterSpace(t *testing.T) {
	bytecode := []byte{
		0x02, 0x05, 0x00, // MOVE_TO_PS, attr(Imm,Dword), dstIdx=0
		0x78, 0x56, 0x34, 0x12, // imm = 0x12345678
		0x5B, // END_OF_TABLE
	}
	rom := buildTestRom(t, map[int]testCommand{
		0: {parameterSpaceSize: 4, bytecode: bytecode},
	}, nil)

	bios, err := New(rom, newFakeHost(), NewLogger())
	require.NoError(t, err)

	params := make([]uint32, 1)
	require.NoError(t, bios.RunCommand(ASICInit, params))
	require.Equal(t, uint32(0x12345678), params[0])
}

// a register read under the default MM I/O mode.
func TestRegReadUnderMM(t *testing.T) {
	bytecode := []byte{
		0x02, 0x00, 0x00, // MOVE_TO_PS, attr(Reg,Dword), dstIdx=0
		0x00, 0x10, // srcIdx (Reg) = 0x1000
		0x5B,
	}
	rom := buildTestRom(t, map[int]testCommand{
		0: {parameterSpaceSize: 4, bytecode: bytecode},
	}, nil)

	host := newFakeHost()
	host.regs[0x1000] = 0xCAFEBABE

	bios, err := New(rom, host, NewLogger())
	require.NoError(t, err)

	params := make([]uint32, 1)
	require.NoError(t, bios.RunCommand(ASICInit, params))
	require.Equal(t, uint32(0xCAFEBABE), params[0])
}

// COMPARE sets E, JUMP_EQUAL is taken and skips a poison write.
func TestCompareAndJumpEqual(t *testing.T) {
	bytecode := []byte{
		0x3D, 0x05, 0x00, // COMPARE_FROM_PS, attr(Imm,Dword), dstIdx=PS[0]
		0x05, 0x00, 0x00, 0x00, // imm = 5
		0x44, 0x17, 0x00, // JUMP_EQUAL target=23
		0x02, 0x05, 0x01, 0xEF, 0xBE, 0xAD, 0xDE, // poison: PS[1] = 0xDEADBEEF
		0x02, 0x05, 0x01, 0x0D, 0x60, 0x00, 0x00, // PS[1] = 0x0000600D
		0x5B,
	}
	require.Equal(t, 25, len(bytecode))

	rom := buildTestRom(t, map[int]testCommand{
		0: {parameterSpaceSize: 8, bytecode: bytecode},
	}, nil)

	bios, err := New(rom, newFakeHost(), NewLogger())
	require.NoError(t, err)

	params := []uint32{5, 0}
	require.NoError(t, bios.RunCommand(ASICInit, params))
	require.Equal(t, uint32(5), params[0])
	require.Equal(t, uint32(0x0000600D), params[1])
}

// Invariant: division by zero yields (0, 0) and leaves flags alone.
func TestDivByZeroClearsQuotientAndRemainder(t *testing.T) {
	bytecode := []byte{
		0x26, 0x05, 0x00, // DIV_WITH_PS, attr(Imm,Dword), dstIdx=PS[0]
		0x00, 0x00, 0x00, 0x00, // imm = 0
		0x5B,
	}
	rom := buildTestRom(t, map[int]testCommand{
		0: {parameterSpaceSize: 4, bytecode: bytecode},
	}, nil)

	bios, err := New(rom, newFakeHost(), NewLogger())
	require.NoError(t, err)
	bios.flagA, bios.flagE, bios.flagB = true, false, true

	params := []uint32{10}
	require.NoError(t, bios.RunCommand(ASICInit, params))
	require.Equal(t, uint32(0), bios.divMulQuotient)
	require.Equal(t, uint32(0), bios.divMulRemainder)
	require.True(t, bios.flagA)
	require.False(t, bios.flagE)
	require.True(t, bios.flagB)
}

// CALL_TABLE shifts the callee's parameter-space window by the caller's
// own parameterSpaceSize/4 words.
func TestCallTableParameterWindow(t *testing.T) {
	caller := []byte{
		0x52, 0x01, // CALL_TABLE table=1
		0x5B,
	}
	callee := []byte{
		0x02, 0x05, 0x00, // MOVE_TO_PS, attr(Imm,Dword), dstIdx=PS[0] (callee-relative)
		0xAA, 0xAA, 0x00, 0x00, // imm = 0xAAAA
		0x5B,
	}
	rom := buildTestRom(t, map[int]testCommand{
		0: {parameterSpaceSize: 8, bytecode: caller}, // shift of 2 words for the callee
		1: {parameterSpaceSize: 4, bytecode: callee},
	}, nil)

	bios, err := New(rom, newFakeHost(), NewLogger())
	require.NoError(t, err)

	params := make([]uint32, 4)
	require.NoError(t, bios.RunCommand(ASICInit, params))
	require.Equal(t, uint32(0xAAAA), params[2])
}

// Invariant: CALL_TABLE's fresh WorkSpace doesn't leak into the caller's.
func TestCallTableWorkSpaceIsolation(t *testing.T) {
	callerReadBack := []byte{
		0x03, 0x05, 0x00, 0x11, 0x11, 0x00, 0x00, // MOVE_TO_WS: WS[0] = 0x1111
		0x52, 0x01, // CALL_TABLE table=1
		0x02, 0x02, 0x00, // MOVE_TO_PS, attr(srcSpace=WS, srcAlign=Dword), dstIdx=PS[0]
		0x00, // srcIdx (WS, 8-bit) = WS[0]
		0x5B,
	}
	callee := []byte{
		0x03, 0x05, 0x00, // MOVE_TO_WS, attr(Imm,Dword), dstIdx=WS[0]
		0x22, 0x22, 0x00, 0x00, // imm = 0x2222
		0x5B,
	}

	rom := buildTestRom(t, map[int]testCommand{
		0: {workSpaceSize: 4, parameterSpaceSize: 4, bytecode: callerReadBack},
		1: {workSpaceSize: 4, parameterSpaceSize: 0, bytecode: callee},
	}, nil)

	bios, err := New(rom, newFakeHost(), NewLogger())
	require.NoError(t, err)

	params := make([]uint32, 1)
	require.NoError(t, bios.RunCommand(ASICInit, params))
	// The caller's own WS[0] (0x1111) must survive the callee's write to
	// its own, distinct WS[0] (0x2222).
	require.Equal(t, uint32(0x1111), params[0])
}

// Invariant: an instruction fetch or operand read past the end of the
// bytecode region is fatal, never a silent wrap.
func TestBytecodeOutOfRangeIsFatal(t *testing.T) {
	bytecode := []byte{0x02, 0x05, 0x00} // MOVE_TO_PS missing its 4-byte immediate
	rom := buildTestRom(t, map[int]testCommand{
		0: {parameterSpaceSize: 4, bytecode: bytecode},
	}, nil)

	bios, err := New(rom, newFakeHost(), NewLogger())
	require.NoError(t, err)

	err = bios.RunCommand(ASICInit, make([]uint32, 1))
	require.ErrorIs(t, err, ErrBytecodeOutOfRange)
}

// Invariant: COMPARE is unsigned-total -- exactly one of A/E/B is set.
func TestCompareIsUnsignedTotal(t *testing.T) {
	cases := []struct{ dst, val uint32 }{
		{0, 0},
		{1, 0},
		{0, 1},
		{0xFFFFFFFF, 1},
		{1, 0xFFFFFFFF},
	}
	for _, c := range cases {
		bytecode := []byte{
			0x3D, 0x05, 0x00, // COMPARE_FROM_PS, attr(Imm,Dword), dstIdx=PS[0]
			byte(c.val), byte(c.val >> 8), byte(c.val >> 16), byte(c.val >> 24),
			0x5B,
		}
		rom := buildTestRom(t, map[int]testCommand{
			0: {parameterSpaceSize: 4, bytecode: bytecode},
		}, nil)
		bios, err := New(rom, newFakeHost(), NewLogger())
		require.NoError(t, err)

		require.NoError(t, bios.RunCommand(ASICInit, []uint32{c.dst}))

		set := 0
		if bios.flagA {
			set++
		}
		if bios.flagE {
			set++
		}
		if bios.flagB {
			set++
		}
		require.Equal(t, 1, set, "dst=%d val=%d", c.dst, c.val)
	}
}
