package atombios

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

type testCommand struct {
	workSpaceSize      uint8
	parameterSpaceSize uint8
	bytecode           []byte
}

const (
	testAtomRomTableBase = 0x80
	testDataTableBase    = 0x200
	testCommandTableBase = 0x300
	testCommandBase      = 0x400
)

// buildTestRom assembles a minimal but structurally valid AtomBIOS ROM
// image: BIOS/ATI/ATOM magics, an AtomRomTable pointing at a CommandTable
// and DataTable at fixed offsets, and one command record per entry in
// commands. dataEntries overrides individual DataTable slots (e.g. entry
// 23, indirectIOAccess).
func buildTestRom(t *testing.T, commands map[int]testCommand, dataEntries map[int]uint16) []byte {
	t.Helper()

	maxIdx := 0
	for idx := range commands {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	slots := maxIdx + 1

	rom := make([]byte, testCommandBase+4096)

	binary.LittleEndian.PutUint16(rom[0:], 0xAA55)
	copy(rom[0x30:], " 761295520")
	binary.LittleEndian.PutUint16(rom[0x48:], testAtomRomTableBase)

	art := testAtomRomTableBase
	binary.LittleEndian.PutUint16(rom[art:], 36)
	rom[art+2] = 1
	rom[art+3] = 1
	copy(rom[art+4:], "ATOM")
	binary.LittleEndian.PutUint16(rom[art+30:], uint16(testCommandTableBase))
	binary.LittleEndian.PutUint16(rom[art+32:], uint16(testDataTableBase))

	dt := testDataTableBase
	binary.LittleEndian.PutUint16(rom[dt:], 72)
	rom[dt+2] = 1
	rom[dt+3] = 1
	for idx, val := range dataEntries {
		binary.LittleEndian.PutUint16(rom[dt+4+2*idx:], val)
	}

	ct := testCommandTableBase
	binary.LittleEndian.PutUint16(rom[ct:], uint16(4+2*slots))
	rom[ct+2] = 1
	rom[ct+3] = 1

	cursor := testCommandBase
	for idx := 0; idx < slots; idx++ {
		cmd, ok := commands[idx]
		if !ok {
			binary.LittleEndian.PutUint16(rom[ct+4+2*idx:], 0)
			continue
		}
		binary.LittleEndian.PutUint16(rom[ct+4+2*idx:], uint16(cursor))

		structSize := 6 + len(cmd.bytecode)
		binary.LittleEndian.PutUint16(rom[cursor:], uint16(structSize))
		rom[cursor+2] = 1
		rom[cursor+3] = 1
		info := uint16(cmd.workSpaceSize) | uint16(cmd.parameterSpaceSize)<<8
		binary.LittleEndian.PutUint16(rom[cursor+4:], info)
		copy(rom[cursor+6:], cmd.bytecode)

		cursor += structSize
	}

	return rom[:cursor+16]
}

func TestNewRejectsBadBiosMagic(t *testing.T) {
	rom := buildTestRom(t, nil, nil)
	binary.LittleEndian.PutUint16(rom[0:], 0x1234)

	_, err := New(rom, &fakeHost{}, NewLogger())
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestNewRejectsBadAtiMagic(t *testing.T) {
	rom := buildTestRom(t, nil, nil)
	copy(rom[0x30:], "XXXXXXXXXX")

	_, err := New(rom, &fakeHost{}, NewLogger())
	require.ErrorIs(t, err, ErrBadAtiMagic)
}

func TestNewRejectsBadAtomMagic(t *testing.T) {
	rom := buildTestRom(t, nil, nil)
	copy(rom[testAtomRomTableBase+4:], "XXXX")

	_, err := New(rom, &fakeHost{}, NewLogger())
	require.ErrorIs(t, err, ErrBadAtomMagic)
}

func TestNewParsesMinimalRom(t *testing.T) {
	rom := buildTestRom(t, map[int]testCommand{
		0: {parameterSpaceSize: 4, bytecode: []byte{0x5B}},
	}, nil)

	bios, err := New(rom, &fakeHost{}, NewLogger())
	require.NoError(t, err)
	require.Contains(t, bios.commands, ASICInit)
}

func TestRunCommandMissingTableIsFatal(t *testing.T) {
	rom := buildTestRom(t, nil, nil)
	bios, err := New(rom, &fakeHost{}, NewLogger())
	require.NoError(t, err)

	err = bios.RunCommand(ASICInit, make([]uint32, 1))
	require.ErrorIs(t, err, ErrMissingCallee)
}
