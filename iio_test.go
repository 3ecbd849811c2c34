package atombios

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// a single IIO routine -- READ a register, CLEAR its low byte, SET a
// nibble higher up, END -- indexed by buildIIODirectory and driven by
// runIIO to its final accumulator value.
func TestIIORoutineReadClearSet(t *testing.T) {
	blob := []byte{
		iioStart, 2, // routine id 2
		iioRead, 0x34, 0x12, // READ reg 0x1234
		iioClear, 8, 0, // CLEAR width=8 shift=0
		iioSet, 4, 16, // SET width=4 shift=16
		iioEnd, 0, 0,
	}

	log := NewLogger()
	directory := buildIIODirectory(romImage(blob), 0, log)
	require.Equal(t, uint32(2), directory[2])

	host := newFakeHost()
	host.regs[0x1234] = 0x000000FF

	bios := &AtomBios{rom: romImage(blob), host: host, log: log}
	result := bios.runIIO(directory[2], 0, 0)
	require.Equal(t, uint32(0x000F0000), result)
}

// Invariant: a routine that runs off the end of the rom without hitting END
// aborts rather than reading garbage forever.
func TestIIORoutineRunsOffEndOfRom(t *testing.T) {
	blob := []byte{
		iioStart, 0,
		iioRead, 0x00, 0x00, // READ, then nothing -- no END follows
	}

	log := NewLogger()
	bios := &AtomBios{rom: romImage(blob), host: newFakeHost(), log: log}

	result := bios.runIIO(2, 0, 0)
	require.Equal(t, uint32(0), result) // RegRead of an unset register is 0
}

// Invariant: buildIIODirectory keeps everything indexed before a malformed
// routine instead of discarding the whole directory.
func TestIIODirectoryStopsAtMalformedRoutine(t *testing.T) {
	blob := []byte{
		iioStart, 0,
		iioEnd, 0, 0,
		iioStart, 1,
		0xFF, // invalid opcode -- malformed
	}

	log := NewLogger()
	directory := buildIIODirectory(romImage(blob), 0, log)
	require.Equal(t, uint32(2), directory[0])
	require.Equal(t, uint32(0), directory[1])
}
