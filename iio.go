package atombios

import "github.com/sirupsen/logrus"

// IIO opcodes, the micro-interpreter's own small instruction set. Distinct
// from (and much smaller than) the command table's Opcodes.
const (
	iioNop       = 0
	iioStart     = 1
	iioRead      = 2
	iioWrite     = 3
	iioClear     = 4
	iioSet       = 5
	iioMoveIndex = 6
	iioMoveAttr  = 7
	iioMoveData  = 8
	iioEnd       = 9
)

// iioInstructionLengths gives the total length in bytes (opcode byte
// included) of each IIO instruction, indexed by opcode.
var iioInstructionLengths = [10]uint32{1, 2, 3, 3, 3, 3, 4, 4, 4, 3}

const iioDirectorySize = 256

// buildIIODirectory scans the IIO blob for START-delimited routines. Each
// routine contributes one directory slot: routine id -> offset of its
// first instruction (the byte right after the id byte). Scanning stops
// either when the next byte isn't START (the blob is exhausted) or when a
// routine turns out to be malformed, in which case the routines indexed
// before it are kept, the malformed routine's own slot is left empty, and a
// warning is logged -- a single bad routine shouldn't
// make every other IIO port on the card unusable.
func buildIIODirectory(rom romImage, base uint32, log *logrus.Logger) [iioDirectorySize]uint32 {
	var directory [iioDirectorySize]uint32

	ptr := base
	for {
		op, err := rom.read8(ptr)
		if err != nil || op != iioStart {
			break
		}

		id, err := rom.read8(ptr + 1)
		if err != nil {
			log.WithField("offset", ptr).Warn("iio directory: truncated rom while reading routine id")
			break
		}
		directory[id] = ptr + 2
		ptr += 2

		malformed := false
		for {
			opcode, err := rom.read8(ptr)
			if err != nil {
				log.WithField("offset", ptr).Warn("iio directory: routine runs off the end of the rom before END")
				malformed = true
				break
			}
			if opcode == iioEnd {
				break
			}
			if int(opcode) >= len(iioInstructionLengths) {
				log.WithFields(logrus.Fields{"offset": ptr, "opcode": opcode}).Warn("iio directory: invalid opcode scanning routine body")
				malformed = true
				break
			}
			ptr += iioInstructionLengths[opcode]
		}
		if malformed {
			directory[id] = 0
			break
		}
		ptr += 3 // past END and its two trailer bytes
	}

	return directory
}

// runIIO executes a single IIO routine to completion and returns its
// accumulator. indexReg/dataReg are the two registers MOVE_INDEX/MOVE_DATA
// can splice into the accumulator; iioIOAttr (spliced by MOVE_ATTR) lives on
// the interpreter itself since it's shared VM state, not a call argument.
func (a *AtomBios) runIIO(offset uint32, indexReg uint32, dataReg uint32) uint32 {
	const poison = 0xCDCDCDCD
	temp := uint32(poison)
	ip := offset

	for {
		op, err := a.rom.read8(ip)
		if err != nil {
			a.log.WithField("offset", ip).Warn("iio: routine ran off the end of the rom")
			return temp
		}
		if op == iioStart || int(op) >= len(iioInstructionLengths) {
			a.log.WithFields(logrus.Fields{"offset": ip, "opcode": op}).Warn("iio: invalid opcode, aborting routine")
			return temp
		}

		switch op {
		case iioNop:
		case iioRead:
			reg, _ := a.rom.read16(ip + 1)
			temp = a.host.RegRead(uint32(reg))
		case iioWrite:
			reg, _ := a.rom.read16(ip + 1)
			a.host.RegWrite(uint32(reg), temp)
		case iioClear:
			width, _ := a.rom.read8(ip + 1)
			shift, _ := a.rom.read8(ip + 2)
			temp &^= mask32(width) << shift
		case iioSet:
			width, _ := a.rom.read8(ip + 1)
			shift, _ := a.rom.read8(ip + 2)
			temp |= mask32(width) << shift
		case iioMoveIndex:
			temp = a.spliceIIOTemp(temp, indexReg, ip)
		case iioMoveAttr:
			temp = a.spliceIIOTemp(temp, a.iioIOAttr, ip)
		case iioMoveData:
			temp = a.spliceIIOTemp(temp, dataReg, ip)
		case iioEnd:
			return temp
		}

		ip += iioInstructionLengths[op]
	}
}

func (a *AtomBios) spliceIIOTemp(temp uint32, src uint32, ip uint32) uint32 {
	width, _ := a.rom.read8(ip + 1)
	srcShift, _ := a.rom.read8(ip + 2)
	dstShift, _ := a.rom.read8(ip + 3)

	m := mask32(width)
	temp &^= m << dstShift
	temp |= ((src >> srcShift) & m) << dstShift
	return temp
}

func mask32(width byte) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return uint32(0xFFFFFFFF) >> (32 - width)
}
