package atombios

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Reserved WorkSpace addresses. Reads and writes to these nine indices
// alias interpreter-global registers instead of the frame's own WorkSpace
// slice; WS_OR_MASK and WS_AND_MASK are read-only derived values.
const (
	wsQuotient   = 0x40
	wsRemainder  = 0x41
	wsDataPtr    = 0x42
	wsShift      = 0x43
	wsOrMask     = 0x44
	wsAndMask    = 0x45
	wsFbWindow   = 0x46
	wsAttributes = 0x47
	wsRegPtr     = 0x48
)

// AtomBios parses a video BIOS ROM image once at construction and executes
// command table bytecode against it. A/E/B flags, the I/O mode and block
// registers, and the divide/multiply result registers are interpreter-wide
// state that persists across a CALL_TABLE's recursive descent; everything
// else (instruction pointer, WorkSpace) is local to one frame.
//
// Not safe for concurrent RunCommand calls -- callers needing that must
// serialize externally.
type AtomBios struct {
	rom      romImage
	host     Host
	log      *logrus.Logger
	opts     Options
	commands map[CommandTableId]*commandRecord
	dataTable DataTable
	iioDirectory [iioDirectorySize]uint32

	ioMode  ioMode
	iioPort uint16
	regBlock uint16
	fbBlock  uint16
	dataBlock uint32

	flagA, flagE, flagB bool

	divMulQuotient     uint32
	divMulRemainder    uint32
	workSpaceMaskShift uint32
	iioIOAttr          uint32

	maxPSIndex uint32
	maxWSIndex uint32

	opCount uint64
}

// New parses data as an AtomBIOS ROM image and builds its command and IIO
// directories. Construction fails if the ROM doesn't carry the expected
// signatures; it never panics.
func New(data []byte, host Host, log *logrus.Logger, opts ...Option) (*AtomBios, error) {
	if log == nil {
		log = NewLogger()
	}
	options := defaultOptions()
	for _, o := range opts {
		o(&options)
	}

	rom := romImage(data)

	atomRomTableBase, err := validateRomHeader(rom)
	if err != nil {
		return nil, err
	}

	romTable, err := parseAtomRomTable(rom, atomRomTableBase, log)
	if err != nil {
		return nil, err
	}

	dataTable, err := parseDataTable(rom, uint32(romTable.DataTableBase), log)
	if err != nil {
		return nil, fmt.Errorf("data table: %w", err)
	}

	commands, err := buildCommandDirectory(rom, uint32(romTable.CommandTableBase), log, options.strict)
	if err != nil {
		return nil, fmt.Errorf("command table: %w", err)
	}

	var iioDirectory [iioDirectorySize]uint32
	if iioBase := dataTable.indirectIOAccess(); iioBase != 0 {
		iioDirectory = buildIIODirectory(rom, uint32(iioBase)+4, log)
	}

	return &AtomBios{
		rom:          rom,
		host:         host,
		log:          log,
		opts:         options,
		commands:     commands,
		dataTable:    dataTable,
		iioDirectory: iioDirectory,
		ioMode:       ioModeMM,
	}, nil
}

// RunCommand executes the named command table against params, mutating it
// in place. params may be grown internally (WorkSpace/parameter-space
// auto-grow on write) but only len(params) words are ever copied back,
// so the caller's own buffer is never resized out from under it.
func (a *AtomBios) RunCommand(table CommandTableId, params []uint32) error {
	cmd, ok := a.commands[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingCallee, table)
	}

	buf := &paramBuffer{data: append([]uint32(nil), params...)}
	a.opCount = 0

	if err := a.runBytecode(cmd, buf, 0, 0); err != nil {
		return err
	}

	n := len(params)
	if n > len(buf.data) {
		n = len(buf.data)
	}
	copy(params, buf.data[:n])
	return nil
}

// readSpace reads a full 32-bit word from the given address space at idx,
// without any alignment swizzle applied -- callers apply swizzle/combine
// themselves since the same read is reused for both "saved" and "src".
func (a *AtomBios) readSpace(fr *frame, space AddressSpace, idx uint32) uint32 {
	switch space {
	case SpaceReg:
		return a.doIORead(idx + uint32(a.regBlock))
	case SpacePS:
		a.trackPS(idx + fr.paramsShift)
		return fr.params.read(int(idx + fr.paramsShift))
	case SpaceWS:
		return a.readWS(fr, idx)
	case SpaceID:
		v, err := a.rom.read32(idx + a.dataBlock)
		if err != nil {
			a.log.WithField("offset", idx+a.dataBlock).Warn("ID read past end of rom")
			return 0
		}
		return v
	case SpaceFB, SpacePLL, SpaceMC:
		a.log.WithField("space", space).Warn("unimplemented address space read")
		return 0xCDCDCDCD
	default:
		a.log.WithField("space", space).Warn("read from non-addressable space")
		return 0
	}
}

func (a *AtomBios) writeSpace(fr *frame, space AddressSpace, idx uint32, val uint32) {
	switch space {
	case SpaceReg:
		a.doIOWrite(idx+uint32(a.regBlock), val)
	case SpacePS:
		a.trackPS(idx + fr.paramsShift)
		fr.params.write(int(idx+fr.paramsShift), val)
	case SpaceWS:
		a.writeWS(fr, idx, val)
	case SpaceFB, SpacePLL, SpaceMC:
		a.log.WithField("space", space).Warn("unimplemented address space write")
	default:
		a.log.WithField("space", space).Warn("write to non-addressable space")
	}
}

func (a *AtomBios) readWS(fr *frame, idx uint32) uint32 {
	switch idx {
	case wsQuotient:
		return a.divMulQuotient
	case wsRemainder:
		return a.divMulRemainder
	case wsDataPtr:
		return a.dataBlock
	case wsShift:
		return a.workSpaceMaskShift
	case wsOrMask:
		return uint32(1) << a.workSpaceMaskShift
	case wsAndMask:
		return ^(uint32(1) << a.workSpaceMaskShift)
	case wsFbWindow:
		return uint32(a.fbBlock)
	case wsAttributes:
		return a.iioIOAttr
	case wsRegPtr:
		return uint32(a.regBlock)
	default:
		a.trackWS(idx)
		if int(idx) >= len(fr.ws) {
			return 0
		}
		return fr.ws[idx]
	}
}

func (a *AtomBios) writeWS(fr *frame, idx uint32, val uint32) {
	switch idx {
	case wsQuotient:
		a.divMulQuotient = val
	case wsRemainder:
		a.divMulRemainder = val
	case wsDataPtr:
		a.dataBlock = val
	case wsShift:
		a.workSpaceMaskShift = val
	case wsOrMask, wsAndMask:
		a.log.WithField("address", idx).Warn("write to read-only workspace register has no effect")
	case wsFbWindow:
		a.fbBlock = uint16(val)
	case wsAttributes:
		a.iioIOAttr = val
	case wsRegPtr:
		a.regBlock = uint16(val)
	default:
		a.trackWS(idx)
		if int(idx) >= len(fr.ws) {
			grown := make([]uint32, idx+1)
			copy(grown, fr.ws)
			fr.ws = grown
		}
		fr.ws[idx] = val
	}
}
