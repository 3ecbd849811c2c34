package atombios

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// commandRecord is one entry of the command directory: the workspace and
// parameter-space sizes packed into the info word, plus a slice view of the
// bytecode region (no copy -- the ROM backing it is immutable for the life
// of the AtomBios).
type commandRecord struct {
	workSpaceSize      uint8 // bytes
	parameterSpaceSize uint8 // bytes
	updatedByUtility   bool
	bytecode           []byte
}

// buildCommandDirectory walks the dense pointer array at commandTableBase,
// reading each non-zero pointer's own record. A zero pointer means the
// table isn't populated on this card and is simply skipped -- its index
// never appears in the resulting map.
func buildCommandDirectory(rom romImage, base uint32, log *logrus.Logger, strict bool) (map[CommandTableId]*commandRecord, error) {
	hdr, err := parseCommonHeader(rom, base)
	if err != nil {
		return nil, fmt.Errorf("command table header at %#x: %w", base, err)
	}

	end := base + uint32(hdr.StructureSize)
	directory := make(map[CommandTableId]*commandRecord)

	cursor := base + 4
	for i := 0; cursor < end; i++ {
		ptr, err := rom.read16(cursor)
		if err != nil {
			return nil, fmt.Errorf("command table pointer %d at %#x: %w", i, cursor, err)
		}
		cursor += 2
		if ptr == 0 {
			continue
		}

		rec, err := parseCommandRecord(rom, uint32(ptr), log, strict)
		if err != nil {
			return nil, fmt.Errorf("command record %d (%s) at %#x: %w", i, CommandTableId(i), ptr, err)
		}
		directory[CommandTableId(i)] = rec
	}

	return directory, nil
}

func parseCommandRecord(rom romImage, offset uint32, log *logrus.Logger, strict bool) (*commandRecord, error) {
	hdr, err := parseCommonHeader(rom, offset)
	if err != nil {
		return nil, err
	}
	if hdr.StructureSize < 6 {
		return nil, fmt.Errorf("structureSize %d shorter than the 6-byte command prefix", hdr.StructureSize)
	}

	info, err := rom.read16(offset + 4)
	if err != nil {
		return nil, err
	}

	bcStart := offset + 6
	bcEnd := offset + uint32(hdr.StructureSize)
	if uint64(bcEnd) > uint64(len(rom)) {
		return nil, ErrTruncatedRom
	}

	workSpaceSize := uint8(info & 0xFF)
	parameterSpaceSize := uint8((info >> 8) & 0x7F)
	if workSpaceSize%4 != 0 || parameterSpaceSize%4 != 0 {
		if strict {
			return nil, fmt.Errorf("%w: workSpaceSize=%d parameterSpaceSize=%d at %#x",
				ErrMisalignedSize, workSpaceSize, parameterSpaceSize, offset)
		}
		log.WithFields(logrus.Fields{
			"offset":             offset,
			"workSpaceSize":      workSpaceSize,
			"parameterSpaceSize": parameterSpaceSize,
		}).Warn("command record size not dword-aligned")
	}

	return &commandRecord{
		workSpaceSize:      workSpaceSize,
		parameterSpaceSize: parameterSpaceSize,
		updatedByUtility:   (info>>15)&1 != 0,
		bytecode:           rom[bcStart:bcEnd],
	}, nil
}
