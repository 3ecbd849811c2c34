package atombios

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
)

// romImage is the raw ROM bytes, fixed for the lifetime of an AtomBios.
// Every read is bounds-checked; nothing in the interpreter is ever allowed
// to index past the end of the image.
type romImage []byte

func (r romImage) read8(off uint32) (byte, error) {
	if uint64(off) >= uint64(len(r)) {
		return 0, fmt.Errorf("%w: offset %#x", ErrTruncatedRom, off)
	}
	return r[off], nil
}

func (r romImage) read16(off uint32) (uint16, error) {
	if uint64(off)+2 > uint64(len(r)) {
		return 0, fmt.Errorf("%w: offset %#x", ErrTruncatedRom, off)
	}
	return binary.LittleEndian.Uint16(r[off:]), nil
}

func (r romImage) read32(off uint32) (uint32, error) {
	if uint64(off)+4 > uint64(len(r)) {
		return 0, fmt.Errorf("%w: offset %#x", ErrTruncatedRom, off)
	}
	return binary.LittleEndian.Uint32(r[off:]), nil
}

// boundedCopy copies a header-prefixed structure out of the ROM into a
// zero-filled buffer of fixedSize bytes. The structure's own CommonHeader
// declares how large it believes itself to be; only min(declared, fixedSize)
// bytes are ever copied, so an older/shorter ROM structure leaves its
// trailing fields at their zero value instead of reading ROM garbage, and a
// ROM that (incorrectly) claims to be larger than the layout we know about
// never overruns the destination.
func boundedCopy(rom romImage, offset uint32, fixedSize int, log *logrus.Logger, structName string) ([]byte, error) {
	declared, err := rom.read16(offset)
	if err != nil {
		return nil, err
	}

	n := int(declared)
	if n > fixedSize {
		log.WithFields(logrus.Fields{
			"struct":   structName,
			"declared": n,
			"known":    fixedSize,
		}).Debug("rom structure declares more than the known layout size")
		n = fixedSize
	}
	if n < fixedSize {
		log.WithFields(logrus.Fields{
			"struct":   structName,
			"declared": n,
			"known":    fixedSize,
		}).Warn("rom structure declares less than the known layout size")
	}

	avail := int(len(rom)) - int(offset)
	if avail < 0 {
		avail = 0
	}
	if n > avail {
		n = avail
	}

	buf := make([]byte, fixedSize)
	if n > 0 {
		copy(buf, rom[offset:int(offset)+n])
	}
	return buf, nil
}
