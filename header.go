package atombios

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CommonHeader prefixes every indexed structure in the ROM: the table/data
// tables, each command record, and the command table itself.
type CommonHeader struct {
	StructureSize        uint16
	TableFormatRevision  uint8
	TableContentRevision uint8
}

func parseCommonHeader(rom romImage, offset uint32) (CommonHeader, error) {
	size, err := rom.read16(offset)
	if err != nil {
		return CommonHeader{}, err
	}
	formatRev, err := rom.read8(offset + 2)
	if err != nil {
		return CommonHeader{}, err
	}
	contentRev, err := rom.read8(offset + 3)
	if err != nil {
		return CommonHeader{}, err
	}
	return CommonHeader{
		StructureSize:        size,
		TableFormatRevision:  formatRev,
		TableContentRevision: contentRev,
	}, nil
}

const (
	biosMagicOffset    = 0x00
	atiMagicOffset     = 0x30
	atomTableBasePtr   = 0x48
	atiMagicString     = " 761295520"
	atomMagicString    = "ATOM"
	atomRomTableSize   = 36
	dataTableSize      = 4 + dataTableEntryCount*2
	dataTableEntryCount = 34
	indirectIOAccessEntry = 23
)

// AtomRomTable is the root index: it carries the ATOM magic, a handful of
// legacy BIOS pointers the interpreter never needs, and the two offsets
// that matter -- commandTableBase and dataTableBase.
type AtomRomTable struct {
	CommonHeader
	Magic                     [4]byte
	BiosRuntimeSegmentAddress uint16
	ProtectedModeInfoOffset   uint16
	ConfigFilenameOffset      uint16
	CRCBlockOffset            uint16
	NameStringOffset          uint16
	Int10Offset               uint16
	PCIBusDeviceInitCode      uint16
	IOBaseAddress             uint16
	SubsystemVendorID         uint16
	SubsystemID               uint16
	PCIInfoOffset             uint16
	CommandTableBase          uint16
	DataTableBase             uint16
	ExtendedFunctionCode      uint8
}

func parseAtomRomTable(rom romImage, offset uint32, log *logrus.Logger) (AtomRomTable, error) {
	buf, err := boundedCopy(rom, offset, atomRomTableSize, log, "AtomRomTable")
	if err != nil {
		return AtomRomTable{}, err
	}

	var t AtomRomTable
	t.StructureSize = binary.LittleEndian.Uint16(buf[0:2])
	t.TableFormatRevision = buf[2]
	t.TableContentRevision = buf[3]
	copy(t.Magic[:], buf[4:8])
	if !bytes.Equal(t.Magic[:], []byte(atomMagicString)) {
		return AtomRomTable{}, ErrBadAtomMagic
	}
	t.BiosRuntimeSegmentAddress = binary.LittleEndian.Uint16(buf[8:10])
	t.ProtectedModeInfoOffset = binary.LittleEndian.Uint16(buf[10:12])
	t.ConfigFilenameOffset = binary.LittleEndian.Uint16(buf[12:14])
	t.CRCBlockOffset = binary.LittleEndian.Uint16(buf[14:16])
	t.NameStringOffset = binary.LittleEndian.Uint16(buf[16:18])
	t.Int10Offset = binary.LittleEndian.Uint16(buf[18:20])
	t.PCIBusDeviceInitCode = binary.LittleEndian.Uint16(buf[20:22])
	t.IOBaseAddress = binary.LittleEndian.Uint16(buf[22:24])
	t.SubsystemVendorID = binary.LittleEndian.Uint16(buf[24:26])
	t.SubsystemID = binary.LittleEndian.Uint16(buf[26:28])
	t.PCIInfoOffset = binary.LittleEndian.Uint16(buf[28:30])
	t.CommandTableBase = binary.LittleEndian.Uint16(buf[30:32])
	t.DataTableBase = binary.LittleEndian.Uint16(buf[32:34])
	t.ExtendedFunctionCode = buf[34]
	return t, nil
}

// DataTable is a dense array of 34 pointers into other ROM structures.
// Entry 23, indirectIOAccess, points at the IIO directory blob; any entry
// can be loaded into dataBlock by SET_DATA_TABLE as the base for ID-space
// reads.
type DataTable struct {
	CommonHeader
	Entries [dataTableEntryCount]uint16
}

func (d DataTable) indirectIOAccess() uint16 {
	return d.Entries[indirectIOAccessEntry]
}

func parseDataTable(rom romImage, offset uint32, log *logrus.Logger) (DataTable, error) {
	buf, err := boundedCopy(rom, offset, dataTableSize, log, "DataTable")
	if err != nil {
		return DataTable{}, err
	}

	var d DataTable
	d.StructureSize = binary.LittleEndian.Uint16(buf[0:2])
	d.TableFormatRevision = buf[2]
	d.TableContentRevision = buf[3]
	for i := 0; i < dataTableEntryCount; i++ {
		d.Entries[i] = binary.LittleEndian.Uint16(buf[4+2*i : 6+2*i])
	}
	return d, nil
}

// validateRomHeader checks the two magic signatures every real video BIOS
// ROM carries and returns the pointer to the AtomRomTable.
func validateRomHeader(rom romImage) (uint32, error) {
	biosMagic, err := rom.read16(biosMagicOffset)
	if err != nil {
		return 0, err
	}
	if biosMagic != 0xAA55 {
		return 0, ErrBadMagic
	}

	if uint64(atiMagicOffset)+uint64(len(atiMagicString)) > uint64(len(rom)) {
		return 0, ErrTruncatedRom
	}
	got := rom[atiMagicOffset : atiMagicOffset+len(atiMagicString)]
	if !bytes.Equal(got, []byte(atiMagicString)) {
		return 0, fmt.Errorf("%w: got %q", ErrBadAtiMagic, got)
	}

	base, err := rom.read16(atomTableBasePtr)
	if err != nil {
		return 0, err
	}
	return uint32(base), nil
}
