package atombios

// ioMode selects which bus a Reg-space access actually reaches.
type ioMode uint8

const (
	ioModeMM ioMode = iota
	ioModePCI
	ioModeSYSIO
	ioModeIIO
)

func (m ioMode) String() string {
	switch m {
	case ioModeMM:
		return "MM"
	case ioModePCI:
		return "PCI"
	case ioModeSYSIO:
		return "SYSIO"
	case ioModeIIO:
		return "IIO"
	default:
		return "unknown"
	}
}

// doIORead routes a register read through the current I/O mode. PCI and
// SYSIO are not modeled (no host bus of that shape exists in this port);
// they warn and read as zero. IIO dispatches into the indexed micro-routine
// for the current port, passing reg as the routine's index operand.
func (a *AtomBios) doIORead(reg uint32) uint32 {
	switch a.ioMode {
	case ioModeMM:
		return a.host.RegRead(reg)
	case ioModePCI, ioModeSYSIO:
		a.log.WithField("reg", reg).Warnf("%s reads are not implemented", a.ioMode)
		return 0
	case ioModeIIO:
		if a.iioPort >= iioDirectorySize {
			a.log.WithFields(map[string]any{"port": a.iioPort, "reg": reg}).Warn("iio port out of range")
			return 0
		}
		off := a.iioDirectory[a.iioPort]
		if off == 0 {
			a.log.WithFields(map[string]any{"port": a.iioPort, "reg": reg}).Warn("read from unpopulated iio port")
			return 0
		}
		return a.runIIO(off, reg, 0)
	default:
		return 0
	}
}

// doIOWrite is doIORead's write-side mirror. In IIO mode the written value
// becomes the routine's data operand; whatever the routine's accumulator
// ends up holding is discarded, matching the hardware's write-only path.
func (a *AtomBios) doIOWrite(reg uint32, val uint32) {
	switch a.ioMode {
	case ioModeMM:
		a.host.RegWrite(reg, val)
	case ioModePCI, ioModeSYSIO:
		a.log.WithFields(map[string]any{"reg": reg, "val": val}).Warnf("%s writes are not implemented", a.ioMode)
	case ioModeIIO:
		if a.iioPort >= iioDirectorySize {
			a.log.WithFields(map[string]any{"port": a.iioPort, "reg": reg, "val": val}).Warn("iio port out of range")
			return
		}
		off := a.iioDirectory[a.iioPort]
		if off == 0 {
			a.log.WithFields(map[string]any{"port": a.iioPort, "reg": reg, "val": val}).Warn("write to unpopulated iio port")
			return
		}
		a.runIIO(off, reg, val)
	}
}
