package atombios

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const switchTerminator = 0x5A5A
const switchCaseMagic = 0x63

// runBytecode fetches and executes one command's bytecode from a fresh
// frame until END_OF_TABLE, a CALL_TABLE it recurses into returns an error,
// or a fault aborts the whole call. The instruction budget is tracked on
// the AtomBios itself (not the frame) because it's a per-RunCommand, not
// per-frame, limit: a CALL_TABLE chain shares one budget.
func (a *AtomBios) runBytecode(cmd *commandRecord, params *paramBuffer, paramsShift uint32, depth int) error {
	if depth > a.opts.recursionLimit {
		return fmt.Errorf("%w: depth %d", ErrRecursionLimit, depth)
	}

	fr := newFrame(cmd, params, paramsShift, depth)

	for {
		if a.opCount >= a.opts.instructionBudget {
			return ErrInstructionBudget
		}
		a.opCount++

		startIP := fr.ip
		op, err := fr.consumeByte()
		if err != nil {
			return err
		}

		if a.opts.trace {
			a.log.WithFields(logrus.Fields{
				"depth":  depth,
				"ip":     startIP,
				"opcode": fmt.Sprintf("%#02x", op),
			}).Trace("exec")
		}

		if fam, dstSpace, ok := decodeFamily(op); ok {
			if err := a.execFamilyOp(fr, fam, dstSpace); err != nil {
				return err
			}
			continue
		}

		switch op {
		case opSetAtiPort:
			port, err := fr.consumeU16()
			if err != nil {
				return err
			}
			if port == 0 {
				a.ioMode = ioModeMM
			} else {
				a.ioMode = ioModeIIO
				a.iioPort = port
			}

		case opSetPCIPort:
			a.ioMode = ioModePCI

		case opSetSysIOPort:
			a.ioMode = ioModeSYSIO

		case opSetRegBlock:
			v, err := fr.consumeU16()
			if err != nil {
				return err
			}
			a.regBlock = v

		case opSwitch:
			if err := a.execSwitch(fr); err != nil {
				return err
			}

		case opJumpAlways, opJumpEqual, opJumpBelow, opJumpAbove,
			opJumpBelowOrEqual, opJumpAboveOrEqual, opJumpNotEqual:
			target, err := fr.consumeU16()
			if err != nil {
				return err
			}
			if a.jumpTaken(op) {
				fr.ip = uint32(target) - 6
			}

		case opDelayMicroseconds:
			us, err := fr.consumeByte()
			if err != nil {
				return err
			}
			a.host.DelayUs(uint32(us))

		case opCallTable:
			tableByte, err := fr.consumeByte()
			if err != nil {
				return err
			}
			table := CommandTableId(tableByte)
			callee, ok := a.commands[table]
			if !ok {
				return fmt.Errorf("%w: %s", ErrMissingCallee, table)
			}
			childShift := fr.paramsShift + uint32(fr.cmd.parameterSpaceSize)/4
			if err := a.runBytecode(callee, fr.params, childShift, depth+1); err != nil {
				return err
			}

		case opSetDataTable:
			if err := a.execSetDataTable(fr); err != nil {
				return err
			}

		case opEndOfTable:
			return nil

		default:
			return fmt.Errorf("%w: %#02x", ErrUnknownOpcode, op)
		}
	}
}

func (a *AtomBios) jumpTaken(op byte) bool {
	switch op {
	case opJumpAlways:
		return true
	case opJumpEqual:
		return a.flagE
	case opJumpBelow:
		return a.flagB
	case opJumpAbove:
		return a.flagA
	case opJumpBelowOrEqual:
		return a.flagB || a.flagE
	case opJumpAboveOrEqual:
		return a.flagA || a.flagE
	case opJumpNotEqual:
		return !a.flagE
	default:
		return false
	}
}

// execSetDataTable implements SET_DATA_TABLE. Table 255 is documented by
// the original source as uncertain -- it's handled the same as "out of
// range" (dataBlock cleared, a warning logged) rather than guessed at.
func (a *AtomBios) execSetDataTable(fr *frame) error {
	tableByte, err := fr.consumeByte()
	if err != nil {
		return err
	}

	switch {
	case tableByte == 255:
		a.log.Warn("set_data_table(255): semantics unconfirmed, clearing dataBlock")
		a.dataBlock = 0
	case int(tableByte) >= dataTableEntryCount:
		a.log.WithField("table", tableByte).Warn("set_data_table: index out of range, clearing dataBlock")
		a.dataBlock = 0
	default:
		a.dataBlock = uint32(a.dataTable.Entries[tableByte])
	}
	return nil
}

// execSwitch implements the SWITCH opcode: a source operand is compared
// against an inline table of (case-magic, case value, target) entries,
// terminated by a bare 0x5A5A marker. The first matching case jumps; a
// missing case-magic byte is a malformed table and stops the scan with a
// warning rather than guessing where the next case begins.
func (a *AtomBios) execSwitch(fr *frame) error {
	rawAttr, err := fr.consumeByte()
	if err != nil {
		return err
	}
	attr := decodeAttr(rawAttr)

	switchVal, err := a.readSrcOperand(fr, attr)
	if err != nil {
		return err
	}
	caseWidth := byteWidth(attr.srcAlign)

	for {
		if fr.ip+2 > uint32(len(fr.cmd.bytecode)) {
			return fmt.Errorf("%w: switch table runs past end of bytecode", ErrBytecodeOutOfRange)
		}
		marker := uint16(fr.cmd.bytecode[fr.ip]) | uint16(fr.cmd.bytecode[fr.ip+1])<<8
		if marker == switchTerminator {
			fr.ip += 2
			return nil
		}

		magic, err := fr.consumeByte()
		if err != nil {
			return err
		}
		if magic != switchCaseMagic {
			a.log.WithField("byte", magic).Warn("switch: malformed case table, missing case magic")
			return nil
		}

		caseVal, err := fr.consumeImmBytes(caseWidth)
		if err != nil {
			return err
		}
		target, err := fr.consumeU16()
		if err != nil {
			return err
		}
		if caseVal == switchVal {
			fr.ip = uint32(target) - 6
			return nil
		}
	}
}

// execFamilyOp runs one of the uniformly-encoded opcodes: attribute byte,
// destination operand, then (for most families) a source operand.
func (a *AtomBios) execFamilyOp(fr *frame, fam opFamily, dstSpace AddressSpace) error {
	rawAttr, err := fr.consumeByte()
	if err != nil {
		return err
	}
	attr := decodeAttr(rawAttr)

	dstIdx, err := fr.consumeIndex(dstSpace)
	if err != nil {
		return err
	}
	saved := a.readSpace(fr, dstSpace, dstIdx)
	dst := swizzle(saved, attr.dstAlign)

	switch fam {
	case famClear:
		combined := combineSaved(0, saved, attr.dstAlign)
		a.writeSpace(fr, dstSpace, dstIdx, combined)
		return nil

	case famMask:
		maskImm, err := fr.consumeImmBytes(byteWidth(attr.dstAlign))
		if err != nil {
			return err
		}
		val, err := a.readSrcOperand(fr, attr)
		if err != nil {
			return err
		}
		newVal := (dst & maskImm) | val
		combined := combineSaved(newVal, saved, attr.dstAlign)
		a.writeSpace(fr, dstSpace, dstIdx, combined)
		return nil

	case famShiftLeft, famShiftRight:
		shiftAmt, err := fr.consumeByte()
		if err != nil {
			return err
		}
		var newVal uint32
		if fam == famShiftLeft {
			newVal = dst << shiftAmt
		} else {
			newVal = dst >> shiftAmt
		}
		combined := combineSaved(newVal, saved, attr.dstAlign)
		a.writeSpace(fr, dstSpace, dstIdx, combined)
		return nil

	case famCompare:
		val, err := a.readSrcOperand(fr, attr)
		if err != nil {
			return err
		}
		a.flagE = dst == val
		a.flagA = dst > val
		a.flagB = dst < val
		return nil

	case famTest:
		val, err := a.readSrcOperand(fr, attr)
		if err != nil {
			return err
		}
		a.flagE = dst == val
		return nil

	case famMul:
		val, err := a.readSrcOperand(fr, attr)
		if err != nil {
			return err
		}
		a.divMulQuotient = dst * val
		return nil

	case famDiv:
		val, err := a.readSrcOperand(fr, attr)
		if err != nil {
			return err
		}
		if val == 0 {
			a.divMulQuotient = 0
			a.divMulRemainder = 0
		} else {
			a.divMulQuotient = dst / val
			a.divMulRemainder = dst % val
		}
		return nil

	default: // famMove, famAnd, famOr, famXor, famAdd, famSub
		val, err := a.readSrcOperand(fr, attr)
		if err != nil {
			return err
		}
		var newVal uint32
		switch fam {
		case famMove:
			newVal = val
		case famAnd:
			newVal = dst & val
		case famOr:
			newVal = dst | val
		case famXor:
			newVal = dst ^ val
		case famAdd:
			newVal = dst + val
		case famSub:
			newVal = dst - val
		}
		combined := combineSaved(newVal, saved, attr.dstAlign)
		a.writeSpace(fr, dstSpace, dstIdx, combined)
		return nil
	}
}

// readSrcOperand reads and swizzles a source operand. Imm bypasses the
// generic read-then-swizzle path: the bytes consumed from the instruction
// stream already are the value, at whatever width srcAlign implies.
func (a *AtomBios) readSrcOperand(fr *frame, attr attrByte) (uint32, error) {
	if attr.srcSpace == SpaceImm {
		return fr.consumeImmBytes(byteWidth(attr.srcAlign))
	}
	idx, err := fr.consumeIndex(attr.srcSpace)
	if err != nil {
		return 0, err
	}
	raw := a.readSpace(fr, attr.srcSpace, idx)
	return swizzle(raw, attr.srcAlign), nil
}
