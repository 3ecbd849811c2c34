package atombios

import "errors"

// Construction-fatal: the ROM image itself does not look like an AtomBIOS image.
var (
	ErrBadMagic       = errors.New("atombios: missing 0xAA55 BIOS signature")
	ErrBadAtiMagic    = errors.New("atombios: missing ATI legacy signature")
	ErrBadAtomMagic   = errors.New("atombios: missing ATOM table signature")
	ErrTruncatedRom   = errors.New("atombios: rom image truncated")
	ErrMisalignedSize = errors.New("atombios: workSpaceSize/parameterSpaceSize not dword-aligned")
)

// Invocation-fatal: raised while running a command's bytecode. All of these
// abort the top-level RunCommand call; nothing is copied back, so the
// caller's params slice keeps the values it was passed in with.
var (
	ErrUnknownOpcode      = errors.New("atombios: unknown opcode")
	ErrBytecodeOutOfRange = errors.New("atombios: bytecode access out of range")
	ErrMissingCallee      = errors.New("atombios: call_table to absent command index")
	ErrRecursionLimit     = errors.New("atombios: call_table recursion limit exceeded")
	ErrInstructionBudget  = errors.New("atombios: instruction budget exhausted")
)
