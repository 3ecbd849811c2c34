package main

import "time"

// headlessHost is a Host backed by plain in-memory maps instead of real
// hardware, for running a ROM's bytecode offline (diffing register writes,
// smoke-testing a table against recorded values, etc). Delays are tracked
// rather than actually slept, since nothing downstream is waiting on them.
type headlessHost struct {
	regs map[uint32]uint32
	mc   map[uint32]uint32
	pll  map[uint32]uint32

	delayedUs time.Duration
}

func newHeadlessHost() *headlessHost {
	return &headlessHost{
		regs: make(map[uint32]uint32),
		mc:   make(map[uint32]uint32),
		pll:  make(map[uint32]uint32),
	}
}

func (h *headlessHost) RegRead(reg uint32) uint32      { return h.regs[reg] }
func (h *headlessHost) RegWrite(reg, val uint32)       { h.regs[reg] = val }
func (h *headlessHost) McRead(reg uint32) uint32       { return h.mc[reg] }
func (h *headlessHost) McWrite(reg, val uint32)        { h.mc[reg] = val }
func (h *headlessHost) PllRead(reg uint32) uint32      { return h.pll[reg] }
func (h *headlessHost) PllWrite(reg, val uint32)       { h.pll[reg] = val }
func (h *headlessHost) DelayUs(us uint32)              { h.delayedUs += time.Duration(us) * time.Microsecond }
func (h *headlessHost) DelayMs(ms uint32)              { h.delayedUs += time.Duration(ms) * time.Millisecond }
