package atombios

// fakeHost is a minimal Host used across tests: plain maps for registers,
// memory controller, and PLL, no actual delay.
type fakeHost struct {
	regs map[uint32]uint32
	mc   map[uint32]uint32
	pll  map[uint32]uint32

	delaysUs []uint32
	delaysMs []uint32
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		regs: make(map[uint32]uint32),
		mc:   make(map[uint32]uint32),
		pll:  make(map[uint32]uint32),
	}
}

func (h *fakeHost) RegRead(reg uint32) uint32 {
	if h.regs == nil {
		return 0
	}
	return h.regs[reg]
}

func (h *fakeHost) RegWrite(reg uint32, val uint32) {
	if h.regs == nil {
		h.regs = make(map[uint32]uint32)
	}
	h.regs[reg] = val
}

func (h *fakeHost) McRead(reg uint32) uint32 {
	if h.mc == nil {
		return 0
	}
	return h.mc[reg]
}

func (h *fakeHost) McWrite(reg uint32, val uint32) {
	if h.mc == nil {
		h.mc = make(map[uint32]uint32)
	}
	h.mc[reg] = val
}

func (h *fakeHost) PllRead(reg uint32) uint32 {
	if h.pll == nil {
		return 0
	}
	return h.pll[reg]
}

func (h *fakeHost) PllWrite(reg uint32, val uint32) {
	if h.pll == nil {
		h.pll = make(map[uint32]uint32)
	}
	h.pll[reg] = val
}

func (h *fakeHost) DelayUs(us uint32) { h.delaysUs = append(h.delaysUs, us) }
func (h *fakeHost) DelayMs(ms uint32) { h.delaysMs = append(h.delaysMs, ms) }
