// cpu.go - banked register file, PSR encoding, mode transitions (C7)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
CPUState models one ARM-family core: the visible r0-r15, the current
and saved program status registers, and the banked shadow state that
mode switches swap in and out. Both CPU-A (ARMv4T, TCM+coprocessor) and
CPU-B (ARMv4, no cache) share this struct; CPU-A additionally owns a
Coprocessor (coprocessor.go).

Register banking follows §4.5 exactly: a 3-way swap on change_mode,
keyed by the *previous* mode so a no-op switch (new == old) never
perturbs the banks. USR and SYS share one bank; FIQ, SVC, ABT, IRQ and
UND each get their own (sp, lr, spsr) bank, and FIQ additionally banks
r8-r12.
*/

package main

// CPU mode encodings, §3.
const (
	ModeUSR = 0x0
	ModeFIQ = 0x1
	ModeIRQ = 0x2
	ModeSVC = 0x3
	ModeABT = 0x7
	ModeUND = 0xB
	ModeSYS = 0xF
)

// PSR bit positions, §3.
const (
	psrModeMask = 0x1F
	psrT        = 5
	psrF        = 6
	psrI        = 7
	psrQ        = 27
	psrV        = 28
	psrC        = 29
	psrZ        = 30
	psrN        = 31
)

// privBankIndex maps a privileged mode to its (sp, lr, spsr) bank slot.
// USR/SYS have no entry; callers must check isPrivilegedBanked first.
var privBankIndex = map[uint32]int{
	ModeFIQ: 0,
	ModeSVC: 1,
	ModeABT: 2,
	ModeIRQ: 3,
	ModeUND: 4,
}

const numPrivBanks = 5

// usrBank is the extra banks slot holding the (sp, lr) pair that USR and
// SYS share while another mode is live.
const usrBank = numPrivBanks

type regBank struct {
	sp, lr uint32
	spsr   uint32
}

// CPUState is the architectural state of one processor instance.
type CPUState struct {
	name string // "CPU-A" or "CPU-B", for log tags and vector base selection

	r [16]uint32

	cpc uint32 // address of the instruction currently being executed

	// cpsr fields, decomposed for convenient access; EncodeCPSR/DecodeCPSR
	// pack/unpack the §3 bit layout on demand.
	mode uint32
	t    bool
	f    bool
	i    bool
	nFlag, zFlag, cFlag, vFlag, qFlag bool

	banks    [numPrivBanks + 1]regBank
	fiqR8_12 [5]uint32 // banked r8..r12 while in FIQ mode
	usrR8_12 [5]uint32 // r8..r12 for every other mode

	spsrValid bool // false in USR/SYS: there is no "current" SPSR

	cout bool // barrel-shifter carry-out, consumed by flag setters

	irqPending bool
	halted     bool

	coproc *Coprocessor // non-nil only for CPU-A

	bus Bus // per-CPU routed memory access
}

// NewCPUState returns a CPU reset into SVC mode with IRQ/FIQ disabled,
// matching ARM reset behavior.
func NewCPUState(name string, bus Bus, coproc *Coprocessor) *CPUState {
	c := &CPUState{name: name, bus: bus, coproc: coproc}
	c.Reset()
	return c
}

// Reset restores the CPU to its power-on state: SVC mode, IRQs and
// FIQs masked, ARM instruction state, PC and banks zeroed.
func (c *CPUState) Reset() {
	for i := range c.r {
		c.r[i] = 0
	}
	c.cpc = 0
	c.mode = ModeSVC
	c.t = false
	c.f = true
	c.i = true
	c.nFlag, c.zFlag, c.cFlag, c.vFlag, c.qFlag = false, false, false, false, false
	c.banks = [numPrivBanks + 1]regBank{}
	c.fiqR8_12 = [5]uint32{}
	c.usrR8_12 = [5]uint32{}
	c.spsrValid = true
	c.cout = false
	c.irqPending = false
	c.halted = false
}

// isPrivilegedBanked reports whether mode owns a dedicated (sp,lr,spsr)
// bank, i.e. is anything other than USR/SYS.
func isPrivilegedBanked(mode uint32) bool {
	_, ok := privBankIndex[mode]
	return ok
}

// ChangeMode performs the banked-register swap of §4.5. It is a no-op
// when new equals the current mode, which keeps exception re-entrance
// and repeated MSR writes safe (testable property #1 in §8).
func (c *CPUState) ChangeMode(newMode uint32) {
	if newMode == c.mode {
		return
	}

	// 1. Save the live (sp, lr) back into the outgoing mode's bank.
	b := &c.banks[usrBank]
	if isPrivilegedBanked(c.mode) {
		b = &c.banks[privBankIndex[c.mode]]
	}
	b.sp, b.lr = c.r[13], c.r[14]
	if c.mode == ModeFIQ {
		copy(c.fiqR8_12[:], c.r[8:13])
	} else {
		copy(c.usrR8_12[:], c.r[8:13])
	}

	// 2. Load (sp, lr) for the incoming mode from its bank. USR and SYS
	// share the usrBank slot.
	nb := c.banks[usrBank]
	if isPrivilegedBanked(newMode) {
		nb = c.banks[privBankIndex[newMode]]
	}
	c.r[13], c.r[14] = nb.sp, nb.lr

	// 3. Point spsr_cur at the new mode's SPSR (or invalidate for USR/SYS).
	c.spsrValid = isPrivilegedBanked(newMode)

	// 4. Swap r8-r12.
	if newMode == ModeFIQ {
		copy(c.r[8:13], c.fiqR8_12[:])
	} else {
		copy(c.r[8:13], c.usrR8_12[:])
	}

	c.mode = newMode
}

// EncodeCPSR packs the decomposed flags into the §3 bit layout.
func (c *CPUState) EncodeCPSR() uint32 {
	v := c.mode & psrModeMask
	v |= 1 << 4 // bit 4 always reads as 1
	v = bitSet(v, psrT, c.t)
	v = bitSet(v, psrF, c.f)
	v = bitSet(v, psrI, c.i)
	v = bitSet(v, psrQ, c.qFlag)
	v = bitSet(v, psrV, c.vFlag)
	v = bitSet(v, psrC, c.cFlag)
	v = bitSet(v, psrZ, c.zFlag)
	v = bitSet(v, psrN, c.nFlag)
	return v
}

// DecodeCPSR unpacks a raw PSR value into the CPU's flag fields,
// honoring the 4-bit byte-lane mask (bit 0 = control byte, bits 1-3 =
// extension/status/flags bytes). USR mode may never alter the control
// byte (mode/T/F/I), per §4.8's MSR contract.
func (c *CPUState) DecodeCPSR(value uint32, mask uint32) {
	if mask&0x1 != 0 && c.mode != ModeUSR {
		newMode := value & psrModeMask
		c.t = u32ToBool(bit(value, psrT))
		c.f = u32ToBool(bit(value, psrF))
		c.i = u32ToBool(bit(value, psrI))
		c.ChangeMode(newMode)
	}
	if mask&0x8 != 0 {
		c.nFlag = u32ToBool(bit(value, psrN))
		c.zFlag = u32ToBool(bit(value, psrZ))
		c.cFlag = u32ToBool(bit(value, psrC))
		c.vFlag = u32ToBool(bit(value, psrV))
		c.qFlag = u32ToBool(bit(value, psrQ))
	}
	if mask&0x4 != 0 {
		// status byte (bits 16-23): unused architectural bits in this core
	}
	if mask&0x2 != 0 {
		// extension byte (bits 8-15): unused architectural bits in this core
	}
}

// SPSR returns the active banked SPSR, or 0 if none is selected (USR/SYS).
func (c *CPUState) SPSR() uint32 {
	if !c.spsrValid {
		return 0
	}
	return c.banks[privBankIndex[c.mode]].spsr
}

// SetSPSR writes the active banked SPSR honoring the same byte-lane
// mask MSR uses for CPSR; a no-op in USR/SYS.
func (c *CPUState) SetSPSR(value uint32, mask uint32) {
	if !c.spsrValid {
		return
	}
	b := &c.banks[privBankIndex[c.mode]]
	cur := b.spsr
	var out uint32
	for lane := uint(0); lane < 4; lane++ {
		byteMask := uint32(0xFF) << (lane * 8)
		if mask&(1<<lane) != 0 {
			out |= value & byteMask
		} else {
			out |= cur & byteMask
		}
	}
	b.spsr = out
}

// RestoreCPSRFromSPSR copies the active SPSR back into CPSR wholesale,
// including a mode switch. Used by the exception-return data-processing
// form (§4.8: Rd==PC, S==1).
func (c *CPUState) RestoreCPSRFromSPSR() {
	if !c.spsrValid {
		return
	}
	saved := c.SPSR()
	newMode := saved & psrModeMask
	c.t = u32ToBool(bit(saved, psrT))
	c.f = u32ToBool(bit(saved, psrF))
	c.i = u32ToBool(bit(saved, psrI))
	c.nFlag = u32ToBool(bit(saved, psrN))
	c.zFlag = u32ToBool(bit(saved, psrZ))
	c.cFlag = u32ToBool(bit(saved, psrC))
	c.vFlag = u32ToBool(bit(saved, psrV))
	c.qFlag = u32ToBool(bit(saved, psrQ))
	c.ChangeMode(newMode)
}

// PC returns the "pipelined" program counter read by instructions that
// reference r15 as an operand: PC+4 in ARM state, PC+2 in THUMB state.
func (c *CPUState) PC() uint32 {
	if c.t {
		return c.r[15] + 2
	}
	return c.r[15] + 4
}
