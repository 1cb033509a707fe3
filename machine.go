// machine.go - top-level system aggregate and tick loop (C11)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
Machine owns every component and wires them together exactly once, at
construction. Step() implements §5's scheduling model: CPU-A advances
by cpuAInstrPerTick instructions, then CPU-B by cpuBInstrPerTick, then
the scheduler (standing in for the timer block) advances by the same
cycle count CPU-B just consumed. Nothing here suspends or allocates.
*/

package main

import "github.com/duocore-vm/duocore/video"

const (
	cpuAInstrPerTick = 16
	cpuBInstrPerTick = 8
)

// Machine is the fully-wired system: two CPU cores, the shared bus
// backing store, and every MMIO peripheral the bus routes into.
type Machine struct {
	peripherals *Peripherals

	cpuA *CPUState
	cpuB *CPUState

	busA *BusA
	busB *BusB

	sched  *Scheduler
	coproc *Coprocessor

	intcA, intcB *InterruptController
	ipc          *IPC
	math         *MathUnit
	auxspi       *AUXSPI
	cart         *Cartridge
	dma          DMATrigger
	ppu          *PPU
}

// NewMachine wires a complete system around the given BIOS images. dma
// may be nil, in which case cartridge nudges are discarded; sink
// may be nil, in which case rendered frames are simply dropped.
func NewMachine(biosA, biosB []byte, dma DMATrigger, sink video.Sink) *Machine {
	if dma == nil {
		dma = noopDMATrigger{}
	}

	m := &Machine{
		sched:  NewScheduler(),
		coproc: NewCoprocessor(),
		intcA:  NewInterruptController("CPU-A"),
		intcB:  NewInterruptController("CPU-B"),
		math:   NewMathUnit(),
		auxspi: NewAUXSPI(),
		dma:    dma,
	}
	m.ipc = NewIPC(m.intcA, m.intcB)
	m.cart = NewCartridge(m.sched, m.intcA, m.intcB, m.dma)

	m.peripherals = &Peripherals{
		biosA:  biosA,
		biosB:  biosB,
		coproc: m.coproc,
		intcA:  m.intcA,
		intcB:  m.intcB,
		ipc:    m.ipc,
		math:   m.math,
		auxspi: m.auxspi,
		cart:   m.cart,
	}

	m.busA = NewBusA(m.peripherals)
	m.busB = NewBusB(m.peripherals)

	m.cpuA = NewCPUState("CPU-A", m.busA, m.coproc)
	m.cpuB = NewCPUState("CPU-B", m.busB, nil)

	m.intcA.AttachCPU(m.cpuA)
	m.intcB.AttachCPU(m.cpuB)

	m.ppu = NewPPU(m.sched, m.intcA, m.intcB, sink)

	return m
}

// Reset restores the coprocessor, both interrupt controllers, IPC, the
// math unit, AUXSPI, the cartridge engine and both CPUs to their
// power-on state. The scheduler and its pending events, the PPU, and
// the RAM/TCM contents are left as they are.
func (m *Machine) Reset() {
	m.coproc.Reset()
	m.intcA.Reset()
	m.intcB.Reset()
	m.ipc.Reset()
	m.math.Reset()
	m.auxspi.Reset()
	m.cart.Reset()
	m.cpuA.Reset()
	m.cpuB.Reset()
}

// AttachCartridge mounts r as the cartridge image, or detaches it if
// r is nil.
func (m *Machine) AttachCartridge(r CartridgeReader) {
	m.cart.AttachImage(r)
}

// LoadKey1Table derives the cartridge engine's KEY1 round table from
// the loaded bios_a image.
func (m *Machine) LoadKey1Table() {
	m.cart.LoadKey1Table(m.peripherals.biosA)
}

// Fast-boot stack pointers, grounded on the original source's
// CPU::setEntry: each processor's USR/IRQ/SVC stacks land at fixed
// offsets from the top of a work-RAM region: the 0x03000000 region for
// CPU-A, and CPU-B's WRAM at 0x03800000 for CPU-B.
const (
	fastBootSPA    = 0x03002F7C
	fastBootSPIRQA = 0x03003F80
	fastBootSPSVCA = 0x03003FC0

	fastBootSPB    = 0x0380FD80
	fastBootSPIRQB = 0x0380FF80
	fastBootSPSVCB = 0x0380FFC0
)

// FastBoot implements the -FASTBOOT path: entry point and every
// banked stack pointer are set directly from firmware rather than
// running the BIOS reset/self-test sequence. entryA/entryB are the
// two 32-bit little-endian words at the head of the firmware blob.
func (m *Machine) FastBoot(firmware []byte) {
	entryA := le32(firmware[0x00:])
	entryB := le32(firmware[0x04:])

	fastBootCPU(m.cpuA, entryA, fastBootSPA, fastBootSPIRQA, fastBootSPSVCA)
	fastBootCPU(m.cpuB, entryB, fastBootSPB, fastBootSPIRQB, fastBootSPSVCB)
}

func fastBootCPU(cpu *CPUState, entry, sp, spIRQ, spSVC uint32) {
	cpu.ChangeMode(ModeIRQ)
	cpu.r[13] = spIRQ
	cpu.ChangeMode(ModeSVC)
	cpu.r[13] = spSVC
	cpu.ChangeMode(ModeSYS)

	cpu.r[13] = sp
	cpu.r[12] = entry
	cpu.r[14] = entry
	cpu.r[15] = entry
	cpu.t = false
}

// Step advances the whole machine by one tick: §5's scheduling model.
func (m *Machine) Step() {
	for i := 0; i < cpuAInstrPerTick; i++ {
		stepCPU(m.cpuA, m.busA)
	}
	for i := 0; i < cpuBInstrPerTick; i++ {
		stepCPU(m.cpuB, m.busB)
	}
	m.sched.Advance(cpuBInstrPerTick)
}

// stepCPU executes one instruction boundary on cpu: IRQ sampling, then
// fetch-decode-execute in whichever instruction state is current. A
// halted CPU consumes the slot without fetching.
func stepCPU(cpu *CPUState, bus Bus) {
	if cpu.halted {
		return
	}
	if cpu.irqPending && !cpu.i {
		enterException(cpu, ModeIRQ, 0x18, true)
		return
	}

	pc := cpu.r[15]
	cpu.cpc = pc
	if cpu.t {
		instr := bus.Read16(pc)
		cpu.r[15] = pc + 2
		ExecuteThumb(cpu, bus, instr)
	} else {
		instr := bus.Read32(pc)
		cpu.r[15] = pc + 4
		ExecuteARM(cpu, bus, instr)
	}
}
