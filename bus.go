// bus.go - per-CPU memory-mapped bus router (C3)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
Peripherals is the shared aggregate both CPUs' buses route into: the
RAM arrays, the two interrupt controllers, IPC, the math unit, AUXSPI
and the cartridge engine. BusA and BusB are thin per-CPU decoders that
apply the address map of §4.2 and otherwise call into the same MMIO
dispatch; the only real asymmetry is CPU-A's TCM intercept and high
BIOS alias, and CPU-B's different BIOS/WRAM placement.
*/

package main

// Bus is the interface CPUState and the instruction semantics use for
// every memory access. Width-specific methods match the ARM load/store
// family split (byte/halfword/word) rather than a single generic method,
// mirroring how the instruction semantics already know their width.
type Bus interface {
	Read8(addr uint32) Byte
	Read16(addr uint32) Half
	Read32(addr uint32) Word
	Write8(addr uint32, v Byte)
	Write16(addr uint32, v Half)
	Write32(addr uint32, v Word)
}

const (
	mainRAMBase = 0x02000000
	mainRAMSize = 4 * 1024 * 1024
	wramBase    = 0x03800000
	wramSize    = 64 * 1024
	mmioBase    = 0x04000000
	mmioTop     = 0x04FFFFFF
	highBIOSA   = 0xFFFF0000
)

// Peripherals owns every backing store and component the bus routes
// to, shared between CPU-A's and CPU-B's decoders.
type Peripherals struct {
	biosA []byte // 16 KiB, read-only
	biosB []byte // 4 KiB, read-only

	mainRAM [mainRAMSize]byte
	wram    [wramSize]byte

	dtcm [16 * 1024]byte
	itcm [32 * 1024]byte

	coproc *Coprocessor

	intcA, intcB *InterruptController
	ipc          *IPC
	math         *MathUnit
	auxspi       *AUXSPI
	cart         *Cartridge

	postflg byte
}

// BusA is CPU-A's address decoder: DTCM/ITCM intercept, main RAM,
// MMIO, and the high BIOS alias.
type BusA struct{ p *Peripherals }

// BusB is CPU-B's address decoder: local BIOS at address 0, WRAM, and
// the shared MMIO/IPC/INTC/cartridge ranges.
type BusB struct{ p *Peripherals }

func NewBusA(p *Peripherals) *BusA { return &BusA{p: p} }
func NewBusB(p *Peripherals) *BusB { return &BusB{p: p} }

// --- CPU-A ---

func (b *BusA) Read8(addr uint32) Byte {
	if v, ok := b.tcmRead(addr, 1); ok {
		return Byte(v)
	}
	if addr >= mainRAMBase && addr < mainRAMBase+2*mainRAMSize {
		return b.p.mainRAM[(addr-mainRAMBase)%mainRAMSize]
	}
	if addr >= mmioBase && addr <= mmioTop {
		return Byte(mmioRead(b.p, 0, addr, 1))
	}
	if addr >= highBIOSA && addr < highBIOSA+0x1000 {
		return b.p.biosB[addr-highBIOSA]
	}
	fatalf("BUS-A", "read8 from unmapped address %#08x", addr)
	return 0
}

func (b *BusA) Read16(addr uint32) Half {
	addr &^= 1
	if v, ok := b.tcmRead(addr, 2); ok {
		return Half(v)
	}
	if addr >= mainRAMBase && addr < mainRAMBase+2*mainRAMSize {
		off := (addr - mainRAMBase) % mainRAMSize
		return Half(b.p.mainRAM[off]) | Half(b.p.mainRAM[off+1])<<8
	}
	if addr >= mmioBase && addr <= mmioTop {
		return Half(mmioRead(b.p, 0, addr, 2))
	}
	if addr >= highBIOSA && addr < highBIOSA+0x1000 {
		off := addr - highBIOSA
		return Half(b.p.biosB[off]) | Half(b.p.biosB[off+1])<<8
	}
	fatalf("BUS-A", "read16 from unmapped address %#08x", addr)
	return 0
}

func (b *BusA) Read32(addr uint32) Word {
	addr &^= 3
	if v, ok := b.tcmRead(addr, 4); ok {
		return v
	}
	if addr >= mainRAMBase && addr < mainRAMBase+2*mainRAMSize {
		off := (addr - mainRAMBase) % mainRAMSize
		return le32(b.p.mainRAM[off:])
	}
	if addr >= mmioBase && addr <= mmioTop {
		return mmioRead(b.p, 0, addr, 4)
	}
	if addr >= highBIOSA && addr < highBIOSA+0x1000 {
		return le32(b.p.biosB[addr-highBIOSA:])
	}
	fatalf("BUS-A", "read32 from unmapped address %#08x", addr)
	return 0
}

func (b *BusA) Write8(addr uint32, v Byte) {
	if b.tcmWrite(addr, uint32(v), 1) {
		return
	}
	if addr >= mainRAMBase && addr < mainRAMBase+2*mainRAMSize {
		b.p.mainRAM[(addr-mainRAMBase)%mainRAMSize] = v
		return
	}
	if addr >= mmioBase && addr <= mmioTop {
		mmioWrite(b.p, 0, addr, uint32(v), 1)
		return
	}
	if addr >= highBIOSA && addr < highBIOSA+0x1000 {
		return // writes to the high BIOS alias are silently ignored
	}
	fatalf("BUS-A", "write8 to unmapped address %#08x", addr)
}

func (b *BusA) Write16(addr uint32, v Half) {
	addr &^= 1
	if b.tcmWrite(addr, uint32(v), 2) {
		return
	}
	if addr >= mainRAMBase && addr < mainRAMBase+2*mainRAMSize {
		off := (addr - mainRAMBase) % mainRAMSize
		b.p.mainRAM[off] = byte(v)
		b.p.mainRAM[off+1] = byte(v >> 8)
		return
	}
	if addr >= mmioBase && addr <= mmioTop {
		mmioWrite(b.p, 0, addr, uint32(v), 2)
		return
	}
	if addr >= highBIOSA && addr < highBIOSA+0x1000 {
		return
	}
	fatalf("BUS-A", "write16 to unmapped address %#08x", addr)
}

func (b *BusA) Write32(addr uint32, v Word) {
	addr &^= 3
	if b.tcmWrite(addr, v, 4) {
		return
	}
	if addr >= mainRAMBase && addr < mainRAMBase+2*mainRAMSize {
		off := (addr - mainRAMBase) % mainRAMSize
		putLE32(b.p.mainRAM[off:], v)
		return
	}
	if addr >= mmioBase && addr <= mmioTop {
		mmioWrite(b.p, 0, addr, v, 4)
		return
	}
	if addr >= highBIOSA && addr < highBIOSA+0x1000 {
		return
	}
	fatalf("BUS-A", "write32 to unmapped address %#08x", addr)
}

// tcmRead serves a read from the DTCM/ITCM windows if addr falls
// inside either currently-enabled region, per §4.2's intercept rule.
func (b *BusA) tcmRead(addr uint32, width int) (uint32, bool) {
	c := b.p.coproc
	if c.InITCM(addr) {
		return readLE(b.p.itcm[:], addr%uint32(len(b.p.itcm)), width), true
	}
	if c.InDTCM(addr) {
		return readLE(b.p.dtcm[:], (addr-dtcmBaseOf(c))%uint32(len(b.p.dtcm)), width), true
	}
	return 0, false
}

func (b *BusA) tcmWrite(addr uint32, v uint32, width int) bool {
	c := b.p.coproc
	if c.InITCM(addr) {
		writeLE(b.p.itcm[:], addr%uint32(len(b.p.itcm)), v, width)
		return true
	}
	if c.InDTCM(addr) {
		writeLE(b.p.dtcm[:], (addr-dtcmBaseOf(c))%uint32(len(b.p.dtcm)), v, width)
		return true
	}
	return false
}

func dtcmBaseOf(c *Coprocessor) uint32 { return c.dtcmBase }

// --- CPU-B ---

func (b *BusB) Read8(addr uint32) Byte {
	if addr < uint32(len(b.p.biosA)) {
		return b.p.biosA[addr]
	}
	if addr >= wramBase && addr < wramBase+wramSize {
		return b.p.wram[addr-wramBase]
	}
	if addr >= mmioBase && addr <= mmioTop {
		return Byte(mmioRead(b.p, 1, addr, 1))
	}
	fatalf("BUS-B", "read8 from unmapped address %#08x", addr)
	return 0
}

func (b *BusB) Read16(addr uint32) Half {
	addr &^= 1
	if addr < uint32(len(b.p.biosA)) {
		return Half(b.p.biosA[addr]) | Half(b.p.biosA[addr+1])<<8
	}
	if addr >= wramBase && addr < wramBase+wramSize {
		off := addr - wramBase
		return Half(b.p.wram[off]) | Half(b.p.wram[off+1])<<8
	}
	if addr >= mmioBase && addr <= mmioTop {
		return Half(mmioRead(b.p, 1, addr, 2))
	}
	fatalf("BUS-B", "read16 from unmapped address %#08x", addr)
	return 0
}

func (b *BusB) Read32(addr uint32) Word {
	addr &^= 3
	if addr < uint32(len(b.p.biosA)) {
		return le32(b.p.biosA[addr:])
	}
	if addr >= wramBase && addr < wramBase+wramSize {
		return le32(b.p.wram[addr-wramBase:])
	}
	if addr >= mmioBase && addr <= mmioTop {
		return mmioRead(b.p, 1, addr, 4)
	}
	fatalf("BUS-B", "read32 from unmapped address %#08x", addr)
	return 0
}

func (b *BusB) Write8(addr uint32, v Byte) {
	if addr >= wramBase && addr < wramBase+wramSize {
		b.p.wram[addr-wramBase] = v
		return
	}
	if addr >= mmioBase && addr <= mmioTop {
		mmioWrite(b.p, 1, addr, uint32(v), 1)
		return
	}
	fatalf("BUS-B", "write8 to unmapped address %#08x", addr)
}

func (b *BusB) Write16(addr uint32, v Half) {
	addr &^= 1
	if addr >= wramBase && addr < wramBase+wramSize {
		off := addr - wramBase
		b.p.wram[off] = byte(v)
		b.p.wram[off+1] = byte(v >> 8)
		return
	}
	if addr >= mmioBase && addr <= mmioTop {
		mmioWrite(b.p, 1, addr, uint32(v), 2)
		return
	}
	fatalf("BUS-B", "write16 to unmapped address %#08x", addr)
}

func (b *BusB) Write32(addr uint32, v Word) {
	addr &^= 3
	if addr >= wramBase && addr < wramBase+wramSize {
		putLE32(b.p.wram[addr-wramBase:], v)
		return
	}
	if addr >= mmioBase && addr <= mmioTop {
		mmioWrite(b.p, 1, addr, v, 4)
		return
	}
	fatalf("BUS-B", "write32 to unmapped address %#08x", addr)
}

// --- little-endian helpers over raw byte slices ---

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// readLE/writeLE access a fixed-size backing array at addr; callers
// guarantee addr+width-1 stays inside mem (the TCM intercept wraps the
// width-aligned offset into the backing array, mirroring it across a
// window larger than the array).
func readLE(mem []byte, addr uint32, width int) uint32 {
	i := int(addr)
	switch width {
	case 1:
		return uint32(mem[i])
	case 2:
		return uint32(mem[i]) | uint32(mem[i+1])<<8
	default:
		return le32(mem[i:])
	}
}

func writeLE(mem []byte, addr uint32, v uint32, width int) {
	i := int(addr)
	switch width {
	case 1:
		mem[i] = byte(v)
	case 2:
		mem[i] = byte(v)
		mem[i+1] = byte(v >> 8)
	default:
		putLE32(mem[i:], v)
	}
}
