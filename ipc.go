// ipc.go - inter-processor communication block (C5)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
Two 16-word FIFOs run in opposite directions between CPU-A and CPU-B.
Each side owns a SYNC nibble exchange and a FIFOCNT status/control
register; the fields read back as derived state (emptiness/fullness),
never stored redundantly, so the invariant "send_empty[self] ==
recv_empty[other]" holds by construction rather than by bookkeeping.
*/

package main

const ipcFIFODepth = 16

type ipcFIFO struct {
	buf  [ipcFIFODepth]uint32
	head int
	size int
}

func (f *ipcFIFO) empty() bool { return f.size == 0 }
func (f *ipcFIFO) full() bool  { return f.size == ipcFIFODepth }

func (f *ipcFIFO) push(v uint32) bool {
	if f.full() {
		return false
	}
	f.buf[(f.head+f.size)%ipcFIFODepth] = v
	f.size++
	return true
}

func (f *ipcFIFO) pop() (uint32, bool) {
	if f.empty() {
		return 0, false
	}
	v := f.buf[f.head]
	f.head = (f.head + 1) % ipcFIFODepth
	f.size--
	return v, true
}

func (f *ipcFIFO) front() uint32 {
	if f.empty() {
		return 0
	}
	return f.buf[f.head]
}

func (f *ipcFIFO) clear() { *f = ipcFIFO{} }

// ipcSide holds one CPU's half of the IPC block: its SYNC nibble/enable
// bits, FIFO enables/IRQ-enables, the sticky error flag, and the last
// word read by RECV (returned again on a stale/empty read).
type ipcSide struct {
	outNibble  uint32
	syncIRQEn  bool
	fifoEn     bool
	sendIRQEn  bool
	recvIRQEn  bool
	errorFlag  bool
	lastRecv   uint32
}

// IPC is the paired-FIFO block shared by both CPUs, §4.4.
type IPC struct {
	aToB, bToA ipcFIFO
	a, b       ipcSide

	intcA, intcB *InterruptController
}

func NewIPC(intcA, intcB *InterruptController) *IPC {
	return &IPC{intcA: intcA, intcB: intcB}
}

func (p *IPC) Reset() {
	p.aToB.clear()
	p.bToA.clear()
	p.a = ipcSide{}
	p.b = ipcSide{}
}

func (p *IPC) sideFor(cpu int) (self, other *ipcSide, outbound, inbound *ipcFIFO, selfIntc, otherIntc *InterruptController) {
	if cpu == 0 {
		return &p.a, &p.b, &p.aToB, &p.bToA, p.intcA, p.intcB
	}
	return &p.b, &p.a, &p.bToA, &p.aToB, p.intcB, p.intcA
}

// ReadSYNC returns the packed SYNC register for cpu (0=A, 1=B).
func (p *IPC) ReadSYNC(cpu int) uint32 {
	self, other, _, _, _, _ := p.sideFor(cpu)
	v := other.outNibble & 0xF
	v |= (self.outNibble & 0xF) << 8
	v |= boolToU32(self.syncIRQEn) << 14
	return v
}

// WriteSYNC updates self's out-nibble/enable and, if the *other* side
// has its sync IRQ enabled, raises IPCSync on the other CPU.
func (p *IPC) WriteSYNC(cpu int, value uint32) {
	self, other, _, _, _, otherIntc := p.sideFor(cpu)
	self.outNibble = (value >> 8) & 0xF
	self.syncIRQEn = u32ToBool(bit(value, 14))
	if other.syncIRQEn {
		otherIntc.SendInterrupt(IRQIPCSync)
	}
}

// ReadFIFOCNT returns the packed status/control register for cpu.
func (p *IPC) ReadFIFOCNT(cpu int) uint32 {
	self, _, outbound, inbound, _, _ := p.sideFor(cpu)
	var v uint32
	v |= boolToU32(outbound.empty())
	v |= boolToU32(outbound.full()) << 1
	v |= boolToU32(self.sendIRQEn) << 2
	v |= boolToU32(inbound.empty()) << 8
	v |= boolToU32(inbound.full()) << 9
	v |= boolToU32(self.recvIRQEn) << 10
	v |= boolToU32(self.errorFlag) << 14
	v |= boolToU32(self.fifoEn) << 15
	return v
}

// WriteFIFOCNT applies the control bits of §4.4, including the two
// raise-immediately edge cases for enabling an IRQ while its condition
// already holds.
func (p *IPC) WriteFIFOCNT(cpu int, value uint32) {
	self, _, outbound, inbound, selfIntc, _ := p.sideFor(cpu)

	if bit(value, 3) != 0 {
		outbound.clear()
	}
	if bit(value, 14) != 0 {
		self.errorFlag = false
	}

	wantSendIRQ := u32ToBool(bit(value, 2))
	if wantSendIRQ && !self.sendIRQEn && outbound.empty() {
		selfIntc.SendInterrupt(IRQIPCSend)
	}
	self.sendIRQEn = wantSendIRQ

	wantRecvIRQ := u32ToBool(bit(value, 10))
	if wantRecvIRQ && !self.recvIRQEn && !inbound.empty() {
		selfIntc.SendInterrupt(IRQIPCRecv)
	}
	self.recvIRQEn = wantRecvIRQ

	self.fifoEn = u32ToBool(bit(value, 15))
}

// WriteSEND pushes value onto cpu's outbound FIFO when enabled and not
// full; a push that empties-to-nonempty the other side's inbound queue
// raises IPCRecv there if it has recv-nonempty-IRQ enabled.
func (p *IPC) WriteSEND(cpu int, value uint32) {
	self, other, outbound, _, _, otherIntc := p.sideFor(cpu)
	if !self.fifoEn {
		return
	}
	wasEmpty := outbound.empty()
	if !outbound.push(value) {
		self.errorFlag = true
		return
	}
	if wasEmpty && other.recvIRQEn {
		otherIntc.SendInterrupt(IRQIPCRecv)
	}
}

// ReadRECV pops cpu's inbound FIFO when enabled and non-empty. An empty
// read while enabled sets the sticky error flag and returns the stale
// last-read value; a read while disabled peeks without popping.
func (p *IPC) ReadRECV(cpu int) uint32 {
	self, other, _, inbound, _, otherIntc := p.sideFor(cpu)
	if !self.fifoEn {
		if inbound.empty() {
			return self.lastRecv
		}
		return inbound.front()
	}
	v, ok := inbound.pop()
	if !ok {
		self.errorFlag = true
		return self.lastRecv
	}
	self.lastRecv = v
	if inbound.empty() && other.sendIRQEn {
		otherIntc.SendInterrupt(IRQIPCSend)
	}
	return v
}
