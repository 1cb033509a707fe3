// arm.go - ARM-state instruction semantics (C9)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

package main

// buildARMTable classifies every one of the 4096 (op,ext) key
// combinations once at startup and binds the family handler for it.
// Unclassified slots keep the default armUnhandled, matching §7's
// abort-on-unimplemented-encoding policy.
func buildARMTable() {
	for key := 0; key < 4096; key++ {
		op := uint32((key >> 4) & 0xFF)
		ext := uint32(key & 0xF)
		armTable[key] = classifyARM(op, ext)
	}
}

func classifyARM(op, ext uint32) ArmHandler {
	switch {
	case op == 0x12 && ext == 0x1:
		return armBX
	case op == 0x12 && ext == 0x3:
		return armBLXReg
	case (op&0xF8) == 0x10 && ext == 0x9:
		return armSWP
	case (op&0x3B) == 0x10 && ext == 0x0:
		return armMRS
	case (op&0x3B) == 0x12 && ext == 0x0:
		return armMSRReg
	case (op&0x3B) == 0x32:
		return armMSRImm
	case (op&0xFC) == 0x00 && ext == 0x9:
		return armMUL
	case (op&0xF8) == 0x08 && ext == 0x9:
		return armMULL
	case (op&0xE0) == 0x00 && (ext&0x9) == 0x9 && (ext&0x6) != 0:
		return armExtraLoadStore
	case (op & 0xC0) == 0x00:
		return armDataProcessing
	case (op & 0xC0) == 0x40:
		if (op&0x20) != 0 && (ext&0x1) != 0 {
			return armUnhandled
		}
		return armSingleDataTransfer
	case (op & 0xE0) == 0x80:
		return armBlockDataTransfer
	case (op & 0xE0) == 0xA0:
		return armBranch
	case (op&0xF0) == 0xE0 && (ext&0x1) == 1:
		return armMCRMRC
	case (op & 0xF0) == 0xF0:
		return armSWI
	default:
		return armUnhandled
	}
}

// executeUnconditionalExtension handles the cond==NV space, used on
// CPU-A for the immediate-offset BLX encoding that switches to THUMB.
func executeUnconditionalExtension(cpu *CPUState, bus Bus, instr uint32) {
	if (instr>>25)&0x7 == 0x5 { // same shape as B/BL but cond==1111
		armBLXImmediate(cpu, bus, instr)
		return
	}
	fatalf("CPU", "%s: unhandled unconditional encoding %#08x", cpu.name, instr)
}

// --- operand-2 decoding shared by data processing ---

// operand2 decodes the DP operand-2 field, returning the value and
// leaving cpu.cout set for the caller's flag setter.
func operand2(cpu *CPUState, instr uint32) uint32 {
	if bit(instr, 25) != 0 {
		imm := instr & 0xFF
		rot := ((instr >> 8) & 0xF) * 2
		if rot == 0 {
			cpu.cout = cpu.cFlag
			return imm
		}
		result := ror32(imm, uint(rot))
		cpu.cout = bit(result, 31) != 0
		return result
	}

	rmIdx := instr & 0xF
	rm := cpu.readReg(rmIdx)
	shiftType := (instr >> 5) & 0x3
	var amount uint
	immediateZero := false
	if bit(instr, 4) != 0 {
		rsIdx := (instr >> 8) & 0xF
		amount = uint(cpu.readReg(rsIdx) & 0xFF)
		if rmIdx == 15 {
			rm = cpu.r[15] + 8
		}
	} else {
		amount = uint((instr >> 7) & 0x1F)
		immediateZero = amount == 0
	}

	switch shiftType {
	case 0:
		return cpu.ShiftLSL(rm, amount)
	case 1:
		return cpu.ShiftLSR(rm, amount, immediateZero)
	case 2:
		return cpu.ShiftASR(rm, amount, immediateZero)
	default:
		return cpu.ShiftROR(rm, amount, immediateZero)
	}
}

// readReg reads r[idx], applying the pipelined-PC convention for r15.
func (c *CPUState) readReg(idx uint32) uint32 {
	if idx == 15 {
		return c.PC()
	}
	return c.r[idx]
}

// writeReg writes r[idx]; writes to PC through this path never flip t
// (only BX/BLX/exception entry/return do), per §3's invariant.
func (c *CPUState) writeReg(idx uint32, v uint32) {
	if idx == 15 {
		c.r[15] = v &^ 3
		return
	}
	c.r[idx] = v
}

const (
	dpAND = 0x0
	dpEOR = 0x1
	dpSUB = 0x2
	dpRSB = 0x3
	dpADD = 0x4
	dpADC = 0x5
	dpSBC = 0x6
	dpRSC = 0x7
	dpTST = 0x8
	dpTEQ = 0x9
	dpCMP = 0xA
	dpCMN = 0xB
	dpORR = 0xC
	dpMOV = 0xD
	dpBIC = 0xE
	dpMVN = 0xF
)

func armDataProcessing(cpu *CPUState, bus Bus, instr uint32) {
	opcode := (instr >> 21) & 0xF
	s := bit(instr, 20) != 0
	rn := (instr >> 16) & 0xF
	rd := (instr >> 12) & 0xF

	op1 := cpu.readReg(rn)
	op2 := operand2(cpu, instr)

	var result uint32
	isLogical := false
	writesResult := true

	switch opcode {
	case dpAND:
		result = op1 & op2
		isLogical = true
	case dpEOR:
		result = op1 ^ op2
		isLogical = true
	case dpSUB:
		result = op1 - op2
	case dpRSB:
		result = op2 - op1
		op1, op2 = op2, op1
	case dpADD:
		result = op1 + op2
	case dpADC:
		result = op1 + op2 + boolToU32(cpu.cFlag)
	case dpSBC:
		result = op1 - op2 - (1 - boolToU32(cpu.cFlag))
	case dpRSC:
		result = op2 - op1 - (1 - boolToU32(cpu.cFlag))
		op1, op2 = op2, op1
	case dpTST:
		result = op1 & op2
		isLogical = true
		writesResult = false
	case dpTEQ:
		result = op1 ^ op2
		isLogical = true
		writesResult = false
	case dpCMP:
		result = op1 - op2
		writesResult = false
	case dpCMN:
		result = op1 + op2
		writesResult = false
	case dpORR:
		result = op1 | op2
		isLogical = true
	case dpMOV:
		result = op2
		isLogical = true
	case dpBIC:
		result = op1 &^ op2
		isLogical = true
	case dpMVN:
		result = ^op2
		isLogical = true
	}

	if writesResult {
		cpu.writeReg(rd, result)
	}

	if s {
		if rd == 15 {
			cpu.RestoreCPSRFromSPSR()
		} else {
			switch {
			case isLogical:
				cpu.SetLogicalFlags(result)
			case opcode == dpSUB || opcode == dpCMP || opcode == dpRSB || opcode == dpSBC || opcode == dpRSC:
				cpu.SetSubtractiveFlags(op1, op2, result)
			default: // ADD, ADC, CMN
				cpu.SetAdditiveFlags(op1, op2, result)
			}
		}
	}
}

// --- branch family ---

func armBranch(cpu *CPUState, bus Bus, instr uint32) {
	link := bit(instr, 24) != 0
	offset := signExtend(instr&0xFFFFFF, 24) << 2
	if link {
		cpu.r[14] = cpu.r[15] - 4
	}
	cpu.r[15] = cpu.r[15] + offset
}

func armBLXImmediate(cpu *CPUState, bus Bus, instr uint32) {
	h := bit(instr, 24)
	offset := signExtend(instr&0xFFFFFF, 24)<<2 | (h << 1)
	cpu.r[14] = cpu.r[15] - 4
	cpu.r[15] = cpu.r[15] + offset
	cpu.t = true
}

func armBX(cpu *CPUState, bus Bus, instr uint32) {
	rm := cpu.r[instr&0xF]
	cpu.t = rm&1 != 0
	cpu.r[15] = rm &^ 1
}

func armBLXReg(cpu *CPUState, bus Bus, instr uint32) {
	rm := cpu.r[instr&0xF]
	cpu.r[14] = cpu.r[15] - 4
	cpu.t = rm&1 != 0
	cpu.r[15] = rm &^ 1
}

// --- single data transfer ---

func armSingleDataTransfer(cpu *CPUState, bus Bus, instr uint32) {
	i := bit(instr, 25) != 0
	p := bit(instr, 24) != 0
	u := bit(instr, 23) != 0
	b := bit(instr, 22) != 0
	w := bit(instr, 21) != 0
	l := bit(instr, 20) != 0
	rn := (instr >> 16) & 0xF
	rd := (instr >> 12) & 0xF

	var offset uint32
	if i {
		offset = operand2ShiftOnly(cpu, instr)
	} else {
		offset = instr & 0xFFF
	}

	base := cpu.readReg(rn)
	var addr uint32
	if u {
		addr = base + offset
	} else {
		addr = base - offset
	}

	effective := base
	if p {
		effective = addr
	}

	if l {
		var v uint32
		if b {
			v = uint32(bus.Read8(effective))
		} else {
			v = bus.Read32(effective &^ 3)
			v = ror32(v, uint(effective&3)*8)
		}
		if rd == 15 {
			if cpu.name == "CPU-A" {
				cpu.t = v&1 != 0
			}
			cpu.r[15] = v &^ 1
		} else {
			cpu.r[rd] = v
		}
	} else {
		v := cpu.readReg(rd)
		if rd == 15 {
			v += 4
		}
		if b {
			bus.Write8(effective, Byte(v))
		} else {
			bus.Write32(effective&^3, v)
		}
	}

	if !p || w {
		cpu.r[rn] = addr
	}
}

// operand2ShiftOnly decodes the shifted-register offset form used by
// single data transfer (register-amount shifts are never used here).
func operand2ShiftOnly(cpu *CPUState, instr uint32) uint32 {
	rm := cpu.r[instr&0xF]
	shiftType := (instr >> 5) & 0x3
	amount := uint((instr >> 7) & 0x1F)
	immediateZero := amount == 0
	switch shiftType {
	case 0:
		return cpu.ShiftLSL(rm, amount)
	case 1:
		return cpu.ShiftLSR(rm, amount, immediateZero)
	case 2:
		return cpu.ShiftASR(rm, amount, immediateZero)
	default:
		return cpu.ShiftROR(rm, amount, immediateZero)
	}
}

// --- extra load/store: halfword, signed byte, signed halfword, doubleword ---

func armExtraLoadStore(cpu *CPUState, bus Bus, instr uint32) {
	p := bit(instr, 24) != 0
	u := bit(instr, 23) != 0
	iForm := bit(instr, 22) != 0
	w := bit(instr, 21) != 0
	l := bit(instr, 20) != 0
	rn := (instr >> 16) & 0xF
	rd := (instr >> 12) & 0xF
	sh := (instr >> 5) & 0x3

	var offset uint32
	if iForm {
		offset = ((instr >> 4) & 0xF0) | (instr & 0xF)
	} else {
		offset = cpu.r[instr&0xF]
	}

	base := cpu.readReg(rn)
	var addr uint32
	if u {
		addr = base + offset
	} else {
		addr = base - offset
	}
	effective := base
	if p {
		effective = addr
	}

	if l {
		var v uint32
		switch sh {
		case 1: // unsigned halfword
			v = uint32(bus.Read16(effective))
		case 2: // signed byte
			v = signExtend(uint32(bus.Read8(effective)), 8)
		case 3: // signed halfword
			v = signExtend(uint32(bus.Read16(effective)), 16)
		}
		cpu.writeReg(rd, v)
	} else if sh == 1 {
		bus.Write16(effective, Half(cpu.readReg(rd)))
	} else if sh == 2 {
		// doubleword load: Rd and Rd+1 from consecutive words
		cpu.r[rd] = bus.Read32(effective)
		cpu.r[rd+1] = bus.Read32(effective + 4)
	} else if sh == 3 {
		bus.Write32(effective, cpu.r[rd])
		bus.Write32(effective+4, cpu.r[rd+1])
	}

	if !p || w {
		cpu.r[rn] = addr
	}
}

// --- block data transfer: LDM/STM ---

func armBlockDataTransfer(cpu *CPUState, bus Bus, instr uint32) {
	p := bit(instr, 24) != 0
	u := bit(instr, 23) != 0
	w := bit(instr, 21) != 0
	l := bit(instr, 20) != 0
	rn := (instr >> 16) & 0xF
	list := instr & 0xFFFF

	count := 0
	for i := 0; i < 16; i++ {
		if bit(list, uint(i)) != 0 {
			count++
		}
	}

	base := cpu.r[rn]
	start := base
	if !u {
		start = base - uint32(count)*4
	}

	addr := start
	if (u && p) || (!u && !p) {
		addr += 4
	}

	for i := 0; i < 16; i++ {
		if bit(list, uint(i)) == 0 {
			continue
		}
		if l {
			v := bus.Read32(addr)
			if i == 15 {
				if cpu.name == "CPU-A" {
					cpu.t = v&1 != 0
				}
				cpu.r[15] = v &^ 1
			} else {
				cpu.r[i] = v
			}
		} else {
			v := cpu.r[i]
			if i == 15 {
				v += 4
			}
			bus.Write32(addr, v)
		}
		addr += 4
	}

	if w {
		if u {
			cpu.r[rn] = base + uint32(count)*4
		} else {
			cpu.r[rn] = base - uint32(count)*4
		}
	}
}

// --- multiply family ---

func armMUL(cpu *CPUState, bus Bus, instr uint32) {
	rd := (instr >> 16) & 0xF
	rn := (instr >> 12) & 0xF
	rs := (instr >> 8) & 0xF
	rm := instr & 0xF
	accumulate := bit(instr, 21) != 0
	s := bit(instr, 20) != 0

	result := cpu.r[rm] * cpu.r[rs]
	if accumulate {
		result += cpu.r[rn]
	}
	cpu.r[rd] = result
	if s {
		cpu.nFlag = result&0x80000000 != 0
		cpu.zFlag = result == 0
	}
}

func armMULL(cpu *CPUState, bus Bus, instr uint32) {
	rdHi := (instr >> 16) & 0xF
	rdLo := (instr >> 12) & 0xF
	rs := (instr >> 8) & 0xF
	rm := instr & 0xF
	unsigned := bit(instr, 22) == 0
	accumulate := bit(instr, 21) != 0
	s := bit(instr, 20) != 0

	var result uint64
	if unsigned {
		result = uint64(cpu.r[rm]) * uint64(cpu.r[rs])
	} else {
		result = uint64(int64(int32(cpu.r[rm])) * int64(int32(cpu.r[rs])))
	}
	if accumulate {
		result += uint64(cpu.r[rdHi])<<32 | uint64(cpu.r[rdLo])
	}
	cpu.r[rdLo] = uint32(result)
	cpu.r[rdHi] = uint32(result >> 32)
	if s {
		cpu.nFlag = result&0x8000000000000000 != 0
		cpu.zFlag = result == 0
	}
}

func armSWP(cpu *CPUState, bus Bus, instr uint32) {
	b := bit(instr, 22) != 0
	rn := (instr >> 16) & 0xF
	rd := (instr >> 12) & 0xF
	rm := instr & 0xF

	addr := cpu.r[rn]
	if b {
		old := bus.Read8(addr)
		bus.Write8(addr, Byte(cpu.r[rm]))
		cpu.r[rd] = uint32(old)
	} else {
		old := bus.Read32(addr)
		bus.Write32(addr, cpu.r[rm])
		cpu.r[rd] = old
	}
}

// --- PSR transfer ---

func armMRS(cpu *CPUState, bus Bus, instr uint32) {
	rd := (instr >> 12) & 0xF
	spsr := bit(instr, 22) != 0
	if spsr {
		cpu.r[rd] = cpu.SPSR()
	} else {
		cpu.r[rd] = cpu.EncodeCPSR()
	}
}

func armMSRReg(cpu *CPUState, bus Bus, instr uint32) {
	rm := instr & 0xF
	mask := (instr >> 16) & 0xF
	spsr := bit(instr, 22) != 0
	value := cpu.r[rm]
	if spsr {
		cpu.SetSPSR(value, mask)
	} else {
		cpu.DecodeCPSR(value, mask)
	}
}

func armMSRImm(cpu *CPUState, bus Bus, instr uint32) {
	imm := instr & 0xFF
	rot := ((instr >> 8) & 0xF) * 2
	value := ror32(imm, uint(rot))
	mask := (instr >> 16) & 0xF
	spsr := bit(instr, 22) != 0
	if spsr {
		cpu.SetSPSR(value, mask)
	} else {
		cpu.DecodeCPSR(value, mask)
	}
}

// --- coprocessor (CPU-A only) ---

func armMCRMRC(cpu *CPUState, bus Bus, instr uint32) {
	if cpu.coproc == nil {
		fatalf("CPU", "%s: MCR/MRC on a core with no coprocessor", cpu.name)
		return
	}
	load := bit(instr, 20) != 0
	crn := (instr >> 16) & 0xF
	rd := (instr >> 12) & 0xF
	opc1 := (instr >> 21) & 0x7
	crm := instr & 0xF
	opc2 := (instr >> 5) & 0x7

	key := (opc1 << 12) | (crn << 8) | (crm << 4) | opc2

	if load {
		cpu.writeReg(rd, cpu.coproc.Get(key))
	} else {
		cpu.coproc.Set(key, cpu.readReg(rd))
	}
}

// --- software interrupt ---

func armSWI(cpu *CPUState, bus Bus, instr uint32) {
	enterException(cpu, ModeSVC, 0x08, false)
}
