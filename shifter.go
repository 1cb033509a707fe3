// shifter.go - barrel shifter, flag setters, condition-code table
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
Every shifter call writes c.cout so the caller's flag setter can pick
it up afterward; this mirrors the CPU carrying a single carry-out
"register" between the operand-2 path and the result path. The LS/LE
conditions and ROR#0 follow the standard ARM semantics, not the known
buggy originals documented as redesign targets.
*/

package main

const (
	condEQ = 0x0
	condNE = 0x1
	condCS = 0x2
	condCC = 0x3
	condMI = 0x4
	condPL = 0x5
	condVS = 0x6
	condVC = 0x7
	condHI = 0x8
	condLS = 0x9
	condGE = 0xA
	condLT = 0xB
	condGT = 0xC
	condLE = 0xD
	condAL = 0xE
	condNV = 0xF
)

// CheckCondition evaluates the 4-bit ARM condition field against the
// CPU's current flags.
func (c *CPUState) CheckCondition(cond uint32) bool {
	n, z, cf, v := c.nFlag, c.zFlag, c.cFlag, c.vFlag
	switch cond {
	case condEQ:
		return z
	case condNE:
		return !z
	case condCS:
		return cf
	case condCC:
		return !cf
	case condMI:
		return n
	case condPL:
		return !n
	case condVS:
		return v
	case condVC:
		return !v
	case condHI:
		return cf && !z
	case condLS:
		return !cf || z
	case condGE:
		return n == v
	case condLT:
		return n != v
	case condGT:
		return (n == v) && !z
	case condLE:
		return z || (n != v)
	case condAL:
		return true
	default: // condNV
		return true
	}
}

// ShiftLSL performs a logical shift left by amount, updating cout.
// amount==0 leaves the value and carry untouched (LSL#0 passthrough):
// cout takes the current C flag.
func (c *CPUState) ShiftLSL(value uint32, amount uint) uint32 {
	if amount == 0 {
		c.cout = c.cFlag
		return value
	}
	if amount < 32 {
		c.cout = bit(value, 32-amount) != 0
		return value << amount
	}
	if amount == 32 {
		c.cout = value&1 != 0
		return 0
	}
	c.cout = false
	return 0
}

// ShiftLSR performs a logical shift right. In the immediate encoding a
// literal #0 amount means "shift by 32": the caller sets isImmediateZero
// and the amount becomes 32 here; register-form amount==0 leaves the
// value and carry untouched.
func (c *CPUState) ShiftLSR(value uint32, amount uint, isImmediateZero bool) uint32 {
	if isImmediateZero {
		amount = 32
	}
	if amount == 0 {
		c.cout = c.cFlag
		return value
	}
	if amount < 32 {
		c.cout = bit(value, amount-1) != 0
		return value >> amount
	}
	if amount == 32 {
		c.cout = bit(value, 31) != 0
		return 0
	}
	c.cout = false
	return 0
}

// ShiftASR performs an arithmetic shift right, same #0-means-32 rule
// as LSR for the immediate encoding.
func (c *CPUState) ShiftASR(value uint32, amount uint, isImmediateZero bool) uint32 {
	if isImmediateZero {
		amount = 32
	}
	if amount == 0 {
		c.cout = c.cFlag
		return value
	}
	signed := int32(value)
	if amount >= 32 {
		c.cout = bit(value, 31) != 0
		if value&0x80000000 != 0 {
			return 0xFFFFFFFF
		}
		return 0
	}
	c.cout = bit(value, amount-1) != 0
	return uint32(signed >> amount)
}

// ShiftROR performs a rotate right. The immediate #0 encoding means
// RRX (rotate right extended through the carry flag), the standard
// semantics rather than the logical-or bug documented as a known
// source defect.
func (c *CPUState) ShiftROR(value uint32, amount uint, isImmediateZero bool) uint32 {
	if isImmediateZero {
		oldCarry := boolToU32(c.cFlag)
		c.cout = value&1 != 0
		return (value >> 1) | (oldCarry << 31)
	}
	if amount == 0 {
		c.cout = c.cFlag
		return value
	}
	amount &= 31
	if amount == 0 {
		c.cout = bit(value, 31) != 0
		return value
	}
	c.cout = bit(value, amount-1) != 0
	return ror32(value, amount)
}

// SetLogicalFlags applies the bit-logical flag-setter contract: N, Z
// from result, C from cout, V untouched.
func (c *CPUState) SetLogicalFlags(result uint32) {
	c.nFlag = result&0x80000000 != 0
	c.zFlag = result == 0
	c.cFlag = c.cout
}

// SetAdditiveFlags applies the additive flag-setter contract for a + b == result.
func (c *CPUState) SetAdditiveFlags(a, b, result uint32) {
	c.nFlag = result&0x80000000 != 0
	c.zFlag = result == 0
	c.cFlag = result < a
	signA := a & 0x80000000
	signB := b & 0x80000000
	signR := result & 0x80000000
	c.vFlag = signA == signB && signA != signR
}

// SetSubtractiveFlags applies the subtractive flag-setter contract for a - b == result.
func (c *CPUState) SetSubtractiveFlags(a, b, result uint32) {
	c.nFlag = result&0x80000000 != 0
	c.zFlag = result == 0
	c.cFlag = a >= b
	signA := a & 0x80000000
	signB := b & 0x80000000
	signR := result & 0x80000000
	c.vFlag = signA != signB && signA != signR
}
