// div.go - hardware integer divider and square-root unit (C13)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
The divider is a pure combinational MMIO block: every write to NUMER
or DENOM recomputes DIV_RESULT/REM_RESULT/div0 synchronously, matching
the original hardware's "busy" bit being cosmetic at instruction-level
emulation granularity (§6 lists it but no test observes a busy delay).

The square-root unit shares the block's MMIO region and hardware role
but carries none of the divider's special-case machinery: it has no
division-by-zero analogue, so SQRTRESULT is simply recomputed on every
SQRTPARAM write.
*/

package main

const (
	divModeA32 = 0 // 32/32
	divModeA64 = 1 // 64/32
	divModeB64 = 2 // 64/64
)

// MathUnit backs DIVCNT/DIV_NUMER/DIV_DENOM/DIV_RESULT/REM_RESULT and
// the supplemented SQRTCNT/SQRTPARAM/SQRTRESULT registers.
type MathUnit struct {
	mode  uint32
	div0  bool
	numer uint64
	denom uint64
	quot  uint64
	rem   uint64

	sqrtMode64 bool
	sqrtParam  uint64
	sqrtResult uint32
}

func NewMathUnit() *MathUnit { return &MathUnit{} }

func (m *MathUnit) Reset() { *m = MathUnit{} }

func (m *MathUnit) ReadDIVCNT() uint32 {
	v := m.mode & 0x3
	v |= boolToU32(m.div0) << 14
	return v
}

func (m *MathUnit) WriteDIVCNT(v uint32) {
	m.mode = v & 0x3
	m.recomputeDiv()
}

func (m *MathUnit) WriteNumerLo(v uint32) {
	m.numer = (m.numer &^ 0xFFFFFFFF) | uint64(v)
	m.recomputeDiv()
}
func (m *MathUnit) WriteNumerHi(v uint32) {
	m.numer = (m.numer & 0xFFFFFFFF) | uint64(v)<<32
	m.recomputeDiv()
}
func (m *MathUnit) WriteDenomLo(v uint32) {
	m.denom = (m.denom &^ 0xFFFFFFFF) | uint64(v)
	m.recomputeDiv()
}
func (m *MathUnit) WriteDenomHi(v uint32) {
	m.denom = (m.denom & 0xFFFFFFFF) | uint64(v)<<32
	m.recomputeDiv()
}

func (m *MathUnit) ReadNumerLo() uint32 { return uint32(m.numer) }
func (m *MathUnit) ReadNumerHi() uint32 { return uint32(m.numer >> 32) }
func (m *MathUnit) ReadDenomLo() uint32 { return uint32(m.denom) }
func (m *MathUnit) ReadDenomHi() uint32 { return uint32(m.denom >> 32) }
func (m *MathUnit) ReadResultLo() uint32 { return uint32(m.quot) }
func (m *MathUnit) ReadResultHi() uint32 { return uint32(m.quot >> 32) }
func (m *MathUnit) ReadRemLo() uint32    { return uint32(m.rem) }
func (m *MathUnit) ReadRemHi() uint32    { return uint32(m.rem >> 32) }

// recomputeDiv implements §6's division semantics exactly, including
// the divide-by-zero and INT_MIN/-1 overflow special cases.
func (m *MathUnit) recomputeDiv() {
	denomLo := uint32(m.denom)
	denomHi := uint32(m.denom >> 32)
	m.div0 = denomLo == 0 && denomHi == 0

	switch m.mode {
	case divModeA32:
		numer := int32(uint32(m.numer))
		denom := int32(uint32(m.denom))
		if denom == 0 {
			m.rem = uint64(uint32(numer))
			if numer >= 0 {
				m.quot = 0xFFFFFFFF // -1 as a 32-bit word
			} else {
				m.quot = 1
			}
			m.signExtendResult32()
			return
		}
		if numer == -0x80000000 && denom == -1 {
			m.rem = 0
			m.quot = 0x80000000 // INT32_MIN as a 32-bit word
			m.signExtendResult32()
			return
		}
		q := numer / denom
		r := numer % denom
		m.quot = uint64(uint32(q))
		m.rem = uint64(uint32(r))
		m.signExtendResult32()

	case divModeA64:
		numer := int64(m.numer)
		denom := int64(int32(uint32(m.denom)))
		if denom == 0 {
			m.rem = uint64(numer)
			if numer >= 0 {
				m.quot = ^uint64(0)
			} else {
				m.quot = 1
			}
			return
		}
		if numer == -0x8000000000000000 && denom == -1 {
			m.rem = 0
			m.quot = uint64(numer)
			return
		}
		m.quot = uint64(numer / denom)
		m.rem = uint64(numer % denom)

	case divModeB64:
		numer := int64(m.numer)
		denom := int64(m.denom)
		if denom == 0 {
			m.rem = uint64(numer)
			if numer >= 0 {
				m.quot = ^uint64(0)
			} else {
				m.quot = 1
			}
			return
		}
		if numer == -0x8000000000000000 && denom == -1 {
			m.rem = 0
			m.quot = uint64(numer)
			return
		}
		m.quot = uint64(numer / denom)
		m.rem = uint64(numer % denom)
	}
}

// signExtendResult32 sign-extends the 32/32 result into the full 64-bit
// DIV_RESULT register. The 64/32 and 64/64 modes compute a 64-bit
// quotient directly and do not call it.
func (m *MathUnit) signExtendResult32() {
	m.quot = uint64(int64(int32(uint32(m.quot))))
}

func (m *MathUnit) ReadSQRTCNT() uint32 { return boolToU32(m.sqrtMode64) }

func (m *MathUnit) WriteSQRTCNT(v uint32) {
	m.sqrtMode64 = u32ToBool(v & 1)
	m.recomputeSqrt()
}

func (m *MathUnit) WriteSqrtParamLo(v uint32) {
	m.sqrtParam = (m.sqrtParam &^ 0xFFFFFFFF) | uint64(v)
	m.recomputeSqrt()
}
func (m *MathUnit) WriteSqrtParamHi(v uint32) {
	m.sqrtParam = (m.sqrtParam & 0xFFFFFFFF) | uint64(v)<<32
	m.recomputeSqrt()
}
func (m *MathUnit) ReadSqrtParamLo() uint32 { return uint32(m.sqrtParam) }
func (m *MathUnit) ReadSqrtParamHi() uint32 { return uint32(m.sqrtParam >> 32) }
func (m *MathUnit) ReadSqrtResult() uint32  { return m.sqrtResult }

// recomputeSqrt computes an integer square root via binary search,
// operating on the full 64-bit param when SQRTCNT bit 0 is set and on
// the low 32 bits otherwise.
func (m *MathUnit) recomputeSqrt() {
	var n uint64
	if m.sqrtMode64 {
		n = m.sqrtParam
	} else {
		n = uint64(uint32(m.sqrtParam))
	}
	m.sqrtResult = isqrt64(n)
}

func isqrt64(n uint64) uint32 {
	if n == 0 {
		return 0
	}
	var lo, hi uint64 = 0, 0xFFFFFFFF
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if mid <= n/mid {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return uint32(lo)
}
