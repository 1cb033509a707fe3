// div_test.go

package main

import "testing"

func TestDivByZero32(t *testing.T) {
	m := NewMathUnit()
	m.WriteDIVCNT(divModeA32)
	m.WriteNumerLo(7)
	m.WriteDenomLo(0)

	if !u32ToBool(m.ReadDIVCNT() >> 14 & 1) {
		t.Fatal("div0 flag not set for denom=0")
	}
	if got := int32(m.ReadResultLo()); got != -1 {
		t.Fatalf("quotient for positive numer / 0 = %d, want -1", got)
	}
	if got := m.ReadRemLo(); got != 7 {
		t.Fatalf("remainder for numer / 0 = %d, want 7", got)
	}
}

func TestDivByZeroNegativeNumer32(t *testing.T) {
	m := NewMathUnit()
	m.WriteDIVCNT(divModeA32)
	m.WriteNumerLo(0xFFFFFFF9) // -7
	m.WriteDenomLo(0)

	if got := int32(m.ReadResultLo()); got != 1 {
		t.Fatalf("quotient for negative numer / 0 = %d, want 1", got)
	}
}

func TestDivSignedOverflow32(t *testing.T) {
	m := NewMathUnit()
	m.WriteDIVCNT(divModeA32)
	m.WriteNumerLo(0x80000000) // INT32_MIN
	m.WriteDenomLo(0xFFFFFFFF) // -1

	if got := m.ReadResultLo(); got != 0x80000000 {
		t.Fatalf("INT_MIN / -1 quotient = %#x, want %#x", got, 0x80000000)
	}
	if got := m.ReadRemLo(); got != 0 {
		t.Fatalf("INT_MIN / -1 remainder = %d, want 0", got)
	}
}

func TestDivSignedOverflow64(t *testing.T) {
	m := NewMathUnit()
	m.WriteDIVCNT(divModeB64)
	m.WriteNumerLo(0)
	m.WriteNumerHi(0x80000000) // INT64_MIN
	m.WriteDenomLo(0xFFFFFFFF) // -1 (low word)
	m.WriteDenomHi(0xFFFFFFFF) // -1 (high word)

	quot := uint64(m.ReadResultLo()) | uint64(m.ReadResultHi())<<32
	if quot != 0x8000000000000000 {
		t.Fatalf("INT64_MIN / -1 quotient = %#x, want %#x", quot, uint64(0x8000000000000000))
	}
}

func TestDivNormal32(t *testing.T) {
	m := NewMathUnit()
	m.WriteDIVCNT(divModeA32)
	m.WriteNumerLo(17)
	m.WriteDenomLo(5)

	if got := int32(m.ReadResultLo()); got != 3 {
		t.Fatalf("17/5 quotient = %d, want 3", got)
	}
	if got := int32(m.ReadRemLo()); got != 2 {
		t.Fatalf("17/5 remainder = %d, want 2", got)
	}
}

func TestSqrt32(t *testing.T) {
	m := NewMathUnit()
	m.WriteSQRTCNT(0)
	m.WriteSqrtParamLo(144)

	if got := m.ReadSqrtResult(); got != 12 {
		t.Fatalf("sqrt(144) = %d, want 12", got)
	}
}

func TestSqrt64(t *testing.T) {
	m := NewMathUnit()
	m.WriteSQRTCNT(1)
	m.WriteSqrtParamLo(0)
	m.WriteSqrtParamHi(1) // param = 1<<32

	want := uint32(65536)
	if got := m.ReadSqrtResult(); got != want {
		t.Fatalf("sqrt(1<<32) = %d, want %d", got, want)
	}
}
