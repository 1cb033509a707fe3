// shifter_test.go

package main

import (
	"math/rand"
	"testing"
)

func TestShiftLSLCarryOut(t *testing.T) {
	c := &CPUState{}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		v := rng.Uint32()
		n := uint(1 + rng.Intn(31))
		c.ShiftLSL(v, n)
		want := bit(v, 32-n) != 0
		if c.cout != want {
			t.Fatalf("LSL v=%#x n=%d: cout=%v want=%v", v, n, c.cout, want)
		}
	}
}

func TestShiftLSRCarryOut(t *testing.T) {
	c := &CPUState{}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		v := rng.Uint32()
		n := uint(1 + rng.Intn(31))
		c.ShiftLSR(v, n, false)
		want := bit(v, n-1) != 0
		if c.cout != want {
			t.Fatalf("LSR v=%#x n=%d: cout=%v want=%v", v, n, c.cout, want)
		}
	}
}

func TestShiftASRCarryOut(t *testing.T) {
	c := &CPUState{}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		v := rng.Uint32()
		n := uint(1 + rng.Intn(31))
		c.ShiftASR(v, n, false)
		want := bit(v, n-1) != 0
		if c.cout != want {
			t.Fatalf("ASR v=%#x n=%d: cout=%v want=%v", v, n, c.cout, want)
		}
	}
}

func TestShiftRORRRX(t *testing.T) {
	c := &CPUState{cFlag: true}
	result := c.ShiftROR(0x00000002, 0, true)
	if result != 0x80000001 {
		t.Fatalf("RRX with carry-in=1: got %#x, want %#x", result, 0x80000001)
	}
	if c.cout {
		t.Fatal("RRX of an even value should clear carry-out")
	}
}

func TestAdditiveFlags(t *testing.T) {
	c := &CPUState{}
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		a, b := rng.Uint32(), rng.Uint32()
		result := a + b
		c.SetAdditiveFlags(a, b, result)
		if c.nFlag != (result&0x80000000 != 0) {
			t.Fatalf("N flag wrong for a=%#x b=%#x", a, b)
		}
		if c.zFlag != (result == 0) {
			t.Fatalf("Z flag wrong for a=%#x b=%#x", a, b)
		}
		if c.cFlag != (result < a) {
			t.Fatalf("C flag wrong for a=%#x b=%#x", a, b)
		}
		signA, signB, signR := a&0x80000000, b&0x80000000, result&0x80000000
		wantV := signA == signB && signA != signR
		if c.vFlag != wantV {
			t.Fatalf("V flag wrong for a=%#x b=%#x", a, b)
		}
	}
}

func TestSubtractiveFlags(t *testing.T) {
	c := &CPUState{}
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		a, b := rng.Uint32(), rng.Uint32()
		result := a - b
		c.SetSubtractiveFlags(a, b, result)
		if c.cFlag != (a >= b) {
			t.Fatalf("C flag wrong for a=%#x b=%#x", a, b)
		}
		signA, signB, signR := a&0x80000000, b&0x80000000, result&0x80000000
		wantV := signA != signB && signA != signR
		if c.vFlag != wantV {
			t.Fatalf("V flag wrong for a=%#x b=%#x", a, b)
		}
	}
}

func TestCheckConditionLSAndLE(t *testing.T) {
	cases := []struct {
		c, z, n, v bool
		cond       uint32
		want       bool
	}{
		{c: false, z: false, cond: condLS, want: true},  // !C
		{c: true, z: true, cond: condLS, want: true},    // Z
		{c: true, z: false, cond: condLS, want: false},
		{z: true, cond: condLE, want: true},
		{n: true, v: false, cond: condLE, want: true},
		{n: false, v: false, z: false, cond: condLE, want: false},
	}
	for _, tc := range cases {
		cpu := &CPUState{cFlag: tc.c, zFlag: tc.z, nFlag: tc.n, vFlag: tc.v}
		if got := cpu.CheckCondition(tc.cond); got != tc.want {
			t.Fatalf("cond=%#x c=%v z=%v n=%v v=%v: got %v want %v", tc.cond, tc.c, tc.z, tc.n, tc.v, got, tc.want)
		}
	}
}
