// thumb_test.go

package main

import "testing"

// TestThumbPushPopIdentity covers invariant 7: POP following PUSH with
// the same register list restores every register and leaves SP exactly
// where it started.
func TestThumbPushPopIdentity(t *testing.T) {
	p := newTestPeripherals()
	bus := NewBusA(p)
	cpu := NewCPUState("CPU-A", bus, p.coproc)
	cpu.t = true

	cpu.r[13] = mainRAMBase + 0x1000
	startSP := cpu.r[13]
	for i := 0; i < 8; i++ {
		cpu.r[i] = uint32(0x1000 + i)
	}
	cpu.r[14] = 0xABCDEF01

	const rlist = 0xFF // r0-r7
	pushInstr := uint16(0xB400 | 1<<8 | rlist) // PUSH {r0-r7, lr}
	thumbPushPop(cpu, bus, pushInstr)

	if cpu.r[13] != startSP-9*4 {
		t.Fatalf("SP after PUSH = %#x, want %#x", cpu.r[13], startSP-9*4)
	}

	for i := 0; i < 8; i++ {
		cpu.r[i] = 0
	}
	cpu.r[14] = 0

	popInstr := uint16(0xBC00 | 1<<8 | rlist) // POP {r0-r7, pc}
	thumbPushPop(cpu, bus, popInstr)

	if cpu.r[13] != startSP {
		t.Fatalf("SP after POP = %#x, want %#x", cpu.r[13], startSP)
	}
	for i := 0; i < 8; i++ {
		if cpu.r[i] != uint32(0x1000+i) {
			t.Fatalf("r%d after POP = %#x, want %#x", i, cpu.r[i], uint32(0x1000+i))
		}
	}
	if cpu.r[15] != 0xABCDEF00 {
		t.Fatalf("PC after POP {pc} = %#x, want %#x (LR with bit0 cleared)", cpu.r[15], uint32(0xABCDEF00))
	}
	if !cpu.t {
		t.Fatal("POP {pc} should keep THUMB state set since the popped LR had bit0 set")
	}
}
