// exception.go - IRQ and SVC exception entry (§4.6)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

package main

// vectorBase returns the exception vector base address for cpu:
// 0xFFFF0000 on CPU-A (the high-vector BIOS alias), 0 on CPU-B.
func vectorBase(cpu *CPUState) uint32 {
	if cpu.name == "CPU-A" {
		return 0xFFFF0000
	}
	return 0
}

// enterException implements the shared exception-entry sequence: save
// the return address and CPSR, mask IRQs, switch mode, and load the
// vector. isIRQ selects the IRQ-specific lr_next computation; SVC uses
// the address just past the instruction in both states.
func enterException(cpu *CPUState, dest uint32, offset uint32, isIRQ bool) {
	var lrNext uint32
	if isIRQ {
		if cpu.t {
			lrNext = cpu.r[15] - 2 + 2
		} else {
			lrNext = cpu.r[15] - 4 + 4
		}
	} else {
		lrNext = cpu.cpc + uint32(instrSize(cpu))
	}

	savedCPSR := cpu.EncodeCPSR()

	cpu.ChangeMode(dest)
	cpu.banks[privBankIndex[dest]].spsr = savedCPSR
	cpu.r[14] = lrNext

	cpu.t = false
	cpu.i = true

	cpu.r[15] = vectorBase(cpu) | offset
}

func instrSize(cpu *CPUState) uint32 {
	if cpu.t {
		return 2
	}
	return 4
}
