// spi.go - cartridge AUXSPI and the general SPI bus boundary (C15)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
AUXSPICNT is held as a plain read/write register whose chip-select bit
drives an attached device; the cartridge engine does not consult it, so
it does not gate ROMCTRL command start. The general SPI bus (firmware flash, touchscreen, power controller)
is out of scope per the purpose statement's external-collaborator list
and is exposed only as a narrow SPIDevice a caller may attach.
*/

package main

// SPIDevice is the narrow boundary a firmware-flash, touchscreen, or
// power-controller stand-in implements. The core never interprets the
// byte stream itself beyond driving chip-select and clocking bytes.
type SPIDevice interface {
	// Transfer clocks one byte out and returns the byte clocked back.
	Transfer(out Byte) Byte
	// Select asserts or releases chip-select.
	Select(active bool)
}

// AUXSPI implements the cartridge-side auxiliary SPI controller
// (AUXSPICNT, 0x040001A0), and hosts an optional general-purpose SPI
// device on the shared SPI bus. ROMCTRL command start does not depend on
// AUXSPICNT.
type AUXSPI struct {
	cnt    uint16
	device SPIDevice
}

func NewAUXSPI() *AUXSPI { return &AUXSPI{} }

func (s *AUXSPI) Reset() { s.cnt = 0 }

// AttachDevice wires a concrete SPI responder; nil detaches it, and
// WriteData then returns 0.
func (s *AUXSPI) AttachDevice(d SPIDevice) { s.device = d }

func (s *AUXSPI) ReadCNT() uint16 { return s.cnt }

func (s *AUXSPI) WriteCNT(v uint16) {
	wasSelected := u32ToBool(bit(uint32(s.cnt), 6))
	s.cnt = v
	nowSelected := u32ToBool(bit(uint32(s.cnt), 6))
	if s.device != nil && wasSelected != nowSelected {
		s.device.Select(nowSelected)
	}
}

// Busy reports the cartridge-side SPI busy flag, bit 7 of AUXSPICNT.
func (s *AUXSPI) Busy() bool { return u32ToBool(bit(uint32(s.cnt), 7)) }

// WriteData clocks a byte through the attached device, if any.
func (s *AUXSPI) WriteData(v Byte) Byte {
	if s.device == nil {
		return 0
	}
	return s.device.Transfer(v)
}

// firmwareFlashStub is a read-only JEDEC-style responder that answers
// the single read-array command the boot path needs, returning bytes
// straight out of the loaded firmware blob. It does not model status
// register reads, page program, or erase.
type firmwareFlashStub struct {
	blob    []byte
	addr    uint32
	phase   int
	selectd bool
}

func newFirmwareFlashStub(blob []byte) *firmwareFlashStub {
	return &firmwareFlashStub{blob: blob}
}

func (f *firmwareFlashStub) Select(active bool) {
	f.selectd = active
	if active {
		f.phase = 0
		f.addr = 0
	}
}

// Transfer implements the firmware flash's 0x03 "read data bytes"
// command: one opcode byte, three address bytes, then a stream of data
// bytes clocked out one per transfer.
func (f *firmwareFlashStub) Transfer(out Byte) Byte {
	switch {
	case f.phase == 0:
		f.phase++
		return 0
	case f.phase >= 1 && f.phase <= 3:
		f.addr = (f.addr << 8) | uint32(out)
		f.phase++
		return 0
	default:
		if int(f.addr) >= len(f.blob) {
			return 0
		}
		b := f.blob[f.addr]
		f.addr++
		return b
	}
}
