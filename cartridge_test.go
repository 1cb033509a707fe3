// cartridge_test.go

package main

import (
	"bytes"
	"testing"
)

type testDMATrigger struct{ notified []int }

func (d *testDMATrigger) NotifyCartSlot(owner int) { d.notified = append(d.notified, owner) }
func (d *testDMATrigger) NotifyFIFO(owner int)     {}

// TestCartridgeKey2GetData covers the end-to-end KEY2 get-data scenario:
// issue a B7 read-data command while in KEY2 mode, let the scheduler
// advance past the data-ready delay, and read the bytes back out.
func TestCartridgeKey2GetData(t *testing.T) {
	sched := NewScheduler()
	intcA := NewInterruptController("CPU-A")
	intcB := NewInterruptController("CPU-B")
	dma := &testDMATrigger{}
	c := NewCartridge(sched, intcA, intcB, dma)

	image := bytes.Repeat([]byte{0}, 0x1000)
	copy(image[0x100:], []byte{0xDE, 0xAD, 0xBE, 0xEF})
	c.AttachImage(bytes.NewReader(image))

	c.keyMode = keyModeKey2
	c.romcmd = uint64(0xB7)<<56 | uint64(0x100)<<24

	c.WriteROMCTRL(1<<31|0<<24, 0) // bsize=0 selects argLen=0... use bsize that yields 4 bytes

	// bsize=0 yields argLen=0 per doStartCommand; drive a real 4-byte
	// transfer with bsize=7 (the documented "4 bytes" special case).
	c.WriteROMCTRL(1<<31|7<<24, 0)

	if !c.romctrlBusy {
		t.Fatal("ROMCTRL busy bit should be set once a command starts")
	}

	sched.Advance(32)

	if !c.romctrlDRQ {
		t.Fatal("DRQ should be asserted once the data-ready event fires")
	}

	v := c.ReadROMData()
	if v != 0xEFBEADDE {
		t.Fatalf("ReadROMData = %#x, want %#x (little-endian DE AD BE EF)", v, uint32(0xEFBEADDE))
	}
	if c.romctrlBusy {
		t.Fatal("ROMCTRL busy bit should clear once the 4-byte transfer completes")
	}
	if intcA.ReadIF()&(1<<IRQNDSSlotDone) == 0 {
		t.Fatal("NDSSlotDone should fire on the owning CPU once the transfer completes")
	}
}

// TestCartridgeKey1UnlocksKey2 covers the KEY1-to-KEY2 mode transition
// driven entirely by the documented 0x3C/0xA command sequence.
func TestCartridgeKey1UnlocksKey2(t *testing.T) {
	sched := NewScheduler()
	intcA := NewInterruptController("CPU-A")
	intcB := NewInterruptController("CPU-B")
	c := NewCartridge(sched, intcA, intcB, &testDMATrigger{})

	c.romcmd = uint64(0x3C) << 56
	c.WriteROMCTRL(1<<31|0<<24, 0)

	if c.keyMode != keyModeKey1 {
		t.Fatalf("keyMode after 0x3C = %d, want keyModeKey1", c.keyMode)
	}

	encoded := encryptKey1ForTest(c.key1Table[:], 0xA000000000000000)
	c.romcmd = encoded
	c.WriteROMCTRL(1<<31|0<<24, 0)

	if c.keyMode != keyModeKey2 {
		t.Fatalf("keyMode after KEY1 0xA command = %d, want keyModeKey2", c.keyMode)
	}
}

// encryptKey1ForTest inverts decryptKey1's Feistel network far enough to
// produce a command that decodes to the desired top nibble: since every
// table entry here is zero, the network degenerates to the identity on
// its top bits, so the plain command value round-trips.
func encryptKey1ForTest(table []uint32, plain uint64) uint64 {
	return plain
}
