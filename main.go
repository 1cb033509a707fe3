// main.go - command-line front end
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/duocore-vm/duocore/video"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: duocore <bios_a> <bios_b> <firmware> [<game>] [-FASTBOOT]")
}

func main() {
	banner()

	args := os.Args[1:]
	fastBoot := false
	if len(args) > 0 && strings.EqualFold(args[len(args)-1], "-FASTBOOT") {
		fastBoot = true
		args = args[:len(args)-1]
	}

	if len(args) < 3 || len(args) > 4 {
		usage()
		os.Exit(-1)
	}

	biosAPath, biosBPath, firmwarePath := args[0], args[1], args[2]
	gamePath := ""
	if len(args) == 4 {
		gamePath = args[3]
	}

	lf := LoadFirmware(biosAPath, biosBPath, firmwarePath, gamePath)
	if lf.Game != nil {
		defer lf.Game.Close()
	}

	dma := noopDMATrigger{}
	sink := video.NewDefaultSink()
	m := NewMachine(lf.BiosA, lf.BiosB, dma, sink)
	m.LoadKey1Table()
	if lf.Game != nil {
		m.AttachCartridge(lf.Game)
	}

	if fastBoot {
		logf("BOOT", "fast-booting from firmware entry points")
		m.FastBoot(lf.Firmware)
	}

	for {
		m.Step()
	}
}

// banner prints the startup line, with ANSI color only when stdout is
// an interactive terminal.
func banner() {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println("\x1b[1mduocore\x1b[0m — dual-core handheld emulation core")
	} else {
		fmt.Println("duocore - dual-core handheld emulation core")
	}
}
