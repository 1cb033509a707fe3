// firmware.go - startup blob loading (C12)
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

/*
Every blob this core needs at startup is read once, concurrently, via
errgroup.Group: bios_a and bios_b have exact-size contracts (§6) that
fail fast with a diagnostic naming the offending path, while the
system firmware and the optional cartridge image are read without a
size check. File I/O mechanics themselves are an external collaborator
per §1; this loader only validates and hands back buffers.
*/

package main

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

const (
	biosASize = 16384
	biosBSize = 4096
)

// LoadedFirmware holds every blob the boot path needs.
type LoadedFirmware struct {
	BiosA    []byte
	BiosB    []byte
	Firmware []byte
	Game     *os.File // nil if no cartridge was given
}

// LoadFirmware reads biosAPath/biosBPath/firmwarePath concurrently and
// opens gamePath (if non-empty) alongside them, exiting via
// configError on any failure.
func LoadFirmware(biosAPath, biosBPath, firmwarePath, gamePath string) *LoadedFirmware {
	lf := &LoadedFirmware{}

	var g errgroup.Group
	g.Go(func() error {
		b, err := readExact(biosAPath, biosASize)
		if err != nil {
			return err
		}
		lf.BiosA = b
		return nil
	})
	g.Go(func() error {
		b, err := readExact(biosBPath, biosBSize)
		if err != nil {
			return err
		}
		lf.BiosB = b
		return nil
	})
	g.Go(func() error {
		b, err := os.ReadFile(firmwarePath)
		if err != nil {
			return err
		}
		if len(b) == 0 {
			return fmt.Errorf("%s: firmware blob is empty", firmwarePath)
		}
		lf.Firmware = b
		return nil
	})
	if gamePath != "" {
		g.Go(func() error {
			f, err := os.Open(gamePath)
			if err != nil {
				return err
			}
			lf.Game = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		configError("%v", err)
	}
	return lf
}

func readExact(path string, want int) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(b) != want {
		return nil, fmt.Errorf("%s: expected %d bytes, got %d", path, want, len(b))
	}
	return b, nil
}
