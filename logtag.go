// logtag.go - ambient logging and the two-tier error taxonomy of the core
//
// (c) 2024 - 2026 Duocore contributors
// License: GPLv3 or later

package main

import (
	"log"
	"os"
)

func init() {
	log.SetFlags(0)
}

// logf emits a bracketed subsystem trace line, matching the
// "[SUBSYS    ] message" shape used throughout the hardware this core
// emulates and the teacher's own Printf-based tracing.
func logf(subsys, format string, args ...any) {
	log.Printf("[%-10s] "+format, append([]any{subsys}, args...)...)
}

// fatalf reports an unrecoverable condition and terminates the process.
// Per §7, unimplemented encodings, bus errors on unknown addresses, and
// cartridge I/O failures are all fatal in this core; there is no
// exception plumbing to unwind through.
func fatalf(subsys, format string, args ...any) {
	log.Printf("[%-10s] FATAL: "+format, append([]any{subsys}, args...)...)
	os.Exit(1)
}

// configError reports a startup configuration problem (missing or
// malformed firmware, bad CLI usage) and exits non-zero, per §7's
// "Configuration errors" tier and §6's exit-code contract.
func configError(format string, args ...any) {
	log.Printf("duocore: "+format, args...)
	os.Exit(1)
}
