// Package fatal implements the prover's single fatal-error path and its
// error kinds. A fatal error prints to both stdout and stderr (so it appears
// in redirected output files as well as on the terminal) and exits with
// code 1. Simplification and inference code never recovers from one.
package fatal

import (
	"fmt"
	"os"

	"gopkg.in/src-d/go-errors.v1"
)

// Error kinds. Resource limits are not errors; they unwind from the search
// loop with their own exit codes.
var (
	ErrOptionRange         = errors.NewKind("option %s: value %v out of range [%v, %v]")
	ErrOptionUnknown       = errors.NewKind("option %s not recognized")
	ErrIndexCorrupt        = errors.NewKind("index corrupt: %s")
	ErrNonterminatingDemod = errors.NewKind("demodulator %s does not satisfy the variable-subset condition")
	ErrSymbolTable         = errors.NewKind("symbol table: %s")
	ErrWireShort           = errors.NewKind("short %s on child pipe")
	ErrBackSubsumeLimbo    = errors.NewKind("back subsumption hit a limbo clause (id %d)")
	ErrTooManyVars         = errors.NewKind("clause has more than %d variables")
)

// exit is swapped out by tests.
var exit = os.Exit

// Fatal reports a fatal error and exits with code 1.
func Fatal(err error) {
	msg := "Fatal error: " + err.Error()
	fmt.Fprintln(os.Stdout, msg)
	fmt.Fprintln(os.Stderr, msg)
	exit(1)
}

// Fatalf is Fatal with formatting.
func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
