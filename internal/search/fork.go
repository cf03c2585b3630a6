package search

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"osprey/internal/term"
)

// Forking search: the search runs in a child process of the same executable
// and streams its results back over the wire format. The parent survives a
// crashed or memory-hungry search; nothing is parallelised.

// ChildEnvVar marks the child process; main switches on it.
const ChildEnvVar = "OSPREY_WIRE_CHILD"

// IsWireChild reports whether this process is a forked search child.
func IsWireChild() bool { return os.Getenv(ChildEnvVar) == "1" }

// ForkingSearch re-executes the current binary on the input file, reads the
// child's wire stream, and reconstructs the results. New symbols the child
// interned are replayed into this process's symbol table.
func ForkingSearch(inputPath string) (*Results, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("forking_search: %w", err)
	}

	term.Mark()

	cmd := exec.Command(exe, inputPath)
	cmd.Env = append(os.Environ(), ChildEnvVar+"=1")
	cmd.Stderr = os.Stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("forking_search: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("forking_search: %w", err)
	}

	res, _, _ := ReadResults(out)

	// The wire carries the exit code; the process status only backs it up.
	if err := cmd.Wait(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, fmt.Errorf("forking_search: %w", err)
		}
	}
	return res, nil
}

// RunChild executes a search in wire-child mode: quiet, results streamed to
// stdout, and the process exits with the search's code.
func RunChild(s *State) {
	term.Mark()
	s.Opts.Set("quiet")
	s.Opts.Assign("stats", "none")
	start := time.Now()

	res := s.Search()

	var ru syscall.Rusage
	userMs, sysMs := int32(time.Since(start).Milliseconds()), int32(0)
	if syscall.Getrusage(syscall.RUSAGE_SELF, &ru) == nil {
		userMs = int32(ru.Utime.Sec*1000) + int32(ru.Utime.Usec/1000)
		sysMs = int32(ru.Stime.Sec*1000) + int32(ru.Stime.Usec/1000)
	}

	if err := WriteResults(os.Stdout, term.SinceMark(), res, userMs, sysMs); err != nil {
		fmt.Fprintln(os.Stderr, "wire write:", err)
		os.Exit(ExitFatal)
	}
	os.Exit(res.ExitCode)
}
