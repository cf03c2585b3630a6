package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"osprey/internal/options"
	"osprey/internal/parser"
	"osprey/internal/search"
)

const (
	program = "osprey"
	version = "0.9.0"
)

func main() {
	commonlog.Configure(0, nil)

	args := os.Args[1:]
	forking := false
	if len(args) > 0 && args[0] == "-fork" {
		forking = true
		args = args[1:]
	}

	var source []byte
	var path string
	var err error
	switch {
	case len(args) >= 1:
		path = args[0]
		source, err = os.ReadFile(path)
		if err != nil {
			color.Red("Failed to read input: %s", err)
			os.Exit(search.ExitFatal)
		}
	default:
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			color.Red("Failed to read stdin: %s", err)
			os.Exit(search.ExitFatal)
		}
	}

	child := search.IsWireChild()
	if !child {
		printBanner()
	}

	opts := options.NewStore()
	p, err := parser.NewParser(string(source))
	if err != nil {
		reportInputError(string(source), err)
		os.Exit(search.ExitFatal)
	}
	astIn, err := p.ParseInput()
	if err != nil {
		reportInputError(string(source), err)
		os.Exit(search.ExitFatal)
	}

	in, warns := search.Assemble(astIn, opts)
	if warns != nil {
		for _, w := range warns.Errors {
			fmt.Fprintf(os.Stderr, "%% WARNING: %v\a\n", w)
		}
	}

	if !child && opts.Flag("echo_input") && !opts.Flag("quiet") {
		fmt.Println("% Input echo:")
		fmt.Println(string(source))
		fmt.Println("% End of input.")
	}

	if forking && !child {
		if path == "" {
			color.Red("forking search needs a file argument")
			os.Exit(search.ExitFatal)
		}
		res, err := search.ForkingSearch(path)
		if err != nil {
			color.Red("%s", err)
			os.Exit(search.ExitFatal)
		}
		// The child ran quiet; the parent prints the relinked proofs.
		for i, p := range res.Proofs {
			color.Green("============================== PROOF =================================")
			fmt.Printf("%% Proof %d, length %d, max weight %0.3f.\n", i+1, p.Length, p.MaxWeight)
			for _, c := range p.Clauses {
				fmt.Printf("%d %s.  %s\n", c.ID, c, c.Just)
			}
			color.Green("============================== end of proof ==========================")
		}
		finish(res)
	}

	search.InstallSignalHandlers()
	st := search.NewState(in)
	if child {
		search.RunChild(st) // does not return
	}

	res := st.Search()
	st.PrintStats(os.Stdout)
	finish(res)
}

// finish prints the termination banner and exits with the search code.
func finish(res *search.Results) {
	if res.ExitCode == search.ExitMaxProofs && len(res.Proofs) > 0 {
		color.Green("THEOREM PROVED")
	}
	if res.ExitCode == search.ExitSosEmpty {
		color.Yellow("SEARCH FAILED")
	}
	fmt.Printf("Process %d exit (%s) %s.\n",
		os.Getpid(), search.ExitString(res.ExitCode), time.Now().Format(time.ANSIC))
	os.Exit(res.ExitCode)
}

func printBanner() {
	host, _ := os.Hostname()
	name := "unknown"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	fmt.Println("============================== " + program + " ===============================")
	fmt.Printf("%s (%s), version %s.\n", program, "saturation prover", version)
	fmt.Printf("Process %d was started by %s on %s, %s.\n",
		os.Getpid(), name, host, time.Now().Format(time.ANSIC))
	fmt.Println("============================== end of head ===========================")
}

// reportInputError prints a friendly caret-style message for scan or parse
// errors that carry a position.
func reportInputError(src string, err error) {
	color.Red("Input error: %s", err)
	var line, col int
	if n, _ := fmt.Sscanf(err.Error(), "%d:%d:", &line, &col); n == 2 {
		lines := splitLines(src)
		if line >= 1 && line <= len(lines) {
			fmt.Println(lines[line-1])
			for i := 1; i < col; i++ {
				fmt.Print(" ")
			}
			color.HiRed("^")
		}
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
