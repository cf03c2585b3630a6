// Package repl provides a small interactive front end: directives and
// clauses are typed line by line, and `go.` launches a search over the
// accumulated input. It is a development convenience, not part of the
// batch interface.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"osprey/internal/options"
	"osprey/internal/parser"
	"osprey/internal/search"
)

const prompt = ">> "

// Start runs the read-eval loop until EOF.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	fmt.Fprintln(out, "osprey interactive mode; end input with `go.`")
	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "go." {
			run(buf.String(), out)
			buf.Reset()
		} else if line != "" {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
		fmt.Fprint(out, prompt)
	}
}

func run(source string, out io.Writer) {
	p, err := parser.NewParser(source)
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	astIn, err := p.ParseInput()
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	in, _ := search.Assemble(astIn, options.NewStore())
	st := search.NewState(in)
	st.Out = out
	res := st.Search()
	fmt.Fprintf(out, "%% search ended: %s, %d proof(s), given=%d kept=%d\n",
		search.ExitString(res.ExitCode), len(res.Proofs), res.Stats.Given, res.Stats.Kept)
}
