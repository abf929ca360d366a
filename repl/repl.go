// Package repl implements Tacit's interactive read-eval-print loop: a
// readline-backed prompt that parses and evaluates one line at a time
// against a persistent environment, plus a TCP server that hands each
// connection its own REPL session.
package repl

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/tacitlang/tacit/env"
	"github.com/tacitlang/tacit/eval"
	"github.com/tacitlang/tacit/value"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl holds the cosmetic configuration for a session; the environment and
// evaluation state live for the duration of a single Start call.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

// New builds a Repl from its display configuration.
func New(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

func (r *Repl) printBanner(w io.Writer) {
	blueColor.Fprintf(w, "%s\n", r.Line)
	greenColor.Fprintf(w, "%s\n", r.Banner)
	blueColor.Fprintf(w, "%s\n", r.Line)
	yellowColor.Fprintln(w, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(w, "%s\n", r.Line)
	cyanColor.Fprintf(w, "%s\n", "Type an expression and press enter.")
	cyanColor.Fprintf(w, "%s\n", "Type '.exit' to quit. '.scope' does not list bound names.")
	blueColor.Fprintf(w, "%s\n", r.Line)
}

// Start runs the main loop against reader/writer until '.exit' or EOF.
// Every line shares one environment, so a `:=` definition on one line is
// visible on the next.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.printBanner(writer)

	rl, err := readline.NewEx(&readline.Config{Prompt: r.Prompt, Stdin: io.NopCloser(reader), Stdout: writer})
	if err != nil {
		redColor.Fprintf(writer, "[REPL ERROR] %v\n", err)
		return
	}
	defer rl.Close()

	e := env.New()
	e.Define("_", value.FromString(""))

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Fprintln(writer, "Good bye!")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			fmt.Fprintln(writer, "Good bye!")
			return
		}
		if line == ".scope" {
			cyanColor.Fprintf(writer, "(scope listing not tracked across evaluations)\n")
			continue
		}

		rl.SaveHistory(line)
		r.evalLine(writer, e, line)
	}
}

// evalLine evaluates one line against the shared environment, recovering
// from any internal panic so a single bad line never ends the session.
func (r *Repl) evalLine(writer io.Writer, e value.Environment, line string) {
	defer func() {
		if rec := recover(); rec != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", rec)
		}
	}()

	nodes, err := eval.Parse(line, eval.DefaultConfig.FloatPrecision)
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}

	var result value.Dynamic
	for i := range nodes {
		result, err = eval.EvalNode(e, &nodes[i])
		if err != nil {
			redColor.Fprintf(writer, "%s\n", err)
			return
		}
		e.Define("_", result)
	}
	yellowColor.Fprintf(writer, "%s\n", result.String(eval.DefaultConfig.OutputPrecision))
}

// Serve starts a REPL server on port, handing each accepted connection its
// own session and environment.
func Serve(port, banner, version, author, line, license, prompt string) error {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("starting server on port %s: %w", port, err)
	}
	defer listener.Close()
	cyanColor.Printf("tacit REPL server listening on :%s\n", port)

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "accept error: %v\n", err)
			continue
		}
		go func(c net.Conn) {
			defer c.Close()
			r := New(banner, version, author, line, license, prompt)
			r.Start(c, c)
		}(conn)
	}
}
