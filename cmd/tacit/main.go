// Command tacit is the Tacit interpreter's command-line front end: a
// cobra root command that reads a source file, applies the program-wrapping
// and result-postprocessing flags spec.md §6 names, and prints the final
// value.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tacitlang/tacit/compress"
	"github.com/tacitlang/tacit/eval"
	"github.com/tacitlang/tacit/lexer"
	"github.com/tacitlang/tacit/repl"
)

var (
	redColor   = color.New(color.FgRed)
	cyanColor  = color.New(color.FgCyan)
	yellowColor = color.New(color.FgYellow)
)

type cliFlags struct {
	precision  uint
	oprecision uint
	stack      uint
	userInput  string
	compress   bool
	cgans      bool
	debug      bool

	wrapArray   bool // -a  [PROG]
	wrapBlock   bool // -m  {PROG}\
	wrapFlatten bool // -F  (PROG):_
	wrapIndex   bool // -I  (PROG):i

	first    bool // -f
	last     bool // -l
	nth      bool // -i
	length   bool // -s
	sum      bool // -x
	negate   bool // -!
	rangeN   bool // -r
	rangeTen bool // -d
	rangeHun bool // -h
	rangeExc bool // -R
}

func main() {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:   "tacit [source-file]",
		Short: "Tacit is a compact expression-oriented scripting language interpreter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, flags)
		},
	}

	root.Flags().UintVarP(&flags.precision, "precision", "p", 50, "internal float precision")
	root.Flags().UintVarP(&flags.oprecision, "oprecision", "o", 4, "output precision")
	root.Flags().UintVar(&flags.stack, "stack", 2, "parser stack size in MiB")
	root.Flags().StringVarP(&flags.userInput, "user-input", "u", "", "override standard input")
	root.Flags().BoolVarP(&flags.compress, "compress", "c", false, "print the compressed form of the input and exit")
	root.Flags().BoolVar(&flags.cgans, "cgans", false, "emit a markdown answer template, then exit")
	root.Flags().BoolVar(&flags.debug, "debug", false, "dump lexed and AST forms before evaluating")

	root.Flags().BoolVarP(&flags.wrapArray, "array", "a", false, "wrap the program as [PROG]")
	root.Flags().BoolVarP(&flags.wrapBlock, "map", "m", false, `wrap the program as {PROG}\`)
	root.Flags().BoolVarP(&flags.wrapFlatten, "flatten", "F", false, "wrap the program as (PROG):_")
	root.Flags().BoolVarP(&flags.wrapIndex, "index", "I", false, "wrap the program as (PROG):i")

	root.Flags().BoolVarP(&flags.first, "first", "f", false, "keep only the first element of the result")
	root.Flags().BoolVarP(&flags.last, "last", "l", false, "keep only the last element of the result")
	root.Flags().BoolVarP(&flags.nth, "nth", "i", false, "index the result by the input")
	root.Flags().BoolVarP(&flags.length, "size", "s", false, "replace the result with its length")
	root.Flags().BoolVarP(&flags.sum, "sum", "x", false, "replace the result with its sum")
	root.Flags().BoolVarP(&flags.negate, "negate", "!", false, "boolean-negate the result")
	root.Flags().BoolVarP(&flags.rangeN, "range", "r", false, "convert a numeric input into the range [1..N]")
	root.Flags().BoolVarP(&flags.rangeTen, "ten", "d", false, "set input to [1..10]")
	root.Flags().BoolVarP(&flags.rangeHun, "hundred", "h", false, "set input to [1..100]")
	root.Flags().BoolVarP(&flags.rangeExc, "range-exclusive", "R", false, "set input to [0..N)")

	root.AddCommand(replCommand())
	root.AddCommand(serveCommand())

	if err := root.Execute(); err != nil {
		redColor.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := repl.New(banner, version, author, separator, license, prompt)
			r.Start(os.Stdin, os.Stdout)
			return nil
		},
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve PORT",
		Short: "Start a REPL server on the given TCP port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.Serve(args[0], banner, version, author, separator, license, prompt)
		},
	}
}

func runRoot(cmd *cobra.Command, args []string, flags *cliFlags) error {
	if len(args) == 0 {
		r := repl.New(banner, version, author, separator, license, prompt)
		r.Start(os.Stdin, os.Stdout)
		return nil
	}

	sourceBytes, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("could not read file %q: %w", args[0], err)
	}
	source := string(sourceBytes)

	if flags.compress {
		if compress.IsPacked(source) {
			fmt.Println(compress.Unpack(source))
		} else {
			fmt.Println(compress.Pack(source))
		}
		return nil
	}

	if flags.cgans {
		fmt.Println(cgansTemplate(args[0]))
		return nil
	}

	source = applyWrapFlags(source, flags)

	stdin := flags.userInput
	if stdin == "" {
		stdin, err = readStdinIfAvailable()
		if err != nil {
			return err
		}
	}

	cfg := eval.Config{
		FloatPrecision:  flags.precision,
		OutputPrecision: flags.oprecision,
		StackSizeMiB:    flags.stack,
	}

	if flags.debug {
		tokens, err := lexer.Lex(source, cfg.FloatPrecision)
		if err != nil {
			return err
		}
		cyanColor.Println("--- tokens ---")
		for _, t := range tokens {
			fmt.Printf("%+v\n", t)
		}
		nodes, err := eval.Parse(source, cfg.FloatPrecision)
		if err != nil {
			return err
		}
		cyanColor.Println("--- AST ---")
		for _, n := range nodes {
			fmt.Printf("%+v\n", n)
		}
	}

	result, err := eval.Run(source, stdin, cfg)
	if err != nil {
		return err
	}

	result, err = postprocess(result, stdin, flags)
	if err != nil {
		return err
	}

	yellowColor.Println(result.String(cfg.OutputPrecision))
	return nil
}

// applyWrapFlags applies the four mutually compatible program-wrapping
// flags as textual pre/post edits to source, in the order -a, -m, -F, -I.
func applyWrapFlags(source string, flags *cliFlags) string {
	if flags.wrapArray {
		source = "[" + source + "]"
	}
	if flags.wrapBlock {
		source = "{" + source + `}\`
	}
	if flags.wrapFlatten {
		source = "(" + source + "):_"
	}
	if flags.wrapIndex {
		source = "(" + source + "):i"
	}
	return source
}

func readStdinIfAvailable() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", nil
	}
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading standard input: %w", err)
	}
	return string(data), nil
}

func cgansTemplate(filename string) string {
	return fmt.Sprintf("## %s\n\n**Input:**\n\n```\n```\n\n**Output:**\n\n```\n```\n\n**Explanation:**\n\n", filename)
}
