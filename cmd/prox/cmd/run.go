package cmd

import (
	"fmt"
	"os"

	"github.com/ProgrammerKR/ProXPL/internal/errors"
	"github.com/ProgrammerKR/ProXPL/pkg/prox"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a ProXPL file or expression",
	Long: `Compile and execute a ProXPL program from a file or inline expression.

Examples:
  # Run a script file
  prox run script.prox

  # Evaluate an inline expression
  prox run -e "print(1 + 2);"

  # Run with a pipeline trace
  prox run --verbose script.prox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func runScript(_ *cobra.Command, args []string) error {
	source, filename, err := readInput(args)
	if err != nil {
		return err
	}

	engine := newEngine()
	if _, err := engine.Run(source, filename); err != nil {
		reportPipelineError(err, source, filename)
		return fmt.Errorf("execution failed")
	}
	return nil
}

// readInput resolves the source text from the -e flag or a file argument.
func readInput(args []string) (source, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) != 1 {
		return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
	}
	content, rerr := os.ReadFile(args[0])
	if rerr != nil {
		return "", "", fmt.Errorf("failed to read file %s: %w", args[0], rerr)
	}
	return string(content), args[0], nil
}

// newEngine builds an engine wired to the CLI flags.
func newEngine() *prox.Engine {
	opts := []prox.Option{prox.WithOutput(os.Stdout)}
	if len(modulePaths) > 0 {
		opts = append(opts, prox.WithSearchPaths(modulePaths))
	}
	if verbose {
		opts = append(opts, prox.WithTrace(func(ev prox.Event) {
			fmt.Fprintf(os.Stderr, "[%s] %s (%s)\n", ev.Stage, ev.Detail, ev.Elapsed)
		}))
	}
	return prox.New(opts...)
}

// reportPipelineError pretty-prints front-end failures with source context
// and runtime errors as plain diagnostics.
func reportPipelineError(err error, source, filename string) {
	if failure, ok := err.(*prox.BuildFailure); ok {
		compilerErrors := errors.FromStringErrors(failure.Messages, source, filename)
		fmt.Fprint(os.Stderr, errors.FormatErrors(compilerErrors, true))
		fmt.Fprintln(os.Stderr)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
