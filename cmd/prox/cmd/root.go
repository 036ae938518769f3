package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose     bool
	modulePaths []string
)

var rootCmd = &cobra.Command{
	Use:   "prox [file]",
	Short: "ProXPL interpreter and compiler",
	Long: `prox compiles and runs ProXPL programs.

ProXPL is a small general-purpose dynamic programming language with
functions, classes, closures, modules, and a 75-function standard library.
Programs compile to a three-address IR executed by a frame-based VM.

Running a file directly is shorthand for 'prox run':

  prox script.prox`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(command *cobra.Command, args []string) error {
		if len(args) == 0 {
			return command.Help()
		}
		return runScript(command, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (pipeline trace)")
	rootCmd.PersistentFlags().StringArrayVar(&modulePaths, "module-path", nil, "override the module search path (repeatable)")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
