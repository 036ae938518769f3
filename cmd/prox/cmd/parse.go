package cmd

import (
	"fmt"

	"github.com/ProgrammerKR/ProXPL/pkg/prox"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a ProXPL file and print the AST as source text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		source, filename, err := readInput(args)
		if err != nil {
			return err
		}
		tokens, lerr := prox.Lex(source)
		if lerr != nil {
			reportPipelineError(lerr, source, filename)
			return fmt.Errorf("lexing failed")
		}
		program, perr := prox.Parse(tokens)
		if perr != nil {
			reportPipelineError(perr, source, filename)
			return fmt.Errorf("parsing failed")
		}
		fmt.Print(program.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
