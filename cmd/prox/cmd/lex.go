package cmd

import (
	"fmt"

	"github.com/ProgrammerKR/ProXPL/pkg/prox"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize a ProXPL file and print the token stream",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		source, filename, err := readInput(args)
		if err != nil {
			return err
		}
		tokens, lerr := prox.Lex(source)
		for _, tok := range tokens {
			fmt.Printf("%4d:%-3d %-18s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
		}
		if lerr != nil {
			fmt.Println(lerr)
			return fmt.Errorf("lexing failed in %s", filename)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}
