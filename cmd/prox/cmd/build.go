package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile a ProXPL file to textual IR",
	Long: `Compile a ProXPL program and write the optimised IR module to disk.

The artifact is the line-oriented textual IR form; running the source and
running the artifact are equivalent, but the byte layout is not stable
across versions.

Examples:
  prox build script.prox
  prox build script.prox -o out.pir`,
	Args: cobra.ExactArgs(1),
	RunE: buildScript,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOut, "output", "o", "", "output path (default: source path with .pir suffix)")
}

func buildScript(_ *cobra.Command, args []string) error {
	source, filename, err := readInput(args)
	if err != nil {
		return err
	}

	outPath := buildOut
	if outPath == "" {
		outPath = strings.TrimSuffix(filename, ".prox") + ".pir"
	}

	engine := newEngine()
	if err := engine.Build(source, filename, outPath); err != nil {
		reportPipelineError(err, source, filename)
		return fmt.Errorf("build failed")
	}
	if verbose {
		fmt.Printf("wrote %s\n", outPath)
	}
	return nil
}
