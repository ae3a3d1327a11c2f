// Package commands provides the CLI commands for the translator tool.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vbscripttranslator [file.vbs]",
	Short: "Legacy script to Go source translator",
	Long: `Translates legacy VBScript-dialect source files into Go source text
backed by a runtime support library.

Usage:
  vbscripttranslator [file.vbs]             Translate a script (shorthand)
  vbscripttranslator -i in.vbs -o out.go    Translate with explicit input/output
  vbscripttranslator translate [file.vbs]   Translate explicitly
  vbscripttranslator check -i in.vbs -o out.go   Diff a regenerated translation
  vbscripttranslator version                Print version`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if translateInput != "" {
			runTranslate(cmd, args)
			return nil
		}
		if len(args) > 0 && strings.HasSuffix(args[0], ".vbs") {
			runTranslate(cmd, args)
			return nil
		}
		if len(args) == 0 {
			return cmd.Help()
		}
		return fmt.Errorf("unknown command %q for \"vbscripttranslator\"\nRun 'vbscripttranslator --help' for usage", args[0])
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().StringVarP(&translateInput, "input", "i", "", "Path to the input .vbs file")
	rootCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "Path to the output .go file")
}
