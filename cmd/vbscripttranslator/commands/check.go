package commands

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

var (
	checkInput  string
	checkOutput string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Re-translate a script and diff against an existing output file",
	Long: `Re-translate a script and show a unified diff against a previously
generated output file. Exits non-zero when the files differ.

Example:
  vbscripttranslator check -i main.vbs -o main.go`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkInput, "input", "i", "", "Path to the input .vbs file")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Path to the previously generated .go file")
	checkCmd.MarkFlagRequired("input")
	checkCmd.MarkFlagRequired("output")
}

func runCheck(cmd *cobra.Command, args []string) {
	regenerated, err := translateFile(checkInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: translation failed: %v\n", err)
		os.Exit(1)
	}
	existing, err := os.ReadFile(checkOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read output file: %v\n", err)
		os.Exit(1)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(regenerated),
		FromFile: checkOutput,
		ToFile:   checkInput + " (regenerated)",
		Context:  3,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to diff: %v\n", err)
		os.Exit(1)
	}
	if diff == "" {
		fmt.Println("Up to date.")
		return
	}
	fmt.Print(diff)
	os.Exit(1)
}
