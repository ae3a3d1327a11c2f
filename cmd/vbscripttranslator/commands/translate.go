package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Magicianred/vbscripttranslator/internal/translator"
	"github.com/Magicianred/vbscripttranslator/internal/translator/codegen"
)

var (
	translateInput  string
	translateOutput string
	compareTextMode bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [file.vbs]",
	Short: "Translate a script file to Go source",
	Long: `Translate a legacy script file to Go source text.

Examples:
  vbscripttranslator translate main.vbs                # Output to stdout
  vbscripttranslator translate -i main.vbs -o main.go  # Output to file
  vbscripttranslator -i main.vbs -o main.go            # Shorthand`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTranslate,
}

func init() {
	translateCmd.Flags().StringVarP(&translateInput, "input", "i", "", "Path to the input .vbs file")
	translateCmd.Flags().StringVarP(&translateOutput, "output", "o", "", "Path to the output .go file")
	translateCmd.Flags().BoolVar(&compareTextMode, "compare-text", false, "Use text (case-insensitive) string comparison")
}

// defaultNameRewriter canonicalises identifier casing: lower-case the name,
// then capitalise the first rune so class members stay reachable through
// member dispatch.
func defaultNameRewriter(name string) string {
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func buildOptions() translator.Options {
	mode := 0
	if compareTextMode {
		mode = 1
	}
	return translator.Options{
		NameRewriter:         defaultNameRewriter,
		SupportClassName:     "env",
		ErrorTrappingEnabled: true,
		StringCompareMode:    mode,
		WarningSink: func(msg string) {
			fmt.Fprintln(os.Stderr, "Warning:", msg)
		},
	}
}

func translateFile(inputPath string) (string, error) {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	opts := buildOptions()
	tr := translator.NewSourceTranslator(codegen.NewGenerator(opts))
	statements, err := tr.Translate(string(content))
	if err != nil {
		return "", err
	}
	return opts.RenderProgram(statements), nil
}

func runTranslate(cmd *cobra.Command, args []string) {
	inputPath := translateInput
	if inputPath == "" && len(args) > 0 {
		inputPath = args[0]
	}
	if inputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		fmt.Fprintln(os.Stderr, "Usage: vbscripttranslator translate [file.vbs] or vbscripttranslator -i file.vbs")
		os.Exit(1)
	}

	goCode, err := translateFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: translation failed: %v\n", err)
		os.Exit(1)
	}

	if translateOutput != "" {
		if err := os.WriteFile(translateOutput, []byte(goCode), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated Go code saved to %s\n", translateOutput)
		return
	}
	fmt.Println(goCode)
}
