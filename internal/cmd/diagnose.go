package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/draftpm/internal/convert"
	"github.com/salmonumbrella/draftpm/internal/output"
)

// diagnoseOutput is the unmatched report without the document.
type diagnoseOutput struct {
	Total     int                `json:"total" yaml:"total"`
	Converted int                `json:"converted" yaml:"converted"`
	Unmatched *convert.Unmatched `json:"unmatched" yaml:"unmatched"`
}

func (d diagnoseOutput) WriteText(w io.Writer) error {
	return writeUnmatchedText(w, d.Unmatched, d.Converted, d.Total)
}

func (d diagnoseOutput) Table() output.Table {
	return unmatchedTable(d.Unmatched)
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [file]",
	Short: "Report what a conversion cannot map",
	Long: `Convert Draft.js content and print only the unmatched report:
block types without a handler, entities that resolved to nothing, inline
styles without a rule, and handler faults.

Examples:
  draftpm diagnose post.json
  draftpm diagnose post.json -o table
  draftpm diagnose post.json -o json --query '.unmatched.inlineStyles[].style'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	raw, err := readDraftInput(args, stdinFromContext(ctx))
	if err != nil {
		return err
	}

	conv, err := commandConverter(cmd)
	if err != nil {
		return err
	}
	result, err := conv.ConvertJSON(raw)
	if err != nil {
		return err
	}

	return printOutput(ctx, diagnoseOutput{
		Total:     result.Converted + len(result.Unmatched.Blocks),
		Converted: result.Converted,
		Unmatched: result.Unmatched,
	})
}
