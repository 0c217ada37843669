package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/salmonumbrella/draftpm/internal/convert"
	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/output"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

var (
	convertWithDiagnostics bool
	convertStrict          bool
	convertField           string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert Draft.js JSON to a ProseMirror document",
	Long: `Convert raw Draft.js content into a ProseMirror document.

Input is read from the given file, from stdin with "-", or from piped stdin.
Structured formats print the document JSON; text prints an outline of the
tree. Unmatched content never stops the conversion.

With --field the input is a record holding Draft.js content at a JSON path
(the content may also be stored as a JSON string). The record is printed
with that field replaced by the converted document.

Examples:
  draftpm convert post.json -o json
  cat post.json | draftpm convert --with-diagnostics -o yaml
  draftpm convert post.json --strict --query '.content | length'
  draftpm convert record.json --field body.draft -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertWithDiagnostics, "with-diagnostics", false, "Include the unmatched report next to the document")
	convertCmd.Flags().BoolVar(&convertStrict, "strict", false, "Exit with an error when anything is unmatched")
	convertCmd.Flags().StringVar(&convertField, "field", "", "JSON path of the Draft.js content inside a larger record")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	raw, err := readDraftInput(args, stdinFromContext(ctx))
	if err != nil {
		return err
	}

	record := raw
	if convertField != "" {
		if raw, err = extractField(record, convertField); err != nil {
			return err
		}
	}

	conv, err := commandConverter(cmd)
	if err != nil {
		return err
	}
	result, err := conv.ConvertJSON(raw)
	if err != nil {
		return err
	}

	total := result.Converted + len(result.Unmatched.Blocks)
	if !result.Unmatched.Empty() {
		loggerFromContext(ctx).Debug("conversion finished with unmatched content",
			zap.Int("blocks", len(result.Unmatched.Blocks)),
			zap.Int("entities", len(result.Unmatched.Entities)),
			zap.Int("styles", len(result.Unmatched.InlineStyles)),
			zap.Int("faults", len(result.Unmatched.Faults)))
	}

	switch {
	case convertField != "":
		err = printRecord(ctx, record, convertField, result.Doc)
	case convertWithDiagnostics:
		err = printOutput(ctx, newConversionReport(result, total))
	default:
		err = printOutput(ctx, documentOutput(result.Doc))
	}
	if err != nil {
		return err
	}

	if convertStrict && !result.Unmatched.Empty() {
		return &UnmatchedError{Unmatched: result.Unmatched}
	}
	return nil
}

// extractField returns the Draft.js content stored at path in record. String
// values are treated as encoded JSON.
func extractField(record []byte, path string) ([]byte, error) {
	if !gjson.ValidBytes(record) {
		return nil, &draft.ParseError{Message: "record is not valid JSON"}
	}
	value := gjson.GetBytes(record, path)
	if !value.Exists() {
		return nil, fmt.Errorf("field %q not found in record", path)
	}
	if value.Type == gjson.String {
		return []byte(value.Str), nil
	}
	return []byte(value.Raw), nil
}

// printRecord writes record with the value at path replaced by doc.
func printRecord(ctx context.Context, record []byte, path string, doc *pm.Node) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	updated, err := sjson.SetRawBytes(record, path, docJSON)
	if err != nil {
		return fmt.Errorf("set field %q: %w", path, err)
	}

	var data interface{}
	if err := json.Unmarshal(updated, &data); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if !structuredOutputRequested() {
		return printIndentedJSON(ctx, data)
	}
	return printOutput(ctx, data)
}

func printIndentedJSON(ctx context.Context, data interface{}) error {
	enc := json.NewEncoder(stdoutFromContext(ctx))
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// documentOutput picks the printable form of a document for the current
// output format.
func documentOutput(doc *pm.Node) interface{} {
	switch GetOutputFormat() {
	case output.FormatText, output.FormatTable:
		return docOutline{doc: doc}
	default:
		return doc
	}
}

// Table flattens the tree into one row per node.
func (o docOutline) Table() output.Table {
	table := output.Table{Headers: []string{"DEPTH", "TYPE", "ATTRS", "TEXT", "MARKS"}}
	var walk func(n *pm.Node, depth int)
	walk = func(n *pm.Node, depth int) {
		if n == nil {
			return
		}
		marks := make([]string, 0, len(n.Marks))
		for _, m := range n.Marks {
			marks = append(marks, m.Type)
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(depth),
			n.Type,
			formatAttrs(n.Attrs),
			truncate(n.Text, 40),
			strings.Join(marks, ","),
		})
		for _, child := range n.Content {
			walk(child, depth+1)
		}
	}
	walk(o.doc, 0)
	return table
}

// Table lists the unmatched items of a report.
func (r conversionReport) Table() output.Table {
	return unmatchedTable(r.Unmatched)
}

func unmatchedTable(u *convert.Unmatched) output.Table {
	table := output.Table{Headers: []string{"KIND", "KEY", "TYPE", "DETAIL"}}
	if u == nil {
		return table
	}
	for _, b := range u.Blocks {
		table.Rows = append(table.Rows, []string{"block", b.Key, b.Type, truncate(b.Text, 40)})
	}
	for _, key := range sortedEntityKeys(u) {
		e := u.Entities[key]
		table.Rows = append(table.Rows, []string{"entity", key, e.Type, e.Mutability})
	}
	for _, r := range u.InlineStyles {
		table.Rows = append(table.Rows, []string{"style", "", r.Style, fmt.Sprintf("%d+%d", r.Offset, r.Length)})
	}
	for _, f := range u.Faults {
		table.Rows = append(table.Rows, []string{"fault", f.BlockKey, f.Kind, f.Message})
	}
	return table
}
