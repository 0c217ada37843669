package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/draftpm/internal/config"
	"github.com/salmonumbrella/draftpm/internal/output"
)

// MappingsOutput lists the registries of the active converter.
type MappingsOutput struct {
	BlockTypes    []string          `json:"blockTypes" yaml:"blockTypes"`
	Styles        []string          `json:"styles" yaml:"styles"`
	StylePrefixes []string          `json:"stylePrefixes" yaml:"stylePrefixes"`
	EntityMarks   []string          `json:"entityMarks" yaml:"entityMarks"`
	EntityNodes   []string          `json:"entityNodes" yaml:"entityNodes"`
	Overrides     map[string]string `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

func (m MappingsOutput) sections() []struct {
	name  string
	items []string
} {
	return []struct {
		name  string
		items []string
	}{
		{"block types", m.BlockTypes},
		{"styles", m.Styles},
		{"style prefixes", m.StylePrefixes},
		{"entity marks", m.EntityMarks},
		{"entity nodes", m.EntityNodes},
	}
}

func (m MappingsOutput) WriteText(w io.Writer) error {
	var sb strings.Builder
	for i, sec := range m.sections() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s (%d):\n", capitalize(sec.name), len(sec.items))
		for _, item := range sec.items {
			fmt.Fprintf(&sb, "  %s\n", item)
		}
	}
	if len(m.Overrides) > 0 {
		fmt.Fprintf(&sb, "\nFrom config (%d):\n", len(m.Overrides))
		for _, key := range config.SortedKeys(m.Overrides) {
			fmt.Fprintf(&sb, "  %s -> %s\n", key, m.Overrides[key])
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (m MappingsOutput) Table() output.Table {
	table := output.Table{Headers: []string{"KIND", "NAME", "TARGET"}}
	for _, sec := range m.sections() {
		for _, item := range sec.items {
			table.Rows = append(table.Rows, []string{sec.name, item, m.Overrides[overrideKey(sec.name, item)]})
		}
	}
	return table
}

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "List the active block, style and entity mappings",
	Long: `List every block type, inline style, style prefix and entity type the
converter can map, including overrides from the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := commandConverter(cmd)
		if err != nil {
			return err
		}
		return printOutput(cmd.Context(), MappingsOutput{
			BlockTypes:    conv.BlockTypes(),
			Styles:        conv.Styles(),
			StylePrefixes: conv.StylePrefixes(),
			EntityMarks:   conv.EntityMarkTypes(),
			EntityNodes:   conv.EntityNodeTypes(),
			Overrides:     configOverrides(activeConfig),
		})
	},
}

func init() {
	rootCmd.AddCommand(mappingsCmd)
}

// configOverrides flattens the config mapping sections into
// "<section>:<name>" -> target.
func configOverrides(cfg *config.Config) map[string]string {
	if cfg == nil {
		return nil
	}
	out := make(map[string]string)
	add := func(section string, m map[string]string) {
		for k, v := range m {
			out[overrideKey(section, k)] = v
		}
	}
	add("block types", cfg.BlockAliases)
	add("styles", cfg.Styles)
	add("entity marks", cfg.EntityMarks)
	add("entity nodes", cfg.EntityNodes)
	if len(out) == 0 {
		return nil
	}
	return out
}

func overrideKey(section, name string) string {
	return strings.ReplaceAll(section, " ", "_") + ":" + name
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
