package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salmonumbrella/draftpm/internal/config"
	"github.com/salmonumbrella/draftpm/internal/draft"
)

func TestFlagChanged_NilCmd(t *testing.T) {
	if flagChanged(nil, "output") {
		t.Error("expected false for nil cmd")
	}
}

func TestFlagChanged_UnsetFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("output", "text", "")

	if flagChanged(cmd, "output") {
		t.Error("expected false for unset flag")
	}
}

func TestFlagChanged_SetFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("output", "text", "")
	if err := cmd.Flags().Set("output", "json"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if !flagChanged(cmd, "output") {
		t.Error("expected true for set flag")
	}
}

func TestFlagChanged_InheritedFlag(t *testing.T) {
	parent := &cobra.Command{}
	parent.PersistentFlags().String("format", "text", "")

	child := &cobra.Command{}
	parent.AddCommand(child)

	if err := parent.PersistentFlags().Set("format", "json"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if !flagChanged(child, "format") {
		t.Error("expected true for inherited flag")
	}
}

func TestResolveLogLevel(t *testing.T) {
	prevDebug := debug
	prevEnvGet := envGet
	defer func() {
		debug = prevDebug
		envGet = prevEnvGet
	}()

	tests := []struct {
		name  string
		debug bool
		env   string
		cfg   *config.Config
		want  string
	}{
		{name: "default", want: "info"},
		{name: "config", cfg: &config.Config{LogLevel: "warn"}, want: "warn"},
		{name: "env over config", env: "error", cfg: &config.Config{LogLevel: "warn"}, want: "error"},
		{name: "debug flag wins", debug: true, env: "error", cfg: &config.Config{LogLevel: "warn"}, want: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debug = tt.debug
			envGet = func(key string) string {
				if key == "DRAFTPM_LOG_LEVEL" {
					return tt.env
				}
				return ""
			}
			if got := resolveLogLevel(tt.cfg); got != tt.want {
				t.Errorf("resolveLogLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConverterOptionsFromConfig_Nil(t *testing.T) {
	opts, err := converterOptionsFromConfig(nil)
	if err != nil || opts != nil {
		t.Fatalf("expected no options, got %v, %v", opts, err)
	}
}

func TestConverterOptionsFromConfig_UnknownAlias(t *testing.T) {
	cfg := &config.Config{BlockAliases: map[string]string{"fancy": "nope"}}
	if _, err := converterOptionsFromConfig(cfg); err == nil || !strings.Contains(err.Error(), `unknown block type "nope"`) {
		t.Fatalf("expected unknown block type error, got %v", err)
	}
}

func TestNewConverter_AppliesMappings(t *testing.T) {
	cfg := &config.Config{
		Styles:       map[string]string{"KBD": "kbd"},
		BlockAliases: map[string]string{"callout": "blockquote"},
		EntityMarks:  map[string]string{"MENTION": "mention"},
		EntityNodes:  map[string]string{"EMBED": "embed"},
	}
	conv, err := newConverter(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newConverter() error = %v", err)
	}

	content := draft.Content{
		Blocks: []draft.Block{
			{Key: "a", Type: "callout", Text: "ab",
				InlineStyleRanges: []draft.StyleRange{{Offset: 0, Length: 1, Style: "KBD"}},
				EntityRanges:      []draft.EntityRange{{Offset: 1, Length: 1, Key: "0"}}},
			{Key: "b", Type: "atomic", Text: " ",
				EntityRanges: []draft.EntityRange{{Offset: 0, Length: 1, Key: "1"}}},
		},
		EntityMap: map[string]draft.Entity{
			"0": {Type: "MENTION", Data: map[string]any{"id": "u1"}},
			"1": {Type: "EMBED", Data: map[string]any{"src": "https://example.com"}},
		},
	}
	result := conv.Convert(content)
	if !result.Unmatched.Empty() {
		t.Fatalf("expected everything matched, got %+v", result.Unmatched)
	}

	quote := result.Doc.Content[0]
	if quote.Type != "blockquote" {
		t.Fatalf("expected blockquote, got %q", quote.Type)
	}
	runs := quote.Content[0].Content
	if len(runs) != 2 || runs[0].Marks[0].Type != "kbd" || runs[1].Marks[0].Type != "mention" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if runs[1].Marks[0].Attrs["id"] != "u1" {
		t.Fatalf("expected mention attrs from entity data, got %+v", runs[1].Marks[0].Attrs)
	}

	wrapper := result.Doc.Content[1]
	if wrapper.Type != "paragraph" || len(wrapper.Content) != 1 {
		t.Fatalf("expected paragraph around the embed, got %+v", wrapper)
	}
	embed := wrapper.Content[0]
	if embed.Type != "embed" || embed.Attrs["src"] != "https://example.com" {
		t.Fatalf("unexpected embed node: %+v", embed)
	}
}

func TestNewConverter_BlockAliasesKeepTargetMeaning(t *testing.T) {
	cfg := &config.Config{BlockAliases: map[string]string{
		"title":  "header-three",
		"bullet": "unordered-list-item",
		"todo":   "checkable-list-item",
	}}
	conv, err := newConverter(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newConverter() error = %v", err)
	}

	result := conv.Convert(draft.Content{Blocks: []draft.Block{
		{Key: "a", Type: "title", Text: "Plan"},
		{Key: "b", Type: "bullet", Text: "one"},
		{Key: "c", Type: "todo", Text: "ship", Data: map[string]any{"checked": true}},
	}})
	if !result.Unmatched.Empty() {
		t.Fatalf("expected everything matched, got %+v", result.Unmatched)
	}
	if len(result.Doc.Content) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(result.Doc.Content))
	}

	heading := result.Doc.Content[0]
	if heading.Type != "heading" || heading.Attrs["level"] != 3 {
		t.Fatalf("expected level 3 heading, got %s %v", heading.Type, heading.Attrs)
	}
	bullets := result.Doc.Content[1]
	if bullets.Type != "bulletList" || bullets.Content[0].Type != "listItem" {
		t.Fatalf("expected bulletList > listItem, got %s > %s", bullets.Type, bullets.Content[0].Type)
	}
	tasks := result.Doc.Content[2]
	if tasks.Type != "taskList" || tasks.Content[0].Type != "taskItem" {
		t.Fatalf("expected taskList > taskItem, got %s > %s", tasks.Type, tasks.Content[0].Type)
	}
	if tasks.Content[0].Attrs["checked"] != true {
		t.Fatalf("expected checked task item, got %v", tasks.Content[0].Attrs)
	}
}

func TestFormatConfigLoadError(t *testing.T) {
	if formatConfigLoadError(nil) != nil {
		t.Error("expected nil for nil error")
	}
	err := formatConfigLoadError(errTest("boom"))
	if err == nil || err.Error() != "load config: boom" {
		t.Errorf("unexpected error %v", err)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
