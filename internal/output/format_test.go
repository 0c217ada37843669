package output

import (
	"context"
	"io"
	"strings"
	"testing"
)

type testRow struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
}

type testListing struct {
	Total int       `json:"total"`
	Rows  []testRow `json:"rows" output:"list"`
}

type outlined struct{ lines []string }

func (o outlined) WriteText(w io.Writer) error {
	_, err := io.WriteString(w, strings.Join(o.lines, "\n")+"\n")
	return err
}

func (o outlined) Table() Table {
	rows := make([][]string, 0, len(o.lines))
	for _, l := range o.lines {
		rows = append(rows, []string{l})
	}
	return Table{Headers: []string{"LINE"}, Rows: rows}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"JSON", FormatJSON, false},
		{" ndjson ", FormatNDJSON, false},
		{"table", FormatTable, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseFormat(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseFormat(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrintJSONAndYAML(t *testing.T) {
	var sb strings.Builder
	if err := NewPrinter(&sb, FormatJSON).Print(context.Background(), map[string]int{"a": 1}); err != nil {
		t.Fatalf("print json: %v", err)
	}
	if !strings.Contains(sb.String(), "\"a\": 1") {
		t.Fatalf("unexpected json output: %s", sb.String())
	}

	sb.Reset()
	if err := NewPrinter(&sb, FormatYAML).Print(context.Background(), map[string]int{"a": 1}); err != nil {
		t.Fatalf("print yaml: %v", err)
	}
	if !strings.Contains(sb.String(), "a: 1") {
		t.Fatalf("unexpected yaml output: %s", sb.String())
	}
}

func TestPrintQueryOnStruct(t *testing.T) {
	var sb strings.Builder
	ctx := WithQuery(context.Background(), ".rows[].type")
	data := testListing{Total: 2, Rows: []testRow{{0, "unstyled"}, {1, "atomic"}}}

	if err := NewPrinter(&sb, FormatJSON).Print(ctx, data); err != nil {
		t.Fatalf("print: %v", err)
	}
	if got := sb.String(); got != "\"unstyled\"\n\"atomic\"\n" {
		t.Fatalf("unexpected query output: %q", got)
	}
}

func TestPrintQueryErrors(t *testing.T) {
	var sb strings.Builder
	ctx := WithQuery(context.Background(), ".[")
	if err := NewPrinter(&sb, FormatNDJSON).Print(ctx, []int{1}); err == nil || !strings.Contains(err.Error(), "invalid --query") {
		t.Fatalf("expected invalid query error, got %v", err)
	}
}

func TestPrintNDJSONSlice(t *testing.T) {
	var sb strings.Builder
	if err := NewPrinter(&sb, FormatNDJSON).Print(context.Background(), []testRow{{0, "a"}, {1, "b"}}); err != nil {
		t.Fatalf("print: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 2 || lines[1] != `{"index":1,"type":"b"}` {
		t.Fatalf("unexpected ndjson: %q", sb.String())
	}
}

func TestPrintTextAndTableHooks(t *testing.T) {
	data := outlined{lines: []string{"doc", "  paragraph"}}

	var sb strings.Builder
	if err := NewPrinter(&sb, FormatText).Print(context.Background(), data); err != nil {
		t.Fatalf("print text: %v", err)
	}
	if sb.String() != "doc\n  paragraph\n" {
		t.Fatalf("unexpected text: %q", sb.String())
	}

	sb.Reset()
	if err := NewPrinter(&sb, FormatTable).Print(context.Background(), data); err != nil {
		t.Fatalf("print table: %v", err)
	}
	if !strings.HasPrefix(sb.String(), "LINE\n") || !strings.Contains(sb.String(), "paragraph") {
		t.Fatalf("unexpected table: %q", sb.String())
	}
}

func TestPrintTableFromStructs(t *testing.T) {
	var sb strings.Builder
	if err := NewPrinter(&sb, FormatTable).Print(context.Background(), []testRow{{0, "unstyled"}}); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "index") || !strings.Contains(out, "unstyled") {
		t.Fatalf("unexpected table: %q", out)
	}

	if err := NewPrinter(&sb, FormatTable).Print(context.Background(), testRow{}); err == nil {
		t.Fatal("expected error for non-list table data")
	}
}

func TestApplyListOptionsSortAndLimit(t *testing.T) {
	ctx := WithLimit(context.Background(), 2)
	ctx = WithSort(ctx, "type", true)
	rows := []testRow{{0, "b"}, {1, "c"}, {2, "a"}}

	got, ok := ApplyListOptions(ctx, rows).([]testRow)
	if !ok {
		t.Fatalf("expected []testRow")
	}
	if len(got) != 2 || got[0].Type != "c" || got[1].Type != "b" {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if rows[0].Type != "b" {
		t.Fatalf("input mutated: %+v", rows)
	}
}

func TestApplyListOptionsTaggedField(t *testing.T) {
	ctx := WithLimit(context.Background(), 1)
	data := &testListing{Total: 3, Rows: []testRow{{0, "x"}, {1, "y"}, {2, "z"}}}

	got, ok := ApplyListOptions(ctx, data).(testListing)
	if !ok {
		t.Fatalf("expected testListing copy")
	}
	if got.Total != 3 || len(got.Rows) != 1 {
		t.Fatalf("unexpected listing: %+v", got)
	}
	if len(data.Rows) != 3 {
		t.Fatalf("input mutated: %+v", data)
	}
}

func TestApplyListOptionsPassThrough(t *testing.T) {
	data := map[string]int{"a": 1}
	if got := ApplyListOptions(context.Background(), data); got == nil {
		t.Fatal("expected data back")
	}
	ctx := WithLimit(context.Background(), 1)
	if got, ok := ApplyListOptions(ctx, "scalar").(string); !ok || got != "scalar" {
		t.Fatalf("unexpected passthrough: %v", got)
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	if FormatFromContext(ctx) != FormatText {
		t.Fatal("expected text default")
	}
	if QueryFromContext(ctx) != "" || LimitFromContext(ctx) != 0 {
		t.Fatal("expected empty query and limit")
	}
	if field, desc := SortFromContext(ctx); field != "" || desc {
		t.Fatal("expected no sort")
	}
	if FormatFromContext(WithFormat(ctx, FormatYAML)) != FormatYAML {
		t.Fatal("expected yaml from context")
	}
}

func TestPrintTextFallbacks(t *testing.T) {
	var sb strings.Builder
	if err := NewPrinter(&sb, FormatText).Print(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("print lines: %v", err)
	}
	if sb.String() != "a\nb\n" {
		t.Fatalf("unexpected lines: %q", sb.String())
	}

	sb.Reset()
	if err := NewPrinter(&sb, FormatText).Print(context.Background(), map[string]int{"blocks": 3}); err != nil {
		t.Fatalf("print map: %v", err)
	}
	if sb.String() != "blocks: 3\n" {
		t.Fatalf("unexpected map text: %q", sb.String())
	}
}
