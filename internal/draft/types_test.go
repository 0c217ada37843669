package draft

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestContent_UnmarshalJSON_ObjectEntityMap(t *testing.T) {
	data := []byte(`{
		"blocks": [
			{
				"key": "a1",
				"type": "unstyled",
				"text": "Hello link",
				"depth": 0,
				"inlineStyleRanges": [{"offset": 0, "length": 5, "style": "BOLD"}],
				"entityRanges": [{"offset": 6, "length": 4, "key": 0}],
				"data": {}
			}
		],
		"entityMap": {
			"0": {"type": "LINK", "mutability": "MUTABLE", "data": {"url": "https://example.com"}}
		}
	}`)

	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(content.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(content.Blocks))
	}
	block := content.Blocks[0]
	if block.Key != "a1" || block.Type != "unstyled" || block.Text != "Hello link" {
		t.Errorf("unexpected block: %+v", block)
	}
	if len(block.InlineStyleRanges) != 1 || block.InlineStyleRanges[0].Style != "BOLD" {
		t.Errorf("unexpected style ranges: %+v", block.InlineStyleRanges)
	}
	if len(block.EntityRanges) != 1 || block.EntityRanges[0].Key != "0" {
		t.Errorf("unexpected entity ranges: %+v", block.EntityRanges)
	}

	entity, ok := content.Lookup(block.EntityRanges[0].Key)
	if !ok {
		t.Fatalf("expected entity 0 to resolve")
	}
	if entity.Type != "LINK" {
		t.Errorf("expected LINK, got %q", entity.Type)
	}
	if got := entity.Data["url"]; got != "https://example.com" {
		t.Errorf("expected url data, got %v", got)
	}
}

func TestContent_UnmarshalJSON_ArrayEntityMap(t *testing.T) {
	data := []byte(`{"blocks": [], "entityMap": [{"type": "IMAGE", "data": {"src": "a.png"}}, {"type": "LINK"}]}`)

	var content Content
	if err := json.Unmarshal(data, &content); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(content.EntityMap) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(content.EntityMap))
	}
	if content.EntityMap["0"].Type != "IMAGE" || content.EntityMap["1"].Type != "LINK" {
		t.Errorf("unexpected entity map: %+v", content.EntityMap)
	}
}

func TestContent_UnmarshalJSON_NullEntityMap(t *testing.T) {
	var content Content
	if err := json.Unmarshal([]byte(`{"blocks": [], "entityMap": null}`), &content); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if content.EntityMap == nil {
		t.Fatalf("expected non-nil entity map")
	}
}

func TestEntityKey_RoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want EntityKey
		out  string
	}{
		{`3`, "3", `3`},
		{`"3"`, "3", `3`},
		{`"abc"`, "abc", `"abc"`},
		{`"007"`, "007", `"007"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var k EntityKey
			if err := json.Unmarshal([]byte(tt.in), &k); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if k != tt.want {
				t.Errorf("got %q, want %q", k, tt.want)
			}
			out, err := json.Marshal(k)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.out {
				t.Errorf("marshal got %s, want %s", out, tt.out)
			}
		})
	}
}

func TestEntityKey_RejectsObjects(t *testing.T) {
	var k EntityKey
	if err := json.Unmarshal([]byte(`{}`), &k); err == nil {
		t.Fatalf("expected error for object key")
	}
}

func TestRangeDiscriminators(t *testing.T) {
	var style Range = StyleRange{Offset: 0, Length: 1, Style: "BOLD"}
	var entity Range = EntityRange{Offset: 2, Length: 3, Key: "0"}

	if !IsInlineStyleRange(style) || IsEntityRange(style) {
		t.Errorf("style range misclassified")
	}
	if !IsEntityRange(entity) || IsInlineStyleRange(entity) {
		t.Errorf("entity range misclassified")
	}
	if off, length := entity.Span(); off != 2 || length != 3 {
		t.Errorf("unexpected span %d,%d", off, length)
	}
}

func TestParse(t *testing.T) {
	content, err := Parse([]byte(`{"blocks":[{"type":"unstyled","text":"x","depth":-2}],"entityMap":{}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if content.Blocks[0].Depth != 0 {
		t.Errorf("expected negative depth clamped to 0, got %d", content.Blocks[0].Depth)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"invalid json", `{"blocks":`, "invalid JSON"},
		{"array", `[]`, "expected an object"},
		{"missing entityMap", `{"blocks":[]}`, "expected an object"},
		{"bad block", `{"blocks":[{"depth":"deep"}],"entityMap":{}}`, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			if err == nil {
				t.Fatalf("expected error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	content, err := Decode(strings.NewReader(`{"blocks":[{"type":"unstyled","text":"a"}],"entityMap":{}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(content.Blocks) != 1 {
		t.Errorf("expected 1 block, got %d", len(content.Blocks))
	}
}

func TestIsContent(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"typed", Content{}, true},
		{"pointer", &Content{}, true},
		{"nil pointer", (*Content)(nil), false},
		{"map", map[string]any{"blocks": []any{}, "entityMap": map[string]any{}}, true},
		{"map missing", map[string]any{"blocks": []any{}}, false},
		{"raw", []byte(`{"blocks":[],"entityMap":{}}`), true},
		{"raw message", json.RawMessage(`{"entityMap":{}}`), false},
		{"string", "blocks", false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsContent(tt.v); got != tt.want {
				t.Errorf("IsContent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountBlocks(t *testing.T) {
	raw := []byte(`{"blocks":[{"type":"a"},{"type":"b"},{"type":"c"}],"entityMap":{}}`)
	if got := CountBlocks(raw); got != 3 {
		t.Errorf("CountBlocks() = %d, want 3", got)
	}
	if got := CountBlocks([]byte(`{}`)); got != 0 {
		t.Errorf("CountBlocks() on empty = %d, want 0", got)
	}
}
