package draft

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// ParseError reports input that is not raw Draft.js content.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse draft content: %s: %v", e.Message, e.Err)
	}
	return "parse draft content: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes raw Draft.js JSON.
func Parse(raw []byte) (*Content, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &ParseError{Message: "invalid JSON"}
	}
	if !LooksLikeContent(raw) {
		return nil, &ParseError{Message: "expected an object with blocks and entityMap"}
	}

	var content Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, &ParseError{Message: "decode", Err: err}
	}
	for i := range content.Blocks {
		if content.Blocks[i].Depth < 0 {
			content.Blocks[i].Depth = 0
		}
	}
	return &content, nil
}

// Decode reads and parses raw Draft.js JSON from r.
func Decode(r io.Reader) (*Content, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read draft content: %w", err)
	}
	return Parse(raw)
}

// LooksLikeContent reports whether raw JSON has the shape of Draft.js content:
// an object carrying both "blocks" and "entityMap".
func LooksLikeContent(raw []byte) bool {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return false
	}
	return root.Get("blocks").Exists() && root.Get("entityMap").Exists()
}

// IsContent reports whether v is Draft.js content, either typed or decoded
// into a generic map.
func IsContent(v any) bool {
	switch c := v.(type) {
	case Content:
		return true
	case *Content:
		return c != nil
	case map[string]any:
		_, hasBlocks := c["blocks"]
		_, hasEntities := c["entityMap"]
		return hasBlocks && hasEntities
	case []byte:
		return LooksLikeContent(c)
	case json.RawMessage:
		return LooksLikeContent(c)
	default:
		return false
	}
}

// CountBlocks returns the number of blocks in raw JSON without decoding it.
func CountBlocks(raw []byte) int {
	return int(gjson.GetBytes(raw, "blocks.#").Int())
}
