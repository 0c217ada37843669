// Package draft models raw Draft.js content: a flat list of blocks whose text
// is annotated with inline style and entity ranges.
package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Content is a raw Draft.js content state.
type Content struct {
	Blocks    []Block           `json:"blocks" yaml:"blocks"`
	EntityMap map[string]Entity `json:"entityMap" yaml:"entityMap"`
}

// Block is one flat unit of content.
type Block struct {
	Key               string         `json:"key,omitempty" yaml:"key,omitempty"`
	Type              string         `json:"type" yaml:"type"`
	Text              string         `json:"text" yaml:"text"`
	Depth             int            `json:"depth" yaml:"depth"`
	InlineStyleRanges []StyleRange   `json:"inlineStyleRanges" yaml:"inlineStyleRanges"`
	EntityRanges      []EntityRange  `json:"entityRanges" yaml:"entityRanges"`
	Data              map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// HasRanges reports whether the block carries any style or entity range.
func (b Block) HasRanges() bool {
	return len(b.InlineStyleRanges) > 0 || len(b.EntityRanges) > 0
}

// Range is implemented by StyleRange and EntityRange.
type Range interface {
	Span() (offset, length int)
}

// StyleRange applies an inline style to a span of text.
type StyleRange struct {
	Offset int    `json:"offset" yaml:"offset"`
	Length int    `json:"length" yaml:"length"`
	Style  string `json:"style" yaml:"style"`
}

// Span returns the range offset and length.
func (r StyleRange) Span() (int, int) { return r.Offset, r.Length }

// EntityRange references an entity from a span of text.
type EntityRange struct {
	Offset int       `json:"offset" yaml:"offset"`
	Length int       `json:"length" yaml:"length"`
	Key    EntityKey `json:"key" yaml:"key"`
}

// Span returns the range offset and length.
func (r EntityRange) Span() (int, int) { return r.Offset, r.Length }

// IsInlineStyleRange reports whether r is a style range.
func IsInlineStyleRange(r Range) bool {
	_, ok := r.(StyleRange)
	return ok
}

// IsEntityRange reports whether r is an entity range.
func IsEntityRange(r Range) bool {
	_, ok := r.(EntityRange)
	return ok
}

// EntityKey is an entityMap key. Draft.js writes it as a number in ranges and
// as a string in the map; both decode to the same value.
type EntityKey string

// UnmarshalJSON accepts numbers and strings.
func (k *EntityKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = EntityKey(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entity key: %w", err)
	}
	*k = EntityKey(n.String())
	return nil
}

// MarshalJSON writes numeric keys as numbers, like Draft.js does.
func (k EntityKey) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(string(k)); err == nil && strconv.Itoa(n) == string(k) {
		return []byte(k), nil
	}
	return json.Marshal(string(k))
}

// Entity is an out-of-line object such as a link or image.
type Entity struct {
	Type       string         `json:"type" yaml:"type"`
	Mutability string         `json:"mutability,omitempty" yaml:"mutability,omitempty"`
	Data       map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// UnmarshalJSON handles entity maps written as objects or as arrays.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw struct {
		Blocks    []Block         `json:"blocks"`
		EntityMap json.RawMessage `json:"entityMap"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Blocks = raw.Blocks
	c.EntityMap = map[string]Entity{}

	trimmed := bytes.TrimSpace(raw.EntityMap)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		var list []Entity
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("entityMap: %w", err)
		}
		for i, e := range list {
			c.EntityMap[strconv.Itoa(i)] = e
		}
		return nil
	}

	if err := json.Unmarshal(trimmed, &c.EntityMap); err != nil {
		return fmt.Errorf("entityMap: %w", err)
	}
	return nil
}

// Lookup returns the entity referenced by key.
func (c Content) Lookup(key EntityKey) (Entity, bool) {
	e, ok := c.EntityMap[string(key)]
	return e, ok
}
