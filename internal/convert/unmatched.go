package convert

import "github.com/salmonumbrella/draftpm/internal/draft"

// Unmatched collects everything a conversion could not map. It never stops a
// conversion; it is reported next to the produced document.
type Unmatched struct {
	Blocks       []draft.Block           `json:"blocks" yaml:"blocks"`
	Entities     map[string]draft.Entity `json:"entities" yaml:"entities"`
	InlineStyles []draft.StyleRange      `json:"inlineStyles" yaml:"inlineStyles"`
	Faults       []Fault                 `json:"faults,omitempty" yaml:"faults,omitempty"`
}

// Fault describes a handler that panicked. The affected block, entity or
// style is also listed in the matching Unmatched field.
type Fault struct {
	Stage      string `json:"stage" yaml:"stage"`
	BlockIndex int    `json:"blockIndex" yaml:"blockIndex"`
	BlockKey   string `json:"blockKey,omitempty" yaml:"blockKey,omitempty"`
	Kind       string `json:"kind" yaml:"kind"`
	Message    string `json:"message" yaml:"message"`
}

// Fault stages.
const (
	StageBlock  = "block"
	StageStyle  = "style"
	StageEntity = "entity"
)

func newUnmatched() *Unmatched {
	return &Unmatched{
		Blocks:       []draft.Block{},
		Entities:     map[string]draft.Entity{},
		InlineStyles: []draft.StyleRange{},
	}
}

// Empty reports whether nothing was left unmatched.
func (u *Unmatched) Empty() bool {
	return u == nil || u.Count() == 0
}

// Count returns the number of unmatched blocks, entities and style ranges.
func (u *Unmatched) Count() int {
	if u == nil {
		return 0
	}
	return len(u.Blocks) + len(u.Entities) + len(u.InlineStyles)
}

func (u *Unmatched) addBlock(b draft.Block) {
	u.Blocks = append(u.Blocks, b)
}

func (u *Unmatched) addEntity(key draft.EntityKey, e draft.Entity) {
	u.Entities[string(key)] = e
}

func (u *Unmatched) addStyle(r draft.StyleRange) {
	u.InlineStyles = append(u.InlineStyles, r)
}

func (u *Unmatched) addFault(f Fault) {
	u.Faults = append(u.Faults, f)
}
