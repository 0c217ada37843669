package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/pm"
)

// Session is the state of one conversion. Handlers receive it to build nodes
// and resolve ranges; it is never shared between calls.
type Session struct {
	conv      *Converter
	content   draft.Content
	doc       *pm.Node
	unmatched *Unmatched
	log       *zap.Logger
	converted int
	// index of the block being dispatched, for diagnostics
	blockIndex int
}

func (c *Converter) newSession(content draft.Content) *Session {
	if content.EntityMap == nil {
		content.EntityMap = map[string]draft.Entity{}
	}
	return &Session{
		conv:      c,
		content:   content,
		doc:       pm.NewDocument(),
		unmatched: newUnmatched(),
		log:       c.log,
	}
}

// Doc returns the document under construction.
func (s *Session) Doc() *pm.Node { return s.doc }

// Content returns the source content.
func (s *Session) Content() draft.Content { return s.content }

// Unmatched returns the diagnostics collected so far.
func (s *Session) Unmatched() *Unmatched { return s.unmatched }

// Logger returns the session logger.
func (s *Session) Logger() *zap.Logger { return s.log }

// dispatch runs the handler registered for the current block. A panicking
// handler is recovered and reported as unhandled with the cursor unmoved.
func (s *Session) dispatch(cur Cursor) (outcome Outcome, next Cursor) {
	block, _ := cur.Current()
	s.blockIndex = cur.Index()

	h, ok := s.conv.blocks[block.Type]
	if !ok {
		return Unhandled(), cur
	}

	defer func() {
		if r := recover(); r != nil {
			source := s.content.Blocks[cur.Index()]
			s.fault(StageBlock, source, source.Type, r)
			outcome, next = Unhandled(), cur
		}
	}()
	return h(s, cur)
}

// clampCursor keeps a handler from moving the scan backwards or past the end.
func (s *Session) clampCursor(next Cursor, start int) Cursor {
	if next.Index() < start {
		s.log.Warn("block handler moved cursor backwards",
			zap.Int("start", start),
			zap.Int("returned", next.Index()))
		return next.SetIndex(start)
	}
	if last := next.Len() - 1; next.Index() > last {
		return next.SetIndex(last)
	}
	return next
}

func (s *Session) skip(index int, block draft.Block) {
	s.log.Debug("unmatched block",
		zap.Int("block", index),
		zap.String("key", block.Key),
		zap.String("type", block.Type))
	s.unmatched.addBlock(block)
}

func (s *Session) fault(stage string, block draft.Block, kind string, recovered any) {
	msg := fmt.Sprint(recovered)
	if err, ok := recovered.(error); ok {
		msg = err.Error()
	}
	s.log.Error("handler fault",
		zap.String("stage", stage),
		zap.Int("block", s.blockIndex),
		zap.String("key", block.Key),
		zap.String("kind", kind),
		zap.String("panic", msg))
	s.unmatched.addFault(Fault{
		Stage:      stage,
		BlockIndex: s.blockIndex,
		BlockKey:   block.Key,
		Kind:       kind,
		Message:    msg,
	})
}

// StyleMark resolves a style range, recording it as unmatched on failure.
func (s *Session) StyleMark(block draft.Block, r draft.StyleRange) (mark pm.Mark, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			s.fault(StageStyle, block, r.Style, rec)
			mark, ok = pm.Mark{}, false
		}
		if !ok {
			s.unmatched.addStyle(r)
		}
	}()
	mark, ok = s.conv.styles.resolve(r.Style)
	if ok && mark.Type == "" {
		ok = false
	}
	return mark, ok
}

// EntityMark resolves an entity range to a mark, recording the entity as
// unmatched on failure.
func (s *Session) EntityMark(block draft.Block, r draft.EntityRange) (mark pm.Mark, ok bool) {
	entity, found := s.content.Lookup(r.Key)
	defer func() {
		if rec := recover(); rec != nil {
			s.fault(StageEntity, block, entity.Type, rec)
			mark, ok = pm.Mark{}, false
		}
		if !ok {
			s.unmatched.addEntity(r.Key, entity)
		}
	}()
	if !found {
		return pm.Mark{}, false
	}
	h, exists := s.conv.entityMarks[entity.Type]
	if !exists {
		return pm.Mark{}, false
	}
	mark, ok = h(entity)
	if ok && mark.Type == "" {
		ok = false
	}
	return mark, ok
}

// EntityNode resolves an entity range to a standalone node, recording the
// entity as unmatched on failure.
func (s *Session) EntityNode(block draft.Block, r draft.EntityRange) (node *pm.Node) {
	entity, found := s.content.Lookup(r.Key)
	defer func() {
		if rec := recover(); rec != nil {
			s.fault(StageEntity, block, entity.Type, rec)
			node = nil
		}
		if node == nil {
			s.unmatched.addEntity(r.Key, entity)
		}
	}()
	if !found {
		return nil
	}
	h, exists := s.conv.entityNodes[entity.Type]
	if !exists {
		return nil
	}
	return h(entity)
}

// dropStyles reports every style range of a block whose text is not split.
func (s *Session) dropStyles(block draft.Block) {
	for _, r := range block.InlineStyleRanges {
		s.unmatched.addStyle(r)
	}
}

// dropEntities reports every entity range of a block whose text is not split.
func (s *Session) dropEntities(block draft.Block) {
	for _, r := range block.EntityRanges {
		entity, _ := s.content.Lookup(r.Key)
		s.unmatched.addEntity(r.Key, entity)
	}
}
