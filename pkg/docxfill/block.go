package docxfill

import (
	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/value"
	dxml "github.com/benjaminschreck/go-docxfill/pkg/docxfill/xml"
)

// blockCapture collects the events between ${#name} and its matching ${/name}.
// Placeholders inside are kept in source form and scanned again for every
// repetition.
type blockCapture struct {
	start    Token
	startSrc []dxml.Event
	nested   int
	events   []dxml.Event
}

// add records a placeholder seen while capturing. It reports whether tok is
// the end marker that closes the block.
func (b *blockCapture) add(tok Token, src []dxml.Event) bool {
	if tok.Key == b.start.Key {
		switch tok.Kind {
		case TokenBlockStart:
			b.nested++
		case TokenBlockEnd:
			if b.nested == 0 {
				return true
			}
			b.nested--
		}
	}
	b.events = append(b.events, src...)
	return false
}

// expand renders a closed block. The captured events are rendered once per
// element of the array named by the block, each with the element as scope.
// Anything other than an array removes the block.
func (f *frame) expand(b *blockCapture, endSrc []dxml.Event) error {
	if !dxml.Transparent(dxml.Markup(b.events)) {
		// The markers sit at different places in the tree, so the region
		// cannot be repeated without unbalancing it.
		f.log().Warn("block %q spans unbalanced markup, keeping markers as text", b.start.Key)
		return f.degrade(b, endSrc)
	}

	if err := f.markerMarkup(b.startSrc); err != nil {
		return err
	}

	list, ok := value.Lookup(f.scope, b.start.Key)
	switch {
	case !ok:
		f.log().Debug("block %q not found, removed", b.start.Key)
	case list.Kind() != value.KindArray:
		f.log().Debug("block %q is %s, not an array, removed", b.start.Key, list.Kind())
	default:
		for _, item := range list.Items() {
			if err := f.r.run(dxml.NewSliceSource(b.events), item, f.depth+1); err != nil {
				return err
			}
		}
	}

	return f.markerMarkup(endSrc)
}

// degrade writes both markers as literal text and renders the captured region
// once in the current scope. endSrc is nil for an unterminated block.
func (f *frame) degrade(b *blockCapture, endSrc []dxml.Event) error {
	if err := f.writeAll(b.startSrc); err != nil {
		return err
	}
	if err := f.r.run(dxml.NewSliceSource(b.events), f.scope, f.depth); err != nil {
		return err
	}
	return f.writeAll(endSrc)
}
