package docxfill

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/locale"
	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/value"
	dxml "github.com/benjaminschreck/go-docxfill/pkg/docxfill/xml"
)

// RenderMarkup renders an XML template with the default engine.
func RenderMarkup(template []byte, root value.Value, loc locale.Locale) ([]byte, error) {
	return DefaultEngine.RenderMarkup(template, root, loc)
}

// RenderMarkup substitutes the placeholders of an XML template. Markup that
// holds no placeholder is returned byte-for-byte. Malformed input yields a
// *MarkupError.
func (e *Engine) RenderMarkup(template []byte, root value.Value, loc locale.Locale) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.RenderMarkupTo(&buf, bytes.NewReader(template), root, loc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderMarkupTo streams the rendered template from r to w. Output written
// before an error is incomplete.
func (e *Engine) RenderMarkupTo(w io.Writer, r io.Reader, root value.Value, loc locale.Locale) error {
	return e.renderPart(w, r, "", root, loc)
}

func (e *Engine) renderPart(w io.Writer, r io.Reader, part string, root value.Value, loc locale.Locale) error {
	bw := bufio.NewWriter(w)
	logger := e.logger()
	if part != "" {
		logger = logger.WithField("part", part)
	}
	st := &render{
		w:        bw,
		loc:      loc,
		maxDepth: e.maxBlockDepth(),
		logger:   logger,
	}
	if err := st.run(dxml.NewReader(r), root, 0); err != nil {
		var xerr *dxml.Error
		if errors.As(err, &xerr) {
			return NewMarkupError(part, err)
		}
		return err
	}
	return bw.Flush()
}

// render is the state shared by every frame of one render call.
type render struct {
	w        io.Writer
	loc      locale.Locale
	maxDepth int
	logger   *Logger
}

// run renders src with scope. Nested blocks call it again with the captured
// events of one repetition.
func (r *render) run(src dxml.Source, scope value.Value, depth int) error {
	f := &frame{r: r, scope: scope, depth: depth}
	sc := newScanner(f)
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := sc.feed(ev); err != nil {
			return err
		}
	}
	if err := sc.finish(); err != nil {
		return err
	}
	return f.close()
}

// frame renders one event stream against one scope.
type frame struct {
	r     *render
	scope value.Value
	depth int
	block *blockCapture
}

func (f *frame) log() *Logger {
	return f.r.logger
}

func (f *frame) emit(ev dxml.Event) error {
	if f.block != nil {
		f.block.events = append(f.block.events, ev)
		return nil
	}
	return f.write(ev)
}

func (f *frame) token(tok Token, src []dxml.Event) error {
	if f.block != nil {
		if !f.block.add(tok, src) {
			return nil
		}
		b := f.block
		f.block = nil
		return f.expand(b, src)
	}

	switch tok.Kind {
	case TokenBlockStart:
		if f.depth >= f.r.maxDepth {
			f.log().Warn("block %q nested deeper than %d, keeping marker as text", tok.Key, f.r.maxDepth)
			return f.writeAll(src)
		}
		f.block = &blockCapture{start: tok, startSrc: src}
		return nil
	case TokenBlockEnd:
		f.log().Debug("end marker %q without a block, keeping it as text", tok.Key)
		return f.writeAll(src)
	}

	v, found := value.Lookup(f.scope, tok.Key)
	if !found {
		f.log().Debug("placeholder %q not found", tok.Key)
	}
	if text := RenderValue(v, found, tok, f.r.loc); text != "" {
		if err := f.write(dxml.Text(text)); err != nil {
			return err
		}
	}
	return f.markerMarkup(src)
}

// close handles a block left open at the end of the stream: its start marker
// stays as text and the captured region is rendered in place.
func (f *frame) close() error {
	if f.block == nil {
		return nil
	}
	b := f.block
	f.block = nil
	f.log().Warn("block %q has no end marker, keeping marker as text", b.start.Key)
	return f.degrade(b, nil)
}

// markerMarkup writes the markup found inside a placeholder. Split runs
// (elements closed and reopened with the same names) are dropped so the
// replacement lands in the first run.
func (f *frame) markerMarkup(src []dxml.Event) error {
	markup := dxml.Markup(src)
	if dxml.Transparent(markup) {
		return nil
	}
	return f.writeAll(markup)
}

func (f *frame) writeAll(events []dxml.Event) error {
	for _, ev := range events {
		if err := f.write(ev); err != nil {
			return err
		}
	}
	return nil
}

func (f *frame) write(ev dxml.Event) error {
	_, err := ev.WriteTo(f.r.w)
	return err
}
