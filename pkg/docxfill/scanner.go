package docxfill

import (
	"strings"
	"unicode/utf8"

	dxml "github.com/benjaminschreck/go-docxfill/pkg/docxfill/xml"
)

// maxTokenRunes bounds the text between "${" and "}". Longer runs are not
// placeholders and are released as literal text.
const maxTokenRunes = 256

type scanState int

const (
	scanIdle   scanState = iota
	scanDollar           // a "$" is waiting for the next character
	scanOpen             // inside "${"
)

// tokenSink receives the scanner's output in document order.
type tokenSink interface {
	// emit writes an event that is not part of a placeholder.
	emit(ev dxml.Event) error
	// token handles a complete placeholder. src holds the events it was read
	// from: text fragments and any markup found between "${" and "}".
	token(tok Token, src []dxml.Event) error
}

type scanMark struct {
	item   int
	offset int
}

// scanner rebuilds placeholders from text that Word may have split over
// several runs. Markup between the fragments is kept with the placeholder.
type scanner struct {
	sink  tokenSink
	state scanState

	src   []dxml.Event
	frag  strings.Builder
	inner strings.Builder
	runes int
	// dollar marks a "$" inside an open placeholder; a "{" right after it
	// starts a new placeholder there.
	dollar *scanMark
}

func newScanner(sink tokenSink) *scanner {
	return &scanner{sink: sink}
}

func (s *scanner) feed(ev dxml.Event) error {
	if ev.Kind != dxml.KindText {
		if s.state == scanIdle {
			return s.sink.emit(ev)
		}
		s.closeFrag()
		s.src = append(s.src, ev)
		return nil
	}
	if s.state == scanIdle && !strings.Contains(ev.Text, "$") {
		return s.sink.emit(ev)
	}
	return s.text(ev.Text)
}

func (s *scanner) text(t string) error {
	start := 0
	for i := 0; i < len(t); {
		r, size := utf8.DecodeRuneInString(t[i:])
		switch s.state {
		case scanIdle:
			if r == '$' {
				if err := s.literal(t[start:i]); err != nil {
					return err
				}
				s.frag.WriteByte('$')
				s.state = scanDollar
				start = i + size
			}

		case scanDollar:
			if r != '{' {
				if err := s.flush(); err != nil {
					return err
				}
				start = i
				continue
			}
			s.frag.WriteByte('{')
			s.state = scanOpen
			s.inner.Reset()
			s.runes = 0
			s.dollar = nil
			start = i + size

		case scanOpen:
			switch {
			case r == '}':
				s.frag.WriteByte('}')
				if err := s.complete(); err != nil {
					return err
				}
			case r == '{' && s.dollar != nil:
				if err := s.restart(); err != nil {
					return err
				}
			case s.runes >= maxTokenRunes:
				if err := s.flush(); err != nil {
					return err
				}
				start = i
				continue
			case r == '$':
				s.dollar = &scanMark{item: len(s.src), offset: s.frag.Len()}
				s.frag.WriteByte('$')
				s.inner.WriteByte('$')
				s.runes++
			default:
				s.frag.WriteRune(r)
				s.inner.WriteRune(r)
				s.runes++
				s.dollar = nil
			}
			start = i + size
		}
		i += size
	}
	if s.state == scanIdle {
		return s.literal(t[start:])
	}
	return nil
}

// finish releases anything still buffered at the end of input.
func (s *scanner) finish() error {
	if s.state == scanIdle {
		return nil
	}
	return s.flush()
}

func (s *scanner) complete() error {
	s.closeFrag()
	src := s.src
	inner := s.inner.String()
	s.reset()

	if strings.ContainsAny(inner, "{$") {
		return s.emitAll(src)
	}
	tok, ok := ParseToken(inner)
	if !ok {
		return s.emitAll(src)
	}
	return s.sink.token(tok, src)
}

// restart drops the open placeholder in favour of the "${" at s.dollar. The
// text before it is released as literal.
func (s *scanner) restart() error {
	m := *s.dollar
	s.closeFrag()

	head := make([]dxml.Event, 0, m.item+1)
	head = append(head, s.src[:m.item]...)
	split := s.src[m.item].Text
	if m.offset > 0 {
		head = append(head, dxml.Text(split[:m.offset]))
	}
	tail := []dxml.Event{dxml.Text(split[m.offset:])}
	tail = append(tail, s.src[m.item+1:]...)

	if err := s.emitAll(head); err != nil {
		return err
	}
	s.src = tail
	s.frag.WriteByte('{')
	s.inner.Reset()
	s.runes = 0
	s.dollar = nil
	return nil
}

// flush releases the buffered source as literal text and returns to idle.
func (s *scanner) flush() error {
	s.closeFrag()
	src := s.src
	s.reset()
	return s.emitAll(src)
}

func (s *scanner) emitAll(events []dxml.Event) error {
	for _, ev := range events {
		if err := s.sink.emit(ev); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) literal(text string) error {
	if text == "" {
		return nil
	}
	return s.sink.emit(dxml.Text(text))
}

func (s *scanner) closeFrag() {
	if s.frag.Len() > 0 {
		s.src = append(s.src, dxml.Text(s.frag.String()))
		s.frag.Reset()
	}
}

func (s *scanner) reset() {
	s.state = scanIdle
	s.src = nil
	s.frag.Reset()
	s.inner.Reset()
	s.runes = 0
	s.dollar = nil
}
