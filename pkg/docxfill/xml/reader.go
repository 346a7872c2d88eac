package xml

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Error reports malformed markup.
type Error struct {
	Line   int
	Offset int64
	Msg    string
	Cause  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed markup at line %d (offset %d): %s", e.Line, e.Offset, e.Msg)
	}
	return fmt.Sprintf("malformed markup at offset %d: %s", e.Offset, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Source yields markup events until io.EOF.
type Source interface {
	Next() (Event, error)
}

// Reader reads events from XML input, keeping the raw bytes of each one.
type Reader struct {
	dec   *xml.Decoder
	rec   *recorder
	stack []xml.Name
	err   error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	rec := &recorder{r: bufio.NewReader(r)}
	dec := xml.NewDecoder(rec)
	dec.Strict = true
	return &Reader{dec: dec, rec: rec}
}

// NewBytesReader returns a Reader over data.
func NewBytesReader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

// Depth returns the number of open elements.
func (r *Reader) Depth() int {
	return len(r.stack)
}

// Next returns the next event. It returns io.EOF after the last event and an
// *Error for malformed input.
func (r *Reader) Next() (Event, error) {
	if r.err != nil {
		return Event{}, r.err
	}

	tok, err := r.dec.RawToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if len(r.stack) > 0 {
				r.err = r.fail(fmt.Sprintf("unclosed element <%s>", qualified(r.stack[len(r.stack)-1])), nil)
				return Event{}, r.err
			}
			r.err = io.EOF
			return Event{}, io.EOF
		}
		var syntax *xml.SyntaxError
		if errors.As(err, &syntax) {
			r.err = r.fail(syntax.Msg, err)
		} else {
			r.err = r.fail(err.Error(), err)
		}
		return Event{}, r.err
	}
	raw := r.rec.take(r.dec.InputOffset())

	switch t := tok.(type) {
	case xml.StartElement:
		r.stack = append(r.stack, t.Name)
		return Event{Kind: KindStart, Name: t.Name, Raw: raw}, nil
	case xml.EndElement:
		if len(r.stack) == 0 {
			r.err = r.fail(fmt.Sprintf("unexpected end element </%s>", qualified(t.Name)), nil)
			return Event{}, r.err
		}
		open := r.stack[len(r.stack)-1]
		if open != t.Name {
			r.err = r.fail(fmt.Sprintf("element <%s> closed by </%s>", qualified(open), qualified(t.Name)), nil)
			return Event{}, r.err
		}
		r.stack = r.stack[:len(r.stack)-1]
		return Event{Kind: KindEnd, Name: t.Name, Raw: raw}, nil
	case xml.CharData:
		return Event{Kind: KindText, Text: string(t), Raw: raw}, nil
	default:
		return Event{Kind: KindOther, Raw: raw}, nil
	}
}

func (r *Reader) fail(msg string, cause error) *Error {
	line, _ := r.dec.InputPos()
	return &Error{Line: line, Offset: r.dec.InputOffset(), Msg: msg, Cause: cause}
}

// ReadAll drains src and returns its events.
func ReadAll(src Source) ([]Event, error) {
	var events []Event
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
}

// SliceSource replays a recorded list of events.
type SliceSource struct {
	events []Event
	pos    int
}

// NewSliceSource returns a Source over events.
func NewSliceSource(events []Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next returns the next recorded event.
func (s *SliceSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// recorder is the decoder's byte source. It keeps every byte handed to the
// decoder until take claims it, so each token can be paired with its input.
// The decoder may read one byte past a token and push it back; take only
// claims bytes up to the decoder's reported offset.
type recorder struct {
	r    *bufio.Reader
	buf  []byte
	base int64
}

func (rc *recorder) ReadByte() (byte, error) {
	b, err := rc.r.ReadByte()
	if err == nil {
		rc.buf = append(rc.buf, b)
	}
	return b, err
}

func (rc *recorder) Read(p []byte) (int, error) {
	for i := range p {
		b, err := rc.ReadByte()
		if err != nil {
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}

func (rc *recorder) take(upto int64) []byte {
	n := int(upto - rc.base)
	if n <= 0 {
		return []byte{}
	}
	if n > len(rc.buf) {
		n = len(rc.buf)
	}
	out := make([]byte, n)
	copy(out, rc.buf[:n])
	rest := copy(rc.buf, rc.buf[n:])
	rc.buf = rc.buf[:rest]
	rc.base += int64(n)
	return out
}
