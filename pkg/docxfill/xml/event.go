package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Kind identifies the type of a markup event.
type Kind int

const (
	KindText Kind = iota
	KindStart
	KindEnd
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Event is one item of the markup stream.
type Event struct {
	Kind Kind
	// Name is the element name for start and end events. Space holds the
	// prefix as written, not a namespace URI.
	Name xml.Name
	// Text is the decoded character data of a text event.
	Text string
	// Raw holds the original bytes, or nil for synthesized events.
	Raw []byte
}

// Text returns a synthesized text event.
func Text(s string) Event {
	return Event{Kind: KindText, Text: s}
}

// QName returns the element name as written, e.g. "w:t".
func (e Event) QName() string {
	return qualified(e.Name)
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// WriteTo serializes e. Text events without Raw are escaped.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	if e.Raw != nil {
		n, err := w.Write(e.Raw)
		return int64(n), err
	}
	if e.Kind == KindText {
		n, err := io.WriteString(w, EscapeText(e.Text))
		return int64(n), err
	}
	return 0, nil
}

// A raw carriage return would be normalized to a line feed when read back.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#13;")

// EscapeText escapes s for use as character data.
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "&<>\r") {
		return s
	}
	return textEscaper.Replace(s)
}

// Transparent reports whether events, taken together, close a number of
// elements and then reopen elements with the same names in the same order.
// Complete elements in between (proofing marks, bookmarks, run properties)
// do not affect the result. An empty slice is transparent.
func Transparent(events []Event) bool {
	var closed, opened []string
	for _, ev := range events {
		switch ev.Kind {
		case KindStart:
			opened = append(opened, ev.QName())
		case KindEnd:
			if len(opened) > 0 {
				opened = opened[:len(opened)-1]
			} else {
				closed = append(closed, ev.QName())
			}
		}
	}
	if len(closed) != len(opened) {
		return false
	}
	for i, name := range closed {
		if opened[len(opened)-1-i] != name {
			return false
		}
	}
	return true
}

// Markup returns the non-text events of events.
func Markup(events []Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind != KindText {
			out = append(out, ev)
		}
	}
	return out
}
