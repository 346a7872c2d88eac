package docxfill

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sahilm/fuzzy"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/value"
	dxml "github.com/benjaminschreck/go-docxfill/pkg/docxfill/xml"
)

// maxSuggestions caps the "did you mean" list of an Issue.
const maxSuggestions = 3

// IssueSeverity indicates how serious an Issue is.
type IssueSeverity string

const (
	IssueSeverityError   IssueSeverity = "error"
	IssueSeverityWarning IssueSeverity = "warning"
)

// Reference is one placeholder found in a template.
type Reference struct {
	Part  string
	Token Token
	// Blocks lists the enclosing block names, outermost first.
	Blocks []string
}

// Issue is a problem found by Inspect or Check.
type Issue struct {
	Severity    IssueSeverity
	Reference   Reference
	Message     string
	Suggestions []string
}

func (i Issue) String() string {
	s := fmt.Sprintf("%s: %s %s", i.Severity, i.Reference.Token, i.Message)
	if i.Reference.Part != "" {
		s = i.Reference.Part + ": " + s
	}
	if len(i.Suggestions) > 0 {
		s += fmt.Sprintf(" (did you mean %q?)", i.Suggestions)
	}
	return s
}

// Inspection is the result of scanning a template without data.
type Inspection struct {
	References []Reference
	// Issues holds structural problems: end markers without a block and
	// blocks without an end marker.
	Issues []Issue
}

// Inspect lists the placeholders of an XML template.
func Inspect(markup []byte) (*Inspection, error) {
	in := &Inspection{}
	if err := in.scan("", bytes.NewReader(markup)); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Inspection) scan(part string, r io.Reader) error {
	c := &collector{part: part, in: in}
	sc := newScanner(c)
	src := dxml.NewReader(r)
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return NewMarkupError(part, err)
		}
		if err := sc.feed(ev); err != nil {
			return err
		}
	}
	if err := sc.finish(); err != nil {
		return err
	}
	for i := len(c.open) - 1; i >= 0; i-- {
		c.unterminated(c.open[i])
	}
	return nil
}

// collector is a tokenSink that records placeholders instead of rendering
// them. Its block tracking matches the renderer: an end marker closes the
// innermost open block of the same name.
type collector struct {
	part string
	in   *Inspection
	open []Reference
}

func (c *collector) emit(dxml.Event) error { return nil }

func (c *collector) token(tok Token, _ []dxml.Event) error {
	ref := Reference{Part: c.part, Token: tok, Blocks: c.chain()}
	c.in.References = append(c.in.References, ref)

	switch tok.Kind {
	case TokenBlockStart:
		c.open = append(c.open, ref)
	case TokenBlockEnd:
		for i := len(c.open) - 1; i >= 0; i-- {
			if c.open[i].Token.Key != tok.Key {
				continue
			}
			for j := len(c.open) - 1; j > i; j-- {
				c.unterminated(c.open[j])
			}
			c.open = c.open[:i]
			return nil
		}
		c.in.Issues = append(c.in.Issues, Issue{
			Severity:  IssueSeverityError,
			Reference: ref,
			Message:   "has no matching block start",
		})
	}
	return nil
}

func (c *collector) chain() []string {
	if len(c.open) == 0 {
		return nil
	}
	names := make([]string, len(c.open))
	for i, ref := range c.open {
		names[i] = ref.Token.Key
	}
	return names
}

func (c *collector) unterminated(ref Reference) {
	c.in.Issues = append(c.in.Issues, Issue{
		Severity:  IssueSeverityError,
		Reference: ref,
		Message:   "has no matching block end",
	})
}

// CheckReferences reports the references that will not render from data.
// Placeholders inside blocks are checked against every element of the
// enclosing arrays.
func CheckReferences(refs []Reference, data value.Value) []Issue {
	var issues []Issue
	for _, ref := range refs {
		if ref.Token.Kind == TokenBlockEnd {
			continue
		}
		if issue, ok := checkReference(ref, scopesFor(ref.Blocks, data)); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

// scopesFor returns the scopes a placeholder inside blocks is rendered with.
func scopesFor(blocks []string, root value.Value) []value.Value {
	scopes := []value.Value{root}
	for _, name := range blocks {
		var next []value.Value
		for _, scope := range scopes {
			if list, ok := value.Lookup(scope, name); ok && list.Kind() == value.KindArray {
				next = append(next, list.Items()...)
			}
		}
		scopes = next
	}
	return scopes
}

func checkReference(ref Reference, scopes []value.Value) (Issue, bool) {
	tok := ref.Token
	for _, scope := range scopes {
		v, ok := value.Lookup(scope, tok.Key)
		if !ok {
			return Issue{
				Severity:    IssueSeverityWarning,
				Reference:   ref,
				Message:     "is not found in the data",
				Suggestions: suggest(scope, tok.Key),
			}, true
		}

		switch {
		case tok.Kind == TokenBlockStart && v.Kind() != value.KindArray:
			return Issue{
				Severity:  IssueSeverityWarning,
				Reference: ref,
				Message:   fmt.Sprintf("is %s, not an array; the block will be removed", v.Kind()),
			}, true
		case tok.Kind == TokenVariable && (v.Kind() == value.KindArray || v.Kind() == value.KindObject):
			return Issue{
				Severity:  IssueSeverityWarning,
				Reference: ref,
				Message:   fmt.Sprintf("is %s and renders as empty text", v.Kind()),
			}, true
		case tok.Kind == TokenVariable && tok.HasDate:
			if s, isString := v.AsString(); isString {
				if _, isDate := ParseDate(s); !isDate {
					return Issue{
						Severity:  IssueSeverityWarning,
						Reference: ref,
						Message:   fmt.Sprintf("value %q is not a date and is left unformatted", s),
					}, true
				}
			}
		}
	}
	return Issue{}, false
}

// suggest returns keys close to the last segment of key, looked up in the
// object that should have held it.
func suggest(scope value.Value, key string) []string {
	path := value.ParsePath(key)
	if len(path) == 0 {
		return nil
	}
	parent := scope
	if len(path) > 1 {
		var ok bool
		if parent, ok = value.Resolve(scope, path[:len(path)-1]); !ok {
			return nil
		}
	}
	if parent.Kind() != value.KindObject {
		return nil
	}

	prefix := ""
	if len(path) > 1 {
		prefix = path[:len(path)-1].String() + "."
	}
	var out []string
	for _, m := range fuzzy.Find(path.Last(), parent.Keys()) {
		out = append(out, prefix+m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
