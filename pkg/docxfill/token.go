package docxfill

import (
	"strings"
)

// TokenKind classifies a placeholder.
type TokenKind int

const (
	// TokenVariable is ${path} or ${path|date:STYLE}.
	TokenVariable TokenKind = iota
	// TokenBlockStart is ${#name}.
	TokenBlockStart
	// TokenBlockEnd is ${/name}.
	TokenBlockEnd
)

func (k TokenKind) String() string {
	switch k {
	case TokenVariable:
		return "variable"
	case TokenBlockStart:
		return "block-start"
	case TokenBlockEnd:
		return "block-end"
	default:
		return "unknown"
	}
}

const datePrefix = "date:"

// Token is a placeholder found in template text.
type Token struct {
	Kind TokenKind
	// Key is the dotted data path of a variable or the name of a block.
	Key string
	// DateStyle is the style following "|date:". It is only meaningful when
	// HasDate is set.
	DateStyle string
	HasDate   bool
}

// ParseToken classifies the text between "${" and "}". It returns false when
// the text is not a usable placeholder and must be kept as literal text.
func ParseToken(inner string) (Token, bool) {
	text := strings.TrimSpace(inner)
	if text == "" {
		return Token{}, false
	}

	switch text[0] {
	case '#', '/':
		name := strings.TrimSpace(text[1:])
		if name == "" {
			return Token{}, false
		}
		kind := TokenBlockStart
		if text[0] == '/' {
			kind = TokenBlockEnd
		}
		return Token{Kind: kind, Key: name}, true
	}

	if key, rest, ok := strings.Cut(text, "|"); ok {
		rest = strings.TrimSpace(rest)
		if style, isDate := strings.CutPrefix(rest, datePrefix); isDate {
			return Token{
				Kind:      TokenVariable,
				Key:       strings.TrimSpace(key),
				DateStyle: strings.TrimSpace(style),
				HasDate:   true,
			}, true
		}
	}
	return Token{Kind: TokenVariable, Key: text}, true
}

// String returns the token in template syntax.
func (t Token) String() string {
	switch t.Kind {
	case TokenBlockStart:
		return "${#" + t.Key + "}"
	case TokenBlockEnd:
		return "${/" + t.Key + "}"
	}
	if t.HasDate {
		return "${" + t.Key + "|" + datePrefix + t.DateStyle + "}"
	}
	return "${" + t.Key + "}"
}
