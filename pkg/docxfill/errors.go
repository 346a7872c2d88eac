package docxfill

import (
	"errors"
	"fmt"
	"strings"

	dxml "github.com/benjaminschreck/go-docxfill/pkg/docxfill/xml"
)

// MarkupError reports template markup that could not be read. Rendering stops
// at the first one.
type MarkupError struct {
	Part   string
	Line   int
	Offset int64
	Cause  error
}

func (e *MarkupError) Error() string {
	var b strings.Builder
	b.WriteString("markup error")
	if e.Part != "" {
		b.WriteString(" in ")
		b.WriteString(e.Part)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d (offset %d)", e.Line, e.Offset)
	}
	b.WriteString(": ")
	// a reader error already carries the position printed above
	var xerr *dxml.Error
	if e.Line > 0 && errors.As(e.Cause, &xerr) {
		b.WriteString(xerr.Msg)
	} else {
		fmt.Fprint(&b, e.Cause)
	}
	return b.String()
}

func (e *MarkupError) Unwrap() error {
	return e.Cause
}

// NewMarkupError wraps cause, taking the position from it when it is a
// reader error.
func NewMarkupError(part string, cause error) error {
	e := &MarkupError{Part: part, Cause: cause}
	var xerr *dxml.Error
	if errors.As(cause, &xerr) {
		e.Line = xerr.Line
		e.Offset = xerr.Offset
	}
	return e
}

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	switch {
	case e.Path != "" && e.Cause != nil:
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	case e.Cause != nil:
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// IsMarkupError reports whether err is or wraps a *MarkupError.
func IsMarkupError(err error) bool {
	var e *MarkupError
	return errors.As(err, &e)
}

// IsDocumentError reports whether err is or wraps a *DocumentError.
func IsDocumentError(err error) bool {
	var e *DocumentError
	return errors.As(err, &e)
}
