package docxfill

import (
	"bytes"
	"io"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/locale"
	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/value"
)

// PreparedTemplate is a DOCX template read into memory and checked for
// well-formed markup. It is safe for concurrent renders.
type PreparedTemplate struct {
	engine     *Engine
	docx       *DocxReader
	parts      []string
	markup     map[string][]byte
	inspection *Inspection
}

func prepare(e *Engine, r io.Reader) (*PreparedTemplate, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, NewDocumentError("read", "", err)
	}
	docx, err := NewDocxReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, NewDocumentError("open", "", err)
	}

	parts, err := docx.TemplateParts(e.config.RenderHeadersFooters)
	if err != nil {
		return nil, NewDocumentError("read relationships", documentPart, err)
	}

	tmpl := &PreparedTemplate{
		engine:     e,
		docx:       docx,
		parts:      parts,
		markup:     make(map[string][]byte, len(parts)),
		inspection: &Inspection{},
	}
	for _, part := range parts {
		data, err := docx.GetPart(part)
		if err != nil {
			return nil, NewDocumentError("read", part, err)
		}
		if err := tmpl.inspection.scan(part, bytes.NewReader(data)); err != nil {
			return nil, err
		}
		tmpl.markup[part] = data
	}

	e.logger().Debug("prepared template with %d parts and %d placeholders", len(parts), len(tmpl.inspection.References))
	return tmpl, nil
}

// Parts returns the names of the parts that are rendered.
func (t *PreparedTemplate) Parts() []string {
	return append([]string(nil), t.parts...)
}

// References returns every placeholder of the template in document order.
func (t *PreparedTemplate) References() []Reference {
	return append([]Reference(nil), t.inspection.References...)
}

// Check reports structural problems of the template and placeholders that
// will not render from data.
func (t *PreparedTemplate) Check(data value.Value) []Issue {
	issues := append([]Issue(nil), t.inspection.Issues...)
	return append(issues, CheckReferences(t.inspection.References, data)...)
}

// Render renders the template into a new DOCX package.
func (t *PreparedTemplate) Render(data value.Value, loc locale.Locale) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := t.RenderTo(&buf, data, loc); err != nil {
		return nil, err
	}
	return &buf, nil
}

// RenderTo writes the rendered DOCX package to w.
func (t *PreparedTemplate) RenderTo(w io.Writer, data value.Value, loc locale.Locale) error {
	rendered := make(map[string]bool, len(t.parts))
	for _, part := range t.parts {
		rendered[part] = true
	}
	return writeDocx(w, t.docx, func(part string, pw io.Writer) error {
		return t.engine.renderPart(pw, bytes.NewReader(t.markup[part]), part, data, loc)
	}, rendered)
}
