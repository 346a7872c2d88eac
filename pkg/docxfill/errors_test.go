package docxfill

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/locale"
	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/value"
	dxml "github.com/benjaminschreck/go-docxfill/pkg/docxfill/xml"
)

func TestMarkupError(t *testing.T) {
	cause := &dxml.Error{Line: 3, Offset: 42, Msg: "unclosed element <w:p>"}
	err := NewMarkupError("word/document.xml", cause)

	var merr *MarkupError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MarkupError, got %T", err)
	}
	if merr.Line != 3 || merr.Offset != 42 {
		t.Errorf("position = %d/%d, want 3/42", merr.Line, merr.Offset)
	}
	if want := "markup error in word/document.xml at line 3 (offset 42): unclosed element <w:p>"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var xerr *dxml.Error
	if !errors.As(err, &xerr) {
		t.Error("MarkupError should unwrap to the reader error")
	}

	plain := NewMarkupError("", errors.New("boom"))
	if plain.Error() != "markup error: boom" {
		t.Errorf("Error() = %q", plain.Error())
	}

	// the reader's own message is used once the position is known
	_, err = RenderMarkup([]byte(`<a><b></a>`), value.Null(), locale.Locale{})
	if want := "markup error at line 1 (offset 10): element <b> closed by </a>"; err == nil || err.Error() != want {
		t.Errorf("RenderMarkup() error = %v, want %q", err, want)
	}
}

func TestDocumentError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewDocumentError("open", "a.docx", os.ErrNotExist), "document error during open of 'a.docx': file does not exist"},
		{NewDocumentError("write", "a.docx", nil), "document error during write of 'a.docx'"},
		{NewDocumentError("write", "", os.ErrClosed), "document error during write: file already closed"},
		{NewDocumentError("write", "", nil), "document error during write"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}

	wrapped := fmt.Errorf("render: %w", NewDocumentError("open", "a.docx", os.ErrNotExist))
	if !IsDocumentError(wrapped) || !errors.Is(wrapped, os.ErrNotExist) {
		t.Error("wrapped DocumentError should still be detected")
	}
	if IsMarkupError(wrapped) {
		t.Error("DocumentError is not a MarkupError")
	}
}
