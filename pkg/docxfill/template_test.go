package docxfill

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreparedTemplateRender(t *testing.T) {
	e := testEngine(nil)
	document := wordDoc(para("Hello ${name}") + para("${#items}${value};${/items}"))

	tmpl, err := e.Prepare(bytes.NewReader(sampleDocx(t, document)))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	out, err := tmpl.Render(mustJSON(t, `{"name": "Alice", "title": "Report", "items": [1, 2]}`), testLocale())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	parts, files := readZip(t, out.Bytes())
	if got, want := parts["word/document.xml"], wordDoc(para("Hello Alice")+para("1;2;")); got != want {
		t.Errorf("document.xml = %s, want %s", got, want)
	}
	if got := parts["word/header1.xml"]; !strings.Contains(got, para("Report")) {
		t.Errorf("header1.xml not rendered: %s", got)
	}
	if got := parts["word/footer1.xml"]; !strings.Contains(got, para("Alice")) {
		t.Errorf("footer1.xml not rendered: %s", got)
	}
	if got := parts["word/styles.xml"]; !strings.Contains(got, "${name}") {
		t.Errorf("styles.xml should be copied unchanged: %s", got)
	}
	if got := parts["word/media/image1.png"]; got != "\x89PNG\r\n\x1a\nfake" {
		t.Errorf("image changed: %q", got)
	}

	wantOrder := []string{
		"[Content_Types].xml", "word/document.xml", "word/_rels/document.xml.rels",
		"word/header1.xml", "word/footer1.xml", "word/styles.xml", "word/media/image1.png",
	}
	if len(files) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(files), len(wantOrder))
	}
	for i, f := range files {
		if f.Name != wantOrder[i] {
			t.Errorf("entry %d = %s, want %s", i, f.Name, wantOrder[i])
		}
	}
	if files[6].Method != zip.Store || files[1].Method != zip.Deflate {
		t.Errorf("compression methods not preserved: %d, %d", files[6].Method, files[1].Method)
	}
}

func TestPreparedTemplateSkipsHeadersFooters(t *testing.T) {
	config := DefaultConfig()
	config.RenderHeadersFooters = false
	e := testEngine(config)

	tmpl, err := e.Prepare(bytes.NewReader(sampleDocx(t, wordDoc(para("${name}")))))
	if err != nil {
		t.Fatal(err)
	}
	if got := tmpl.Parts(); len(got) != 1 {
		t.Errorf("Parts() = %v", got)
	}
	out, err := tmpl.Render(mustJSON(t, `{"name": "Alice", "title": "Report"}`), testLocale())
	if err != nil {
		t.Fatal(err)
	}
	parts, _ := readZip(t, out.Bytes())
	if !strings.Contains(parts["word/header1.xml"], "${title}") {
		t.Errorf("header should be left alone: %s", parts["word/header1.xml"])
	}
}

func TestPrepareErrors(t *testing.T) {
	e := testEngine(nil)

	if _, err := e.Prepare(strings.NewReader("not a zip")); !IsDocumentError(err) {
		t.Errorf("expected DocumentError for non-zip input, got %v", err)
	}

	missing := buildZip(t, zipEntry{name: "word/other.xml", body: "<a/>"})
	if _, err := e.Prepare(bytes.NewReader(missing)); !IsDocumentError(err) {
		t.Errorf("expected DocumentError for missing document.xml, got %v", err)
	}

	_, err := e.Prepare(bytes.NewReader(sampleDocx(t, `<w:document><w:body></w:document>`)))
	var merr *MarkupError
	if !IsMarkupError(err) {
		t.Fatalf("expected MarkupError, got %v", err)
	}
	if errors.As(err, &merr) && merr.Part != documentPart {
		t.Errorf("MarkupError.Part = %q", merr.Part)
	}
}

func TestPrepareFileCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "template.docx")
	if err := os.WriteFile(path, sampleDocx(t, wordDoc(para("${name}"))), 0o644); err != nil {
		t.Fatal(err)
	}

	e := testEngine(nil)
	first, err := e.PrepareFile(path)
	if err != nil {
		t.Fatalf("PrepareFile() error = %v", err)
	}
	second, err := e.PrepareFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second PrepareFile should be served from the cache")
	}

	// a different size gives a different cache key even with the same mtime
	if err := os.WriteFile(path, sampleDocx(t, wordDoc(para("${name} and more"))), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := e.PrepareFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("changed file should be prepared again")
	}

	uncached := NewWithOptions(DefaultConfig(), WithCache(0), WithLogger(NewLogger(nil, LogOff)))
	a, _ := uncached.PrepareFile(path)
	b, _ := uncached.PrepareFile(path)
	if a == nil || a == b {
		t.Error("disabled cache should prepare every time")
	}

	if _, err := e.PrepareFile(filepath.Join(dir, "missing.docx")); !IsDocumentError(err) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist DocumentError, got %v", err)
	}
}

func TestPreparedTemplateReferencesAndCheck(t *testing.T) {
	document := wordDoc(para("${name} ${nmae}") + para("${#people}${first}${/people}${#tags}${/x}"))
	tmpl, err := testEngine(nil).Prepare(bytes.NewReader(sampleDocx(t, document)))
	if err != nil {
		t.Fatal(err)
	}

	refs := tmpl.References()
	// document: name, nmae, #people, first, /people, #tags, /x; footer: name; header: title
	if len(refs) != 9 {
		t.Fatalf("References() returned %d refs: %+v", len(refs), refs)
	}
	if refs[3].Token.Key != "first" || len(refs[3].Blocks) != 1 || refs[3].Blocks[0] != "people" {
		t.Errorf("unexpected reference %+v", refs[3])
	}

	issues := tmpl.Check(mustJSON(t, `{"name": "A", "title": "T", "people": [{"first": "x"}, {"frist": "y"}]}`))
	var messages []string
	for _, is := range issues {
		messages = append(messages, is.String())
	}
	joined := strings.Join(messages, "\n")
	for _, want := range []string{
		"${/x} has no matching block start",
		"${#tags} has no matching block end",
		`${nmae} is not found in the data`,
		`${first} is not found in the data`,
		`${#tags} is not found in the data`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing issue %q in:\n%s", want, joined)
		}
	}
}
