package main

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/value"
)

const testDocument = `<w:document xmlns:w="urn:w"><w:body>` +
	`<w:p><w:r><w:t>Hello ${name}, born ${born|date:short}</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml": `<Types xmlns="urn:ct"/>`,
		"word/document.xml":   testDocument,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, body); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "template.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readDocument(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return documentXML(t, data)
}

func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(body)
	}
	t.Fatal("output has no word/document.xml")
	return ""
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DOCXFILL_LOG_LEVEL", "off")
	var out bytes.Buffer
	err := Run(context.Background(), func(int) {}, &out, args...)
	return out.String(), err
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir)

	tests := []struct {
		name string
		data string
		body string
	}{
		{"json", "data.json", `{"name": "Ana", "born": "1990-05-15"}`},
		{"yaml", "data.yaml", "name: Ana\nborn: \"1990-05-15\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := writeFile(t, dir, tt.data, tt.body)
			out := filepath.Join(dir, tt.name+".docx")

			if _, err := run(t, "render", tmpl, data, "-o", out, "--locale", "pt_BR"); err != nil {
				t.Fatalf("render failed: %v", err)
			}
			doc := readDocument(t, out)
			if !strings.Contains(doc, "Hello Ana, born 15/05/1990") {
				t.Errorf("unexpected document:\n%s", doc)
			}
		})
	}
}

func TestRenderToStdout(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir)
	data := writeFile(t, dir, "data.json", `{"name": "Ana", "born": "1990-05-15"}`)

	output, err := run(t, "render", tmpl, data, "-o", "-", "--locale", "pt_BR")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	doc := documentXML(t, []byte(output))
	if !strings.Contains(doc, "Hello Ana, born 15/05/1990") {
		t.Errorf("unexpected document:\n%s", doc)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir)
	data := writeFile(t, dir, "data.json", `{"name": "Ana"}`)
	out := filepath.Join(dir, "out.docx")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing output flag", []string{"render", tmpl, data}, "--output"},
		{"missing template", []string{"render", filepath.Join(dir, "nope.docx"), data, "-o", out}, "nope.docx"},
		{"watch on stdin", []string{"render", tmpl, "-", "-o", out, "--watch"}, "--watch needs"},
		{"watch to stdout", []string{"render", tmpl, data, "-o", "-", "--watch"}, "--watch needs"},
		{"bad data", []string{"render", tmpl, writeFile(t, dir, "bad.json", "{"), "-o", out}, "failed to decode JSON data"},
		{"unknown data format", []string{"render", tmpl, writeFile(t, dir, "data.txt", "name: Ana"), "-o", out}, "unsupported data file extension"},
		{"bad log level", []string{"--log-level", "loud", "version"}, "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("a failed render should not leave an output file")
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir)

	output, err := run(t, "check", tmpl, writeFile(t, dir, "ok.json", `{"name": "Ana", "born": "1990-05-15"}`))
	if err != nil {
		t.Errorf("check of complete data failed: %v", err)
	}
	if output != "" {
		t.Errorf("expected no issues, got:\n%s", output)
	}

	typo := writeFile(t, dir, "typo.json", `{"nmae": "Ana", "born": "1990-05-15"}`)
	output, err = run(t, "check", tmpl, typo)
	if err != nil {
		t.Errorf("warnings should not fail the check: %v", err)
	}
	if !strings.Contains(output, "word/document.xml: warning: ${name} is not found in the data") {
		t.Errorf("unexpected output:\n%s", output)
	}

	_, err = run(t, "check", "--strict", tmpl, typo)
	if err == nil || !strings.Contains(err.Error(), "1 of 1 issues failed the check") {
		t.Errorf("strict check error = %v", err)
	}
}

func TestLocales(t *testing.T) {
	t.Setenv("DOCXFILL_LOCALE", "en")
	output, err := run(t, "locales")
	if err != nil {
		t.Fatal(err)
	}
	if output != "* en\n  pt_BR\n" {
		t.Errorf("unexpected output %q", output)
	}

	table := writeFile(t, t.TempDir(), "table.yaml", "fr:\n  months:\n    \"5\": mai\n")
	output, err = run(t, "--locales", table, "locales")
	if err != nil {
		t.Fatal(err)
	}
	if output != "  fr\n" {
		t.Errorf("unexpected output %q", output)
	}
}

func TestVersion(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if output != "docxfill version "+version+"\n" {
		t.Errorf("unexpected output %q", output)
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		body    string
		want    string
		wantErr bool
	}{
		{"json", "d.json", `{"a": {"b": "x"}}`, "x", false},
		{"yaml", "d.yml", "a:\n  b: x\n", "x", false},
		{"upper case extension", "d.JSON", `{"a": {"b": "x"}}`, "x", false},
		{"unknown extension", "d.txt", "a: b", "", true},
		{"invalid json", "e.json", `{"a":`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := loadData(writeFile(t, dir, tt.file, tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadData() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, ok := value.Lookup(v, "a.b")
			if s, _ := got.AsString(); !ok || s != tt.want {
				t.Errorf("a.b = %v (found %v), want %q", got, ok, tt.want)
			}
		})
	}
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.json", `{}`)
	other := writeFile(t, dir, "other.json", `{}`)

	fw, err := newFileWatcher([]string{data})
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	writeFile(t, dir, filepath.Base(other), `{"ignored": true}`)
	writeFile(t, dir, filepath.Base(data), `{"name": "Ana"}`)

	select {
	case name := <-fw.changed:
		if filepath.Base(name) != "data.json" {
			t.Errorf("changed = %q, want data.json", name)
		}
	case err := <-fw.errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestSlogLevel(t *testing.T) {
	if slogLevel("off") <= slogLevel("error") {
		t.Error("off should be above error")
	}
	if slogLevel("debug") >= slogLevel("info") {
		t.Error("debug should be below info")
	}
}
