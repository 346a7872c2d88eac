package docxfill

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
)

const (
	documentPart = "word/document.xml"

	relTypeHeader = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
)

var headerFooterPattern = regexp.MustCompile(`^word/(header|footer)\d+\.xml$`)

// DocxReader handles reading DOCX files
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Relationship []Relationship `xml:"Relationship"`
}

// NewDocxReader creates a new DOCX reader
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[documentPart]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", documentPart)
	}

	return dr, nil
}

// DocxReaderFromFile creates a DocxReader from a file path
func DocxReaderFromFile(path string) (*DocxReader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return NewDocxReader(bytes.NewReader(content), int64(len(content)))
}

// Files returns the archive entries in their stored order.
func (dr *DocxReader) Files() []*zip.File {
	return dr.reader.File
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}
	return content, nil
}

// ListParts returns the part names in sorted order.
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}

// GetRelationships retrieves relationships for a given part. A part without a
// relationships file has none.
func (dr *DocxReader) GetRelationships(partName string) ([]Relationship, error) {
	dir, base := path.Split(partName)
	relPath := dir + "_rels/" + base + ".rels"

	if _, ok := dr.Parts[relPath]; !ok {
		return nil, nil
	}
	content, err := dr.GetPart(relPath)
	if err != nil {
		return nil, err
	}

	var rels Relationships
	if err := xml.Unmarshal(content, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return rels.Relationship, nil
}

// TemplateParts returns the parts that hold template markup: the main
// document first, then headers and footers when requested. Headers and
// footers are found through the document's relationships and, for packages
// without them, by name.
func (dr *DocxReader) TemplateParts(headersFooters bool) ([]string, error) {
	parts := []string{documentPart}
	if !headersFooters {
		return parts, nil
	}

	rels, err := dr.GetRelationships(documentPart)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{documentPart: true}
	var extra []string
	add := func(name string) {
		if _, ok := dr.Parts[name]; ok && !seen[name] {
			seen[name] = true
			extra = append(extra, name)
		}
	}
	for _, rel := range rels {
		if rel.TargetMode == "External" || (rel.Type != relTypeHeader && rel.Type != relTypeFooter) {
			continue
		}
		add(resolveTarget(documentPart, rel.Target))
	}
	for name := range dr.Parts {
		if headerFooterPattern.MatchString(name) {
			add(name)
		}
	}
	sort.Strings(extra)
	return append(parts, extra...), nil
}

// resolveTarget turns a relationship target into a part name.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// writeDocx writes the package in dr to w, replacing the parts named in
// rendered. Every other entry is copied without recompression.
func writeDocx(w io.Writer, dr *DocxReader, render func(part string, w io.Writer) error, rendered map[string]bool) error {
	zw := zip.NewWriter(w)
	for _, file := range dr.Files() {
		if !rendered[file.Name] {
			if err := zw.Copy(file); err != nil {
				return NewDocumentError("copy", file.Name, err)
			}
			continue
		}

		pw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     file.Name,
			Method:   file.Method,
			Modified: file.Modified,
		})
		if err != nil {
			return NewDocumentError("write", file.Name, err)
		}
		if err := render(file.Name, pw); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return NewDocumentError("write", "", err)
	}
	return nil
}
