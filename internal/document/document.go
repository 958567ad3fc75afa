// Package document converts files on disk into CV payloads: PDFs become
// base64 document parts, and PDF, DOCX or plain text files can be flattened
// into text for the pasted-text slot.
package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/amishk599/cvnexus/internal/model"
)

const docxMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	dataURLRegex = regexp.MustCompile(`^data:[^;,]*(;[^;,]*)*;base64,`)
	xmlTagRegex  = regexp.MustCompile(`<[^>]*>`)
)

// Load reads a PDF from path and returns it as a document payload. Files whose
// content is not a PDF are rejected with model.ErrUnsupportedDocument,
// whatever their extension.
func Load(path string) (model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes builds a document payload from raw file bytes.
func FromBytes(name string, data []byte) (model.Document, error) {
	mt := mimetype.Detect(data)
	if !mt.Is(model.PDFMIMEType) {
		return model.Document{}, fmt.Errorf("%s (%s): %w", name, mt.String(), model.ErrUnsupportedDocument)
	}
	return model.Document{
		Data:     base64.StdEncoding.EncodeToString(data),
		MIMEType: model.PDFMIMEType,
		Name:     name,
	}, nil
}

// StripDataURL removes a leading "data:<mime>;base64," prefix, leaving the
// bare base64 payload. Strings without the prefix are returned unchanged.
func StripDataURL(s string) string {
	if loc := dataURLRegex.FindStringIndex(s); loc != nil {
		return s[loc[1]:]
	}
	return s
}

// IsDataURL reports whether s looks like a base64 data URL rather than a path.
func IsDataURL(s string) bool {
	return dataURLRegex.MatchString(s)
}

// FromDataURL builds a document payload from a pasted "data:...;base64," URL.
// The decoded bytes go through the same PDF check as files on disk.
func FromDataURL(name, s string) (model.Document, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(StripDataURL(s)))
	if err != nil {
		return model.Document{}, fmt.Errorf("decode data url: %w", err)
	}
	return FromBytes(name, data)
}

// ExtractText flattens a PDF, DOCX or plain text file into text.
func ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is(model.PDFMIMEType):
		return extractPDFText(data)
	case mt.Is(docxMIMEType),
		zipBased(mt) && strings.EqualFold(filepath.Ext(path), ".docx"):
		return extractDocxText(data)
	case mt.Is("text/plain"):
		return string(data), nil
	default:
		return "", fmt.Errorf("%s: unsupported file type %s", filepath.Base(path), mt.String())
	}
}

// zipBased reports whether mt is a zip archive or any format built on one.
func zipBased(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return stripXML(doc.Editable().GetContent()), nil
}

// stripXML turns WordprocessingML into plain text, one paragraph per line.
func stripXML(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	plain := html.UnescapeString(xmlTagRegex.ReplaceAllString(content, ""))

	lines := strings.Split(plain, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
