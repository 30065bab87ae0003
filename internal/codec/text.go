package codec

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// ExtractText returns plain text suitable for analysis. Text formats pass
// through; DOCX bodies are flattened to one line per paragraph. PDF is not
// supported.
func ExtractText(filename string, content []byte) (string, error) {
	ext := Ext(filename)
	switch {
	case IsTextFormat(ext):
		return normalizeNewlines(string(content)), nil
	case ext == ".docx":
		return docxText(content)
	}
	return "", fmt.Errorf("%w: cannot extract text from %s", ErrUnsupportedFormat, ext)
}

func docxText(content []byte) (string, error) {
	// DOCX is a zip archive; the body lives in word/document.xml
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		docXML, err = io.ReadAll(io.LimitReader(rc, MaxFileSize))
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		break
	}
	if len(docXML) == 0 {
		return "", fmt.Errorf("document.xml not found in DOCX")
	}
	text := docxParagraphEnd.ReplaceAllString(string(docXML), "\n")
	text = html.UnescapeString(xmlTag.ReplaceAllString(text, ""))
	text = strings.TrimSpace(normalizeNewlines(text))
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return text, nil
}
