package codec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/resumekit/internal/resume"
	"github.com/KaramelBytes/resumekit/internal/utils"
)

// MaxFileSize caps imported files at 10 MB.
const MaxFileSize = 10 << 20

// BinarySectionTitle heads the placeholder section of binary imports.
const BinarySectionTitle = "Imported Content"

var (
	ErrUnsupportedFormat = errors.New("unsupported resume format")
	ErrFileTooLarge      = errors.New("file size exceeds 10MB limit")
)

// AcceptedFormats lists the extensions Import understands.
var AcceptedFormats = []string{".md", ".pdf", ".docx", ".csv", ".txt"}

// Imported is the outcome of importing a file. Raw is set only for binary
// formats, whose bytes are kept verbatim for export.
type Imported struct {
	Resume resume.Resume
	Format string
	Raw    []byte
}

// Importer turns file content into a resume.
type Importer interface {
	CanImport(filename string) bool
	Import(filename string, content []byte) (Imported, error)
}

var registry []Importer

// Register adds an importer; later registrations win ties.
func Register(i Importer) {
	registry = append([]Importer{i}, registry...)
}

func init() {
	Register(binaryImporter{exts: []string{".pdf", ".docx"}})
	Register(textImporter{exts: []string{".md", ".txt", ".csv"}})
}

// Ext returns the lower-cased extension of filename including the dot.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsTextFormat reports whether ext is exported by encoding the resume.
func IsTextFormat(ext string) bool {
	switch strings.ToLower(ext) {
	case ".md", ".txt", ".csv":
		return true
	}
	return false
}

// ValidateFile checks the extension against AcceptedFormats and the size limit.
func ValidateFile(filename string, size int64) error {
	ext := Ext(filename)
	ok := false
	for _, f := range AcceptedFormats {
		if f == ext {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedFormat, ext, strings.Join(AcceptedFormats, ", "))
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// Import validates and converts in-memory file content.
func Import(filename string, content []byte) (Imported, error) {
	if err := ValidateFile(filename, int64(len(content))); err != nil {
		return Imported{}, err
	}
	for _, i := range registry {
		if i.CanImport(filename) {
			return i.Import(filename, content)
		}
	}
	return Imported{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, Ext(filename))
}

// ImportFile reads and imports a file from disk.
func ImportFile(path string) (Imported, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Imported{}, fmt.Errorf("stat file: %w", err)
	}
	if err := ValidateFile(path, info.Size()); err != nil {
		return Imported{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Imported{}, fmt.Errorf("read file: %w", err)
	}
	return Import(filepath.Base(path), data)
}

type textImporter struct{ exts []string }

func (t textImporter) CanImport(filename string) bool { return hasExt(filename, t.exts) }

func (textImporter) Import(filename string, content []byte) (Imported, error) {
	return Imported{
		Resume: DecodeNamed(string(content), utils.BaseName(filename)),
		Format: Ext(filename),
	}, nil
}

type binaryImporter struct{ exts []string }

func (b binaryImporter) CanImport(filename string) bool { return hasExt(filename, b.exts) }

func (binaryImporter) Import(filename string, content []byte) (Imported, error) {
	base := filepath.Base(filename)
	r := resume.Resume{
		ID:          resume.NewID(),
		Name:        utils.BaseName(filename),
		Sections:    []resume.Section{resume.NewSection(BinarySectionTitle, "Imported from "+base)},
		LastUpdated: resume.Now(),
	}
	raw := make([]byte, len(content))
	copy(raw, content)
	return Imported{Resume: r, Format: Ext(filename), Raw: raw}, nil
}

func hasExt(filename string, exts []string) bool {
	ext := Ext(filename)
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
