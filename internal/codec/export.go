package codec

import (
	"regexp"
	"strings"

	"github.com/KaramelBytes/resumekit/internal/resume"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExportFileName derives a download name from the resume name: whitespace runs
// become underscores and ext is appended.
func ExportFileName(name, ext string) string {
	base := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	if base == "" {
		base = "resume"
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + strings.ToLower(ext)
}

// Export picks the bytes to write for a resume. Binary originals are returned
// untouched when the requested format matches them; everything else is encoded.
func Export(r resume.Resume, raw []byte, rawFormat, format string) []byte {
	if format == "" {
		format = rawFormat
	}
	if len(raw) > 0 && !IsTextFormat(format) && strings.EqualFold(format, rawFormat) {
		return raw
	}
	return []byte(Encode(r))
}
