// Package codec converts resumes to and from heading-delimited markdown text
// and handles resume file import/export.
//
// The text format carries no ids: Decode(Encode(r)) keeps the name and every
// section's title and content, but always mints fresh ids.
package codec

import (
	"strings"

	"github.com/KaramelBytes/resumekit/internal/resume"
)

const (
	// DefaultImportName names decoded resumes that have no level-1 heading.
	DefaultImportName = "Imported Resume"
	// FallbackSectionTitle holds the whole input when it has no level-2 headings.
	FallbackSectionTitle = "Content"

	nameHeading    = "# "
	sectionHeading = "## "
)

// Encode renders a resume as markdown. The output depends only on the name and
// sections, so equal resumes always encode to identical bytes.
func Encode(r resume.Resume) string {
	var sb strings.Builder
	sb.WriteString(nameHeading)
	sb.WriteString(r.Name)
	sb.WriteString("\n\n")
	for _, s := range r.Sections {
		sb.WriteString(sectionHeading)
		sb.WriteString(s.Title)
		sb.WriteString("\n\n")
		sb.WriteString(s.Content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Decode parses markdown into a resume named DefaultImportName unless the text
// carries a level-1 heading.
func Decode(text string) resume.Resume {
	return DecodeNamed(text, DefaultImportName)
}

// DecodeNamed is Decode with a caller-chosen name for text without a usable
// level-1 heading (typically the source file's base name).
//
// Text between the name line and the first "## " heading is dropped.
func DecodeNamed(text, fallbackName string) resume.Resume {
	text = normalizeNewlines(text)

	var (
		name     string
		nameSeen bool
		open     bool
		title    string
		body     strings.Builder
		sections []resume.Section
	)
	flush := func() {
		sections = append(sections, resume.NewSection(title, strings.TrimSpace(body.String())))
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, sectionHeading):
			if open {
				flush()
			}
			title = strings.TrimSpace(line[len(sectionHeading):])
			open = true
		case !open && !nameSeen && strings.HasPrefix(line, nameHeading):
			name = strings.TrimSpace(line[len(nameHeading):])
			nameSeen = true
		case open:
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	if open {
		flush()
	}

	if len(sections) == 0 {
		sections = append(sections, resume.NewSection(FallbackSectionTitle, strings.TrimSpace(text)))
	}
	if name == "" {
		name = fallbackName
	}
	return resume.Resume{
		ID:          resume.NewID(),
		Name:        name,
		Sections:    sections,
		LastUpdated: resume.Now(),
	}
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
