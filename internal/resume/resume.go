// Package resume defines the resume document model: an ordered list of titled
// sections plus identity and a last-updated timestamp.
//
// Every mutator returns a new Resume and leaves its argument untouched.
package resume

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultName       = "Untitled Resume"
	NewSectionTitle   = "New Section"
	defaultTimeLayout = time.RFC3339
)

// DefaultSectionTitles are the sections every new resume starts with.
var DefaultSectionTitles = []string{
	"Professional Summary",
	"Work Experience",
	"Education",
	"Skills",
}

// Now and NewID are swappable in tests.
var (
	Now   = func() time.Time { return time.Now().UTC() }
	NewID = uuid.NewString
)

var validate = validator.New()

// Section is a titled block of free text inside a Resume.
type Section struct {
	ID      string `json:"id" validate:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Resume is a named, ordered collection of sections.
type Resume struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name"`
	Sections    []Section `json:"sections" validate:"dive"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// New returns an untitled resume with the default sections.
func New() Resume {
	sections := make([]Section, 0, len(DefaultSectionTitles))
	for _, title := range DefaultSectionTitles {
		sections = append(sections, Section{ID: NewID(), Title: title})
	}
	return Resume{
		ID:          NewID(),
		Name:        DefaultName,
		Sections:    sections,
		LastUpdated: Now(),
	}
}

// NewSection returns a section with a fresh id.
func NewSection(title, content string) Section {
	return Section{ID: NewID(), Title: title, Content: content}
}

// Validate checks the stored shape of a resume.
func (r Resume) Validate() error {
	return validate.Struct(r)
}

// Section returns the section with the given id.
func (r Resume) Section(id string) (Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Clone returns a copy that shares no section storage with r.
func (r Resume) Clone() Resume {
	out := r
	out.Sections = make([]Section, len(r.Sections))
	copy(out.Sections, r.Sections)
	return out
}

func (r Resume) touched() Resume {
	out := r.Clone()
	out.LastUpdated = Now()
	return out
}

// AddSection appends an empty "New Section".
func AddSection(r Resume) Resume {
	out := r.touched()
	out.Sections = append(out.Sections, NewSection(NewSectionTitle, ""))
	return out
}

// RemoveSection drops the section with the given id. Unknown ids are ignored,
// but the timestamp is refreshed either way.
func RemoveSection(r Resume, sectionID string) Resume {
	out := r.touched()
	kept := make([]Section, 0, len(out.Sections))
	for _, s := range out.Sections {
		if s.ID != sectionID {
			kept = append(kept, s)
		}
	}
	out.Sections = kept
	return out
}

// Rename sets the resume name.
func Rename(r Resume, name string) Resume {
	out := r.touched()
	out.Name = name
	return out
}

// SetSectionTitle retitles one section.
func SetSectionTitle(r Resume, sectionID, title string) Resume {
	return updateSection(r, sectionID, func(s *Section) { s.Title = title })
}

// SetSectionContent replaces one section's body.
func SetSectionContent(r Resume, sectionID, content string) Resume {
	return updateSection(r, sectionID, func(s *Section) { s.Content = content })
}

func updateSection(r Resume, sectionID string, fn func(*Section)) Resume {
	out := r.touched()
	for i := range out.Sections {
		if out.Sections[i].ID == sectionID {
			fn(&out.Sections[i])
		}
	}
	return out
}

// Stamp formats LastUpdated for listings.
func (r Resume) Stamp() string {
	if r.LastUpdated.IsZero() {
		return "never"
	}
	return r.LastUpdated.Format(defaultTimeLayout)
}
