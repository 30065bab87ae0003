package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/resumekit/internal/resume"
)

var (
	sectionAddTitle    string
	sectionAddContent  string
	sectionContentFile string
)

var sectionCmd = &cobra.Command{
	Use:     "section",
	Aliases: []string{"sections"},
	Short:   "Edit the sections of a resume",
}

var sectionAddCmd = &cobra.Command{
	Use:   "add <resume-id>",
	Short: "Append a section (titled \"New Section\" unless --title is given)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editResume(cmd, args[0], func(d resume.Resume) (resume.Resume, string, error) {
			next := resume.AddSection(d)
			added := next.Sections[len(next.Sections)-1]
			if cmd.Flags().Changed("title") {
				next = resume.SetSectionTitle(next, added.ID, sectionAddTitle)
			}
			if cmd.Flags().Changed("content") {
				next = resume.SetSectionContent(next, added.ID, sectionAddContent)
			}
			added, _ = next.Section(added.ID)
			return next, fmt.Sprintf("Added section '%s' (%s)", added.Title, added.ID), nil
		})
	},
}

var sectionRemoveCmd = &cobra.Command{
	Use:     "remove <resume-id> <section-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a section",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editResume(cmd, args[0], func(d resume.Resume) (resume.Resume, string, error) {
			return resume.RemoveSection(d, findSectionID(d, args[1])), fmt.Sprintf("Removed section %s", args[1]), nil
		})
	},
}

var sectionTitleCmd = &cobra.Command{
	Use:   "title <resume-id> <section-id> <title>",
	Short: "Retitle a section",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editResume(cmd, args[0], func(d resume.Resume) (resume.Resume, string, error) {
			id := findSectionID(d, args[1])
			if _, ok := d.Section(id); !ok {
				return d, "", fmt.Errorf("section not found: %s", args[1])
			}
			return resume.SetSectionTitle(d, id, args[2]), fmt.Sprintf("Section retitled to '%s'", args[2]), nil
		})
	},
}

var sectionContentCmd = &cobra.Command{
	Use:   "content <resume-id> <section-id> [text]",
	Short: "Replace a section's content from an argument or --file",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content string
		switch {
		case sectionContentFile != "" && len(args) == 3:
			return fmt.Errorf("pass the content as an argument or with --file, not both")
		case sectionContentFile != "":
			b, err := os.ReadFile(sectionContentFile)
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}
			content = string(b)
		case len(args) == 3:
			content = args[2]
		default:
			return fmt.Errorf("no content given")
		}
		return editResume(cmd, args[0], func(d resume.Resume) (resume.Resume, string, error) {
			id := findSectionID(d, args[1])
			s, ok := d.Section(id)
			if !ok {
				return d, "", fmt.Errorf("section not found: %s", args[1])
			}
			return resume.SetSectionContent(d, id, content), fmt.Sprintf("Updated '%s'", s.Title), nil
		})
	},
}

func init() {
	resumeCmd.AddCommand(sectionCmd)
	sectionCmd.AddCommand(sectionAddCmd, sectionRemoveCmd, sectionTitleCmd, sectionContentCmd)
	sectionAddCmd.Flags().StringVarP(&sectionAddTitle, "title", "t", "", "section title")
	sectionAddCmd.Flags().StringVarP(&sectionAddContent, "content", "c", "", "section content")
	sectionContentCmd.Flags().StringVarP(&sectionContentFile, "file", "f", "", "read content from file")
}

// findSectionID resolves an exact id, a unique id prefix, or a 1-based position.
// Anything else is returned unchanged so removal stays a no-op.
func findSectionID(d resume.Resume, ref string) string {
	ref = strings.TrimSpace(ref)
	if _, ok := d.Section(ref); ok || ref == "" {
		return ref
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(d.Sections) {
		return d.Sections[n-1].ID
	}
	var match string
	for _, s := range d.Sections {
		if strings.HasPrefix(s.ID, ref) {
			if match != "" {
				return ref
			}
			match = s.ID
		}
	}
	if match != "" {
		return match
	}
	return ref
}
