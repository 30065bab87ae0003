package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/resumekit/internal/codec"
	"github.com/KaramelBytes/resumekit/internal/resume"
	"github.com/KaramelBytes/resumekit/internal/store"
	"github.com/KaramelBytes/resumekit/internal/utils"
)

var (
	resumeNewName  string
	resumeShowText bool
)

var resumeCmd = &cobra.Command{
	Use:     "resume",
	Aliases: []string{"resumes"},
	Short:   "Create, edit, import and export resumes",
}

var resumeNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a resume with the default sections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		doc := resume.New()
		if n := strings.TrimSpace(resumeNewName); n != "" {
			doc = resume.Rename(doc, n)
		}
		if _, err := st.SaveDocument(ctx, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created resume '%s' (%s)\n", doc.Name, doc.ID)
		return nil
	},
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved resumes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		out := cmd.OutOrStdout()
		docs := st.LoadDocuments(ctx)
		if len(docs) == 0 {
			fmt.Fprintln(out, "(no resumes)")
			return nil
		}
		for _, d := range docs {
			fmt.Fprintf(out, "- %s: %s (%d sections, updated %s)\n", d.ID, d.Name, len(d.Sections), d.Stamp())
		}
		return nil
	},
}

var resumeShowCmd = &cobra.Command{
	Use:   "show <resume-id>",
	Short: "Show a resume's sections, or its Markdown with --markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		doc, err := findResume(ctx, st, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if resumeShowText {
			fmt.Fprint(out, codec.Encode(doc))
			return nil
		}
		printResume(out, doc)
		return nil
	},
}

var resumeRenameCmd = &cobra.Command{
	Use:   "rename <resume-id> <name>",
	Short: "Rename a resume",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editResume(cmd, args[0], func(d resume.Resume) (resume.Resume, string, error) {
			return resume.Rename(d, args[1]), fmt.Sprintf("Renamed resume to '%s'", args[1]), nil
		})
	},
}

var resumeDeleteCmd = &cobra.Command{
	Use:     "delete <resume-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a resume and any imported original",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		id := args[0]
		if doc, err := findResume(ctx, st, id); err == nil {
			id = doc.ID
		}
		if _, err := st.DeleteDocument(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted resume %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeNewCmd, resumeListCmd, resumeShowCmd, resumeRenameCmd, resumeDeleteCmd)
	resumeNewCmd.Flags().StringVarP(&resumeNewName, "name", "n", "", "resume name (default \"Untitled Resume\")")
	resumeShowCmd.Flags().BoolVar(&resumeShowText, "markdown", false, "print the Markdown rendering")
}

// findResume resolves an exact id or a unique id prefix.
func findResume(ctx context.Context, st *store.Store, ref string) (resume.Resume, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return resume.Resume{}, fmt.Errorf("resume id is required")
	}
	var matches []resume.Resume
	for _, d := range st.LoadDocuments(ctx) {
		if d.ID == ref {
			return d, nil
		}
		if strings.HasPrefix(d.ID, ref) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return resume.Resume{}, fmt.Errorf("resume not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	return resume.Resume{}, fmt.Errorf("resume id %q is ambiguous (%d matches)", ref, len(matches))
}

// editResume loads a resume, applies fn and saves the result.
func editResume(cmd *cobra.Command, ref string, fn func(resume.Resume) (resume.Resume, string, error)) error {
	ctx := cmd.Context()
	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	doc, err := findResume(ctx, st, ref)
	if err != nil {
		return err
	}
	next, msg, err := fn(doc)
	if err != nil {
		return err
	}
	if _, err := st.SaveDocument(ctx, next); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", msg)
	return nil
}

func printResume(out io.Writer, doc resume.Resume) {
	fmt.Fprintf(out, "%s\n", doc.Name)
	fmt.Fprintf(out, "id: %s\n", doc.ID)
	fmt.Fprintf(out, "updated: %s\n", doc.Stamp())
	text := codec.Encode(doc)
	fmt.Fprintf(out, "approx tokens: %d\n", utils.CountTokens(text))
	for i, s := range doc.Sections {
		fmt.Fprintf(out, "\n[%d] %s (%s)\n", i+1, s.Title, s.ID)
		if strings.TrimSpace(s.Content) == "" {
			fmt.Fprintln(out, "    (empty)")
			continue
		}
		for _, line := range strings.Split(s.Content, "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
}
