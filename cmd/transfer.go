package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/resumekit/internal/codec"
	"github.com/KaramelBytes/resumekit/internal/logger"
	"github.com/KaramelBytes/resumekit/internal/store"
	"github.com/KaramelBytes/resumekit/internal/utils"
)

var (
	importName   string
	exportFormat string
	exportOutDir string
	exportStdout bool
)

var resumeImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a resume from .md, .txt, .csv, .pdf or .docx (max 10MB)",
	Long: `Import a resume file. Markdown and plain-text files are split into sections at
"## " headings, with the first "# " heading as the name. PDF and DOCX files are
kept as-is for export and get a single placeholder section.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		imp, err := codec.ImportFile(args[0])
		if err != nil {
			return err
		}
		doc := imp.Resume
		if n := strings.TrimSpace(importName); n != "" {
			doc.Name = n
		}

		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		if _, err := st.SaveDocument(ctx, doc); err != nil {
			return err
		}
		if len(imp.Raw) > 0 {
			if err := st.SaveRaw(ctx, doc.ID, store.Raw{Format: imp.Format, Data: imp.Raw}); err != nil {
				return fmt.Errorf("store original: %w", err)
			}
		}
		logger.L().Info("resume imported", zap.String("id", doc.ID), zap.String("format", imp.Format), zap.Int("sections", len(doc.Sections)))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported '%s' as %s (%d sections)\n", doc.Name, doc.ID, len(doc.Sections))
		return nil
	},
}

var resumeExportCmd = &cobra.Command{
	Use:   "export <resume-id>",
	Short: "Export a resume as Markdown/text, or its original PDF/DOCX",
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
		raw, hasRaw := st.LoadRaw(ctx, doc.ID)

		format := strings.ToLower(strings.TrimSpace(exportFormat))
		if format != "" && !strings.HasPrefix(format, ".") {
			format = "." + format
		}
		switch {
		case format == "" && hasRaw:
			format = raw.Format
		case format == "":
			format = ".md"
		case !codec.IsTextFormat(format) && (!hasRaw || raw.Format != format):
			return fmt.Errorf("%w: %s is only available for resumes imported from a %s file", codec.ErrUnsupportedFormat, format, format)
		}

		data := codec.Export(doc, raw.Data, raw.Format, format)
		if exportStdout {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		outDir := exportOutDir
		if outDir == "" {
			outDir = "."
		}
		if err := utils.EnsureDir(outDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path := filepath.Join(outDir, codec.ExportFileName(doc.Name, format))
		if err := utils.SafeWriteFile(path, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported to %s\n", path)
		return nil
	},
}

func init() {
	resumeCmd.AddCommand(resumeImportCmd, resumeExportCmd)
	resumeImportCmd.Flags().StringVarP(&importName, "name", "n", "", "override the resume name")
	resumeExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "md, txt, or the original pdf/docx (default: original format, else md)")
	resumeExportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "", "output directory (default: current directory)")
	resumeExportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "write to stdout instead of a file")
}
