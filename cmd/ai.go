package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/resumekit/internal/ai"
	"github.com/KaramelBytes/resumekit/internal/codec"
	"github.com/KaramelBytes/resumekit/internal/logger"
)

var (
	aiSetKey      string
	aiSetEndpoint string
	aiSetMode     string
	aiAnalyzeFile string
	aiAnalyzeJSON bool
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Configure AI providers and analyze resumes",
}

var aiShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show provider settings (keys masked)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		cfgs := st.LoadConfig(ctx)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "active: %s\n", cfgs.ActiveProvider)
		for _, p := range ai.Providers {
			c, _ := cfgs.Get(p)
			fmt.Fprintf(out, "\n%s (%s)\n", p, p.DisplayName())
			fmt.Fprintf(out, "  api_key: %s\n", maskOrUnset(c.APIKey))
			fmt.Fprintf(out, "  endpoint: %s\n", c.APIEndpoint)
			fmt.Fprintf(out, "  mode: %s\n", c.Mode)
		}
		return nil
	},
}

var aiSetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Update a provider's API key, endpoint or mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := ai.ParseProvider(args[0])
		if err != nil {
			return err
		}
		var patch ai.ProviderPatch
		f := cmd.Flags()
		if f.Changed("key") {
			k := strings.TrimSpace(aiSetKey)
			patch.APIKey = &k
		}
		if f.Changed("endpoint") {
			e := strings.TrimSpace(aiSetEndpoint)
			patch.APIEndpoint = &e
		}
		if f.Changed("mode") {
			m, err := ai.ParseMode(aiSetMode)
			if err != nil {
				return err
			}
			patch.Mode = &m
		}
		if patch.APIKey == nil && patch.APIEndpoint == nil && patch.Mode == nil {
			return fmt.Errorf("nothing to update: pass --key, --endpoint or --mode")
		}

		ctx := cmd.Context()
		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		if _, err := st.UpdateProviderConfig(ctx, p, patch); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s settings\n", p.DisplayName())
		return nil
	},
}

var aiUseCmd = &cobra.Command{
	Use:   "use <provider>",
	Short: "Select the provider used for analysis (mistral or gemini)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := ai.ParseProvider(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		cfgs, err := st.SetActiveProvider(ctx, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Active provider: %s\n", p.DisplayName())
		if c, _ := cfgs.Get(p); c.APIKey == "" && envAPIKey(p) == "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: no API key set; run 'resumekit ai set %s --key ...'\n", p)
		}
		return nil
	},
}

var aiAnalyzeCmd = &cobra.Command{
	Use:   "analyze [resume-id]",
	Short: "Send a saved resume (or --file) to the active provider for feedback",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 1) == (aiAnalyzeFile != "") {
			return fmt.Errorf("specify exactly one of a resume id or --file")
		}
		ctx := cmd.Context()
		st, closeStore, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		var content string
		if aiAnalyzeFile != "" {
			info, err := os.Stat(aiAnalyzeFile)
			if err != nil {
				return fmt.Errorf("read resume: %w", err)
			}
			if err := codec.ValidateFile(aiAnalyzeFile, info.Size()); err != nil {
				return err
			}
			b, err := os.ReadFile(aiAnalyzeFile)
			if err != nil {
				return fmt.Errorf("read resume: %w", err)
			}
			if content, err = codec.ExtractText(aiAnalyzeFile, b); err != nil {
				return err
			}
		} else {
			doc, err := findResume(ctx, st, args[0])
			if err != nil {
				return err
			}
			content = codec.Encode(doc)
			// binary imports only hold a placeholder section; prefer the original's text
			if raw, ok := st.LoadRaw(ctx, doc.ID); ok {
				if text, err := codec.ExtractText(raw.Format, raw.Data); err == nil {
					content = text
				} else {
					logger.L().Debug("original not extractable, analyzing placeholder", zap.String("format", raw.Format), zap.Error(err))
				}
			}
		}

		cfgs := withEnvKeys(st.LoadConfig(ctx))
		res, err := runAnalysis(ctx, cfgs, content)
		if err != nil {
			var missing *ai.MissingKeyError
			if errors.As(err, &missing) {
				return fmt.Errorf("%w (run 'resumekit ai set %s --key ...')", err, missing.Provider)
			}
			return fmt.Errorf("analysis failed: %w", err)
		}
		if aiAnalyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printAnalysis(cmd.OutOrStdout(), cfgs.ActiveProvider, res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aiCmd)
	aiCmd.AddCommand(aiShowCmd, aiSetCmd, aiUseCmd, aiAnalyzeCmd)
	aiSetCmd.Flags().StringVar(&aiSetKey, "key", "", "API key")
	aiSetCmd.Flags().StringVar(&aiSetEndpoint, "endpoint", "", "API endpoint URL")
	aiSetCmd.Flags().StringVar(&aiSetMode, "mode", "", "standard or advanced")
	aiAnalyzeCmd.Flags().StringVarP(&aiAnalyzeFile, "file", "f", "", "analyze a text file instead of a saved resume")
	aiAnalyzeCmd.Flags().BoolVar(&aiAnalyzeJSON, "json", false, "print the raw analysis as JSON")
}

func runAnalysis(ctx context.Context, cfgs ai.Configurations, content string) (*ai.AnalysisResult, error) {
	timeout := cfg.HTTPTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	logger.L().Debug("analyzing resume",
		zap.String("provider", string(cfgs.ActiveProvider)),
		zap.String("mode", string(cfgs.Active().Mode)),
		zap.Int("chars", len(content)))
	return ai.NewAnalyzer(timeout).Analyze(ctx, cfgs, content)
}

// envAPIKey returns the key from config/env for p, if any.
func envAPIKey(p ai.Provider) string {
	if cfg == nil {
		return ""
	}
	switch p {
	case ai.ProviderMistral:
		return cfg.MistralAPIKey
	case ai.ProviderGemini:
		return cfg.GeminiAPIKey
	}
	return ""
}

// withEnvKeys fills empty stored keys from config/env.
func withEnvKeys(cfgs ai.Configurations) ai.Configurations {
	for _, p := range ai.Providers {
		c, _ := cfgs.Get(p)
		if c.APIKey == "" {
			if k := envAPIKey(p); k != "" {
				c.APIKey = k
				cfgs = cfgs.With(p, c)
			}
		}
	}
	return cfgs
}

func printAnalysis(out io.Writer, p ai.Provider, res *ai.AnalysisResult) {
	fmt.Fprintf(out, "✓ Analysis by %s\n", p.DisplayName())
	fmt.Fprintf(out, "Score: %.0f/100 (%s)\n", res.Score, ai.Grade(res.Score))
	printList(out, "Strengths", res.Strengths)
	printList(out, "Areas for Improvement", res.Weaknesses)
	printList(out, "Suggestions", res.Suggestions)
	printList(out, "Recommendations", res.Recommendations)
	if res.DetailedFeedback != "" {
		fmt.Fprintf(out, "\nDetailed Feedback\n%s\n", res.DetailedFeedback)
	}
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", title)
	for _, it := range items {
		fmt.Fprintf(out, "  - %s\n", it)
	}
}
