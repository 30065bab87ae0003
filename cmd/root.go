package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/resumekit/internal/config"
	"github.com/KaramelBytes/resumekit/internal/logger"
	"github.com/KaramelBytes/resumekit/internal/store"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Overrides for config values when set
	flagHTTPTimeoutSec int
	flagStoreBackend   string
	flagDataDir        string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "resumekit",
	Short: "resumekit: build resumes, track applications, get AI feedback",
	Long: `resumekit keeps resumes as ordered, titled sections, imports and exports them
as Markdown, tracks job applications through Applied, Interviewing, Offer and
Rejected, and sends a resume to Mistral AI or Google Gemini for structured feedback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.resumekit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagStoreBackend, "store", "", "storage backend: file, memory or redis (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for the file backend (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need storage will report it
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("store") && flagStoreBackend != "" {
		cfg.StoreBackend = flagStoreBackend
	}
	if f.Changed("data-dir") && flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	if err := logger.Init(level); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	logger.L().Debug("config loaded", zap.String("backend", cfg.StoreBackend), zap.String("data_dir", cfg.DataDir))
}

func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// openStore builds the Store for the configured backend. The returned func
// releases backend resources.
func openStore(ctx context.Context) (*store.Store, func(), error) {
	c, err := requireConfig()
	if err != nil {
		return nil, nil, err
	}
	kv, err := store.OpenKV(ctx, store.Options{
		Backend:     c.StoreBackend,
		Dir:         c.DataDir,
		RedisAddr:   c.RedisAddr,
		RedisPrefix: c.RedisPrefix,
		RedisDB:     c.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	closer := func() {}
	if rc, ok := kv.(io.Closer); ok {
		closer = func() { _ = rc.Close() }
	}
	return store.New(kv), closer, nil
}
