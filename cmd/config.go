package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/resumekit/internal/config"
	"github.com/KaramelBytes/resumekit/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set resumekit configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "store_backend: %s\n", cfg.StoreBackend)
		if cfg.StoreBackend == store.BackendRedis {
			fmt.Fprintf(out, "redis_addr: %s\n", cfg.RedisAddr)
			fmt.Fprintf(out, "redis_prefix: %s\n", cfg.RedisPrefix)
			fmt.Fprintf(out, "redis_db: %d\n", cfg.RedisDB)
		}
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		if cfg.MistralAPIKey != "" {
			fmt.Fprintf(out, "mistral_api_key: %s\n", mask(cfg.MistralAPIKey))
		}
		if cfg.GeminiAPIKey != "" {
			fmt.Fprintf(out, "gemini_api_key: %s\n", mask(cfg.GeminiAPIKey))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		switch key {
		case "data_dir":
			c.DataDir = val
		case "store_backend":
			switch strings.ToLower(val) {
			case store.BackendFile, store.BackendRedis, store.BackendMemory:
				c.StoreBackend = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid store_backend: %s (use file, redis or memory)", val)
			}
		case "redis_addr":
			c.RedisAddr = val
		case "redis_prefix":
			c.RedisPrefix = val
		case "redis_db":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for redis_db: %v", val)
			}
			c.RedisDB = i
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			c.HTTPTimeoutSec = i
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "error":
				c.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "mistral_api_key":
			c.MistralAPIKey = val
		case "gemini_api_key":
			c.GeminiAPIKey = val
		default:
			return fmt.Errorf("unknown key: %s (known: %s)", key, strings.Join(cfgpkg.Keys, ", "))
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}

func maskOrUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return mask(s)
}
