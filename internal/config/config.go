package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/resumekit/internal/utils"
)

// DirName is the per-user directory holding config.yaml and the default data dir.
const DirName = ".resumekit"

// Global configuration structure.
type Global struct {
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	StoreBackend string `mapstructure:"store_backend" yaml:"store_backend"`
	RedisAddr    string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPrefix  string `mapstructure:"redis_prefix" yaml:"redis_prefix"`
	RedisDB      int    `mapstructure:"redis_db" yaml:"redis_db"`

	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`

	// Fallback API keys, used when the stored provider settings have none.
	MistralAPIKey string `mapstructure:"mistral_api_key" yaml:"mistral_api_key,omitempty"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key" yaml:"gemini_api_key,omitempty"`
}

// HTTPTimeout returns the AI request timeout.
func (c *Global) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// Keys lists the settings accepted by `config set`.
var Keys = []string{
	"data_dir", "store_backend", "redis_addr", "redis_prefix", "redis_db",
	"http_timeout_sec", "log_level", "mistral_api_key", "gemini_api_key",
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Path returns cfgFile, or ~/.resumekit/config.yaml when it is empty.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.resumekit/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is loaded into the environment first when present.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("RESUMEKIT")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "")
	v.SetDefault("store_backend", "file")
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_prefix", "resumekit:")
	v.SetDefault("redis_db", 0)
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("log_level", "warn")
	v.SetDefault("mistral_api_key", "")
	v.SetDefault("gemini_api_key", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := homeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DataDir == "" {
		dir, err := homeDir()
		if err != nil {
			return nil, err
		}
		c.DataDir = filepath.Join(dir, "data")
	} else {
		expanded, err := utils.ExpandHome(c.DataDir)
		if err != nil {
			return nil, err
		}
		c.DataDir = expanded
	}
	return &c, nil
}
