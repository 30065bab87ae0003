package ai

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Provider names an AI analysis backend.
type Provider string

const (
	ProviderMistral Provider = "mistral"
	ProviderGemini  Provider = "gemini"
)

// Providers lists every supported backend in display order.
var Providers = []Provider{ProviderMistral, ProviderGemini}

// Mode selects the model tier used for a provider.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeAdvanced Mode = "advanced"
)

const (
	DefaultMistralEndpoint = "https://api.mistral.ai/v1/chat/completions"
	DefaultGeminiEndpoint  = "https://generativelanguage.googleapis.com/v1beta"
)

var validate = validator.New()

// Config is one provider's settings. APIKey may be empty until the user sets it.
type Config struct {
	Provider    Provider `json:"provider" validate:"oneof=mistral gemini"`
	APIKey      string   `json:"apiKey"`
	APIEndpoint string   `json:"apiEndpoint" validate:"required,url"`
	Mode        Mode     `json:"mode" validate:"oneof=standard advanced"`
}

// Configurations holds one Config per provider plus the active selection.
type Configurations struct {
	Mistral        Config   `json:"mistral"`
	Gemini         Config   `json:"gemini"`
	ActiveProvider Provider `json:"activeProvider" validate:"oneof=mistral gemini"`
}

// DefaultConfigurations selects Mistral with empty keys and public endpoints.
func DefaultConfigurations() Configurations {
	return Configurations{
		Mistral: Config{
			Provider:    ProviderMistral,
			APIEndpoint: DefaultMistralEndpoint,
			Mode:        ModeStandard,
		},
		Gemini: Config{
			Provider:    ProviderGemini,
			APIEndpoint: DefaultGeminiEndpoint,
			Mode:        ModeStandard,
		},
		ActiveProvider: ProviderMistral,
	}
}

// Get returns the sub-record for p.
func (c Configurations) Get(p Provider) (Config, bool) {
	switch p {
	case ProviderMistral:
		return c.Mistral, true
	case ProviderGemini:
		return c.Gemini, true
	}
	return Config{}, false
}

// With returns a copy with p's sub-record replaced.
func (c Configurations) With(p Provider, cfg Config) Configurations {
	switch p {
	case ProviderMistral:
		c.Mistral = cfg
	case ProviderGemini:
		c.Gemini = cfg
	}
	return c
}

// Active returns the configuration of the active provider.
func (c Configurations) Active() Config {
	cfg, _ := c.Get(c.ActiveProvider)
	return cfg
}

// Validate checks field values and that each sub-record is filed under its own provider.
func (c Configurations) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Mistral.Provider != ProviderMistral {
		return fmt.Errorf("mistral entry has provider %q", c.Mistral.Provider)
	}
	if c.Gemini.Provider != ProviderGemini {
		return fmt.Errorf("gemini entry has provider %q", c.Gemini.Provider)
	}
	return nil
}

// ProviderPatch carries the fields to overwrite; nil fields are left alone.
type ProviderPatch struct {
	APIKey      *string
	APIEndpoint *string
	Mode        *Mode
}

// Apply shallow-merges the patch into cfg.
func (p ProviderPatch) Apply(cfg Config) Config {
	if p.APIKey != nil {
		cfg.APIKey = *p.APIKey
	}
	if p.APIEndpoint != nil {
		cfg.APIEndpoint = *p.APIEndpoint
	}
	if p.Mode != nil {
		cfg.Mode = *p.Mode
	}
	return cfg
}

// ParseProvider accepts provider names case-insensitively.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderMistral:
		return ProviderMistral, nil
	case ProviderGemini:
		return ProviderGemini, nil
	}
	return "", fmt.Errorf("unknown provider %q (use mistral or gemini)", s)
}

// ParseMode accepts mode names case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStandard:
		return ModeStandard, nil
	case ModeAdvanced:
		return ModeAdvanced, nil
	}
	return "", fmt.Errorf("unknown mode %q (use standard or advanced)", s)
}

// DisplayName is the human label for a provider.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderMistral:
		return "Mistral AI"
	case ProviderGemini:
		return "Google Gemini"
	}
	return string(p)
}
