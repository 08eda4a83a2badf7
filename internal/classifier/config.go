package classifier

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider selects the classifier backend.
type Provider string

const (
	// ProviderInference calls a hosted text-classification model over HTTP.
	ProviderInference Provider = "inference"
	// ProviderGemini asks a Gemini model for a JSON verdict.
	ProviderGemini Provider = "gemini"
	// ProviderLexicon flags text containing any configured term. Intended for
	// local development without model access.
	ProviderLexicon Provider = "lexicon"
)

// DefaultEndpoint is the hosted inference endpoint for the Slovak hate speech model.
const DefaultEndpoint = "https://api-inference.huggingface.co/models/tetianamohorian/hate_speech_model"

// Config holds classifier provider settings.
type Config struct {
	Provider    Provider `toml:"provider"`
	Endpoint    string   `toml:"endpoint"`
	Token       string   `toml:"token"`
	ToxicLabels []string `toml:"toxic_labels"`
	Model       string   `toml:"model"`
	APIKey      string   `toml:"api_key"`
	Terms       []string `toml:"terms"`
	Timeout     string   `toml:"timeout"`
	MaxRetries  int      `toml:"max_retries"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider   string
	Endpoint   string
	Token      string
	Model      string
	APIKey     string
	Timeout    string
	MaxRetries string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.ToxicLabels != nil {
		c.ToxicLabels = overlay.ToxicLabels
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Terms != nil {
		c.Terms = overlay.Terms
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderInference
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if len(c.ToxicLabels) == 0 {
		c.ToxicLabels = []string{"LABEL_1", "toxic"}
	}
	if c.Model == "" {
		c.Model = "gemini-1.5-flash"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = Provider(strings.ToLower(v))
		}
	}
	set(env.Endpoint, &c.Endpoint)
	set(env.Token, &c.Token)
	set(env.Model, &c.Model)
	set(env.APIKey, &c.APIKey)
	set(env.Timeout, &c.Timeout)

	if env.MaxRetries != "" {
		if v := os.Getenv(env.MaxRetries); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxRetries = n
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative: %d", c.MaxRetries)
	}

	switch c.Provider {
	case ProviderInference:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required for %s provider", c.Provider)
		}
	case ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for %s provider", c.Provider)
		}
	case ProviderLexicon:
		if len(c.Terms) == 0 {
			return fmt.Errorf("terms required for %s provider", c.Provider)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	return nil
}
