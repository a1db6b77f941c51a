package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
)

// Load reads, defaults and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	return data, nil
}

// Init creates a new configuration file with example content.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Example()
	data, err := Marshal(example)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryPersist, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}

// Example returns the configuration written by `refreshd init`.
func Example() *Config {
	cfg := &Config{
		Gateway: GatewayConfig{
			BaseURL: "http://127.0.0.1:18789",
			Token:   "${GATEWAY_TOKEN}",
		},
		Models: &ModelsConfig{
			CatalogFile: "models.json",
			Providers: map[string]*ProviderConfig{
				ProviderLMStudio: {
					BaseURL: "http://127.0.0.1:1234/v1",
					APIKey:  "${LMSTUDIO_API_KEY}",
					API:     "openai-completions",
					Models:  []ModelDefinition{},
				},
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}
