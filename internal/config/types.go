package config

import "time"

// ProviderLMStudio is the provider key the discovery reconciler targets by default.
const ProviderLMStudio = "lmstudio"

// Config is the refreshd configuration snapshot.
//
// A *Config handed out by a Store is treated as immutable: writers build a new
// value (see WithProviderModels) and persist it instead of mutating in place.
type Config struct {
	Daemon    DaemonConfig    `yaml:"daemon"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Models    *ModelsConfig   `yaml:"models,omitempty"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Notify    NotifyConfig    `yaml:"notify,omitempty"`
}

// DaemonConfig configures the long-running process.
type DaemonConfig struct {
	AdminAddr   string `yaml:"admin_addr,omitempty"`
	InitialView string `yaml:"initial_view,omitempty"`
}

// GatewayConfig points the node/log/debug/config pollers at the gateway API.
type GatewayConfig struct {
	BaseURL string        `yaml:"base_url,omitempty"`
	Token   string        `yaml:"token,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ModelsConfig holds the per-provider model catalog.
type ModelsConfig struct {
	// CatalogFile, when set, receives a JSON copy of the providers on every persist.
	CatalogFile string                     `yaml:"catalog_file,omitempty"`
	Providers   map[string]*ProviderConfig `yaml:"providers,omitempty"`
}

// ProviderConfig describes one model provider endpoint and its known models.
type ProviderConfig struct {
	BaseURL string            `yaml:"base_url,omitempty" json:"baseUrl,omitempty"`
	APIKey  string            `yaml:"api_key,omitempty" json:"apiKey,omitempty"`
	API     string            `yaml:"api,omitempty" json:"api,omitempty"`
	Models  []ModelDefinition `yaml:"models" json:"models"`
}

// ModelDefinition is one model offered by a provider. ID is the identity used
// when comparing configured and discovered sets; the rest are attributes.
type ModelDefinition struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name,omitempty" json:"name,omitempty"`
	Reasoning     bool     `yaml:"reasoning,omitempty" json:"reasoning,omitempty"`
	Input         []string `yaml:"input,omitempty" json:"input,omitempty"`
	ContextWindow int      `yaml:"context_window,omitempty" json:"contextWindow,omitempty"`
	MaxTokens     int      `yaml:"max_tokens,omitempty" json:"maxTokens,omitempty"`
}

// DiscoveryConfig configures the periodic model discovery task.
type DiscoveryConfig struct {
	Provider     string        `yaml:"provider,omitempty"`
	FetchTimeout time.Duration `yaml:"fetch_timeout,omitempty"`
	Retry        RetryConfig   `yaml:"retry,omitempty"`
}

// RetryConfig tunes retries inside a single provider fetch.
type RetryConfig struct {
	Backoff      RetryBackoffMode `yaml:"backoff,omitempty"`
	InitialDelay time.Duration    `yaml:"initial_delay,omitempty"`
	MaxDelay     time.Duration    `yaml:"max_delay,omitempty"`
	MaxRetries   int              `yaml:"max_retries,omitempty"`
}

// NotifyConfig configures change notifications. An empty NATSURL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}
